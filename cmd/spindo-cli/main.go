package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/spindo/spindo-client-go/client"
	"github.com/spindo/spindo-client-go/internal/config"
	"github.com/spindo/spindo-client-go/marketplace"
	"github.com/spindo/spindo-client-go/roles"
	"github.com/spindo/spindo-client-go/session"
	"github.com/spindo/spindo-client-go/store"
	"github.com/spindo/spindo-client-go/store/filestore"
	"github.com/spindo/spindo-client-go/store/memstore"
	"github.com/spindo/spindo-client-go/store/redisstore"
)

const usage = `usage: spindo-cli <command> [flags]

commands:
  login       -role <customer|vendor|staffadmin|admin> -mobile <number> -password <password>
  whoami      print the current session identity
  categories  list the service-category catalogue
  logout      clear the stored session
`

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func run(command string, args []string) error {
	c := config.New()
	displayAppname(c.GetAppName())

	timeout, err := time.ParseDuration(c.GetRequestTimeout())
	if err != nil {
		return fmt.Errorf("invalid request timeout %q: %w", c.GetRequestTimeout(), err)
	}

	st, err := buildStore(c)
	if err != nil {
		return err
	}

	sess, err := session.New(c.GetBaseURL(), st, session.WithTimeout(timeout))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
	defer cancel()

	if err := sess.Initialize(ctx); err != nil {
		return fmt.Errorf("session initialize: %w", err)
	}

	cli, err := client.New(c.GetBaseURL(), sess, client.WithTimeout(timeout))
	if err != nil {
		return err
	}
	svc, err := marketplace.New(cli)
	if err != nil {
		return err
	}

	switch command {
	case "login":
		return runLogin(ctx, sess, args)
	case "whoami":
		return runWhoami(sess)
	case "categories":
		return runCategories(ctx, svc)
	case "logout":
		sess.Logout(ctx)
		fmt.Println("logged out")
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func buildStore(c config.Config) (store.Store, error) {
	switch c.GetStoreKind() {
	case config.StoreMemory:
		return memstore.New(), nil
	case config.StoreFile:
		return filestore.New(c.GetTokenFile()), nil
	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.GetRedisAddr()})
		return redisstore.New(rdb, c.GetRedisKey()), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", c.GetStoreKind())
	}
}

func runLogin(ctx context.Context, sess *session.Session, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	roleFlag := fs.String("role", string(roles.RoleCustomer), "account role")
	mobile := fs.String("mobile", "", "registered mobile number")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	role, err := roles.Parse(*roleFlag)
	if err != nil {
		return fmt.Errorf("role %q: %w", *roleFlag, err)
	}

	user, err := sess.Login(ctx, role, *mobile, *password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", user.UniqueID, user.Role)
	return nil
}

func runWhoami(sess *session.Session) error {
	user, ok := sess.CurrentUser()
	if !ok {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("role:   %s\nid:     %s\nmobile: %s\n", user.Role, user.UniqueID, user.MobileNumber)
	return nil
}

func runCategories(ctx context.Context, svc *marketplace.Service) error {
	categories, err := svc.ListServiceCategories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Println("no service categories")
		return nil
	}
	for _, cat := range categories {
		fmt.Printf("%4d  %-24s %-16s %-16s %s\n", cat.ID, cat.ProdName, cat.ProdCate, cat.SubCate, cat.Status)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
