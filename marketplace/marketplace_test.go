package marketplace_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spindo/spindo-client-go/client"
	"github.com/spindo/spindo-client-go/marketplace"
)

// staticTokens is a TokenSource with a fixed access token and no refresh
// path; these tests exercise the marketplace encoding, not the session.
type staticTokens struct{ access string }

func (s staticTokens) AccessToken() (string, bool)       { return s.access, s.access != "" }
func (s staticTokens) Refresh(ctx context.Context) error { return nil }

func newService(t *testing.T, handler http.Handler) *marketplace.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cli, err := client.New(srv.URL, staticTokens{access: "access-token"})
	require.NoError(t, err)
	svc, err := marketplace.New(cli)
	require.NoError(t, err)
	return svc
}

func TestRegisterCustomerPostsJSON(t *testing.T) {
	var got map[string]string
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/customer/register/", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"status": true})
	}))

	err := svc.RegisterCustomer(context.Background(), marketplace.CustomerRegistration{
		Username:     "asha",
		MobileNumber: "9876543210",
		State:        "Karnataka",
		District:     "Mysuru",
		Block:        "North",
		Password:     "password123",
	})
	require.NoError(t, err)
	require.Equal(t, "asha", got["username"])
	require.Equal(t, "9876543210", got["mobile_number"])
}

func TestCustomerProfileQueriesByUniqueID(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "CUST-0001", r.URL.Query().Get("unique_id"))
		require.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data":   map[string]string{"unique_id": "CUST-0001", "username": "asha"},
		})
	}))

	profile, err := svc.CustomerProfile(context.Background(), "CUST-0001")
	require.NoError(t, err)
	require.Equal(t, "asha", profile.Username)
}

func TestRegisterVendorCarriesCategory(t *testing.T) {
	var got marketplace.VendorRegistration
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/vendor/register/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"status": true})
	}))

	err := svc.RegisterVendor(context.Background(), marketplace.VendorRegistration{
		Username:     "vishal",
		MobileNumber: "9876500000",
		Email:        "vishal@example.com",
		Password:     "password123",
		Category:     marketplace.VendorCategory{Type: "plumbing", Subtype: "repairs"},
	})
	require.NoError(t, err)
	require.Equal(t, "plumbing", got.Category.Type)
	require.Equal(t, "repairs", got.Category.Subtype)
}

func TestCreateStaffEncodesMultipart(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/staffadmin/register/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "Ravi", r.FormValue("can_name"))
		require.Equal(t, "9876511111", r.FormValue("mobile_number"))

		file, header, err := r.FormFile("can_aadharcard")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "aadhar.png", header.Filename)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": true})
	}))

	err := svc.CreateStaff(context.Background(), marketplace.StaffRegistration{
		CanName:      "Ravi",
		MobileNumber: "9876511111",
		EmailID:      "ravi@example.com",
		Address:      "MG Road",
		Password:     "password123",
		Aadhar:       &marketplace.FileUpload{Name: "aadhar.png", Data: []byte{0x89, 0x50}},
	})
	require.NoError(t, err)
}

func TestUpdateStaffTargetsUniqueID(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/staffadmin/register/STAFF-0007/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "true", r.FormValue("is_active"))
		_ = json.NewEncoder(w).Encode(map[string]any{"status": true})
	}))

	err := svc.UpdateStaff(context.Background(), marketplace.StaffRegistration{
		UniqueID: "STAFF-0007",
		CanName:  "Ravi",
		IsActive: true,
	})
	require.NoError(t, err)
}

func TestListServiceCategories(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/service-category/", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": []map[string]any{
				{"id": 1, "prod_name": "Plumbing", "prod_cate": "home", "sub_cate": "repairs", "status": "active"},
				{"id": 2, "prod_name": "Catering", "prod_cate": "events", "sub_cate": "food", "status": "inactive"},
			},
		})
	}))

	categories, err := svc.ListServiceCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Equal(t, "Plumbing", categories[0].ProdName)
	require.Equal(t, 2, categories[1].ID)
}

func TestDeleteServiceCategorySendsID(t *testing.T) {
	var got map[string]int
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"status": true})
	}))

	require.NoError(t, svc.DeleteServiceCategory(context.Background(), 7))
	require.Equal(t, 7, got["id"])
}

func TestUpdateServiceCategoryRequiresID(t *testing.T) {
	svc := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	err := svc.UpdateServiceCategory(context.Background(), marketplace.ServiceCategoryUpsert{ProdName: "X"})
	require.Error(t, err)
}
