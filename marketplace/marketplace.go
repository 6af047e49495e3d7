// Package marketplace is the typed API surface of the Spindo backend: the
// registration, profile, staff, and service-category operations the four
// dashboards are built on. Every authorized call goes through the session
// client and inherits its refresh-and-retry behavior.
package marketplace

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/spindo/spindo-client-go/api"
	"github.com/spindo/spindo-client-go/client"
)

const (
	customerRegisterPath = "/api/customer/register/"
	vendorRegisterPath   = "/api/vendor/register/"
	staffRegisterPath    = "/api/staffadmin/register/"
	serviceCategoryPath  = "/api/service-category/"
)

// Service exposes the marketplace operations.
type Service struct {
	client *client.Client
}

// New creates a Service on top of an authorized client.
func New(c *client.Client) (*Service, error) {
	if c == nil {
		return nil, errors.New("[marketplace.New] client is required")
	}
	return &Service{client: c}, nil
}

// RegisterCustomer signs up a new customer account. This is the one
// public operation; it works without a session.
func (s *Service) RegisterCustomer(ctx context.Context, reg CustomerRegistration) error {
	var resp api.Envelope[CustomerProfile]
	if err := s.client.Post(ctx, customerRegisterPath, reg, &resp); err != nil {
		return errors.Wrap(err, "[Service.RegisterCustomer]")
	}
	return nil
}

// CustomerProfile fetches the profile of the customer with uniqueID.
func (s *Service) CustomerProfile(ctx context.Context, uniqueID string) (CustomerProfile, error) {
	path := customerRegisterPath + "?unique_id=" + url.QueryEscape(uniqueID)
	var resp api.Envelope[CustomerProfile]
	if err := s.client.Get(ctx, path, &resp); err != nil {
		return CustomerProfile{}, errors.Wrap(err, "[Service.CustomerProfile]")
	}
	if !resp.Status {
		return CustomerProfile{}, &api.StatusError{StatusCode: http.StatusNotFound, Message: resp.Message}
	}
	return resp.Data, nil
}

// UpdateCustomerProfile writes the changed profile fields back.
func (s *Service) UpdateCustomerProfile(ctx context.Context, update CustomerProfileUpdate) error {
	if update.UniqueID == "" {
		return errors.New("[Service.UpdateCustomerProfile] unique_id is required")
	}
	var resp api.Envelope[CustomerProfile]
	if err := s.client.Put(ctx, customerRegisterPath, update, &resp); err != nil {
		return errors.Wrap(err, "[Service.UpdateCustomerProfile]")
	}
	return nil
}

// RegisterVendor onboards a vendor. Staff-admin only.
func (s *Service) RegisterVendor(ctx context.Context, reg VendorRegistration) error {
	var resp api.Envelope[struct{}]
	if err := s.client.Post(ctx, vendorRegisterPath, reg, &resp); err != nil {
		return errors.Wrap(err, "[Service.RegisterVendor]")
	}
	return nil
}

// ListStaff returns the staff-admin accounts. Admin only.
func (s *Service) ListStaff(ctx context.Context) (StaffList, error) {
	var resp StaffList
	if err := s.client.Get(ctx, staffRegisterPath, &resp); err != nil {
		return StaffList{}, errors.Wrap(err, "[Service.ListStaff]")
	}
	return resp, nil
}

// CreateStaff registers a staff-admin account. Admin only.
func (s *Service) CreateStaff(ctx context.Context, reg StaffRegistration) error {
	form, contentType, err := encodeStaffForm(reg, false)
	if err != nil {
		return errors.Wrap(err, "[Service.CreateStaff] encode form")
	}
	if err := s.client.DoForm(ctx, http.MethodPost, staffRegisterPath, contentType, form, nil); err != nil {
		return errors.Wrap(err, "[Service.CreateStaff]")
	}
	return nil
}

// UpdateStaff rewrites a staff-admin account. Admin only.
func (s *Service) UpdateStaff(ctx context.Context, reg StaffRegistration) error {
	if reg.UniqueID == "" {
		return errors.New("[Service.UpdateStaff] unique_id is required")
	}
	form, contentType, err := encodeStaffForm(reg, true)
	if err != nil {
		return errors.Wrap(err, "[Service.UpdateStaff] encode form")
	}
	path := staffRegisterPath + url.PathEscape(reg.UniqueID) + "/"
	if err := s.client.DoForm(ctx, http.MethodPut, path, contentType, form, nil); err != nil {
		return errors.Wrap(err, "[Service.UpdateStaff]")
	}
	return nil
}

// DeleteStaff removes a staff-admin account. Admin only.
func (s *Service) DeleteStaff(ctx context.Context, uniqueID string) error {
	if uniqueID == "" {
		return errors.New("[Service.DeleteStaff] unique_id is required")
	}
	path := staffRegisterPath + url.PathEscape(uniqueID) + "/"
	if err := s.client.Delete(ctx, path, nil, nil); err != nil {
		return errors.Wrap(err, "[Service.DeleteStaff]")
	}
	return nil
}

// ListServiceCategories returns the catalogue. Admin only.
func (s *Service) ListServiceCategories(ctx context.Context) ([]ServiceCategory, error) {
	var resp api.Envelope[[]ServiceCategory]
	if err := s.client.Get(ctx, serviceCategoryPath, &resp); err != nil {
		return nil, errors.Wrap(err, "[Service.ListServiceCategories]")
	}
	return resp.Data, nil
}

// CreateServiceCategory adds a catalogue entry. Admin only.
func (s *Service) CreateServiceCategory(ctx context.Context, upsert ServiceCategoryUpsert) error {
	form, contentType, err := encodeCategoryForm(upsert, false)
	if err != nil {
		return errors.Wrap(err, "[Service.CreateServiceCategory] encode form")
	}
	if err := s.client.DoForm(ctx, http.MethodPost, serviceCategoryPath, contentType, form, nil); err != nil {
		return errors.Wrap(err, "[Service.CreateServiceCategory]")
	}
	return nil
}

// UpdateServiceCategory rewrites a catalogue entry. Admin only.
func (s *Service) UpdateServiceCategory(ctx context.Context, upsert ServiceCategoryUpsert) error {
	if upsert.ID == 0 {
		return errors.New("[Service.UpdateServiceCategory] id is required")
	}
	form, contentType, err := encodeCategoryForm(upsert, true)
	if err != nil {
		return errors.Wrap(err, "[Service.UpdateServiceCategory] encode form")
	}
	if err := s.client.DoForm(ctx, http.MethodPut, serviceCategoryPath, contentType, form, nil); err != nil {
		return errors.Wrap(err, "[Service.UpdateServiceCategory]")
	}
	return nil
}

// DeleteServiceCategory removes a catalogue entry by id. Admin only.
func (s *Service) DeleteServiceCategory(ctx context.Context, id int) error {
	body := struct {
		ID int `json:"id"`
	}{ID: id}
	if err := s.client.Delete(ctx, serviceCategoryPath, body, nil); err != nil {
		return errors.Wrap(err, "[Service.DeleteServiceCategory]")
	}
	return nil
}

func encodeStaffForm(reg StaffRegistration, update bool) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"can_name":      reg.CanName,
		"mobile_number": reg.MobileNumber,
		"email_id":      reg.EmailID,
		"address":       reg.Address,
		"password":      reg.Password,
	}
	if update {
		fields["unique_id"] = reg.UniqueID
		fields["is_active"] = strconv.FormatBool(reg.IsActive)
	}
	if err := writeFields(w, fields); err != nil {
		return nil, "", err
	}
	if reg.Aadhar != nil {
		if err := writeFile(w, "can_aadharcard", reg.Aadhar); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func encodeCategoryForm(upsert ServiceCategoryUpsert, update bool) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"prod_name": upsert.ProdName,
		"prod_desc": upsert.ProdDesc,
		"prod_cate": upsert.ProdCate,
		"sub_cate":  upsert.SubCate,
		"status":    upsert.Status,
	}
	if update {
		fields["id"] = strconv.Itoa(upsert.ID)
	}
	if err := writeFields(w, fields); err != nil {
		return nil, "", err
	}
	if upsert.Image != nil {
		if err := writeFile(w, "prod_img", upsert.Image); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writeFields(w *multipart.Writer, fields map[string]string) error {
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("write field %s: %w", name, err)
		}
	}
	return nil
}

func writeFile(w *multipart.Writer, field string, f *FileUpload) error {
	part, err := w.CreateFormFile(field, f.Name)
	if err != nil {
		return fmt.Errorf("create file part %s: %w", field, err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return fmt.Errorf("write file part %s: %w", field, err)
	}
	return nil
}
