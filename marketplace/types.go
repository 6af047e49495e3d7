package marketplace

// CustomerRegistration is the public sign-up payload.
type CustomerRegistration struct {
	Username     string `json:"username"`
	MobileNumber string `json:"mobile_number"`
	State        string `json:"state"`
	District     string `json:"district"`
	Block        string `json:"block"`
	Password     string `json:"password"`
}

// CustomerProfile is a customer's account record.
type CustomerProfile struct {
	UniqueID     string `json:"unique_id,omitempty"`
	Username     string `json:"username,omitempty"`
	MobileNumber string `json:"mobile_number,omitempty"`
	State        string `json:"state,omitempty"`
	District     string `json:"district,omitempty"`
	Block        string `json:"block,omitempty"`
	Address      string `json:"address,omitempty"`
	Image        string `json:"image,omitempty"`
}

// CustomerProfileUpdate carries only the fields being changed; UniqueID is
// always required.
type CustomerProfileUpdate struct {
	UniqueID     string `json:"unique_id"`
	Username     string `json:"username,omitempty"`
	MobileNumber string `json:"mobile_number,omitempty"`
	State        string `json:"state,omitempty"`
	District     string `json:"district,omitempty"`
	Block        string `json:"block,omitempty"`
	Address      string `json:"address,omitempty"`
	Image        string `json:"image,omitempty"`
}

// VendorCategory is the service category a vendor registers under.
type VendorCategory struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
}

// VendorRegistration is the staff-admin vendor onboarding payload.
type VendorRegistration struct {
	Username     string         `json:"username"`
	MobileNumber string         `json:"mobile_number"`
	Email        string         `json:"email"`
	State        string         `json:"state"`
	District     string         `json:"district"`
	Block        string         `json:"block"`
	Password     string         `json:"password"`
	Address      string         `json:"address"`
	Category     VendorCategory `json:"category"`
	Description  string         `json:"description"`
}

// StaffMember is a staff-admin account as listed on the admin dashboard.
type StaffMember struct {
	UniqueID     string `json:"unique_id"`
	CanName      string `json:"can_name"`
	MobileNumber string `json:"mobile_number"`
	EmailID      string `json:"email_id"`
	Address      string `json:"address"`
	IsActive     bool   `json:"is_active"`
	CanAadharURL string `json:"can_aadharcard,omitempty"`
}

// StaffList is the reply of the staff listing endpoint.
type StaffList struct {
	Status bool          `json:"status"`
	Count  int           `json:"count"`
	Data   []StaffMember `json:"data"`
}

// FileUpload is a file attached to a multipart form field.
type FileUpload struct {
	Name string
	Data []byte
}

// StaffRegistration is the admin payload creating or updating a staff
// account. Aadhar is optional; it rides along as a multipart file part.
type StaffRegistration struct {
	UniqueID     string // only set on update
	CanName      string
	MobileNumber string
	EmailID      string
	Address      string
	Password     string
	IsActive     bool
	Aadhar       *FileUpload
}

// ServiceCategory is an entry of the admin service-category catalogue.
type ServiceCategory struct {
	ID       int    `json:"id"`
	ProdName string `json:"prod_name"`
	ProdDesc string `json:"prod_desc"`
	ProdCate string `json:"prod_cate"`
	SubCate  string `json:"sub_cate"`
	ProdImg  string `json:"prod_img,omitempty"`
	Status   string `json:"status"`
}

// ServiceCategoryUpsert creates or updates a catalogue entry. ID is only
// set on update. Image is optional; it rides along as a multipart file
// part.
type ServiceCategoryUpsert struct {
	ID       int
	ProdName string
	ProdDesc string
	ProdCate string
	SubCate  string
	Status   string
	Image    *FileUpload
}
