package model

// Process is a CEPRUNSA admission cycle a ceprunsa-situation client may be
// associated with. Deactivating a process only removes it from the selectable
// set; appointments keep the id and denormalized name they were created with.
type Process struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
	CreatedBy string `json:"createdBy"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	UpdatedBy string `json:"updatedBy,omitempty"`
}

// ConsultationReason is a selectable category for why a session was requested.
type ConsultationReason struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt"`
	CreatedBy   string `json:"createdBy"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	UpdatedBy   string `json:"updatedBy,omitempty"`
}

// Psychologist is a staff record. UserID optionally links it to a login
// identity; that link is what scopes "my appointments" for the psychologist
// role.
type Psychologist struct {
	ID                 string `json:"id"`
	FullName           string `json:"fullName"`
	DNI                string `json:"dni"`
	InstitutionalEmail string `json:"institutionalEmail"`
	PersonalEmail      string `json:"personalEmail,omitempty"`
	Phone              string `json:"phone,omitempty"`
	UserID             string `json:"userId,omitempty"`
	CreatedAt          string `json:"createdAt"`
	CreatedBy          string `json:"createdBy"`
	UpdatedAt          string `json:"updatedAt,omitempty"`
	UpdatedBy          string `json:"updatedBy,omitempty"`
}
