package model

import "time"

// AppointmentStatus is the lifecycle state of an appointment. Only
// StatusScheduled has outgoing transitions; the other three are terminal.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no-show"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether the status has no outgoing transitions.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

type ClientSituation string

const (
	SituationCeprunsa   ClientSituation = "ceprunsa"
	SituationParticular ClientSituation = "particular"
)

type Modality string

const (
	ModalityPresential Modality = "presential"
	ModalityVirtual    Modality = "virtual"
)

// Client is the person attending the session. It is a value object copied
// into the appointment at creation time; there is no separate client
// collection and no referential integrity to maintain.
type Client struct {
	FullName  string          `json:"fullName"`
	DNI       string          `json:"dni"`
	Situation ClientSituation `json:"situation"`
	Phone     string          `json:"phone,omitempty"`
	Email     string          `json:"email,omitempty"`
}

// Document describes a PDF attached to a completed appointment. The file
// body lives in object storage under Key; URL is a presigned download link.
type Document struct {
	ID           string `json:"id"`
	FileName     string `json:"fileName"`
	OriginalName string `json:"originalName"`
	Key          string `json:"key"`
	URL          string `json:"url"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
	UploadedAt   string `json:"uploadedAt"`
	UploadedBy   string `json:"uploadedBy"`
}

// Appointment is the central record: one scheduled counseling session.
//
// Date is a calendar date in YYYY-MM-DD and Time a 24h HH:MM; both fixed
// formats so lexicographic order equals chronological order. Timestamps
// (CreatedAt, UpdatedAt, UploadedAt) are full ISO 8601 strings in UTC.
type Appointment struct {
	ID     string `json:"id"`
	Client Client `json:"client"`

	// ProcessID/ProcessName are only meaningful for ceprunsa clients.
	ProcessID   string `json:"processId,omitempty"`
	ProcessName string `json:"processName,omitempty"`

	ReasonID   string `json:"reasonId"`
	ReasonName string `json:"reasonName"`

	PsychologistID   string `json:"psychologistId"`
	PsychologistName string `json:"psychologistName"`

	Date     string   `json:"date"`
	Time     string   `json:"time"`
	Modality Modality `json:"modality"`
	Location string   `json:"location"`

	Status AppointmentStatus `json:"status"`

	// Session outcome, required together when completing.
	Diagnosis       string `json:"diagnosis,omitempty"`
	Recommendations string `json:"recommendations,omitempty"`
	Conclusions     string `json:"conclusions,omitempty"`

	CancellationReason string `json:"cancellationReason,omitempty"`

	Document *Document `json:"document,omitempty"`

	CreatedAt string `json:"createdAt"`
	CreatedBy string `json:"createdBy"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	UpdatedBy string `json:"updatedBy,omitempty"`
}

// NowISO returns the current UTC instant in the ISO 8601 format stored on
// audit fields.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Today returns the current UTC calendar date in YYYY-MM-DD.
func Today() string {
	return time.Now().UTC().Format("2006-01-02")
}
