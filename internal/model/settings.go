package model

// SystemSettings is a single configuration document describing the office
// and its appointment defaults. It is created lazily with defaults on first
// read.
type SystemSettings struct {
	ID           string              `json:"id"`
	General      GeneralSettings     `json:"general"`
	Appointments AppointmentDefaults `json:"appointments"`
}

type GeneralSettings struct {
	CenterName    string `json:"centerName"`
	CenterEmail   string `json:"centerEmail"`
	CenterPhone   string `json:"centerPhone"`
	CenterAddress string `json:"centerAddress"`
}

type AppointmentDefaults struct {
	DefaultDurationMinutes int      `json:"defaultDurationMinutes"`
	MinAdvanceHours        int      `json:"minAdvanceHours"`
	MaxPerDay              int      `json:"maxPerDay"`
	WorkingHoursStart      string   `json:"workingHoursStart"` // HH:MM
	WorkingHoursEnd        string   `json:"workingHoursEnd"`   // HH:MM
	WorkingDays            []string `json:"workingDays"`       // ISO weekday numbers as strings
}

// DefaultSettings mirrors what the office ran with before settings were
// editable.
func DefaultSettings() SystemSettings {
	return SystemSettings{
		General: GeneralSettings{
			CenterName:    "Consultorio Psicológico CEPRUNSA",
			CenterEmail:   "consultorio.psicologico@ceprunsa.edu.pe",
			CenterPhone:   "054-123456",
			CenterAddress: "Local CEPRUNSA",
		},
		Appointments: AppointmentDefaults{
			DefaultDurationMinutes: 60,
			MinAdvanceHours:        24,
			MaxPerDay:              8,
			WorkingHoursStart:      "08:00",
			WorkingHoursEnd:        "18:00",
			WorkingDays:            []string{"1", "2", "3", "4", "5"},
		},
	}
}
