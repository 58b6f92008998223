// Package settings serves the single system configuration document. The
// document is created lazily with defaults on first read, so a fresh
// deployment works without a seeding step.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/internal/policy"
	"github.com/ceprunsa/consultorio_backend/internal/store"
)

// SettingsDocID is the fixed id of the configuration document.
const SettingsDocID = "systemConfig"

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
	ErrRepository       = errors.New("repository failure")
)

type Service interface {
	Get(ctx context.Context) (*model.SystemSettings, error)
	Update(ctx context.Context, actor model.Actor, settings model.SystemSettings) (*model.SystemSettings, error)
}

type settingsService struct {
	db *store.Stores
}

func New(db *store.Stores) Service {
	return &settingsService{db: db}
}

func (s *settingsService) Get(ctx context.Context) (*model.SystemSettings, error) {
	doc, err := s.db.Settings.Get(ctx, SettingsDocID)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: get settings: %v", ErrRepository, err)
	}

	defaults := model.DefaultSettings()
	defaults.ID = SettingsDocID
	if err := s.db.Settings.Put(ctx, &defaults); err != nil {
		return nil, fmt.Errorf("%w: seed settings: %v", ErrRepository, err)
	}
	return &defaults, nil
}

func (s *settingsService) Update(ctx context.Context, actor model.Actor, settings model.SystemSettings) (*model.SystemSettings, error) {
	if !policy.CanCreateOrEdit(actor.Role) {
		return nil, ErrPermissionDenied
	}
	if err := validate(&settings); err != nil {
		return nil, err
	}

	settings.ID = SettingsDocID
	if err := s.db.Settings.Put(ctx, &settings); err != nil {
		return nil, fmt.Errorf("%w: save settings: %v", ErrRepository, err)
	}
	return &settings, nil
}

func validate(settings *model.SystemSettings) error {
	settings.General.CenterName = strings.TrimSpace(settings.General.CenterName)
	if settings.General.CenterName == "" {
		return fmt.Errorf("%w: center name is required", ErrValidation)
	}

	a := settings.Appointments
	if a.DefaultDurationMinutes <= 0 {
		return fmt.Errorf("%w: default duration must be positive", ErrValidation)
	}
	if a.MinAdvanceHours < 0 || a.MaxPerDay < 0 {
		return fmt.Errorf("%w: advance hours and max per day cannot be negative", ErrValidation)
	}
	for _, hhmm := range []string{a.WorkingHoursStart, a.WorkingHoursEnd} {
		if _, err := time.Parse("15:04", hhmm); err != nil {
			return fmt.Errorf("%w: working hours must be HH:MM", ErrValidation)
		}
	}
	if a.WorkingHoursEnd <= a.WorkingHoursStart {
		return fmt.Errorf("%w: working hours end before they start", ErrValidation)
	}
	return nil
}
