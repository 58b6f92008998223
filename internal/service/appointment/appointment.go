package appointment

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/internal/policy"
	"github.com/ceprunsa/consultorio_backend/internal/store"
	"github.com/ceprunsa/consultorio_backend/pkg/authorize"
)

// DefaultPresentialLocation is used when a presential appointment is created
// without an explicit location.
const DefaultPresentialLocation = "Local CEPRUNSA"

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	Client         model.Client
	ProcessID      string
	ReasonID       string
	PsychologistID string
	Date           string // YYYY-MM-DD
	Time           string // HH:MM
	Modality       model.Modality
	Location       string
}

// TransitionPayload is the data accompanying a status change. Each target
// status has its own payload type, so required fields are checked per target
// instead of probing a loose map.
type TransitionPayload interface {
	target() model.AppointmentStatus
}

type CompletionPayload struct {
	Diagnosis       string
	Recommendations string
	Conclusions     string
}

func (CompletionPayload) target() model.AppointmentStatus { return model.StatusCompleted }

type CancellationPayload struct {
	Reason string
}

func (CancellationPayload) target() model.AppointmentStatus { return model.StatusCancelled }

type NoShowPayload struct{}

func (NoShowPayload) target() model.AppointmentStatus { return model.StatusNoShow }

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, actor model.Actor) ([]model.Appointment, error)
	GetByID(ctx context.Context, actor model.Actor, id string) (*model.Appointment, error)
	Create(ctx context.Context, actor model.Actor, req CreateRequest) (*model.Appointment, error)
	Update(ctx context.Context, actor model.Actor, id string, req CreateRequest) (*model.Appointment, error)
	Transition(ctx context.Context, actor model.Actor, id string, payload TransitionPayload) (*model.Appointment, error)
	AttachDocument(ctx context.Context, actor model.Actor, id string, doc model.Document) (*model.Appointment, error)
	Delete(ctx context.Context, actor model.Actor, id string) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	db  *store.Stores
	now func() string
}

func New(db *store.Stores) Service {
	return &appointmentService{db: db, now: model.NowISO}
}

var dniRe = regexp.MustCompile(`^[0-9]{8}$`)

func (s *appointmentService) List(ctx context.Context, actor model.Actor) ([]model.Appointment, error) {
	appts, err := s.db.Appointments.List(ctx, nil)
	if err != nil {
		return nil, repositoryErr("list appointments", err)
	}

	// A psychologist-role user without a linked staff record sees nothing.
	appts = policy.VisibleAppointments(actor.Role, actor.PsychologistID, appts)
	SortAppointments(appts)
	return appts, nil
}

func (s *appointmentService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.Appointment, error) {
	return s.scopedGet(ctx, actor, id)
}

func (s *appointmentService) Create(ctx context.Context, actor model.Actor, req CreateRequest) (*model.Appointment, error) {
	if !policy.CanCreateOrEdit(actor.Role) {
		return nil, ErrPermissionDenied
	}

	resolved, err := s.validate(ctx, &req)
	if err != nil {
		return nil, err
	}

	appt := model.Appointment{
		Client:           req.Client,
		ProcessID:        req.ProcessID,
		ProcessName:      resolved.processName,
		ReasonID:         req.ReasonID,
		ReasonName:       resolved.reasonName,
		PsychologistID:   req.PsychologistID,
		PsychologistName: resolved.psychologistName,
		Date:             req.Date,
		Time:             req.Time,
		Modality:         req.Modality,
		Location:         req.Location,
		Status:           model.StatusScheduled,
		CreatedAt:        s.now(),
		CreatedBy:        actor.AuditEmail(),
	}

	created, err := s.db.Appointments.Create(ctx, appt)
	if err != nil {
		return nil, repositoryErr("create appointment", err)
	}
	return created, nil
}

func (s *appointmentService) Update(ctx context.Context, actor model.Actor, id string, req CreateRequest) (*model.Appointment, error) {
	if !policy.CanCreateOrEdit(actor.Role) {
		return nil, ErrPermissionDenied
	}

	if _, err := s.scopedGet(ctx, actor, id); err != nil {
		return nil, err
	}

	resolved, err := s.validate(ctx, &req)
	if err != nil {
		return nil, err
	}

	updated, err := s.db.Appointments.Update(ctx, id, func(a *model.Appointment) error {
		a.Client = req.Client
		a.ProcessID = req.ProcessID
		a.ProcessName = resolved.processName
		a.ReasonID = req.ReasonID
		a.ReasonName = resolved.reasonName
		a.PsychologistID = req.PsychologistID
		a.PsychologistName = resolved.psychologistName
		a.Date = req.Date
		a.Time = req.Time
		a.Modality = req.Modality
		a.Location = req.Location
		a.UpdatedAt = s.now()
		a.UpdatedBy = actor.AuditEmail()
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repositoryErr("update appointment", err)
	}
	return updated, nil
}

func (s *appointmentService) Transition(ctx context.Context, actor model.Actor, id string, payload TransitionPayload) (*model.Appointment, error) {
	appt, err := s.scopedGet(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	target := payload.target()

	// Role check on the transition as requested. The table only defines
	// transitions out of scheduled, so the role is checked against that
	// source; whether the record actually is scheduled is the next check.
	if !policy.CanTransition(actor.Role, model.StatusScheduled, target) {
		return nil, ErrPermissionDenied
	}

	if appt.Status != model.StatusScheduled {
		return nil, ErrInvalidTransition
	}

	var apply func(*model.Appointment)
	switch p := payload.(type) {
	case CompletionPayload:
		var missing []string
		if strings.TrimSpace(p.Diagnosis) == "" {
			missing = append(missing, "diagnosis")
		}
		if strings.TrimSpace(p.Recommendations) == "" {
			missing = append(missing, "recommendations")
		}
		if strings.TrimSpace(p.Conclusions) == "" {
			missing = append(missing, "conclusions")
		}
		if len(missing) > 0 {
			return nil, &IncompleteResultsError{Missing: missing}
		}
		apply = func(a *model.Appointment) {
			a.Diagnosis = p.Diagnosis
			a.Recommendations = p.Recommendations
			a.Conclusions = p.Conclusions
		}
	case CancellationPayload:
		apply = func(a *model.Appointment) {
			a.CancellationReason = p.Reason
		}
	case NoShowPayload:
		apply = func(a *model.Appointment) {}
	default:
		return nil, validationf("unsupported transition payload %T", payload)
	}

	updated, err := s.db.Appointments.Update(ctx, id, func(a *model.Appointment) error {
		a.Status = target
		apply(a)
		a.UpdatedAt = s.now()
		a.UpdatedBy = actor.AuditEmail()
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repositoryErr("transition appointment", err)
	}
	return updated, nil
}

func (s *appointmentService) AttachDocument(ctx context.Context, actor model.Actor, id string, doc model.Document) (*model.Appointment, error) {
	appt, err := s.scopedGet(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != model.StatusCompleted {
		return nil, ErrNotCompleted
	}

	updated, err := s.db.Appointments.Update(ctx, id, func(a *model.Appointment) error {
		a.Document = &doc
		a.UpdatedAt = s.now()
		a.UpdatedBy = actor.AuditEmail()
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repositoryErr("attach document", err)
	}
	return updated, nil
}

func (s *appointmentService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if !policy.CanDelete(actor.Role) {
		return ErrPermissionDenied
	}

	// Hard delete, no dependent cleanup: an attached document is orphaned
	// in object storage.
	if err := s.db.Appointments.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return repositoryErr("delete appointment", err)
	}
	return nil
}

// scopedGet fetches an appointment and applies role visibility: a
// psychologist only reaches appointments assigned to their linked record.
func (s *appointmentService) scopedGet(ctx context.Context, actor model.Actor, id string) (*model.Appointment, error) {
	appt, err := s.db.Appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, repositoryErr("get appointment", err)
	}
	if actor.Role == authorize.RolePsychologist && appt.PsychologistID != actor.PsychologistID {
		return nil, ErrNotFound
	}
	return appt, nil
}

type resolvedRefs struct {
	processName      string
	reasonName       string
	psychologistName string
}

// validate checks a create/edit payload and resolves the denormalized
// reference names. Referenced processes and reasons must be active at the
// time of the save; existing appointments keep whatever they reference.
func (s *appointmentService) validate(ctx context.Context, req *CreateRequest) (*resolvedRefs, error) {
	req.Client.FullName = strings.TrimSpace(req.Client.FullName)
	req.Client.DNI = strings.TrimSpace(req.Client.DNI)

	if req.Client.FullName == "" {
		return nil, validationf("client full name is required")
	}
	if !dniRe.MatchString(req.Client.DNI) {
		return nil, validationf("client dni must be exactly 8 digits")
	}
	switch req.Client.Situation {
	case model.SituationCeprunsa, model.SituationParticular:
	default:
		return nil, validationf("unknown client situation %q", req.Client.Situation)
	}
	if req.ReasonID == "" {
		return nil, validationf("consultation reason is required")
	}
	if req.PsychologistID == "" {
		return nil, validationf("psychologist is required")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, validationf("date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return nil, validationf("time must be HH:MM")
	}

	switch req.Modality {
	case model.ModalityVirtual:
		if strings.TrimSpace(req.Location) == "" {
			return nil, validationf("a meeting link is required for virtual appointments")
		}
	case model.ModalityPresential:
		if strings.TrimSpace(req.Location) == "" {
			req.Location = DefaultPresentialLocation
		}
	default:
		return nil, validationf("unknown modality %q", req.Modality)
	}

	// Best-effort phone normalization; an unparseable or empty phone is
	// kept as entered.
	if req.Client.Phone != "" {
		if num, err := phonenumbers.Parse(req.Client.Phone, "PE"); err == nil && phonenumbers.IsValidNumber(num) {
			req.Client.Phone = phonenumbers.Format(num, phonenumbers.E164)
		}
	}

	var resolved resolvedRefs

	reason, err := s.db.Reasons.Get(ctx, req.ReasonID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, validationf("unknown consultation reason %q", req.ReasonID)
		}
		return nil, repositoryErr("get consultation reason", err)
	}
	if !reason.IsActive {
		return nil, validationf("consultation reason %q is not active", reason.Name)
	}
	resolved.reasonName = reason.Name

	psych, err := s.db.Psychologists.Get(ctx, req.PsychologistID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, validationf("unknown psychologist %q", req.PsychologistID)
		}
		return nil, repositoryErr("get psychologist", err)
	}
	resolved.psychologistName = psych.FullName

	// A process only makes sense for ceprunsa clients; anything supplied
	// for a particular client is discarded.
	if req.Client.Situation != model.SituationCeprunsa {
		req.ProcessID = ""
		return &resolved, nil
	}
	if req.ProcessID != "" {
		proc, err := s.db.Processes.Get(ctx, req.ProcessID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, validationf("unknown process %q", req.ProcessID)
			}
			return nil, repositoryErr("get process", err)
		}
		if !proc.IsActive {
			return nil, validationf("process %q is not active", proc.Name)
		}
		resolved.processName = proc.Name
	}

	return &resolved, nil
}
