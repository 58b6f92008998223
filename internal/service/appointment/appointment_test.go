package appointment

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/internal/store"
	"github.com/ceprunsa/consultorio_backend/pkg/authorize"
)

var (
	admin       = model.Actor{UserID: "u-admin", Email: "admin@ceprunsa.edu.pe", Role: authorize.RoleAdmin}
	coordinator = model.Actor{UserID: "u-coord", Email: "coord@ceprunsa.edu.pe", Role: authorize.RoleCoordinator}
)

type fixture struct {
	svc    Service
	db     *store.Stores
	reason model.ConsultationReason
	psy    model.Psychologist
	proc   model.Process

	// psyActor is a psychologist-role actor linked to the seeded staff record.
	psyActor model.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := store.NewStores(rdb)
	ctx := context.Background()

	reason, err := db.Reasons.Create(ctx, model.ConsultationReason{Name: "Ansiedad", IsActive: true})
	if err != nil {
		t.Fatalf("seed reason: %v", err)
	}
	psy := model.Psychologist{FullName: "Ana Salas", DNI: "40404040", InstitutionalEmail: "psy@ceprunsa.edu.pe", UserID: "u-psy"}
	psyDoc, err := db.Psychologists.Create(ctx, psy)
	if err != nil {
		t.Fatalf("seed psychologist: %v", err)
	}
	proc, err := db.Processes.Create(ctx, model.Process{Name: "CEPRUNSA 2026 I", IsActive: true})
	if err != nil {
		t.Fatalf("seed process: %v", err)
	}

	psyActor := model.Actor{
		UserID:         "u-psy",
		Email:          "psy@ceprunsa.edu.pe",
		Role:           authorize.RolePsychologist,
		PsychologistID: psyDoc.ID,
	}
	return &fixture{svc: New(db), db: db, reason: *reason, psy: *psyDoc, proc: *proc, psyActor: psyActor}
}

func (f *fixture) createRequest() CreateRequest {
	return CreateRequest{
		Client: model.Client{
			FullName:  "María Quispe",
			DNI:       "12345678",
			Situation: model.SituationCeprunsa,
		},
		ProcessID:      f.proc.ID,
		ReasonID:       f.reason.ID,
		PsychologistID: f.psy.ID,
		Date:           "2026-03-10",
		Time:           "10:00",
		Modality:       model.ModalityPresential,
	}
}

func (f *fixture) mustCreate(t *testing.T) *model.Appointment {
	t.Helper()
	appt, err := f.svc.Create(context.Background(), coordinator, f.createRequest())
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return appt
}

func TestCreateSetsDefaults(t *testing.T) {
	f := newFixture(t)
	appt := f.mustCreate(t)

	if appt.Status != model.StatusScheduled {
		t.Errorf("status = %q, want scheduled", appt.Status)
	}
	if appt.Location != DefaultPresentialLocation {
		t.Errorf("location = %q, want default presential location", appt.Location)
	}
	if appt.ReasonName != "Ansiedad" || appt.PsychologistName != "Ana Salas" || appt.ProcessName != "CEPRUNSA 2026 I" {
		t.Errorf("denormalized names not resolved: %+v", appt)
	}
	if appt.CreatedBy != "coord@ceprunsa.edu.pe" || appt.CreatedAt == "" {
		t.Errorf("audit fields not set: createdBy=%q createdAt=%q", appt.CreatedBy, appt.CreatedAt)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateRequest)
	}{
		{"missing client name", func(r *CreateRequest) { r.Client.FullName = "  " }},
		{"short dni", func(r *CreateRequest) { r.Client.DNI = "1234567" }},
		{"non-numeric dni", func(r *CreateRequest) { r.Client.DNI = "1234567a" }},
		{"missing reason", func(r *CreateRequest) { r.ReasonID = "" }},
		{"missing psychologist", func(r *CreateRequest) { r.PsychologistID = "" }},
		{"bad date", func(r *CreateRequest) { r.Date = "10/03/2026" }},
		{"bad time", func(r *CreateRequest) { r.Time = "10am" }},
		{"virtual without link", func(r *CreateRequest) { r.Modality = model.ModalityVirtual; r.Location = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.createRequest()
			tt.mutate(&req)
			_, err := f.svc.Create(ctx, admin, req)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateRejectsInactiveReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inactiveReason, err := f.db.Reasons.Create(ctx, model.ConsultationReason{Name: "Old", IsActive: false})
	if err != nil {
		t.Fatal(err)
	}

	req := f.createRequest()
	req.ReasonID = inactiveReason.ID
	if _, err := f.svc.Create(ctx, admin, req); !errors.Is(err, ErrValidation) {
		t.Errorf("inactive reason: got %v, want ErrValidation", err)
	}

	inactiveProc, err := f.db.Processes.Create(ctx, model.Process{Name: "2024 II", IsActive: false})
	if err != nil {
		t.Fatal(err)
	}
	req = f.createRequest()
	req.ProcessID = inactiveProc.ID
	if _, err := f.svc.Create(ctx, admin, req); !errors.Is(err, ErrValidation) {
		t.Errorf("inactive process: got %v, want ErrValidation", err)
	}
}

func TestCreateClearsProcessForParticularClients(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest()
	req.Client.Situation = model.SituationParticular
	appt, err := f.svc.Create(context.Background(), coordinator, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if appt.ProcessID != "" || appt.ProcessName != "" {
		t.Errorf("process not cleared for particular client: %q/%q", appt.ProcessID, appt.ProcessName)
	}
}

func TestCreatePermission(t *testing.T) {
	f := newFixture(t)

	for _, actor := range []model.Actor{f.psyActor, {Role: authorize.RoleUser}} {
		if _, err := f.svc.Create(context.Background(), actor, f.createRequest()); !errors.Is(err, ErrPermissionDenied) {
			t.Errorf("role %q: got %v, want ErrPermissionDenied", actor.Role, err)
		}
	}
}

func TestTransitionComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.mustCreate(t)

	t.Run("missing fields rejected and named", func(t *testing.T) {
		_, err := f.svc.Transition(ctx, f.psyActor, appt.ID, CompletionPayload{
			Diagnosis:   "x",
			Conclusions: "y",
		})
		if !errors.Is(err, ErrIncompleteResults) {
			t.Fatalf("got %v, want ErrIncompleteResults", err)
		}
		var incomplete *IncompleteResultsError
		if !errors.As(err, &incomplete) {
			t.Fatalf("error does not carry missing fields: %v", err)
		}
		if len(incomplete.Missing) != 1 || incomplete.Missing[0] != "recommendations" {
			t.Errorf("missing = %v, want [recommendations]", incomplete.Missing)
		}
	})

	t.Run("blank-after-trim counts as missing", func(t *testing.T) {
		_, err := f.svc.Transition(ctx, admin, appt.ID, CompletionPayload{
			Diagnosis:       "x",
			Recommendations: "   ",
			Conclusions:     "y",
		})
		if !errors.Is(err, ErrIncompleteResults) {
			t.Errorf("got %v, want ErrIncompleteResults", err)
		}
	})

	t.Run("complete payload succeeds", func(t *testing.T) {
		updated, err := f.svc.Transition(ctx, f.psyActor, appt.ID, CompletionPayload{
			Diagnosis:       "Ansiedad leve",
			Recommendations: "Seguimiento quincenal",
			Conclusions:     "Evolución favorable",
		})
		if err != nil {
			t.Fatalf("transition: %v", err)
		}
		if updated.Status != model.StatusCompleted {
			t.Errorf("status = %q, want completed", updated.Status)
		}
		if updated.Diagnosis == "" || updated.Recommendations == "" || updated.Conclusions == "" {
			t.Errorf("outcome fields not stored: %+v", updated)
		}
		if updated.UpdatedBy != "psy@ceprunsa.edu.pe" || updated.UpdatedAt == "" {
			t.Errorf("audit fields not set: %+v", updated)
		}
	})
}

func TestTransitionPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.mustCreate(t)

	if _, err := f.svc.Transition(ctx, f.psyActor, appt.ID, CancellationPayload{Reason: "no puedo"}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("psychologist cancelling: got %v, want ErrPermissionDenied", err)
	}

	if _, err := f.svc.Transition(ctx, f.psyActor, appt.ID, NoShowPayload{}); err != nil {
		t.Errorf("psychologist marking no-show: got %v, want success", err)
	}
}

func TestTransitionCancelRecordsReason(t *testing.T) {
	f := newFixture(t)
	appt := f.mustCreate(t)

	updated, err := f.svc.Transition(context.Background(), coordinator, appt.ID, CancellationPayload{Reason: "cliente viajó"})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if updated.Status != model.StatusCancelled || updated.CancellationReason != "cliente viajó" {
		t.Errorf("cancellation not recorded: %+v", updated)
	}
}

func TestTerminalStatesRejectEveryTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payloads := []TransitionPayload{
		CompletionPayload{Diagnosis: "x", Recommendations: "y", Conclusions: "z"},
		CancellationPayload{},
		NoShowPayload{},
	}

	for _, terminal := range []TransitionPayload{
		CompletionPayload{Diagnosis: "a", Recommendations: "b", Conclusions: "c"},
		CancellationPayload{},
		NoShowPayload{},
	} {
		appt := f.mustCreate(t)
		if _, err := f.svc.Transition(ctx, admin, appt.ID, terminal); err != nil {
			t.Fatalf("setup transition: %v", err)
		}
		for _, p := range payloads {
			if _, err := f.svc.Transition(ctx, admin, appt.ID, p); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("transition out of %q to %q: got %v, want ErrInvalidTransition", terminal.target(), p.target(), err)
			}
		}
	}
}

func TestAttachDocumentGating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.mustCreate(t)

	doc := model.Document{ID: "d1", FileName: "informe.pdf", MimeType: "application/pdf"}

	if _, err := f.svc.AttachDocument(ctx, admin, appt.ID, doc); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("attach to scheduled appointment: got %v, want ErrNotCompleted", err)
	}

	if _, err := f.svc.Transition(ctx, admin, appt.ID, CompletionPayload{
		Diagnosis: "a", Recommendations: "b", Conclusions: "c",
	}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	updated, err := f.svc.AttachDocument(ctx, admin, appt.ID, doc)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if updated.Document == nil || updated.Document.ID != "d1" {
		t.Errorf("document not attached: %+v", updated.Document)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	appt := f.mustCreate(t)

	if err := f.svc.Delete(ctx, f.psyActor, appt.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("psychologist deleting: got %v, want ErrPermissionDenied", err)
	}
	if err := f.svc.Delete(ctx, admin, appt.ID); err != nil {
		t.Errorf("admin deleting: %v", err)
	}
	if err := f.svc.Delete(ctx, admin, appt.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting twice: got %v, want ErrNotFound", err)
	}
}

func TestPsychologistScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine := f.mustCreate(t)

	other, err := f.db.Psychologists.Create(ctx, model.Psychologist{FullName: "Luis Mora", DNI: "50505050"})
	if err != nil {
		t.Fatal(err)
	}
	req := f.createRequest()
	req.PsychologistID = other.ID
	theirs, err := f.svc.Create(ctx, admin, req)
	if err != nil {
		t.Fatal(err)
	}

	appts, err := f.svc.List(ctx, f.psyActor)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, a := range appts {
		if a.PsychologistID != f.psy.ID {
			t.Errorf("appointment %s leaked into psychologist's list", a.ID)
		}
	}
	if len(appts) != 1 || appts[0].ID != mine.ID {
		t.Errorf("expected exactly own appointment, got %d", len(appts))
	}

	if _, err := f.svc.GetByID(ctx, f.psyActor, theirs.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get on another psychologist's appointment: got %v, want ErrNotFound", err)
	}

	all, err := f.svc.List(ctx, admin)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin sees %d appointments, want 2", len(all))
	}
}
