package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ceprunsa/consultorio_backend/internal/api/http/middleware"
	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/internal/service/appointment"
	"github.com/ceprunsa/consultorio_backend/internal/service/file"
	"github.com/ceprunsa/consultorio_backend/internal/service/psychologist"
	"github.com/ceprunsa/consultorio_backend/pkg/authorize"
)

type AppointmentHandler struct {
	svc    appointment.Service
	files  file.Service
	psychs psychologist.Service
	auth   authorize.IAuthorization
}

func NewAppointmentHandler(svc appointment.Service, files file.Service, psychs psychologist.Service, auth authorize.IAuthorization) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, files: files, psychs: psychs, auth: auth}
}

func mapAppointmentError(c fiber.Ctx, err error) error {
	var incomplete *appointment.IncompleteResultsError
	switch {
	case errors.Is(err, appointment.ErrNotFound):
		return notFound(c, "appointment not found")
	case errors.Is(err, appointment.ErrPermissionDenied):
		return forbidden(c)
	case errors.Is(err, appointment.ErrInvalidTransition):
		return conflict(c, "appointment is no longer scheduled")
	case errors.As(err, &incomplete):
		return unprocessable(c, "session results are incomplete", fiber.Map{"missing": incomplete.Missing})
	case errors.Is(err, appointment.ErrNotCompleted):
		return conflict(c, "documents can only be attached to completed appointments")
	case errors.Is(err, appointment.ErrValidation):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

type appointmentBody struct {
	Client         model.Client `json:"client"`
	ProcessID      string       `json:"processId"`
	ReasonID       string       `json:"reasonId"`
	PsychologistID string       `json:"psychologistId"`
	Date           string       `json:"date"`
	Time           string       `json:"time"`
	Modality       string       `json:"modality"`
	Location       string       `json:"location"`
}

func (b appointmentBody) toRequest() appointment.CreateRequest {
	return appointment.CreateRequest{
		Client:         b.Client,
		ProcessID:      b.ProcessID,
		ReasonID:       b.ReasonID,
		PsychologistID: b.PsychologistID,
		Date:           b.Date,
		Time:           b.Time,
		Modality:       model.Modality(b.Modality),
		Location:       b.Location,
	}
}

func filtersFromQuery(c fiber.Ctx) appointment.Filters {
	return appointment.Filters{
		Search:         c.Query("search"),
		PsychologistID: c.Query("psychologistId"),
		ProcessID:      c.Query("processId"),
		ReasonID:       c.Query("reasonId"),
		Status:         model.AppointmentStatus(c.Query("status")),
		Date:           c.Query("date"),
	}
}

// GET /appointments
func (h *AppointmentHandler) List(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	appts, err := h.svc.List(c.Context(), actor)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	page := fiber.Query(c, "page", 1)
	pageSize := fiber.Query(c, "pageSize", 0)
	filters := filtersFromQuery(c)
	result := appointment.Query(appts, filters, page, pageSize)

	return ok(c, fiber.Map{
		"items":         result.Items,
		"page":          result.Page,
		"pageSize":      result.PageSize,
		"totalItems":    result.TotalItems,
		"totalPages":    result.TotalPages,
		"pageNumbers":   appointment.PageNumbers(result.Page, result.TotalPages),
		"activeFilters": filters.ActiveCount(),
	})
}

// GET /appointments/views/dashboard
func (h *AppointmentHandler) Dashboard(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	appts, err := h.svc.List(c.Context(), actor)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	today := model.Today()
	body := fiber.Map{
		"today":    appointment.TodayAppointments(appts, today),
		"upcoming": appointment.UpcomingAppointments(appts, today),
	}

	// Every role gets its (scoped) today/upcoming view; the office-wide
	// stats table is only for roles that may read stats.
	canStats, err := h.auth.Enforce(c.Context(), actor.Role, authorize.ResourceStats, authorize.ActionRead)
	if err != nil {
		return internalError(c)
	}
	if canStats {
		psychs, err := h.psychs.List(c.Context())
		if err != nil {
			return internalError(c)
		}
		body["stats"] = appointment.ComputeStats(appts, psychs)
	}

	return ok(c, body)
}

// GET /appointments/:id
func (h *AppointmentHandler) GetByID(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	appt, err := h.svc.GetByID(c.Context(), actor, c.Params("id"))
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appt)
}

// POST /appointments
func (h *AppointmentHandler) Create(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	var body appointmentBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	appt, err := h.svc.Create(c.Context(), actor, body.toRequest())
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return created(c, appt)
}

// PUT /appointments/:id
func (h *AppointmentHandler) Update(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	var body appointmentBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	appt, err := h.svc.Update(c.Context(), actor, c.Params("id"), body.toRequest())
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appt)
}

// PATCH /appointments/:id/status
func (h *AppointmentHandler) Transition(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	var body struct {
		Status             string `json:"status"`
		Diagnosis          string `json:"diagnosis"`
		Recommendations    string `json:"recommendations"`
		Conclusions        string `json:"conclusions"`
		CancellationReason string `json:"cancellationReason"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	var payload appointment.TransitionPayload
	switch model.AppointmentStatus(body.Status) {
	case model.StatusCompleted:
		payload = appointment.CompletionPayload{
			Diagnosis:       body.Diagnosis,
			Recommendations: body.Recommendations,
			Conclusions:     body.Conclusions,
		}
	case model.StatusCancelled:
		payload = appointment.CancellationPayload{Reason: body.CancellationReason}
	case model.StatusNoShow:
		payload = appointment.NoShowPayload{}
	default:
		return badRequest(c, "status must be completed, cancelled or no-show")
	}

	appt, err := h.svc.Transition(c.Context(), actor, c.Params("id"), payload)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appt)
}

// POST /appointments/:id/document
func (h *AppointmentHandler) UploadDocument(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	id := c.Params("id")

	// The completed-status gate runs again in AttachDocument; checking here
	// avoids uploading objects that can never be attached.
	appt, err := h.svc.GetByID(c.Context(), actor, id)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	if appt.Status != model.StatusCompleted {
		return mapAppointmentError(c, appointment.ErrNotCompleted)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "a file field is required")
	}

	doc, err := h.files.UploadDocument(c.Context(), actor, id, fh)
	if err != nil {
		switch {
		case errors.Is(err, file.ErrNotPDF), errors.Is(err, file.ErrEmptyFile):
			return badRequest(c, err.Error())
		case errors.Is(err, file.ErrTooLarge):
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": err.Error()})
		default:
			return internalError(c)
		}
	}

	updated, err := h.svc.AttachDocument(c.Context(), actor, id, *doc)
	if err != nil {
		// The object is orphaned if attach fails; clean it up best effort.
		_ = h.files.Remove(c.Context(), doc)
		return mapAppointmentError(c, err)
	}
	return ok(c, updated)
}

// GET /appointments/:id/document/url
func (h *AppointmentHandler) DocumentURL(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	appt, err := h.svc.GetByID(c.Context(), actor, c.Params("id"))
	if err != nil {
		return mapAppointmentError(c, err)
	}
	if appt.Document == nil {
		return notFound(c, "appointment has no document")
	}

	url, err := h.files.DownloadURL(c.Context(), appt.Document)
	if err != nil {
		return internalError(c)
	}
	return ok(c, fiber.Map{"url": url})
}

// DELETE /appointments/:id
func (h *AppointmentHandler) Delete(c fiber.Ctx) error {
	actor, okActor := middleware.ActorFromFiber(c)
	if !okActor {
		return unauthorized(c)
	}

	if err := h.svc.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return mapAppointmentError(c, err)
	}
	return noContent(c)
}
