// Package export renders appointment listings as Excel workbooks for office
// reporting. The export respects the caller's visibility and whatever
// filters the listing screen had applied.
package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ceprunsa/consultorio_backend/internal/model"
	"github.com/ceprunsa/consultorio_backend/internal/service/appointment"
)

const sheetName = "Citas"

var statusLabels = map[model.AppointmentStatus]string{
	model.StatusScheduled: "Programada",
	model.StatusCompleted: "Realizada",
	model.StatusCancelled: "Cancelada",
	model.StatusNoShow:    "No asistió",
}

var headers = []string{
	"Cliente", "DNI", "Situación", "Proceso", "Motivo",
	"Psicólogo(a)", "Fecha", "Hora", "Modalidad", "Lugar", "Estado",
}

type Service interface {
	// Appointments renders the filtered, sorted listing the actor is allowed
	// to see as an xlsx workbook.
	Appointments(ctx context.Context, actor model.Actor, filters appointment.Filters) ([]byte, error)
}

type exportService struct {
	appointments appointment.Service
}

func New(appointments appointment.Service) Service {
	return &exportService{appointments: appointments}
}

func (s *exportService) Appointments(ctx context.Context, actor model.Actor, filters appointment.Filters) ([]byte, error) {
	appts, err := s.appointments.List(ctx, actor)
	if err != nil {
		return nil, err
	}

	rows := make([]model.Appointment, 0, len(appts))
	for _, a := range appts {
		if filters.Matches(a) {
			rows = append(rows, a)
		}
	}
	appointment.SortAppointments(rows)

	return render(rows)
}

func render(appts []model.Appointment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDDDDD"}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, a := range appts {
		values := []any{
			a.Client.FullName,
			a.Client.DNI,
			situationLabel(a.Client.Situation),
			a.ProcessName,
			a.ReasonName,
			a.PsychologistName,
			a.Date,
			a.Time,
			modalityLabel(a.Modality),
			a.Location,
			statusLabel(a.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	// Reasonable default widths so the export opens readable.
	_ = f.SetColWidth(sheetName, "A", "A", 32)
	_ = f.SetColWidth(sheetName, "B", "K", 16)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func statusLabel(s model.AppointmentStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

func situationLabel(s model.ClientSituation) string {
	switch s {
	case model.SituationCeprunsa:
		return "CEPRUNSA"
	case model.SituationParticular:
		return "Particular"
	default:
		return string(s)
	}
}

func modalityLabel(m model.Modality) string {
	switch m {
	case model.ModalityPresential:
		return "Presencial"
	case model.ModalityVirtual:
		return "Virtual"
	default:
		return string(m)
	}
}
