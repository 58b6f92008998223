package appointment

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ceprunsa/consultorio_backend/internal/model"
)

// The query engine is pure: it transforms an already-scoped in-memory
// appointment list into view-ready structures and never touches the store.

// PageSizes is the fixed option set for page sizes.
var PageSizes = []int{10, 25, 50, 100}

const defaultPageSize = 10

// Ellipsis is the gap token in a page-number display sequence.
const Ellipsis = "..."

// Filters is the conjunction of the optional criteria a list view can apply.
// Zero values impose no constraint.
type Filters struct {
	// Search matches case-insensitively against the client full name, or
	// as a plain substring against the client dni.
	Search         string
	PsychologistID string
	ProcessID      string
	ReasonID       string
	Status         model.AppointmentStatus
	Date           string // exact YYYY-MM-DD
}

// ActiveCount is the number of filter dimensions currently in use. Purely
// informational; it never changes what matches.
func (f Filters) ActiveCount() int {
	n := 0
	for _, s := range []string{f.Search, f.PsychologistID, f.ProcessID, f.ReasonID, string(f.Status), f.Date} {
		if s != "" {
			n++
		}
	}
	return n
}

// Matches reports whether the appointment satisfies every set criterion.
func (f Filters) Matches(a model.Appointment) bool {
	if f.Search != "" {
		name := strings.ToLower(a.Client.FullName)
		term := strings.ToLower(f.Search)
		if !strings.Contains(name, term) && !strings.Contains(a.Client.DNI, f.Search) {
			return false
		}
	}
	if f.PsychologistID != "" && a.PsychologistID != f.PsychologistID {
		return false
	}
	if f.ProcessID != "" && a.ProcessID != f.ProcessID {
		return false
	}
	if f.ReasonID != "" && a.ReasonID != f.ReasonID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Date != "" && a.Date != f.Date {
		return false
	}
	return true
}

// SortAppointments orders by date descending, then time ascending within a
// date. The fixed YYYY-MM-DD / HH:MM formats make string comparison
// chronological.
func SortAppointments(appts []model.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		if appts[i].Date != appts[j].Date {
			return appts[i].Date > appts[j].Date
		}
		return appts[i].Time < appts[j].Time
	})
}

// Page is one slice of a filtered, sorted appointment list.
type Page struct {
	Items      []model.Appointment
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// Query filters, sorts and paginates in one pass. page is 1-based; a page
// size outside PageSizes falls back to the default.
func Query(appts []model.Appointment, f Filters, page, pageSize int) Page {
	filtered := make([]model.Appointment, 0, len(appts))
	for _, a := range appts {
		if f.Matches(a) {
			filtered = append(filtered, a)
		}
	}
	SortAppointments(filtered)
	return paginate(filtered, page, pageSize)
}

func paginate(appts []model.Appointment, page, pageSize int) Page {
	if !validPageSize(pageSize) {
		pageSize = defaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(appts)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Items:      appts[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

func validPageSize(n int) bool {
	for _, s := range PageSizes {
		if n == s {
			return true
		}
	}
	return false
}

// PageNumbers is the compact display sequence for pagination controls: at
// most 7 tokens, each a page number or Ellipsis.
func PageNumbers(currentPage, totalPages int) []string {
	var pages []string
	push := func(n int) { pages = append(pages, strconv.Itoa(n)) }

	switch {
	case totalPages <= 5:
		for i := 1; i <= totalPages; i++ {
			push(i)
		}
	case currentPage <= 3:
		for i := 1; i <= 4; i++ {
			push(i)
		}
		pages = append(pages, Ellipsis)
		push(totalPages)
	case currentPage >= totalPages-2:
		push(1)
		pages = append(pages, Ellipsis)
		for i := totalPages - 3; i <= totalPages; i++ {
			push(i)
		}
	default:
		push(1)
		pages = append(pages, Ellipsis)
		for i := currentPage - 1; i <= currentPage+1; i++ {
			push(i)
		}
		pages = append(pages, Ellipsis)
		push(totalPages)
	}
	return pages
}

// TodayAppointments returns the appointments on the given calendar date,
// regardless of status.
func TodayAppointments(appts []model.Appointment, today string) []model.Appointment {
	out := make([]model.Appointment, 0)
	for _, a := range appts {
		if a.Date == today {
			out = append(out, a)
		}
	}
	return out
}

// UpcomingAppointments returns still-scheduled appointments after the given
// date, soonest first.
func UpcomingAppointments(appts []model.Appointment, today string) []model.Appointment {
	out := make([]model.Appointment, 0)
	for _, a := range appts {
		if a.Date > today && a.Status == model.StatusScheduled {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// StatRow is one psychologist's appointment breakdown.
type StatRow struct {
	Psychologist   model.Psychologist `json:"psychologist"`
	Completed      int                `json:"completed"`
	Scheduled      int                `json:"scheduled"`
	Cancelled      int                `json:"cancelled"`
	NoShow         int                `json:"noShow"`
	Total          int                `json:"total"`
	CompletionRate int                `json:"completionRate"` // percentage, 0 when there are no appointments
}

// ComputeStats partitions appointments per psychologist by status and
// orders psychologists by total appointment count descending (ties keep
// their relative order).
func ComputeStats(appts []model.Appointment, psychologists []model.Psychologist) []StatRow {
	rows := make([]StatRow, 0, len(psychologists))
	for _, p := range psychologists {
		row := StatRow{Psychologist: p}
		for _, a := range appts {
			if a.PsychologistID != p.ID {
				continue
			}
			row.Total++
			switch a.Status {
			case model.StatusCompleted:
				row.Completed++
			case model.StatusScheduled:
				row.Scheduled++
			case model.StatusCancelled:
				row.Cancelled++
			case model.StatusNoShow:
				row.NoShow++
			}
		}
		if row.Total > 0 {
			row.CompletionRate = int(float64(row.Completed)/float64(row.Total)*100 + 0.5)
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
	return rows
}
