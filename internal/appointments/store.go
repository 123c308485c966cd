package appointments

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arjun/clinicbook/internal/api"
)

// Gateway is the slice of the appointment service this store needs.
type Gateway interface {
	PatientAppointments(ctx context.Context) ([]api.Appointment, error)
	DoctorAppointments(ctx context.Context) ([]api.Appointment, error)
	Book(ctx context.Context, req api.BookingRequest) (api.Appointment, error)
	Cancel(ctx context.Context, appointmentID string) error
}

// Store owns the appointment list for the current identity.
//
// Fetches and mutations may resolve in any order, so every fetch carries the
// mutation counter it was issued under. A response whose counter still matches
// replaces the list wholesale; a response that lost the race is merged on id
// instead: locally cancelled entries stay gone, locally booked entries stay
// present. The list is stored as received; display order is the screens' job.
type Store struct {
	gw  Gateway
	ctx context.Context

	list    []api.Appointment
	loading bool
	err     string

	mutation  uint64
	cancelled map[string]bool
}

func NewStore(ctx context.Context, gw Gateway) *Store {
	return &Store{gw: gw, ctx: ctx, cancelled: map[string]bool{}}
}

func (s *Store) List() []api.Appointment { return s.list }
func (s *Store) Loading() bool           { return s.loading }
func (s *Store) Err() string             { return s.err }
func (s *Store) ClearError()             { s.err = "" }

// Reset drops all state. Called on logout so the next identity never sees
// this one's appointments.
func (s *Store) Reset() {
	s.list = nil
	s.loading = false
	s.err = ""
	s.mutation = 0
	s.cancelled = map[string]bool{}
}

// FetchedMsg carries a list response tagged with the mutation counter that
// was current when the fetch went out.
type FetchedMsg struct {
	List     []api.Appointment
	Err      error
	mutation uint64
}

// BookedMsg carries the outcome of one booking call.
type BookedMsg struct {
	Appointment api.Appointment
	Err         error
}

// CancelledMsg carries the outcome of one cancellation call.
type CancelledMsg struct {
	ID  string
	Err error
}

// FetchMine loads the appointments visible to the given role.
func (s *Store) FetchMine(role api.Role) tea.Cmd {
	s.loading = true
	s.err = ""
	tag := s.mutation
	return func() tea.Msg {
		var (
			list []api.Appointment
			err  error
		)
		if role == api.RoleDoctor {
			list, err = s.gw.DoctorAppointments(s.ctx)
		} else {
			list, err = s.gw.PatientAppointments(s.ctx)
		}
		return FetchedMsg{List: list, Err: err, mutation: tag}
	}
}

// Book sends a creation request. There is no optimistic insert: conflicts are
// the service's call, and the appointment appears only once confirmed.
func (s *Store) Book(req api.BookingRequest) tea.Cmd {
	return func() tea.Msg {
		appt, err := s.gw.Book(s.ctx, req)
		return BookedMsg{Appointment: appt, Err: err}
	}
}

func (s *Store) Cancel(appointmentID string) tea.Cmd {
	return func() tea.Msg {
		return CancelledMsg{ID: appointmentID, Err: s.gw.Cancel(s.ctx, appointmentID)}
	}
}

// Apply folds a store message into state. Returns false for messages that
// belong to someone else.
func (s *Store) Apply(msg tea.Msg) bool {
	switch m := msg.(type) {
	case FetchedMsg:
		s.loading = false
		if m.Err != nil {
			// Stale-but-available beats blank: keep the previous list.
			s.err = m.Err.Error()
			return true
		}
		if m.mutation == s.mutation {
			s.list = m.List
			s.cancelled = map[string]bool{}
			return true
		}
		s.list = s.merge(m.List)
		return true
	case BookedMsg:
		if m.Err != nil {
			s.err = m.Err.Error()
			return true
		}
		s.insertFront(m.Appointment)
		s.mutation++
		delete(s.cancelled, m.Appointment.ID)
		return true
	case CancelledMsg:
		if m.Err != nil {
			s.err = m.Err.Error()
			if api.IsNotFound(m.Err) {
				// Already gone server-side; make sure it is gone here too.
				s.remove(m.ID)
				s.cancelled[m.ID] = true
				s.mutation++
			}
			return true
		}
		s.remove(m.ID)
		s.cancelled[m.ID] = true
		s.mutation++
		return true
	}
	return false
}

// merge reconciles a fetch response that lost a race against local mutations.
// Entries only known locally are kept (booked after the fetch went out);
// fetched entries are appended by id unless locally cancelled since.
func (s *Store) merge(fetched []api.Appointment) []api.Appointment {
	out := make([]api.Appointment, 0, len(s.list)+len(fetched))
	seen := make(map[string]bool, len(s.list))
	fetchedByID := make(map[string]bool, len(fetched))
	for _, a := range fetched {
		fetchedByID[a.ID] = true
	}
	for _, a := range s.list {
		if !fetchedByID[a.ID] {
			out = append(out, a)
			seen[a.ID] = true
		}
	}
	for _, a := range fetched {
		if s.cancelled[a.ID] || seen[a.ID] {
			continue
		}
		out = append(out, a)
		seen[a.ID] = true
	}
	return out
}

func (s *Store) insertFront(appt api.Appointment) {
	for _, a := range s.list {
		if a.ID == appt.ID {
			return
		}
	}
	s.list = append([]api.Appointment{appt}, s.list...)
}

func (s *Store) remove(id string) {
	out := s.list[:0]
	for _, a := range s.list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	s.list = out
}
