package availability

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arjun/clinicbook/internal/api"
)

// Gateway is the slice of the appointment service this store needs.
type Gateway interface {
	Availability(ctx context.Context) (api.Availability, error)
	AddSpecificSlot(ctx context.Context, req api.SpecificSlotRequest) error
	DeleteSpecificSlot(ctx context.Context, slotID string) error
}

// Store owns the calling doctor's declared availability rules. Mutations are
// confirmed by a refetch, matching how the service reports rule state.
type Store struct {
	gw  Gateway
	ctx context.Context

	slots   []api.SpecificSlot
	loading bool
	err     string
}

func NewStore(ctx context.Context, gw Gateway) *Store {
	return &Store{gw: gw, ctx: ctx}
}

func (s *Store) Slots() []api.SpecificSlot { return s.slots }
func (s *Store) Loading() bool             { return s.loading }
func (s *Store) Err() string               { return s.err }
func (s *Store) ClearError()               { s.err = "" }

func (s *Store) Reset() {
	s.slots = nil
	s.loading = false
	s.err = ""
}

// FetchedMsg carries the declared rules.
type FetchedMsg struct {
	Availability api.Availability
	Err          error
}

// MutatedMsg reports an add or delete; Added distinguishes the two for
// status text.
type MutatedMsg struct {
	Added bool
	Err   error
}

func (s *Store) Fetch() tea.Cmd {
	s.loading = true
	s.err = ""
	return func() tea.Msg {
		av, err := s.gw.Availability(s.ctx)
		return FetchedMsg{Availability: av, Err: err}
	}
}

func (s *Store) Add(req api.SpecificSlotRequest) tea.Cmd {
	return func() tea.Msg {
		return MutatedMsg{Added: true, Err: s.gw.AddSpecificSlot(s.ctx, req)}
	}
}

func (s *Store) Delete(slotID string) tea.Cmd {
	return func() tea.Msg {
		return MutatedMsg{Err: s.gw.DeleteSpecificSlot(s.ctx, slotID)}
	}
}

// Apply folds a store message into state. On a successful mutation the caller
// is expected to issue Fetch again; the store does not guess at server state.
func (s *Store) Apply(msg tea.Msg) bool {
	switch m := msg.(type) {
	case FetchedMsg:
		s.loading = false
		if m.Err != nil {
			s.err = m.Err.Error()
			return true
		}
		s.slots = m.Availability.SpecificSlots
		return true
	case MutatedMsg:
		if m.Err != nil {
			s.err = m.Err.Error()
		}
		return true
	}
	return false
}
