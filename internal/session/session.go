package session

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arjun/clinicbook/internal/api"
)

// Gateway is the slice of the appointment service the session store needs.
type Gateway interface {
	Me(ctx context.Context) (api.User, error)
	Login(ctx context.Context, email, password string) (api.User, error)
	Register(ctx context.Context, reg api.Registration) (api.User, error)
	Logout(ctx context.Context) error
}

// State is the single authoritative answer to "who is logged in".
type State struct {
	User        *api.User
	Loading     bool
	Initialized bool
	Err         string
}

// LoggedIn reports whether an identity is present.
func (s State) LoggedIn() bool { return s.User != nil }

// Store owns State. Operations return commands; their results come back as
// messages that only Apply may fold into state, so the store stays the single
// writer no matter how calls interleave.
type Store struct {
	gw    Gateway
	ctx   context.Context
	state State
}

func NewStore(ctx context.Context, gw Gateway) *Store {
	return &Store{gw: gw, ctx: ctx}
}

func (s *Store) State() State { return s.state }

// RestoredMsg carries the result of the startup session probe.
type RestoredMsg struct {
	User api.User
	Err  error
}

// AuthDoneMsg carries the result of a login or registration call.
type AuthDoneMsg struct {
	User api.User
	Err  error
}

// LoggedOutMsg reports the best-effort server notification after a logout.
type LoggedOutMsg struct {
	Err error
}

// Restore probes the service for an existing session. Meant to run exactly
// once at startup; running it again is harmless but wasted.
func (s *Store) Restore() tea.Cmd {
	s.state.Loading = true
	return func() tea.Msg {
		user, err := s.gw.Me(s.ctx)
		return RestoredMsg{User: user, Err: err}
	}
}

func (s *Store) Login(email, password string) tea.Cmd {
	s.state.Loading = true
	s.state.Err = ""
	return func() tea.Msg {
		user, err := s.gw.Login(s.ctx, email, password)
		return AuthDoneMsg{User: user, Err: err}
	}
}

func (s *Store) Register(reg api.Registration) tea.Cmd {
	s.state.Loading = true
	s.state.Err = ""
	return func() tea.Msg {
		user, err := s.gw.Register(s.ctx, reg)
		return AuthDoneMsg{User: user, Err: err}
	}
}

// Logout clears the identity immediately: the user asked to be logged out and
// a flaky server must not hold that hostage. The service is told after.
func (s *Store) Logout() tea.Cmd {
	s.state.User = nil
	s.state.Err = ""
	return func() tea.Msg {
		return LoggedOutMsg{Err: s.gw.Logout(s.ctx)}
	}
}

func (s *Store) ClearError() { s.state.Err = "" }

// Apply folds a store message into state. Returns false for messages that
// belong to someone else.
func (s *Store) Apply(msg tea.Msg) bool {
	switch m := msg.(type) {
	case RestoredMsg:
		s.state.Loading = false
		s.state.Initialized = true
		if m.Err != nil {
			// No session is the normal logged-out outcome, not an error.
			s.state.User = nil
			return true
		}
		u := m.User
		s.state.User = &u
		return true
	case AuthDoneMsg:
		s.state.Loading = false
		if m.Err != nil {
			s.state.Err = m.Err.Error()
			return true
		}
		u := m.User
		s.state.User = &u
		s.state.Err = ""
		return true
	case LoggedOutMsg:
		// Identity was already cleared when Logout was issued.
		return true
	}
	return false
}
