package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arjun/clinicbook/internal/api"
	"github.com/arjun/clinicbook/internal/appointments"
	"github.com/arjun/clinicbook/internal/availability"
	"github.com/arjun/clinicbook/internal/booking"
	"github.com/arjun/clinicbook/internal/config"
	"github.com/arjun/clinicbook/internal/guard"
	"github.com/arjun/clinicbook/internal/session"
)

// Gateway is everything the app needs from the appointment service.
// *api.Client satisfies it; tests substitute fakes.
type Gateway interface {
	session.Gateway
	appointments.Gateway
	availability.Gateway
	booking.Gateway
}

type screen int

const (
	screenLoading screen = iota
	screenLogin
	screenRegister
	screenPatientAppointments
	screenBooking
	screenDoctorAppointments
	screenAvailability
)

// requiredRole is the role a screen demands; empty admits any authenticated user.
func requiredRole(sc screen) api.Role {
	switch sc {
	case screenPatientAppointments, screenBooking:
		return api.RolePatient
	case screenDoctorAppointments, screenAvailability:
		return api.RoleDoctor
	default:
		return ""
	}
}

// App ties the stores, the wizard and the guard to the terminal.
type App struct {
	ctx context.Context
	cfg config.Config

	session *session.Store
	appts   *appointments.Store
	avail   *availability.Store
	wizard  *booking.Wizard

	screen screen
	width  int
	height int
	status string
	spin   spinner.Model

	loginInputs []textinput.Model
	loginFocus  int

	regInputs []textinput.Model
	regRole   api.Role
	regFocus  int

	apptCursor int

	rosterCursor    int
	rosterFilter    textinput.Model
	rosterFiltering bool
	dateCursor      int
	slotCursor      int
	notesInput      textinput.Model
	submitting      bool

	availCursor int
	availInputs []textinput.Model
	availFocus  int
	availAdding bool
}

func New(ctx context.Context, cfg config.Config, gw Gateway) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120

	regName := textinput.New()
	regName.Placeholder = "name"
	regEmail := textinput.New()
	regEmail.Placeholder = "email"
	regPassword := textinput.New()
	regPassword.Placeholder = "password"
	regPassword.EchoMode = textinput.EchoPassword
	regSpecialty := textinput.New()
	regSpecialty.Placeholder = "specialty"

	filter := textinput.New()
	filter.Placeholder = "filter doctors"
	notes := textinput.New()
	notes.Placeholder = "notes for the doctor (optional)"
	notes.CharLimit = 500

	availDate := textinput.New()
	availDate.Placeholder = "2026-01-02"
	availStart := textinput.New()
	availStart.Placeholder = "09:00"
	availEnd := textinput.New()
	availEnd.Placeholder = "17:00"

	a := &App{
		ctx:          ctx,
		cfg:          cfg,
		session:      session.NewStore(ctx, gw),
		appts:        appointments.NewStore(ctx, gw),
		avail:        availability.NewStore(ctx, gw),
		wizard:       booking.NewWizard(ctx, gw),
		screen:       screenLoading,
		spin:         sp,
		loginInputs:  []textinput.Model{email, password},
		regInputs:    []textinput.Model{regName, regEmail, regPassword, regSpecialty},
		regRole:      api.RolePatient,
		rosterFilter: filter,
		notesInput:   notes,
		availInputs:  []textinput.Model{availDate, availStart, availEnd},
		width:        100,
		height:       32,
	}
	a.loginInputs[0].Focus()
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, a.session.Restore())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.height = m.Height
		return a, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(m)
		return a, cmd
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.handleKey(m)
	}
	return a.handleResult(msg)
}

// handleResult routes asynchronous operation results to their owning store,
// then reacts to the new state.
func (a *App) handleResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case session.RestoredMsg:
		a.session.Apply(m)
		return a, a.route()
	case session.AuthDoneMsg:
		a.session.Apply(m)
		if m.Err != nil {
			return a, nil
		}
		return a, a.route()
	case session.LoggedOutMsg:
		a.session.Apply(m)
		return a, nil
	case appointments.FetchedMsg, appointments.CancelledMsg:
		a.appts.Apply(msg)
		a.clampApptCursor()
		return a, nil
	case appointments.BookedMsg:
		a.appts.Apply(m)
		a.submitting = false
		if a.screen == screenBooking && m.Err == nil {
			// Wizard complete: discard it and land on the appointment list.
			a.wizard.Reset()
			a.notesInput.SetValue("")
			a.notesInput.Blur()
			a.status = "Appointment booked"
			return a, a.navigate(screenPatientAppointments)
		}
		return a, nil
	case booking.RosterMsg, booking.SlotsMsg:
		a.wizard.Apply(msg)
		a.syncWizardCursors()
		return a, nil
	case availability.FetchedMsg:
		a.avail.Apply(m)
		if a.availCursor >= len(a.avail.Slots()) {
			a.availCursor = 0
		}
		return a, nil
	case availability.MutatedMsg:
		a.avail.Apply(m)
		if m.Err != nil {
			return a, nil
		}
		if m.Added {
			a.status = "Slot added"
		} else {
			a.status = "Slot removed"
		}
		return a, a.avail.Fetch()
	}
	return a, nil
}

// route lands the user on the right screen after the session settles.
func (a *App) route() tea.Cmd {
	st := a.session.State()
	v := guard.Evaluate(st, "")
	if v.Pending() {
		a.screen = screenLoading
		return nil
	}
	if _, redirected := v.Redirect(); redirected {
		a.screen = screenLogin
		a.focusLogin(0)
		return nil
	}
	return a.navigate(homeScreen(st.User.Role))
}

func homeScreen(role api.Role) screen {
	if role == api.RoleDoctor {
		return screenDoctorAppointments
	}
	return screenPatientAppointments
}

func screenForTarget(t guard.Target) screen {
	switch t {
	case guard.TargetDoctorHome:
		return screenDoctorAppointments
	case guard.TargetPatientHome:
		return screenPatientAppointments
	default:
		return screenLogin
	}
}

// navigate re-derives permission from session state on every attempt and only
// then enters the target screen.
func (a *App) navigate(target screen) tea.Cmd {
	v := guard.Evaluate(a.session.State(), requiredRole(target))
	if v.Pending() {
		a.screen = screenLoading
		return nil
	}
	if t, redirected := v.Redirect(); redirected {
		fallback := screenForTarget(t)
		if fallback == screenLogin {
			a.screen = screenLogin
			a.focusLogin(0)
			return nil
		}
		a.screen = fallback
		return a.enter(fallback)
	}
	a.screen = target
	return a.enter(target)
}

// enter runs a screen's on-entry work.
func (a *App) enter(sc screen) tea.Cmd {
	switch sc {
	case screenPatientAppointments:
		a.apptCursor = 0
		return a.appts.FetchMine(api.RolePatient)
	case screenDoctorAppointments:
		a.apptCursor = 0
		return a.appts.FetchMine(api.RoleDoctor)
	case screenBooking:
		a.wizard.Reset()
		a.rosterCursor = 0
		a.dateCursor = 0
		a.slotCursor = 0
		a.rosterFiltering = false
		a.rosterFilter.SetValue("")
		a.notesInput.SetValue("")
		return a.wizard.LoadRoster()
	case screenAvailability:
		a.availCursor = 0
		a.availAdding = false
		return a.avail.Fetch()
	}
	return nil
}

// logout tears down every per-identity store so the next login starts clean.
func (a *App) logout() tea.Cmd {
	cmd := a.session.Logout()
	a.appts.Reset()
	a.avail.Reset()
	a.wizard.Reset()
	a.status = ""
	a.screen = screenLogin
	a.focusLogin(0)
	return cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case screenLogin:
		return a.handleLoginKey(msg)
	case screenRegister:
		return a.handleRegisterKey(msg)
	case screenPatientAppointments:
		return a.handlePatientApptsKey(msg)
	case screenBooking:
		return a.handleBookingKey(msg)
	case screenDoctorAppointments:
		return a.handleDoctorApptsKey(msg)
	case screenAvailability:
		return a.handleAvailabilityKey(msg)
	}
	return a, nil
}

func (a *App) clampApptCursor() {
	if n := len(a.appts.List()); a.apptCursor >= n {
		a.apptCursor = max(0, n-1)
	}
}

func (a *App) syncWizardCursors() {
	if a.rosterCursor >= len(a.visibleRoster()) {
		a.rosterCursor = 0
	}
	if a.dateCursor >= len(a.wizard.Dates()) {
		a.dateCursor = 0
	}
	if a.slotCursor >= len(a.wizard.SlotsForSelectedDate()) {
		a.slotCursor = 0
	}
}

func (a *App) visibleRoster() []api.User {
	return booking.FilterRoster(a.wizard.Roster(), a.rosterFilter.Value())
}
