package booking

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arjun/clinicbook/internal/api"
)

// Step is the wizard's position in the booking flow.
type Step int

const (
	StepChooseDoctor Step = iota
	StepSelectDateTime
	StepConfirm
)

// Gateway is the slice of the appointment service the wizard needs.
type Gateway interface {
	Doctors(ctx context.Context) ([]api.User, error)
	DoctorDates(ctx context.Context, doctorID string) ([]api.AvailableDate, error)
}

// Wizard sequences doctor selection, availability discovery and confirmation.
//
// The one hazardous race lives here: the user can select doctor A, then B,
// before A's slot fetch resolves. Every selection bumps the generation counter
// before its fetch goes out, and a result whose tag no longer matches is
// dropped on arrival. The slot list shown therefore always belongs to the most
// recently selected doctor.
type Wizard struct {
	gw  Gateway
	ctx context.Context

	step         Step
	roster       []api.User
	rosterLoaded bool
	loadingSlots bool
	err          string

	selectedDoctor *api.User
	dates          []api.AvailableDate
	selectedDate   string
	selectedSlot   *api.Slot
	notes          string

	generation uint64
}

func NewWizard(ctx context.Context, gw Gateway) *Wizard {
	return &Wizard{gw: gw, ctx: ctx}
}

func (w *Wizard) Step() Step                    { return w.step }
func (w *Wizard) Roster() []api.User            { return w.roster }
func (w *Wizard) RosterLoaded() bool            { return w.rosterLoaded }
func (w *Wizard) LoadingSlots() bool            { return w.loadingSlots }
func (w *Wizard) Err() string                   { return w.err }
func (w *Wizard) ClearError()                   { w.err = "" }
func (w *Wizard) SelectedDoctor() *api.User     { return w.selectedDoctor }
func (w *Wizard) Dates() []api.AvailableDate    { return w.dates }
func (w *Wizard) SelectedDate() string          { return w.selectedDate }
func (w *Wizard) SelectedSlot() *api.Slot       { return w.selectedSlot }
func (w *Wizard) Notes() string                 { return w.notes }
func (w *Wizard) SetNotes(notes string)         { w.notes = notes }

// Reset returns the wizard to a fresh ChooseDoctor state. Bumping the
// generation orphans any fetch still in flight.
func (w *Wizard) Reset() {
	w.generation++
	w.step = StepChooseDoctor
	w.roster = nil
	w.rosterLoaded = false
	w.loadingSlots = false
	w.err = ""
	w.selectedDoctor = nil
	w.dates = nil
	w.selectedDate = ""
	w.selectedSlot = nil
	w.notes = ""
}

// RosterMsg carries the doctor roster loaded on wizard entry.
type RosterMsg struct {
	Doctors []api.User
	Err     error
}

// SlotsMsg carries one doctor's dates-with-slots, tagged with the generation
// current when the fetch was issued.
type SlotsMsg struct {
	DoctorID   string
	Dates      []api.AvailableDate
	Err        error
	generation uint64
}

// LoadRoster fetches the doctor roster. Called once on wizard entry.
func (w *Wizard) LoadRoster() tea.Cmd {
	return func() tea.Msg {
		doctors, err := w.gw.Doctors(w.ctx)
		return RosterMsg{Doctors: doctors, Err: err}
	}
}

// SelectDoctor starts the availability fetch for one doctor. Any earlier
// fetch still in flight is invalidated by the generation bump.
func (w *Wizard) SelectDoctor(doc api.User) tea.Cmd {
	w.generation++
	tag := w.generation
	d := doc
	w.selectedDoctor = &d
	w.loadingSlots = true
	w.err = ""
	w.dates = nil
	w.selectedDate = ""
	w.selectedSlot = nil
	return func() tea.Msg {
		dates, err := w.gw.DoctorDates(w.ctx, d.ID)
		return SlotsMsg{DoctorID: d.ID, Dates: dates, Err: err, generation: tag}
	}
}

// SelectDate picks a date out of the loaded dates. No network call: all slots
// arrived with the dates. Picking a date always clears the slot choice.
func (w *Wizard) SelectDate(date string) bool {
	if w.step != StepSelectDateTime {
		return false
	}
	for _, d := range w.dates {
		if d.Date == date {
			w.selectedDate = date
			w.selectedSlot = nil
			return true
		}
	}
	return false
}

// SelectSlot picks a slot from the selected date's slots.
func (w *Wizard) SelectSlot(slot api.Slot) bool {
	if w.step != StepSelectDateTime || w.selectedDate == "" {
		return false
	}
	for _, d := range w.dates {
		if d.Date != w.selectedDate {
			continue
		}
		for _, s := range d.Slots {
			if s == slot {
				w.selectedSlot = &s
				return true
			}
		}
	}
	return false
}

// SlotsForSelectedDate returns the slots of the currently selected date.
func (w *Wizard) SlotsForSelectedDate() []api.Slot {
	for _, d := range w.dates {
		if d.Date == w.selectedDate {
			return d.Slots
		}
	}
	return nil
}

// Next advances SelectDateTime -> Confirm. Confirm is unreachable without a
// selected slot; a rejected advance leaves state untouched.
func (w *Wizard) Next() bool {
	if w.step != StepSelectDateTime || w.selectedSlot == nil {
		return false
	}
	w.step = StepConfirm
	return true
}

// Back steps the wizard backwards. Leaving SelectDateTime abandons the doctor
// selection entirely; leaving Confirm keeps the date and slot.
func (w *Wizard) Back() {
	switch w.step {
	case StepSelectDateTime:
		w.generation++
		w.step = StepChooseDoctor
		w.selectedDoctor = nil
		w.dates = nil
		w.selectedDate = ""
		w.selectedSlot = nil
		w.loadingSlots = false
	case StepConfirm:
		w.step = StepSelectDateTime
	}
}

// BookingRequest assembles the confirmed selection for the appointment store.
func (w *Wizard) BookingRequest() (api.BookingRequest, error) {
	if w.step != StepConfirm || w.selectedDoctor == nil || w.selectedSlot == nil {
		return api.BookingRequest{}, errors.New("booking selection incomplete")
	}
	return api.BookingRequest{
		DoctorID:  w.selectedDoctor.ID,
		Date:      w.selectedDate,
		StartTime: w.selectedSlot.StartTime,
		EndTime:   w.selectedSlot.EndTime,
		Duration:  w.selectedSlot.Duration,
		Notes:     w.notes,
	}, nil
}

// Apply folds a wizard message into state. Returns false for messages that
// belong to someone else.
func (w *Wizard) Apply(msg tea.Msg) bool {
	switch m := msg.(type) {
	case RosterMsg:
		if m.Err != nil {
			w.err = m.Err.Error()
			return true
		}
		w.roster = m.Doctors
		w.rosterLoaded = true
		return true
	case SlotsMsg:
		if m.generation != w.generation {
			// A newer selection superseded this fetch. Drop it.
			return true
		}
		w.loadingSlots = false
		if m.Err != nil {
			// Stay on ChooseDoctor so the user can retry or pick another doctor.
			w.err = m.Err.Error()
			return true
		}
		w.dates = m.Dates
		w.step = StepSelectDateTime
		return true
	}
	return false
}
