package booking

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arjun/clinicbook/internal/api"
)

type fakeGateway struct {
	doctors    []api.User
	doctorsErr error
	dates      map[string][]api.AvailableDate
	datesErr   map[string]error
}

func (f *fakeGateway) Doctors(ctx context.Context) ([]api.User, error) {
	return f.doctors, f.doctorsErr
}

func (f *fakeGateway) DoctorDates(ctx context.Context, doctorID string) ([]api.AvailableDate, error) {
	if err := f.datesErr[doctorID]; err != nil {
		return nil, err
	}
	return f.dates[doctorID], nil
}

var (
	drA = api.User{ID: "d1", Name: "Asha Rao", Role: api.RoleDoctor}
	drB = api.User{ID: "d2", Name: "Ben Okafor", Role: api.RoleDoctor}

	slot9  = api.Slot{StartTime: "09:00", EndTime: "09:30", Duration: 30}
	slot10 = api.Slot{StartTime: "10:00", EndTime: "10:30", Duration: 30}
)

func newTestWizard(gw *fakeGateway) *Wizard {
	return NewWizard(context.Background(), gw)
}

func applyCmd(t *testing.T, w *Wizard, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if !w.Apply(msg) {
		t.Fatalf("Apply did not claim %T", msg)
	}
	return msg
}

func TestLoadRoster(t *testing.T) {
	gw := &fakeGateway{doctors: []api.User{drA, drB}}
	w := newTestWizard(gw)

	applyCmd(t, w, w.LoadRoster())
	if !w.RosterLoaded() {
		t.Fatal("roster not marked loaded")
	}
	if len(w.Roster()) != 2 {
		t.Fatalf("roster = %d doctors, want 2", len(w.Roster()))
	}
}

func TestLoadRosterError(t *testing.T) {
	gw := &fakeGateway{doctorsErr: errors.New("Failed to load doctors")}
	w := newTestWizard(gw)

	applyCmd(t, w, w.LoadRoster())
	if w.RosterLoaded() {
		t.Fatal("roster marked loaded despite error")
	}
	if w.Err() == "" {
		t.Fatal("error not surfaced")
	}
}

func TestSelectDoctorAdvancesOnSlots(t *testing.T) {
	gw := &fakeGateway{dates: map[string][]api.AvailableDate{
		"d1": {{Date: "2026-09-01", Slots: []api.Slot{slot9, slot10}}},
	}}
	w := newTestWizard(gw)

	applyCmd(t, w, w.SelectDoctor(drA))
	if w.Step() != StepSelectDateTime {
		t.Fatalf("step = %v, want StepSelectDateTime", w.Step())
	}
	if w.LoadingSlots() {
		t.Fatal("still loading after slots arrived")
	}
	if len(w.Dates()) != 1 {
		t.Fatalf("dates = %d, want 1", len(w.Dates()))
	}
}

func TestSelectDoctorErrorStaysOnChooser(t *testing.T) {
	gw := &fakeGateway{datesErr: map[string]error{"d1": errors.New("Failed to load available dates")}}
	w := newTestWizard(gw)

	applyCmd(t, w, w.SelectDoctor(drA))
	if w.Step() != StepChooseDoctor {
		t.Fatalf("step = %v, want StepChooseDoctor", w.Step())
	}
	if w.Err() == "" {
		t.Fatal("error not surfaced")
	}
}

// The user picks doctor A, then doctor B before A's fetch resolves. B's
// response lands first; A's arrives late and must be dropped, whatever order
// the two responses come back in.
func TestLateSlotsForSupersededDoctorAreDropped(t *testing.T) {
	gw := &fakeGateway{dates: map[string][]api.AvailableDate{
		"d1": {{Date: "2026-09-01", Slots: []api.Slot{slot9}}},
		"d2": {{Date: "2026-09-02", Slots: []api.Slot{slot10}}},
	}}
	w := newTestWizard(gw)

	cmdA := w.SelectDoctor(drA)
	cmdB := w.SelectDoctor(drB)

	applyCmd(t, w, cmdB)
	if w.Step() != StepSelectDateTime {
		t.Fatalf("step = %v, want StepSelectDateTime", w.Step())
	}

	// A's fetch resolves after B already won.
	if !w.Apply(cmdA()) {
		t.Fatal("stale slots message not claimed")
	}
	if got := w.Dates()[0].Date; got != "2026-09-02" {
		t.Fatalf("dates belong to %q, want doctor B's 2026-09-02", got)
	}
	if w.SelectedDoctor().ID != "d2" {
		t.Fatalf("selected doctor = %s, want d2", w.SelectedDoctor().ID)
	}
	if w.LoadingSlots() {
		t.Fatal("loading after the winning fetch settled")
	}
}

func TestStaleSlotsBeforeFreshOnes(t *testing.T) {
	gw := &fakeGateway{dates: map[string][]api.AvailableDate{
		"d1": {{Date: "2026-09-01", Slots: []api.Slot{slot9}}},
		"d2": {{Date: "2026-09-02", Slots: []api.Slot{slot10}}},
	}}
	w := newTestWizard(gw)

	cmdA := w.SelectDoctor(drA)
	cmdB := w.SelectDoctor(drB)

	// A resolves first but was already superseded by the second selection.
	w.Apply(cmdA())
	if w.Step() != StepChooseDoctor {
		t.Fatalf("stale slots advanced the step to %v", w.Step())
	}

	applyCmd(t, w, cmdB)
	if got := w.Dates()[0].Date; got != "2026-09-02" {
		t.Fatalf("dates belong to %q, want 2026-09-02", got)
	}
}

func TestResetOrphansInflightFetch(t *testing.T) {
	gw := &fakeGateway{dates: map[string][]api.AvailableDate{
		"d1": {{Date: "2026-09-01", Slots: []api.Slot{slot9}}},
	}}
	w := newTestWizard(gw)

	cmd := w.SelectDoctor(drA)
	w.Reset()
	w.Apply(cmd())

	if w.Step() != StepChooseDoctor {
		t.Fatalf("step = %v after reset, want StepChooseDoctor", w.Step())
	}
	if w.Dates() != nil || w.SelectedDoctor() != nil {
		t.Fatal("orphaned fetch leaked state past Reset")
	}
}

func TestBackFromDateTimeAbandonsDoctor(t *testing.T) {
	gw := &fakeGateway{dates: map[string][]api.AvailableDate{
		"d1": {{Date: "2026-09-01", Slots: []api.Slot{slot9}}},
	}}
	w := newTestWizard(gw)
	applyCmd(t, w, w.SelectDoctor(drA))

	w.Back()
	if w.Step() != StepChooseDoctor {
		t.Fatalf("step = %v, want StepChooseDoctor", w.Step())
	}
	if w.SelectedDoctor() != nil || w.Dates() != nil {
		t.Fatal("doctor selection survived Back")
	}

	// A re-selection issued before Back must not land afterwards.
	cmd := w.SelectDoctor(drA)
	w.Back()
	w.Apply(cmd())
	if w.Dates() != nil {
		t.Fatal("fetch issued before Back still landed")
	}
}

func TestSelectDateClearsSlotChoice(t *testing.T) {
	gw := &fakeGateway{dates: map[string][]api.AvailableDate{
		"d1": {
			{Date: "2026-09-01", Slots: []api.Slot{slot9}},
			{Date: "2026-09-02", Slots: []api.Slot{slot10}},
		},
	}}
	w := newTestWizard(gw)
	applyCmd(t, w, w.SelectDoctor(drA))

	if !w.SelectDate("2026-09-01") {
		t.Fatal("SelectDate rejected a listed date")
	}
	if !w.SelectSlot(slot9) {
		t.Fatal("SelectSlot rejected a listed slot")
	}
	if !w.SelectDate("2026-09-02") {
		t.Fatal("SelectDate rejected the second date")
	}
	if w.SelectedSlot() != nil {
		t.Fatal("slot choice survived a date change")
	}
	if w.SelectSlot(slot9) {
		t.Fatal("SelectSlot accepted a slot from another date")
	}
	if w.SelectDate("2026-09-03") {
		t.Fatal("SelectDate accepted an unlisted date")
	}
}

func TestNextRequiresSelectedSlot(t *testing.T) {
	gw := &fakeGateway{dates: map[string][]api.AvailableDate{
		"d1": {{Date: "2026-09-01", Slots: []api.Slot{slot9}}},
	}}
	w := newTestWizard(gw)
	applyCmd(t, w, w.SelectDoctor(drA))

	if w.Next() {
		t.Fatal("advanced to Confirm without a slot")
	}
	w.SelectDate("2026-09-01")
	if w.Next() {
		t.Fatal("advanced to Confirm with only a date")
	}
	w.SelectSlot(slot9)
	if !w.Next() {
		t.Fatal("refused to advance with a full selection")
	}
	if w.Step() != StepConfirm {
		t.Fatalf("step = %v, want StepConfirm", w.Step())
	}
}

func TestBackFromConfirmKeepsSelection(t *testing.T) {
	gw := &fakeGateway{dates: map[string][]api.AvailableDate{
		"d1": {{Date: "2026-09-01", Slots: []api.Slot{slot9}}},
	}}
	w := newTestWizard(gw)
	applyCmd(t, w, w.SelectDoctor(drA))
	w.SelectDate("2026-09-01")
	w.SelectSlot(slot9)
	w.Next()

	w.Back()
	if w.Step() != StepSelectDateTime {
		t.Fatalf("step = %v, want StepSelectDateTime", w.Step())
	}
	if w.SelectedDate() != "2026-09-01" || w.SelectedSlot() == nil {
		t.Fatal("selection lost stepping back from Confirm")
	}
}

func TestBookingRequest(t *testing.T) {
	gw := &fakeGateway{dates: map[string][]api.AvailableDate{
		"d1": {{Date: "2026-09-01", Slots: []api.Slot{slot9}}},
	}}
	w := newTestWizard(gw)
	applyCmd(t, w, w.SelectDoctor(drA))

	if _, err := w.BookingRequest(); err == nil {
		t.Fatal("BookingRequest succeeded before Confirm")
	}

	w.SelectDate("2026-09-01")
	w.SelectSlot(slot9)
	w.Next()
	w.SetNotes("knee pain")

	req, err := w.BookingRequest()
	if err != nil {
		t.Fatalf("BookingRequest: %v", err)
	}
	want := api.BookingRequest{
		DoctorID:  "d1",
		Date:      "2026-09-01",
		StartTime: "09:00",
		EndTime:   "09:30",
		Duration:  30,
		Notes:     "knee pain",
	}
	if req != want {
		t.Fatalf("request = %+v, want %+v", req, want)
	}
}
