package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/arjun/clinicbook/internal/api"
	"github.com/arjun/clinicbook/internal/booking"
)

func (a *App) handlePatientApptsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.apptCursor > 0 {
			a.apptCursor--
		}
		return a, nil
	case "down", "j":
		if a.apptCursor < len(a.appts.List())-1 {
			a.apptCursor++
		}
		return a, nil
	case "r":
		a.appts.ClearError()
		return a, a.appts.FetchMine(api.RolePatient)
	case "b":
		a.status = ""
		return a, a.navigate(screenBooking)
	case "x":
		list := a.appts.List()
		if len(list) == 0 || a.apptCursor >= len(list) {
			return a, nil
		}
		a.appts.ClearError()
		a.status = "Cancelling..."
		return a, a.appts.Cancel(list[a.apptCursor].ID)
	case "esc":
		a.appts.ClearError()
		a.status = ""
		return a, nil
	case "L":
		return a, a.logout()
	}
	return a, nil
}

func (a *App) handleBookingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.wizard.Step() {
	case booking.StepChooseDoctor:
		return a.handleChooseDoctorKey(msg)
	case booking.StepSelectDateTime:
		return a.handleSelectDateTimeKey(msg)
	case booking.StepConfirm:
		return a.handleConfirmKey(msg)
	}
	return a, nil
}

func (a *App) handleChooseDoctorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.rosterFiltering {
		switch msg.String() {
		case "esc":
			a.rosterFiltering = false
			a.rosterFilter.Blur()
			a.rosterFilter.SetValue("")
			a.rosterCursor = 0
			return a, nil
		case "enter":
			a.rosterFiltering = false
			a.rosterFilter.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.rosterFilter, cmd = a.rosterFilter.Update(msg)
		a.rosterCursor = 0
		return a, cmd
	}

	switch msg.String() {
	case "esc":
		a.wizard.Reset()
		return a, a.navigate(screenPatientAppointments)
	case "/":
		a.rosterFiltering = true
		a.rosterFilter.Focus()
		return a, nil
	case "up", "k":
		if a.rosterCursor > 0 {
			a.rosterCursor--
		}
		return a, nil
	case "down", "j":
		if a.rosterCursor < len(a.visibleRoster())-1 {
			a.rosterCursor++
		}
		return a, nil
	case "enter":
		roster := a.visibleRoster()
		if len(roster) == 0 || a.rosterCursor >= len(roster) {
			return a, nil
		}
		// Selecting again mid-fetch is allowed: the newer selection wins.
		return a, a.wizard.SelectDoctor(roster[a.rosterCursor])
	}
	return a, nil
}

func (a *App) handleSelectDateTimeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dates := a.wizard.Dates()
	slots := a.wizard.SlotsForSelectedDate()

	switch msg.String() {
	case "esc":
		a.wizard.Back()
		a.rosterCursor = 0
		return a, nil
	case "left", "h":
		if a.dateCursor > 0 {
			a.dateCursor--
		}
		return a, nil
	case "right", "l":
		if a.dateCursor < len(dates)-1 {
			a.dateCursor++
		}
		return a, nil
	case "up", "k":
		if a.slotCursor > 0 {
			a.slotCursor--
		}
		return a, nil
	case "down", "j":
		if a.slotCursor < len(slots)-1 {
			a.slotCursor++
		}
		return a, nil
	case "enter":
		if a.wizard.SelectedDate() == "" || a.dateCursorDate() != a.wizard.SelectedDate() {
			if a.dateCursor < len(dates) {
				a.wizard.SelectDate(dates[a.dateCursor].Date)
				a.slotCursor = 0
			}
			return a, nil
		}
		if a.slotCursor < len(slots) {
			a.wizard.SelectSlot(slots[a.slotCursor])
		}
		return a, nil
	case "n":
		if a.wizard.Next() {
			a.notesInput.Focus()
		}
		return a, nil
	}
	return a, nil
}

func (a *App) dateCursorDate() string {
	dates := a.wizard.Dates()
	if a.dateCursor < len(dates) {
		return dates[a.dateCursor].Date
	}
	return ""
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if a.submitting {
			return a, nil
		}
		a.appts.ClearError()
		a.notesInput.Blur()
		a.wizard.Back()
		return a, nil
	case "enter":
		if a.submitting {
			return a, nil
		}
		a.wizard.SetNotes(a.notesInput.Value())
		req, err := a.wizard.BookingRequest()
		if err != nil {
			return a, nil
		}
		a.submitting = true
		a.appts.ClearError()
		return a, a.appts.Book(req)
	}

	var cmd tea.Cmd
	a.notesInput, cmd = a.notesInput.Update(msg)
	return a, cmd
}
