package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arjun/clinicbook/internal/api"
)

func (a *App) handleDoctorApptsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
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
		return a, a.appts.FetchMine(api.RoleDoctor)
	case "a":
		a.status = ""
		return a, a.navigate(screenAvailability)
	case "esc":
		a.appts.ClearError()
		a.status = ""
		return a, nil
	case "L":
		return a, a.logout()
	}
	return a, nil
}

func (a *App) handleAvailabilityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.availAdding {
		return a.handleAvailFormKey(msg)
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "esc":
		a.avail.ClearError()
		return a, a.navigate(screenDoctorAppointments)
	case "up", "k":
		if a.availCursor > 0 {
			a.availCursor--
		}
		return a, nil
	case "down", "j":
		if a.availCursor < len(a.avail.Slots())-1 {
			a.availCursor++
		}
		return a, nil
	case "r":
		a.avail.ClearError()
		return a, a.avail.Fetch()
	case "a":
		a.availAdding = true
		a.avail.ClearError()
		a.availInputs[0].SetValue("")
		a.availInputs[1].SetValue("09:00")
		a.availInputs[2].SetValue("17:00")
		a.focusAvail(0)
		return a, nil
	case "x":
		slots := a.avail.Slots()
		if len(slots) == 0 || a.availCursor >= len(slots) {
			return a, nil
		}
		a.avail.ClearError()
		return a, a.avail.Delete(slots[a.availCursor].ID)
	case "L":
		return a, a.logout()
	}
	return a, nil
}

func (a *App) focusAvail(idx int) {
	a.availFocus = idx
	for i := range a.availInputs {
		if i == idx {
			a.availInputs[i].Focus()
		} else {
			a.availInputs[i].Blur()
		}
	}
}

func (a *App) handleAvailFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.availAdding = false
		a.availInputs[a.availFocus].Blur()
		return a, nil
	case "tab", "down":
		a.focusAvail((a.availFocus + 1) % len(a.availInputs))
		return a, nil
	case "shift+tab", "up":
		a.focusAvail((a.availFocus - 1 + len(a.availInputs)) % len(a.availInputs))
		return a, nil
	case "enter":
		date := strings.TrimSpace(a.availInputs[0].Value())
		start := strings.TrimSpace(a.availInputs[1].Value())
		end := strings.TrimSpace(a.availInputs[2].Value())
		if _, err := time.Parse("2006-01-02", date); err != nil {
			a.status = "Date must be YYYY-MM-DD"
			return a, nil
		}
		if !validClock(start) || !validClock(end) {
			a.status = "Times must be HH:MM"
			return a, nil
		}
		a.availAdding = false
		a.availInputs[a.availFocus].Blur()
		a.status = ""
		// The service expects a timestamp pinned to midday for rule dates.
		return a, a.avail.Add(api.SpecificSlotRequest{
			Date:      date + "T12:00:00.000Z",
			StartTime: start,
			EndTime:   end,
			Duration:  30,
		})
	}

	var cmd tea.Cmd
	a.availInputs[a.availFocus], cmd = a.availInputs[a.availFocus].Update(msg)
	return a, cmd
}

func validClock(v string) bool {
	_, err := time.Parse("15:04", v)
	return err == nil
}
