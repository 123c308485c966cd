package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/arjun/clinicbook/internal/api"
	"github.com/arjun/clinicbook/internal/booking"
)

func (a *App) View() string {
	var body string
	switch a.screen {
	case screenLogin:
		body = a.renderLogin()
	case screenRegister:
		body = a.renderRegister()
	case screenPatientAppointments:
		body = a.renderAppointments("Your appointments", true)
	case screenBooking:
		body = a.renderBooking()
	case screenDoctorAppointments:
		body = a.renderAppointments("Booked with you", false)
	case screenAvailability:
		body = a.renderAvailability()
	default:
		body = a.spin.View() + " starting up..."
	}
	if a.status != "" {
		body += "\n\n" + okStyle.Render(a.status)
	}
	return body + "\n"
}

// formatDay renders a calendar day with the configured format. The service
// sends plain "2006-01-02" days in most places but full timestamps for
// availability rules; both are accepted.
func (a *App) formatDay(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, day); err != nil {
			return day
		}
	}
	format := a.cfg.UI.DateFormat
	if format == "" {
		format = "Mon 02 Jan"
	}
	return t.Format(format)
}

func (a *App) renderLogin() string {
	st := a.session.State()
	var b strings.Builder
	b.WriteString(titleStyle.Render("clinicbook") + "\n\n")
	b.WriteString(labelStyle.Render("Email") + "\n" + a.loginInputs[0].View() + "\n")
	b.WriteString(labelStyle.Render("Password") + "\n" + a.loginInputs[1].View() + "\n")
	if st.Err != "" {
		b.WriteString("\n" + errStyle.Render(st.Err) + "\n")
	}
	if st.Loading {
		b.WriteString("\n" + a.spin.View() + " signing in...\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter sign in · ctrl+r register · ctrl+c quit"))
	return boxStyle.Render(b.String())
}

func (a *App) renderRegister() string {
	st := a.session.State()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create account") + "\n\n")
	labels := []string{"Name", "Email", "Password", "Specialty"}
	for i, in := range a.regInputs {
		if i == regSpecialtyIdx && a.regRole != api.RoleDoctor {
			continue
		}
		b.WriteString(labelStyle.Render(labels[i]) + "\n" + in.View() + "\n")
	}
	b.WriteString("\n" + labelStyle.Render("Role: ") + string(a.regRole) + "\n")
	if st.Err != "" {
		b.WriteString("\n" + errStyle.Render(st.Err) + "\n")
	}
	if st.Loading {
		b.WriteString("\n" + a.spin.View() + " creating account...\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter submit · ctrl+t toggle role · esc back"))
	return boxStyle.Render(b.String())
}

func (a *App) renderAppointments(title string, patient bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n\n")

	list := a.appts.List()
	switch {
	case a.appts.Loading() && len(list) == 0:
		b.WriteString(a.spin.View() + " loading appointments...\n")
	case len(list) == 0:
		b.WriteString(labelStyle.Render("No appointments.") + "\n")
	default:
		for i, appt := range list {
			prefix := "  "
			if i == a.apptCursor {
				prefix = cursorStyle.Render("> ")
			}
			who := appt.Doctor.Name
			if !patient {
				who = appt.Patient.Name
			}
			line := fmt.Sprintf("%s  %s-%s  %s  (%d min)", a.formatDay(appt.Date), appt.StartTime, appt.EndTime, who, appt.Duration)
			if appt.Status == api.StatusCancelled {
				line = cancelledStyle.Render(line)
			}
			b.WriteString(prefix + line + "\n")
		}
	}

	// A failed refresh keeps the stale list on screen; the error is additive.
	if err := a.appts.Err(); err != "" {
		b.WriteString("\n" + errStyle.Render(err) + "\n")
	}

	help := "j/k move · r refresh · L logout · q quit"
	if patient {
		help = "b book · x cancel · " + help
	} else {
		help = "a availability · " + help
	}
	b.WriteString("\n" + helpStyle.Render(help))
	return boxStyle.Render(b.String())
}

func (a *App) renderBooking() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Book an appointment") + "\n")
	b.WriteString(a.renderStepIndicator() + "\n\n")

	switch a.wizard.Step() {
	case booking.StepChooseDoctor:
		b.WriteString(a.renderChooseDoctor())
	case booking.StepSelectDateTime:
		b.WriteString(a.renderSelectDateTime())
	case booking.StepConfirm:
		b.WriteString(a.renderConfirm())
	}
	return boxStyle.Render(b.String())
}

func (a *App) renderStepIndicator() string {
	steps := []string{"Choose Doctor", "Select Date & Time", "Confirm"}
	current := int(a.wizard.Step())
	parts := make([]string, len(steps))
	for i, s := range steps {
		switch {
		case i < current:
			parts[i] = okStyle.Render("✓ " + s)
		case i == current:
			parts[i] = selectedStyle.Render("● " + s)
		default:
			parts[i] = labelStyle.Render("○ " + s)
		}
	}
	return strings.Join(parts, labelStyle.Render("  ─  "))
}

func (a *App) renderChooseDoctor() string {
	var b strings.Builder
	if !a.wizard.RosterLoaded() {
		if err := a.wizard.Err(); err != "" {
			return errStyle.Render(err) + "\n\n" + helpStyle.Render("esc back")
		}
		return a.spin.View() + " loading doctors..."
	}

	if a.rosterFiltering {
		b.WriteString(a.rosterFilter.View() + "\n\n")
	}

	roster := a.visibleRoster()
	if len(roster) == 0 {
		b.WriteString(labelStyle.Render("No doctors available.") + "\n")
	}
	for i, doc := range roster {
		prefix := "  "
		if i == a.rosterCursor {
			prefix = cursorStyle.Render("> ")
		}
		line := "Dr. " + doc.Name
		if doc.Specialty != "" {
			line += labelStyle.Render("  " + doc.Specialty)
		}
		if a.wizard.LoadingSlots() && a.wizard.SelectedDoctor() != nil && a.wizard.SelectedDoctor().ID == doc.ID {
			line += "  " + a.spin.View()
		}
		b.WriteString(prefix + line + "\n")
	}

	if err := a.wizard.Err(); err != "" {
		b.WriteString("\n" + errStyle.Render(err) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter select · / filter · esc back"))
	return b.String()
}

func (a *App) renderSelectDateTime() string {
	var b strings.Builder
	doc := a.wizard.SelectedDoctor()
	if doc != nil {
		b.WriteString("Available dates for " + selectedStyle.Render("Dr. "+doc.Name) + "\n\n")
	}

	dates := a.wizard.Dates()
	if len(dates) == 0 {
		b.WriteString(labelStyle.Render("This doctor has no available dates.") + "\n")
		b.WriteString("\n" + helpStyle.Render("esc back"))
		return b.String()
	}

	cells := make([]string, len(dates))
	for i, d := range dates {
		cell := a.formatDay(d.Date)
		switch {
		case d.Date == a.wizard.SelectedDate():
			cell = selectedStyle.Render("[" + cell + "]")
		case i == a.dateCursor:
			cell = cursorStyle.Render(cell)
		default:
			cell = labelStyle.Render(cell)
		}
		cells[i] = cell
	}
	b.WriteString(strings.Join(cells, "  ") + "\n\n")

	if a.wizard.SelectedDate() != "" {
		b.WriteString("Times on " + a.formatDay(a.wizard.SelectedDate()) + "\n")
		for i, slot := range a.wizard.SlotsForSelectedDate() {
			prefix := "  "
			if i == a.slotCursor {
				prefix = cursorStyle.Render("> ")
			}
			line := slot.StartTime + " – " + slot.EndTime
			if sel := a.wizard.SelectedSlot(); sel != nil && *sel == slot {
				line = selectedStyle.Render(line + "  ✓")
			}
			b.WriteString(prefix + line + "\n")
		}
	} else {
		b.WriteString(labelStyle.Render("Pick a date to see its times.") + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("h/l date · j/k time · enter select · n next · esc back"))
	return b.String()
}

func (a *App) renderConfirm() string {
	var b strings.Builder
	doc := a.wizard.SelectedDoctor()
	slot := a.wizard.SelectedSlot()
	if doc == nil || slot == nil {
		return errStyle.Render("Selection incomplete.")
	}

	b.WriteString(labelStyle.Render("Doctor    ") + "Dr. " + doc.Name + "\n")
	if doc.Specialty != "" {
		b.WriteString(labelStyle.Render("Specialty ") + doc.Specialty + "\n")
	}
	b.WriteString(labelStyle.Render("Date      ") + a.formatDay(a.wizard.SelectedDate()) + "\n")
	b.WriteString(labelStyle.Render("Time      ") + slot.StartTime + " – " + slot.EndTime + "\n")
	b.WriteString(labelStyle.Render("Duration  ") + fmt.Sprintf("%d min", slot.Duration) + "\n\n")
	b.WriteString(labelStyle.Render("Notes") + "\n" + a.notesInput.View() + "\n")

	if err := a.appts.Err(); err != "" {
		b.WriteString("\n" + errStyle.Render(err) + "\n")
	}
	if a.submitting {
		b.WriteString("\n" + a.spin.View() + " booking...\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter confirm booking · esc back"))
	return b.String()
}

func (a *App) renderAvailability() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Manage availability") + "\n\n")

	if a.availAdding {
		labels := []string{"Date", "Start", "End"}
		for i, in := range a.availInputs {
			b.WriteString(labelStyle.Render(labels[i]) + "\n" + in.View() + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("enter add · tab next field · esc cancel"))
		return boxStyle.Render(b.String())
	}

	slots := a.avail.Slots()
	switch {
	case a.avail.Loading() && len(slots) == 0:
		b.WriteString(a.spin.View() + " loading availability...\n")
	case len(slots) == 0:
		b.WriteString(labelStyle.Render("No specific date slots added yet.") + "\n")
	default:
		for i, slot := range slots {
			prefix := "  "
			if i == a.availCursor {
				prefix = cursorStyle.Render("> ")
			}
			b.WriteString(prefix + fmt.Sprintf("%s  %s – %s", a.formatDay(slot.Date), slot.StartTime, slot.EndTime) + "\n")
		}
	}

	if err := a.avail.Err(); err != "" {
		b.WriteString("\n" + errStyle.Render(err) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("a add · x remove · j/k move · r refresh · esc back · L logout"))
	return boxStyle.Render(b.String())
}
