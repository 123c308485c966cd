package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arjun/clinicbook/internal/api"
)

func (a *App) focusLogin(idx int) {
	a.loginFocus = idx
	for i := range a.loginInputs {
		if i == idx {
			a.loginInputs[i].Focus()
		} else {
			a.loginInputs[i].Blur()
		}
	}
}

func (a *App) focusRegister(idx int) {
	a.regFocus = idx
	for i := range a.regInputs {
		if i == idx {
			a.regInputs[i].Focus()
		} else {
			a.regInputs[i].Blur()
		}
	}
}

func (a *App) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		a.session.ClearError()
		a.focusLogin((a.loginFocus + 1) % len(a.loginInputs))
		return a, nil
	case "shift+tab", "up":
		a.session.ClearError()
		a.focusLogin((a.loginFocus - 1 + len(a.loginInputs)) % len(a.loginInputs))
		return a, nil
	case "ctrl+r":
		a.session.ClearError()
		a.screen = screenRegister
		a.regRole = api.RolePatient
		for i := range a.regInputs {
			a.regInputs[i].SetValue("")
		}
		a.focusRegister(0)
		return a, nil
	case "enter":
		email := strings.TrimSpace(a.loginInputs[0].Value())
		password := a.loginInputs[1].Value()
		if email == "" || password == "" {
			a.status = "Enter email and password"
			return a, nil
		}
		a.status = ""
		return a, a.session.Login(email, password)
	}

	var cmd tea.Cmd
	a.loginInputs[a.loginFocus], cmd = a.loginInputs[a.loginFocus].Update(msg)
	return a, cmd
}

// register field order: name, email, password, specialty (doctors only).
const regSpecialtyIdx = 3

func (a *App) regFieldCount() int {
	if a.regRole == api.RoleDoctor {
		return len(a.regInputs)
	}
	return len(a.regInputs) - 1
}

func (a *App) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.session.ClearError()
		a.screen = screenLogin
		a.focusLogin(0)
		return a, nil
	case "tab", "down":
		a.session.ClearError()
		a.focusRegister((a.regFocus + 1) % a.regFieldCount())
		return a, nil
	case "shift+tab", "up":
		a.session.ClearError()
		a.focusRegister((a.regFocus - 1 + a.regFieldCount()) % a.regFieldCount())
		return a, nil
	case "ctrl+t":
		if a.regRole == api.RolePatient {
			a.regRole = api.RoleDoctor
		} else {
			a.regRole = api.RolePatient
			if a.regFocus == regSpecialtyIdx {
				a.focusRegister(0)
			}
		}
		return a, nil
	case "enter":
		reg := api.Registration{
			Name:      strings.TrimSpace(a.regInputs[0].Value()),
			Email:     strings.TrimSpace(a.regInputs[1].Value()),
			Password:  a.regInputs[2].Value(),
			Role:      a.regRole,
			Specialty: strings.TrimSpace(a.regInputs[regSpecialtyIdx].Value()),
		}
		if reg.Name == "" || reg.Email == "" || reg.Password == "" {
			a.status = "Name, email and password are required"
			return a, nil
		}
		a.status = ""
		return a, a.session.Register(reg)
	}

	var cmd tea.Cmd
	a.regInputs[a.regFocus], cmd = a.regInputs[a.regFocus].Update(msg)
	return a, cmd
}
