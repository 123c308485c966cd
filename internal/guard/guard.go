// Package guard derives navigation permission from session state. It holds no
// state of its own: Evaluate is a pure function, re-run on every navigation.
package guard

import (
	"github.com/arjun/clinicbook/internal/api"
	"github.com/arjun/clinicbook/internal/session"
)

// Target names a navigation destination for redirects.
type Target string

const (
	TargetLogin       Target = "login"
	TargetPatientHome Target = "patient_home"
	TargetDoctorHome  Target = "doctor_home"
)

// Verdict is the outcome of one guard evaluation.
type Verdict struct {
	kind   verdictKind
	target Target
}

type verdictKind int

const (
	kindPending verdictKind = iota
	kindAllow
	kindRedirect
)

// Pending means the session probe hasn't settled; render a neutral waiting
// state, never a redirect, or the login screen flashes during restore.
func (v Verdict) Pending() bool { return v.kind == kindPending }

// Allowed means the screen may be entered.
func (v Verdict) Allowed() bool { return v.kind == kindAllow }

// Redirect returns the redirect target, if any.
func (v Verdict) Redirect() (Target, bool) {
	return v.target, v.kind == kindRedirect
}

// Evaluate decides whether a screen guarded by requiredRole may be entered.
// An empty requiredRole admits any authenticated identity.
func Evaluate(st session.State, requiredRole api.Role) Verdict {
	if !st.Initialized {
		return Verdict{kind: kindPending}
	}
	if st.User == nil {
		return Verdict{kind: kindRedirect, target: TargetLogin}
	}
	if requiredRole != "" && st.User.Role != requiredRole {
		return Verdict{kind: kindRedirect, target: HomeFor(st.User.Role)}
	}
	return Verdict{kind: kindAllow}
}

// HomeFor maps a role to its landing screen.
func HomeFor(role api.Role) Target {
	if role == api.RoleDoctor {
		return TargetDoctorHome
	}
	return TargetPatientHome
}
