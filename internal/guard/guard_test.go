package guard

import (
	"testing"

	"github.com/arjun/clinicbook/internal/api"
	"github.com/arjun/clinicbook/internal/session"
)

func TestEvaluate(t *testing.T) {
	patient := &api.User{ID: "u1", Role: api.RolePatient}
	doctor := &api.User{ID: "u2", Role: api.RoleDoctor}

	tests := []struct {
		name         string
		st           session.State
		requiredRole api.Role
		wantPending  bool
		wantAllowed  bool
		wantRedirect Target
	}{
		{
			name: "uninitialized is pending, never a redirect",
			st:   session.State{},

			wantPending: true,
		},
		{
			name:         "uninitialized pending even for role screens",
			st:           session.State{},
			requiredRole: api.RolePatient,
			wantPending:  true,
		},
		{
			name:         "anonymous redirects to login",
			st:           session.State{Initialized: true},
			wantRedirect: TargetLogin,
		},
		{
			name:        "authenticated allowed on roleless screen",
			st:          session.State{Initialized: true, User: patient},
			wantAllowed: true,
		},
		{
			name:         "patient allowed on patient screen",
			st:           session.State{Initialized: true, User: patient},
			requiredRole: api.RolePatient,
			wantAllowed:  true,
		},
		{
			name:         "patient redirected from doctor screen to own home",
			st:           session.State{Initialized: true, User: patient},
			requiredRole: api.RoleDoctor,
			wantRedirect: TargetPatientHome,
		},
		{
			name:         "doctor redirected from patient screen to own home",
			st:           session.State{Initialized: true, User: doctor},
			requiredRole: api.RolePatient,
			wantRedirect: TargetDoctorHome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(tt.st, tt.requiredRole)
			if v.Pending() != tt.wantPending {
				t.Fatalf("Pending() = %v, want %v", v.Pending(), tt.wantPending)
			}
			if v.Allowed() != tt.wantAllowed {
				t.Fatalf("Allowed() = %v, want %v", v.Allowed(), tt.wantAllowed)
			}
			target, redirected := v.Redirect()
			if redirected != (tt.wantRedirect != "") {
				t.Fatalf("Redirect() = %v, want %v", redirected, tt.wantRedirect != "")
			}
			if redirected && target != tt.wantRedirect {
				t.Fatalf("redirect target = %q, want %q", target, tt.wantRedirect)
			}
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	st := session.State{Initialized: true, User: &api.User{ID: "u1", Role: api.RolePatient}}
	first := Evaluate(st, api.RoleDoctor)
	for i := 0; i < 3; i++ {
		if got := Evaluate(st, api.RoleDoctor); got != first {
			t.Fatalf("evaluation %d = %+v, want %+v", i, got, first)
		}
	}
}

func TestHomeFor(t *testing.T) {
	if got := HomeFor(api.RoleDoctor); got != TargetDoctorHome {
		t.Fatalf("HomeFor(doctor) = %q", got)
	}
	if got := HomeFor(api.RolePatient); got != TargetPatientHome {
		t.Fatalf("HomeFor(patient) = %q", got)
	}
}
