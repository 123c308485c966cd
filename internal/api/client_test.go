package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api", 2*time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestStatusToKind(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusUnauthorized, KindAuth},
		{http.StatusNotFound, KindNotFound},
		{http.StatusBadRequest, KindValidation},
		{http.StatusConflict, KindValidation},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusInternalServerError, KindNetwork},
		{http.StatusBadGateway, KindNetwork},
	}

	for _, tt := range tests {
		status := tt.status
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, map[string]string{"message": "nope"})
		}))
		_, err := c.Me(context.Background())
		if got := KindOf(err); got != tt.want {
			t.Fatalf("status %d mapped to %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestServerMessagePreferredOverFallback(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Slot already booked"})
	}))
	_, err := c.Book(context.Background(), BookingRequest{})
	if err == nil || err.Error() != "Slot already booked" {
		t.Fatalf("err = %v, want the server message", err)
	}
}

func TestFallbackMessageWhenBodyUnusable(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>oops</html>"))
	}))
	_, err := c.Book(context.Background(), BookingRequest{})
	if err == nil || err.Error() != "Failed to book appointment" {
		t.Fatalf("err = %v, want the operation fallback", err)
	}
}

func TestUnreachableServiceIsNetworkError(t *testing.T) {
	c, err := New("http://127.0.0.1:1/api", 200*time.Millisecond, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Me(context.Background())
	if KindOf(err) != KindNetwork {
		t.Fatalf("err = %v, want a network failure", err)
	}
}

func TestLoginCarriesSessionCookie(t *testing.T) {
	var sawCookie bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "alice@example.com" || body["password"] != "hunter2" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok-1", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]any{
			"user": map[string]any{"_id": "u1", "name": "Alice", "email": "alice@example.com", "role": "patient"},
		})
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("session")
		if err != nil || ck.Value != "tok-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
			return
		}
		sawCookie = true
		writeJSON(w, http.StatusOK, map[string]any{
			"user": map[string]any{"_id": "u1", "name": "Alice", "email": "alice@example.com", "role": "patient"},
		})
	})
	c := newTestClient(t, mux)

	user, err := c.Login(context.Background(), "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != "u1" || user.Role != RolePatient {
		t.Fatalf("user = %+v", user)
	}

	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me after login: %v", err)
	}
	if !sawCookie {
		t.Fatal("session cookie not replayed")
	}
}

func TestRegisterStripsSpecialtyForPatients(t *testing.T) {
	var bodies []map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		bodies = append(bodies, body)
		writeJSON(w, http.StatusCreated, map[string]any{
			"user": map[string]any{"_id": "u2", "role": body["role"]},
		})
	}))

	reg := Registration{Name: "Bob", Email: "bob@example.com", Password: "pw", Role: RolePatient, Specialty: "Cardiology"}
	if _, err := c.Register(context.Background(), reg); err != nil {
		t.Fatalf("Register patient: %v", err)
	}
	reg.Role = RoleDoctor
	if _, err := c.Register(context.Background(), reg); err != nil {
		t.Fatalf("Register doctor: %v", err)
	}

	if _, ok := bodies[0]["specialty"]; ok {
		t.Fatal("patient registration carried a specialty")
	}
	if got := bodies[1]["specialty"]; got != "Cardiology" {
		t.Fatalf("doctor specialty = %v, want Cardiology", got)
	}
}

func TestBookPayloadAndResponse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/patient/appointments" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["doctorId"] != "d1" || body["date"] != "2026-09-01" || body["duration"] != float64(30) {
			t.Errorf("body = %v", body)
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"appointment": map[string]any{
				"_id":       "a1",
				"doctorId":  map[string]any{"_id": "d1", "name": "Asha Rao"},
				"date":      "2026-09-01",
				"startTime": "09:00",
				"endTime":   "09:30",
				"duration":  30,
				"status":    "confirmed",
			},
		})
	}))

	appt, err := c.Book(context.Background(), BookingRequest{
		DoctorID: "d1", Date: "2026-09-01", StartTime: "09:00", EndTime: "09:30", Duration: 30,
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if appt.ID != "a1" || appt.Doctor.Name != "Asha Rao" || appt.Status != StatusConfirmed {
		t.Fatalf("appointment = %+v", appt)
	}
}

func TestCancelHitsDeleteEndpoint(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment cancelled"})
	}))

	if err := c.Cancel(context.Background(), "a1"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/patient/appointments/a1" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
}

func TestDoctorDatesDecoding(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/patient/doctors/d1/dates" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"dates": []map[string]any{
				{"date": "2026-09-01", "slots": []map[string]any{
					{"startTime": "09:00", "endTime": "09:30", "duration": 30},
				}},
			},
		})
	}))

	dates, err := c.DoctorDates(context.Background(), "d1")
	if err != nil {
		t.Fatalf("DoctorDates: %v", err)
	}
	if len(dates) != 1 || len(dates[0].Slots) != 1 || dates[0].Slots[0].StartTime != "09:00" {
		t.Fatalf("dates = %+v", dates)
	}
}
