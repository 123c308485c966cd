package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Client talks to the appointment service. The session credential is a cookie
// set by the auth endpoints, carried by the client's jar on every call.
type Client struct {
	base *url.URL
	http *http.Client
	log  zerolog.Logger
}

// New builds a Client for the given base URL, e.g. "http://localhost:5000/api".
func New(baseURL string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout, Jar: jar},
		log:  log,
	}, nil
}

// Me returns the identity behind the current session cookie.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := c.do(ctx, "me", http.MethodGet, "/auth/me", nil, &out, "Not authenticated")
	return out.User, err
}

func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	body := map[string]string{"email": email, "password": password}
	var out struct {
		User User `json:"user"`
	}
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", body, &out, "Login failed")
	return out.User, err
}

func (c *Client) Register(ctx context.Context, reg Registration) (User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := c.do(ctx, "register", http.MethodPost, "/auth/register", reg.payload(), &out, "Registration failed")
	return out.User, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/auth/logout", nil, nil, "Logout failed")
}

// Doctors lists the bookable roster.
func (c *Client) Doctors(ctx context.Context) ([]User, error) {
	var out struct {
		Doctors []User `json:"doctors"`
	}
	err := c.do(ctx, "doctors", http.MethodGet, "/patient/doctors", nil, &out, "Failed to load doctors")
	return out.Doctors, err
}

// DoctorDates returns every available date for one doctor with all slots
// pre-resolved, so date and slot picking need no further calls.
func (c *Client) DoctorDates(ctx context.Context, doctorID string) ([]AvailableDate, error) {
	var out struct {
		Dates []AvailableDate `json:"dates"`
	}
	path := "/patient/doctors/" + url.PathEscape(doctorID) + "/dates"
	err := c.do(ctx, "doctor_dates", http.MethodGet, path, nil, &out, "Failed to load available dates")
	return out.Dates, err
}

func (c *Client) PatientAppointments(ctx context.Context) ([]Appointment, error) {
	var out struct {
		Appointments []Appointment `json:"appointments"`
	}
	err := c.do(ctx, "patient_appointments", http.MethodGet, "/patient/appointments", nil, &out, "Failed to load appointments")
	return out.Appointments, err
}

func (c *Client) DoctorAppointments(ctx context.Context) ([]Appointment, error) {
	var out struct {
		Appointments []Appointment `json:"appointments"`
	}
	err := c.do(ctx, "doctor_appointments", http.MethodGet, "/doctor/appointments", nil, &out, "Failed to load appointments")
	return out.Appointments, err
}

// Book creates an appointment. Conflicts are the service's call; the created
// appointment only exists once this returns it.
func (c *Client) Book(ctx context.Context, req BookingRequest) (Appointment, error) {
	var out struct {
		Appointment Appointment `json:"appointment"`
	}
	err := c.do(ctx, "book", http.MethodPost, "/patient/appointments", req, &out, "Failed to book appointment")
	return out.Appointment, err
}

func (c *Client) Cancel(ctx context.Context, appointmentID string) error {
	path := "/patient/appointments/" + url.PathEscape(appointmentID)
	return c.do(ctx, "cancel", http.MethodDelete, path, nil, nil, "Failed to cancel appointment")
}

// Availability returns the calling doctor's declared rules.
func (c *Client) Availability(ctx context.Context) (Availability, error) {
	var out struct {
		Availability Availability `json:"availability"`
	}
	err := c.do(ctx, "availability", http.MethodGet, "/doctor/availability", nil, &out, "Failed to load availability")
	return out.Availability, err
}

func (c *Client) AddSpecificSlot(ctx context.Context, req SpecificSlotRequest) error {
	return c.do(ctx, "add_slot", http.MethodPost, "/doctor/availability/specific", req, nil, "Failed to add slot")
}

func (c *Client) DeleteSpecificSlot(ctx context.Context, slotID string) error {
	path := "/doctor/availability/specific/" + url.PathEscape(slotID)
	return c.do(ctx, "delete_slot", http.MethodDelete, path, nil, nil, "Failed to delete slot")
}

// do runs one JSON round trip. fallback is the operation's default message
// when the service response carries no usable message field.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any, fallback string) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindNetwork, Op: op, Message: fallback}
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Message: fallback}
	}
	req.Header.Set("Content-Type", "application/json")
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Str("op", op).Str("request_id", reqID).Err(err).Msg("request failed")
		return &Error{Kind: KindNetwork, Op: op, Message: fallback}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fallback
		var payload struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr == nil {
			if m := strings.TrimSpace(payload.Message); m != "" {
				msg = m
			}
		}
		return &Error{Kind: kindForStatus(resp.StatusCode), Op: op, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindNetwork, Op: op, Message: fallback}
	}
	return nil
}
