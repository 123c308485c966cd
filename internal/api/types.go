package api

import "time"

// Role distinguishes the two account kinds the service knows about.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// User is the authenticated account as returned by the auth endpoints.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Specialty string    `json:"specialty,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRef is a populated reference to a user embedded in another document.
type UserRef struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
}

// AppointmentStatus only ever moves confirmed -> cancelled.
type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is one booked visit. Date is a calendar day ("2006-01-02"),
// StartTime/EndTime are wall-clock "15:04" strings scoped to that day.
type Appointment struct {
	ID        string            `json:"_id"`
	Patient   UserRef           `json:"patientId"`
	Doctor    UserRef           `json:"doctorId"`
	Date      string            `json:"date"`
	StartTime string            `json:"startTime"`
	EndTime   string            `json:"endTime"`
	Duration  int               `json:"duration"`
	Status    AppointmentStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
}

// Slot is one bookable time range on a particular date.
type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  int    `json:"duration"`
}

// AvailableDate is a calendar day with its pre-resolved bookable slots.
type AvailableDate struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// BookingRequest creates an appointment against a doctor's open slot.
type BookingRequest struct {
	DoctorID  string `json:"doctorId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  int    `json:"duration"`
	Notes     string `json:"notes,omitempty"`
}

// Registration carries the sign-up form. Specialty is only meaningful for
// doctors; the client strips it from the payload for any other role.
type Registration struct {
	Name      string
	Email     string
	Password  string
	Role      Role
	Specialty string
}

type registrationPayload struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      Role   `json:"role"`
	Specialty string `json:"specialty,omitempty"`
}

func (r Registration) payload() registrationPayload {
	p := registrationPayload{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
	}
	if r.Role == RoleDoctor {
		p.Specialty = r.Specialty
	}
	return p
}

// SpecificSlot is one declared availability window on a specific date,
// owned by the doctor who declared it.
type SpecificSlot struct {
	ID        string `json:"_id"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  int    `json:"duration"`
}

// Availability is a doctor's full set of declared rules.
type Availability struct {
	SpecificSlots []SpecificSlot `json:"specificSlots"`
}

// SpecificSlotRequest declares a new availability window.
type SpecificSlotRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  int    `json:"duration"`
}
