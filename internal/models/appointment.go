package models

import "time"

// StatusPending is assigned to every appointment at creation.
const StatusPending = "pending"

type Appointment struct {
	ID            int       `bson:"_id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Email         string    `bson:"email" json:"email"`
	Phone         string    `bson:"phone" json:"phone"`
	PreferredDate string    `bson:"preferredDate" json:"preferredDate"`
	PreferredTime string    `bson:"preferredTime" json:"preferredTime"`
	Symptoms      string    `bson:"symptoms" json:"symptoms"`
	Status        string    `bson:"status" json:"status"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

// NewAppointment carries the requester-supplied fields of an appointment.
type NewAppointment struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	PreferredDate string `json:"preferredDate" validate:"required"`
	PreferredTime string `json:"preferredTime" validate:"required"`
	Symptoms      string `json:"symptoms" validate:"required"`
}

// AppointmentUpdate is a partial update; nil fields are left unchanged.
type AppointmentUpdate struct {
	Status *string `json:"status,omitempty"`
}

// Apply merges u into apt.
func (u AppointmentUpdate) Apply(apt *Appointment) {
	if u.Status != nil {
		apt.Status = *u.Status
	}
}

// BackupRecord is the copy of an appointment kept by a backup sink.
type BackupRecord struct {
	Appointment `bson:",inline"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
