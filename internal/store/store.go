// Package store holds the storage capabilities used by the service and their
// implementations. Lookups of missing records return models.ErrNotFound.
package store

import (
	"context"

	"github.com/harentsoaR/appointment-intake/internal/models"
)

// AppointmentStore persists appointment requests keyed by sequential IDs.
type AppointmentStore interface {
	Create(ctx context.Context, in models.NewAppointment) (*models.Appointment, error)
	Get(ctx context.Context, id int) (*models.Appointment, error)
	// List returns every appointment in creation order.
	List(ctx context.Context) ([]models.Appointment, error)
	Update(ctx context.Context, id int, u models.AppointmentUpdate) (*models.Appointment, error)
	// Delete removes the appointment and returns what was removed. IDs are not reused.
	Delete(ctx context.Context, id int) (*models.Appointment, error)
}

// UserStore persists user accounts. Usernames are unique and case-sensitive.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string, isAdmin bool) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
