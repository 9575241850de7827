package handlers

import (
	"github.com/harentsoaR/appointment-intake/internal/services"
	"github.com/harentsoaR/appointment-intake/internal/store"
)

// Handler holds the services the HTTP endpoints are built on.
type Handler struct {
	Appointments store.AppointmentStore
	Credentials  *services.CredentialService
	Sessions     *services.SessionManager
	Backup       *services.BackupNotifier

	// CookieSecure marks the session cookie Secure (HTTPS only).
	CookieSecure bool
}

func NewHandler(
	appointments store.AppointmentStore,
	credentials *services.CredentialService,
	sessions *services.SessionManager,
	backup *services.BackupNotifier,
	cookieSecure bool,
) *Handler {
	if backup == nil {
		backup = services.NewBackupNotifier(services.NopBackup{}, 0)
	}
	return &Handler{
		Appointments: appointments,
		Credentials:  credentials,
		Sessions:     sessions,
		Backup:       backup,
		CookieSecure: cookieSecure,
	}
}
