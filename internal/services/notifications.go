package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harentsoaR/appointment-intake/internal/models"
)

// BackupStore is an external copy of appointment records. It is never
// authoritative; the service keeps working when it is unavailable.
type BackupStore interface {
	Save(ctx context.Context, apt models.Appointment) error
	FetchAll(ctx context.Context) ([]models.BackupRecord, error)
}

// NopBackup is used when no backup sink is configured.
type NopBackup struct{}

func (NopBackup) Save(context.Context, models.Appointment) error { return nil }

func (NopBackup) FetchAll(context.Context) ([]models.BackupRecord, error) {
	return []models.BackupRecord{}, nil
}

// BackupNotifier pushes appointment changes to a BackupStore in the background.
type BackupNotifier struct {
	store   BackupStore
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewBackupNotifier(store BackupStore, timeout time.Duration) *BackupNotifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BackupNotifier{store: store, timeout: timeout}
}

// Notify saves a copy of apt without blocking the caller. Failures are logged only.
func (n *BackupNotifier) Notify(apt models.Appointment) {
	if _, ok := n.store.(NopBackup); ok {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.store.Save(ctx, apt); err != nil {
			log.Warn().Err(err).Int("appointmentId", apt.ID).Msg("appointment backup failed")
			return
		}
		log.Debug().Int("appointmentId", apt.ID).Msg("appointment backed up")
	}()
}

// Records returns what the backup sink currently holds.
func (n *BackupNotifier) Records(ctx context.Context) ([]models.BackupRecord, error) {
	return n.store.FetchAll(ctx)
}

// Wait blocks until in-flight backups have finished.
func (n *BackupNotifier) Wait() {
	n.wg.Wait()
}
