package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
	oauthjwt "golang.org/x/oauth2/jwt"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/harentsoaR/appointment-intake/internal/models"
)

const driveBackupFileName = "appointment_backup.json"

// DriveCredentials identify the service account that writes backups.
type DriveCredentials struct {
	ClientEmail string
	PrivateKey  string
	FolderID    string
}

// DriveBackup keeps every appointment in one JSON file inside a Google Drive folder.
type DriveBackup struct {
	files    *drive.FilesService
	folderID string
	now      func() time.Time

	// Save is a read-modify-write of a single file.
	mu sync.Mutex
}

// NewDriveBackup authorizes the service account and returns a backup sink.
func NewDriveBackup(ctx context.Context, creds DriveCredentials) (*DriveBackup, error) {
	if creds.FolderID == "" {
		return nil, errors.New("google drive folder id is missing")
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, errors.New("google service account credentials are missing")
	}

	conf := &oauthjwt.Config{
		Email: creds.ClientEmail,
		// keys pasted into env files usually carry escaped newlines
		PrivateKey: []byte(strings.ReplaceAll(creds.PrivateKey, `\n`, "\n")),
		Scopes:     []string{drive.DriveFileScope},
		TokenURL:   google.JWTTokenURL,
	}
	srv, err := drive.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}
	return &DriveBackup{files: srv.Files, folderID: creds.FolderID, now: time.Now}, nil
}

// Save adds apt to the backup file or replaces the copy with the same ID.
func (d *DriveBackup) Save(ctx context.Context, apt models.Appointment) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	fileID, err := d.findFile(ctx)
	if err != nil {
		return err
	}
	records := []models.BackupRecord{}
	if fileID != "" {
		if records, err = d.download(ctx, fileID); err != nil {
			return err
		}
	}

	rec := models.BackupRecord{Appointment: apt, UpdatedAt: d.now().UTC()}
	replaced := false
	for i := range records {
		if records[i].ID == apt.ID {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}

	body, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	media := googleapi.ContentType("application/json")

	if fileID != "" {
		_, err = d.files.Update(fileID, &drive.File{Name: driveBackupFileName}).
			Media(bytes.NewReader(body), media).Context(ctx).Do()
	} else {
		_, err = d.files.Create(&drive.File{
			Name:     driveBackupFileName,
			Parents:  []string{d.folderID},
			MimeType: "application/json",
		}).Media(bytes.NewReader(body), media).Context(ctx).Do()
	}
	if err != nil {
		return fmt.Errorf("upload backup: %w", err)
	}
	return nil
}

// FetchAll returns every record in the backup file; no file means no records.
func (d *DriveBackup) FetchAll(ctx context.Context) ([]models.BackupRecord, error) {
	fileID, err := d.findFile(ctx)
	if err != nil {
		return nil, err
	}
	if fileID == "" {
		return []models.BackupRecord{}, nil
	}
	return d.download(ctx, fileID)
}

func (d *DriveBackup) findFile(ctx context.Context) (string, error) {
	q := fmt.Sprintf("name='%s' and '%s' in parents and trashed=false", driveBackupFileName, d.folderID)
	list, err := d.files.List().Q(q).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list backup files: %w", err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

func (d *DriveBackup) download(ctx context.Context, fileID string) ([]models.BackupRecord, error) {
	resp, err := d.files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download backup: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	records := []models.BackupRecord{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	return records, nil
}
