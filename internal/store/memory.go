package store

import (
	"context"
	"sync"
	"time"

	"github.com/harentsoaR/appointment-intake/internal/models"
)

// MemoryAppointmentStore keeps appointments for the lifetime of the process.
type MemoryAppointmentStore struct {
	mu           sync.RWMutex
	appointments map[int]models.Appointment
	order        []int
	nextID       int
	now          func() time.Time
}

func NewMemoryAppointmentStore() *MemoryAppointmentStore {
	return &MemoryAppointmentStore{
		appointments: make(map[int]models.Appointment),
		nextID:       1,
		now:          time.Now,
	}
}

func (s *MemoryAppointmentStore) Create(ctx context.Context, in models.NewAppointment) (*models.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	apt := models.Appointment{
		ID:            s.nextID,
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		PreferredDate: in.PreferredDate,
		PreferredTime: in.PreferredTime,
		Symptoms:      in.Symptoms,
		Status:        models.StatusPending,
		CreatedAt:     s.now().UTC(),
	}
	s.nextID++
	s.appointments[apt.ID] = apt
	s.order = append(s.order, apt.ID)
	return &apt, nil
}

func (s *MemoryAppointmentStore) Get(ctx context.Context, id int) (*models.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	apt, ok := s.appointments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &apt, nil
}

func (s *MemoryAppointmentStore) List(ctx context.Context) ([]models.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Appointment, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.appointments[id])
	}
	return out, nil
}

func (s *MemoryAppointmentStore) Update(ctx context.Context, id int, u models.AppointmentUpdate) (*models.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	apt, ok := s.appointments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	u.Apply(&apt)
	s.appointments[id] = apt
	return &apt, nil
}

func (s *MemoryAppointmentStore) Delete(ctx context.Context, id int) (*models.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	apt, ok := s.appointments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	delete(s.appointments, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return &apt, nil
}

// Len reports the number of stored appointments.
func (s *MemoryAppointmentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.appointments)
}

// MemoryUserStore keeps user accounts for the lifetime of the process.
type MemoryUserStore struct {
	mu         sync.RWMutex
	users      map[int]models.User
	byUsername map[string]int
	nextID     int
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:      make(map[int]models.User),
		byUsername: make(map[string]int),
		nextID:     1,
	}
}

func (s *MemoryUserStore) Create(ctx context.Context, username, passwordHash string, isAdmin bool) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[username]; taken {
		return nil, models.ErrDuplicateUsername
	}
	u := models.User{
		ID:           s.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
	}
	s.nextID++
	s.users[u.ID] = u
	s.byUsername[username] = u.ID
	return &u, nil
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id int) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

// Len reports the number of stored users.
func (s *MemoryUserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
