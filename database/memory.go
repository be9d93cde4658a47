package database

import (
	"context"
	"fmt"
	"intake/models"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps project requests in process memory. It offers the same
// operations and error values as DB and is meant for local runs and tests.
type MemoryStore struct {
	mu            sync.RWMutex
	projects      map[uuid.UUID]*memoryProject
	notifications []models.Notification
	seq           int64
	now           func() time.Time
}

type memoryProject struct {
	models.ProjectRequest
	seq int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[uuid.UUID]*memoryProject),
		now:      time.Now,
	}
}

// SetClock replaces the time source used for created_at and updated_at.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) CreateProject(ctx context.Context, p models.ProjectRequest) (*models.ProjectRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	s.seq++
	p.ID = uuid.New()
	p.Status = models.StatusPending
	p.CreatedAt = now
	p.UpdatedAt = now
	s.projects[p.ID] = &memoryProject{ProjectRequest: p, seq: s.seq}

	out := p
	return &out, nil
}

func (s *MemoryStore) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.ProjectRequest, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, filter.Status)
	}
	var terms []string
	if filter.Search != "" {
		var err error
		terms, err = NewSearchQueryParser().Terms(filter.Search)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
	}

	s.mu.RLock()
	matched := make([]*memoryProject, 0, len(s.projects))
	for _, p := range s.projects {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if !matchesAll(p.Title+" "+p.Description, terms) {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].seq > matched[j].seq
	})

	projects := make([]models.ProjectRequest, 0, len(matched))
	for _, p := range matched {
		projects = append(projects, p.ProjectRequest)
	}
	return projects, nil
}

func (s *MemoryStore) GetProject(ctx context.Context, id uuid.UUID) (*models.ProjectRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	out := p.ProjectRequest
	return &out, nil
}

func (s *MemoryStore) TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.Status) (*models.ProjectRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if p.Status != from {
		return nil, fmt.Errorf("project %s is not %s: %w", id, from, ErrStatusConflict)
	}

	p.Status = to
	p.UpdatedAt = s.now().UTC()

	out := p.ProjectRequest
	return &out, nil
}

func (s *MemoryStore) RecordNotification(ctx context.Context, n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}
	s.notifications = append(s.notifications, n)
	return nil
}

func (s *MemoryStore) ListNotifications(ctx context.Context, projectID uuid.UUID) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Notification{}
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].ProjectID == projectID {
			out = append(out, s.notifications[i])
		}
	}
	return out, nil
}

func matchesAll(text string, terms []string) bool {
	text = normalizeSearchText(text)
	for _, term := range terms {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}
