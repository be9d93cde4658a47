package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"intake/auth"
	"intake/database"
	"intake/models"
	"intake/notify"
	"log"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("project not found")
	ErrAlreadyDecided = errors.New("project already decided")
)

// Store is the persistence the service needs. database.DB and
// database.MemoryStore both satisfy it.
type Store interface {
	CreateProject(ctx context.Context, p models.ProjectRequest) (*models.ProjectRequest, error)
	ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.ProjectRequest, error)
	GetProject(ctx context.Context, id uuid.UUID) (*models.ProjectRequest, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.Status) (*models.ProjectRequest, error)
	ListNotifications(ctx context.Context, projectID uuid.UUID) ([]models.Notification, error)
}

// Notifier accepts a composed message and delivers it on its own schedule.
type Notifier interface {
	Dispatch(msg notify.Message)
}

// ProjectService owns the project request lifecycle:
// pending -> accepted or pending -> rejected, admin only, one email per decision.
type ProjectService struct {
	store     Store
	notifier  Notifier
	sanitizer *bluemonday.Policy
}

func NewProjectService(store Store, notifier Notifier) *ProjectService {
	return &ProjectService{
		store:     store,
		notifier:  notifier,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Submit stores a new pending request. Name and email are required and the
// email must parse as an address.
func (s *ProjectService) Submit(ctx context.Context, req models.SubmitProjectRequest) (*models.ProjectRequest, error) {
	project := models.ProjectRequest{
		Name:        s.clean(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Title:       s.clean(req.Title),
		Type:        s.clean(req.Type),
		Description: s.clean(req.Description),
		Deadline:    s.clean(req.Deadline),
		Status:      models.StatusPending,
	}

	if project.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if project.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	addr, err := mail.ParseAddress(project.Email)
	if err != nil || addr.Address != project.Email {
		return nil, fmt.Errorf("%w: email is not a valid address", ErrValidation)
	}

	created, err := s.store.CreateProject(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to submit project: %w", err)
	}
	return created, nil
}

// List returns all requests, newest first, optionally filtered.
func (s *ProjectService) List(ctx context.Context, claims *auth.Claims, filter models.ProjectFilter) ([]models.ProjectRequest, error) {
	if !claims.IsAdmin() {
		return nil, ErrUnauthorized
	}

	filter.Search = strings.TrimSpace(filter.Search)
	projects, err := s.store.ListProjects(ctx, filter)
	if err != nil {
		if errors.Is(err, database.ErrInvalidFilter) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Decide applies an admin decision to a pending request and queues the
// matching email. A request that is already accepted or rejected yields
// ErrAlreadyDecided and no email. The returned record reflects the write;
// the notification outcome never affects it.
func (s *ProjectService) Decide(ctx context.Context, claims *auth.Claims, id uuid.UUID, decision models.Decision) (*models.ProjectRequest, error) {
	if !claims.IsAdmin() {
		return nil, ErrUnauthorized
	}

	target, ok := decision.TargetStatus()
	if !ok {
		return nil, fmt.Errorf("%w: unknown decision %q", ErrValidation, decision)
	}

	current, err := s.store.GetProject(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "failed to get project")
	}
	if current.Status.Terminal() {
		return nil, fmt.Errorf("%w: project %s is %s", ErrAlreadyDecided, id, current.Status)
	}

	updated, err := s.store.TransitionStatus(ctx, id, models.StatusPending, target)
	if err != nil {
		return nil, mapStoreError(err, "failed to update project status")
	}

	msg, err := notify.Compose(*updated)
	if err != nil {
		log.Printf("Decide: project=%s status=%s compose failed: %v", id, target, err)
		return updated, nil
	}
	s.notifier.Dispatch(msg)

	return updated, nil
}

// Notifications lists email attempts for one request.
func (s *ProjectService) Notifications(ctx context.Context, claims *auth.Claims, id uuid.UUID) ([]models.Notification, error) {
	if !claims.IsAdmin() {
		return nil, ErrUnauthorized
	}

	if _, err := s.store.GetProject(ctx, id); err != nil {
		return nil, mapStoreError(err, "failed to get project")
	}

	notifications, err := s.store.ListNotifications(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// maxCleanPasses bounds decoding of nested entities like "&amp;lt;".
const maxCleanPasses = 5

// clean strips markup and stores plain text; escaping happens on output.
// Entities are decoded before sanitizing so encoded markup is stripped too.
// The result is a fixed point: decoding it again yields no new markup.
func (s *ProjectService) clean(v string) string {
	for i := 0; i < maxCleanPasses; i++ {
		next := html.UnescapeString(s.sanitizer.Sanitize(html.UnescapeString(v)))
		if next == v {
			return strings.TrimSpace(v)
		}
		v = next
	}
	// still changing: keep the escaped form
	return strings.TrimSpace(s.sanitizer.Sanitize(html.UnescapeString(v)))
}

func mapStoreError(err error, op string) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, database.ErrStatusConflict):
		return fmt.Errorf("%w: %v", ErrAlreadyDecided, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
