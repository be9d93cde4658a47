package database

import (
	"context"
	"errors"
	"fmt"
	"intake/models"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrInvalidFilter is returned when a list filter cannot be applied.
var ErrInvalidFilter = errors.New("invalid filter")

// CreateProject inserts a new request. The store assigns id and timestamps,
// and the status is always pending.
func (db *DB) CreateProject(ctx context.Context, p models.ProjectRequest) (*models.ProjectRequest, error) {
	query := fmt.Sprintf(`
		INSERT INTO project_requests (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`, columnName, columnEmail, columnTitle, columnType, columnDescription, columnDeadline, columnStatus,
		projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query,
		p.Name, p.Email, p.Title, p.Type, p.Description, p.Deadline, models.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	log.Printf("Created project: id=%s title=%q", project.ID, project.Title)
	return project, nil
}

// ListProjects returns requests newest first. An empty filter lists everything.
func (db *DB) ListProjects(ctx context.Context, filter models.ProjectFilter) ([]models.ProjectRequest, error) {
	start := time.Now()
	defer func() {
		log.Printf("ListProjects: duration=%v filters=[status=%s search=%q]",
			time.Since(start), filter.Status, filter.Search)
	}()

	qb := NewQueryBuilder()
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, filter.Status)
		}
		qb.AddCondition(columnStatus, filter.Status)
	}
	if filter.Search != "" {
		tsQuery, err := NewSearchQueryParser().Parse(filter.Search)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
		}
		qb.AddFullTextSearch(tsQuery)
	}

	// SAFETY: all user input is parameterized; the where clause only holds
	// column names and operators.
	query := fmt.Sprintf(`
		SELECT %s
		FROM project_requests
		%s
		ORDER BY %s DESC, %s DESC
	`, projectColumns, qb.WhereClause(), columnCreatedAt, columnSeq)

	rows, err := db.Pool.Query(ctx, query, qb.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

func (db *DB) GetProject(ctx context.Context, id uuid.UUID) (*models.ProjectRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM project_requests
		WHERE %s = $1
	`, projectColumns, columnID)

	project, err := scanProject(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// TransitionStatus moves a request from one status to another in a single
// conditional UPDATE. If the stored status is no longer from, nothing is
// written and ErrStatusConflict is returned.
func (db *DB) TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.Status) (*models.ProjectRequest, error) {
	query := fmt.Sprintf(`
		UPDATE project_requests
		SET %s = $3, %s = clock_timestamp()
		WHERE %s = $1 AND %s = $2
		RETURNING %s
	`, columnStatus, columnUpdatedAt, columnID, columnStatus, projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query, id, from, to))
	if err == nil {
		log.Printf("Project status changed: id=%s from=%s to=%s", id, from, to)
		return project, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update project status: %w", err)
	}

	var exists bool
	existsQuery := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM project_requests WHERE %s = $1)`, columnID)
	if err := db.Pool.QueryRow(ctx, existsQuery, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check project: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil, fmt.Errorf("project %s is not %s: %w", id, from, ErrStatusConflict)
}

// Helper functions

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*models.ProjectRequest, error) {
	var project models.ProjectRequest
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Email,
		&project.Title,
		&project.Type,
		&project.Description,
		&project.Deadline,
		&project.Status,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanProjects(rows rowsScanner) ([]models.ProjectRequest, error) {
	projects := []models.ProjectRequest{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}
