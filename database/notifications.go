package database

import (
	"context"
	"fmt"
	"intake/models"

	"github.com/google/uuid"
)

// RecordNotification stores the outcome of one email attempt.
func (db *DB) RecordNotification(ctx context.Context, n models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	query := `
		INSERT INTO notifications (id, project_id, kind, recipient, subject, status, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := db.Pool.Exec(ctx, query,
		n.ID, n.ProjectID, n.Kind, n.Recipient, n.Subject, n.Status, n.Error)
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}

// ListNotifications returns attempts for one project, newest first.
func (db *DB) ListNotifications(ctx context.Context, projectID uuid.UUID) ([]models.Notification, error) {
	query := `
		SELECT id, project_id, kind, recipient, subject, status, error, created_at
		FROM notifications
		WHERE project_id = $1
		ORDER BY created_at DESC
	`

	rows, err := db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.ProjectID, &n.Kind, &n.Recipient,
			&n.Subject, &n.Status, &n.Error, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}
