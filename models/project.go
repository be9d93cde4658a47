package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the review state of a project request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Decision is an admin verdict on a pending project request.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// TargetStatus returns the status a pending request moves to.
func (d Decision) TargetStatus() (Status, bool) {
	switch d {
	case DecisionAccept:
		return StatusAccepted, true
	case DecisionReject:
		return StatusRejected, true
	}
	return "", false
}

// ProjectRequest is a submitter's pitch awaiting admin review.
// Status starts as pending and moves once, to accepted or rejected.
type ProjectRequest struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	Title       string    `json:"title" db:"title"`
	Type        string    `json:"type" db:"type"`
	Description string    `json:"description" db:"description"`
	Deadline    string    `json:"deadline" db:"deadline"`
	Status      Status    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// SubmitProjectRequest is the public submission payload.
// It carries no status field, so a client-supplied status is dropped on bind.
type SubmitProjectRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Email       string `json:"email" binding:"required,email,max=320"`
	Title       string `json:"title" binding:"max=255"`
	Type        string `json:"type" binding:"max=100"`
	Description string `json:"description" binding:"max=10000"`
	Deadline    string `json:"deadline" binding:"max=100"`
}

// ProjectFilter narrows the admin listing. The zero value lists everything.
type ProjectFilter struct {
	Status Status `form:"status"`
	Search string `form:"search"`
}

type SubmitProjectResponse struct {
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}

type DecisionResponse struct {
	Message string         `json:"message"`
	Project ProjectRequest `json:"project"`
}
