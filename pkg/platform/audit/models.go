// Package audit defines the audit events emitted by the pool engine. Events
// are transport-agnostic; the publisher decides how they reach the outside.
package audit

import (
	"time"

	id "tanda/pkg/domain"
)

// Event is emitted from domain logic to capture key pool actions.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Action    AuditEvent     `json:"action"`
	PoolID    id.PoolID      `json:"pool_id"`
	ActorID   id.AccountID   `json:"actor_id"`
	SubjectID id.AccountID   `json:"subject_id,omitempty"`
	Round     int            `json:"round,omitempty"`
	Amount    int64          `json:"amount,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

type AuditEvent string

const (
	EventPoolCreated           AuditEvent = "pool_created"
	EventMemberInvited         AuditEvent = "member_invited"
	EventPoolStarted           AuditEvent = "pool_started"
	EventContributionRecorded  AuditEvent = "contribution_recorded"
	EventPayoutExecuted        AuditEvent = "payout_executed"
	EventRoundAdvanced         AuditEvent = "round_advanced"
	EventPoolCompleted         AuditEvent = "pool_completed"
	EventBackendManagerUpdated AuditEvent = "backend_manager_updated"
)
