package models

import (
	"time"

	id "tanda/pkg/domain"
)

// Request bodies for the pool HTTP surface. The caller identity is never part
// of a body; it comes from the auth middleware.

type CreatePoolRequest struct {
	BackendManager     string `json:"backend_manager"`
	ContributionAmount int64  `json:"contribution_amount"`
}

type InviteRequest struct {
	Candidate string `json:"candidate"`
}

type StartPoolRequest struct {
	PayoutOrder []string `json:"payout_order"`
}

type ContributeRequest struct {
	Amount int64 `json:"amount"`
}

type UpdateBackendManagerRequest struct {
	BackendManager string `json:"backend_manager"`
}

// PayoutResult reports what a successful payout did.
type PayoutResult struct {
	Round     int   `json:"round"`
	Amount    int64 `json:"amount"`
	Completed bool  `json:"completed"`
}

// PoolResponse is the read model returned by the handler.
type PoolResponse struct {
	ID                 id.PoolID      `json:"id"`
	Status             Status         `json:"status"`
	Creator            id.AccountID   `json:"creator"`
	BackendManager     id.AccountID   `json:"backend_manager"`
	ContributionAmount int64          `json:"contribution_amount"`
	Members            []id.AccountID `json:"members"`
	PayoutOrder        []id.AccountID `json:"payout_order,omitempty"`
	CurrentRound       int            `json:"current_round"`
	RoundStartTime     *time.Time     `json:"round_start_time,omitempty"`
	CurrentRecipient   *id.AccountID  `json:"current_recipient,omitempty"`
	EveryonePaid       bool           `json:"everyone_paid"`
	PotAmount          int64          `json:"pot_amount"`
	Complete           bool           `json:"complete"`
}

// NewPoolResponse projects an aggregate into the read model.
func NewPoolResponse(p *Pool) PoolResponse {
	resp := PoolResponse{
		ID:                 p.ID,
		Status:             p.Status(),
		Creator:            p.Creator,
		BackendManager:     p.BackendManager,
		ContributionAmount: p.ContributionAmount,
		Members:            p.Members,
		PayoutOrder:        p.PayoutOrder,
		CurrentRound:       p.CurrentRound,
		EveryonePaid:       p.Active && p.EveryonePaid(),
		PotAmount:          p.PotAmount(),
		Complete:           p.Complete,
	}
	if p.CurrentRound > 0 {
		t := p.RoundStartTime
		resp.RoundStartTime = &t
	}
	if recipient := p.CurrentRecipient(); !recipient.IsNil() {
		resp.CurrentRecipient = &recipient
	}
	return resp
}
