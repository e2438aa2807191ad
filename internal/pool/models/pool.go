// Package models holds the Pool aggregate: a pure state machine with no I/O.
// All mutation goes through methods that validate every precondition before
// touching any field, so a failed call leaves the aggregate untouched.
package models

import (
	"time"

	id "tanda/pkg/domain"
	dErrors "tanda/pkg/domain-errors"
)

const (
	// MinMembers is the smallest roster a pool may start with.
	MinMembers = 5
	// MaxMembers is the hard roster bound enforced at admission time.
	MaxMembers = 12
	// CycleDuration is the minimum elapsed time between a round opening and
	// the next round opening.
	CycleDuration = 30 * 24 * time.Hour
)

// Status is the pool lifecycle position.
type Status string

const (
	StatusForming   Status = "forming"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Pool is the aggregate root for one rotating savings pool. Rounds are
// 1-based; CurrentRound == 0 means the pool is still forming. All state is
// append-only or monotonic; nothing is ever deleted.
type Pool struct {
	ID                 id.PoolID                `json:"id"`
	Creator            id.AccountID             `json:"creator"`
	BackendManager     id.AccountID             `json:"backend_manager"`
	ContributionAmount int64                    `json:"contribution_amount"`
	Members            []id.AccountID           `json:"members"`
	PayoutOrder        []id.AccountID           `json:"payout_order"`
	CurrentRound       int                      `json:"current_round"`
	RoundStartTime     time.Time                `json:"round_start_time"`
	Contributions      map[int][]id.AccountID   `json:"contributions"`
	TotalContributed   map[id.AccountID]int64   `json:"total_contributed"`
	RoundPaidOut       map[int]bool             `json:"round_paid_out"`
	HasReceivedPayout  map[id.AccountID]bool    `json:"has_received_payout"`
	Active             bool                     `json:"active"`
	Complete           bool                     `json:"complete"`
	CreatedAt          time.Time                `json:"created_at"`

	// Version supports optimistic concurrency in stores. It is bumped by the
	// store on save, not by the state machine.
	Version int64 `json:"version"`
}

// NewPool creates a Forming pool with the creator seated as its first member.
// The backend manager holds equal invite authority until the pool starts.
func NewPool(creator, backendManager id.AccountID, contributionAmount int64, now time.Time) (*Pool, error) {
	if creator.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "creator is required")
	}
	if backendManager.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "backend manager is required")
	}
	if contributionAmount <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "contribution amount must be positive")
	}

	return &Pool{
		ID:                 id.NewPoolID(),
		Creator:            creator,
		BackendManager:     backendManager,
		ContributionAmount: contributionAmount,
		Members:            []id.AccountID{creator},
		Contributions:      make(map[int][]id.AccountID),
		TotalContributed:   make(map[id.AccountID]int64),
		RoundPaidOut:       make(map[int]bool),
		HasReceivedPayout:  make(map[id.AccountID]bool),
		CreatedAt:          now,
	}, nil
}

// Status derives the lifecycle position from the monotonic flags.
func (p *Pool) Status() Status {
	switch {
	case p.Complete:
		return StatusCompleted
	case p.Active:
		return StatusActive
	default:
		return StatusForming
	}
}

// Invite admits a candidate directly into the roster. A single authorized
// call both invites and seats the member; there is no separate join step.
func (p *Pool) Invite(caller, candidate id.AccountID) error {
	if caller != p.Creator && caller != p.BackendManager {
		return ErrUnauthorized
	}
	if p.Status() != StatusForming {
		return ErrPoolAlreadyStarted
	}
	if candidate.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "candidate is required")
	}
	if p.IsMember(candidate) {
		return ErrAlreadyMember
	}
	if len(p.Members) >= MaxMembers {
		return ErrCapacityExceeded
	}

	p.Members = append(p.Members, candidate)
	return nil
}

// UpdateBackendManager replaces the second invite-authority slot. Creator only.
func (p *Pool) UpdateBackendManager(caller, newManager id.AccountID) error {
	if caller != p.Creator {
		return ErrUnauthorized
	}
	if newManager.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "backend manager is required")
	}
	p.BackendManager = newManager
	return nil
}

// Start freezes the roster and opens round 1 with the supplied payout order.
// The order must be a permutation of the current members; the duplicate scan
// is quadratic, fine at the bounded roster size.
func (p *Pool) Start(caller id.AccountID, payoutOrder []id.AccountID, now time.Time) error {
	if caller != p.Creator {
		return ErrUnauthorized
	}
	if p.Status() != StatusForming {
		return ErrAlreadyStarted
	}
	if len(p.Members) < MinMembers {
		return ErrNotEnoughMembers
	}
	if len(payoutOrder) != len(p.Members) {
		return ErrInvalidPayoutOrderLength
	}
	for i, entry := range payoutOrder {
		if !p.IsMember(entry) {
			return ErrPayoutOrderContainsNonMember
		}
		for j := 0; j < i; j++ {
			if payoutOrder[j] == entry {
				return ErrDuplicateInPayoutOrder
			}
		}
	}

	p.PayoutOrder = append([]id.AccountID(nil), payoutOrder...)
	p.CurrentRound = 1
	p.RoundStartTime = now
	p.Active = true
	return nil
}

// Contribute records the caller's payment for the current round and reports
// whether the round is now fully funded.
func (p *Pool) Contribute(caller id.AccountID, amount int64) (allPaid bool, err error) {
	if !p.Active {
		return false, ErrNotActive
	}
	if !p.IsMember(caller) {
		return false, ErrNotAMember
	}
	if amount != p.ContributionAmount {
		return false, ErrIncorrectAmount
	}
	if p.HasContributed(caller, p.CurrentRound) {
		return false, ErrAlreadyContributed
	}

	p.Contributions[p.CurrentRound] = append(p.Contributions[p.CurrentRound], caller)
	p.TotalContributed[caller] += amount
	return p.EveryonePaid(), nil
}

// MarkPaidOut applies the state half of a payout: it validates the claim and
// marks the round settled before any funds move. The caller (service layer)
// performs the transfer afterwards and persists this aggregate only once the
// transfer is confirmed, so a failed transfer never leaves a settled round
// behind and a reentrant claim observes RoundAlreadyPaidOut.
func (p *Pool) MarkPaidOut(caller id.AccountID, now time.Time) (completed bool, err error) {
	if !p.Active {
		return false, ErrNotActive
	}
	if caller != p.CurrentRecipient() {
		return false, ErrOnlyRecipientCanClaim
	}
	if p.RoundPaidOut[p.CurrentRound] {
		return false, ErrRoundAlreadyPaidOut
	}
	if !p.EveryonePaid() {
		return false, ErrNotEveryoneHasPaid
	}

	p.RoundPaidOut[p.CurrentRound] = true
	p.HasReceivedPayout[caller] = true
	if p.CurrentRound == len(p.PayoutOrder) {
		p.Complete = true
		p.Active = false
		return true, nil
	}
	return false, nil
}

// StartNextRound advances the round clock. Any member may call it: advancement
// is a mechanical timing check, not a privileged act. It requires the current
// round to be settled and the full cycle duration to have elapsed since the
// round opened.
func (p *Pool) StartNextRound(caller id.AccountID, now time.Time) error {
	if !p.Active {
		return ErrNotActive
	}
	if !p.IsMember(caller) {
		return ErrNotAMember
	}
	if !p.RoundPaidOut[p.CurrentRound] {
		return ErrRoundNotPaidOut
	}
	if now.Sub(p.RoundStartTime) < CycleDuration {
		return ErrCycleNotComplete
	}

	// The final round flips the pool to Completed inside MarkPaidOut, so an
	// active pool here always has a further round to open.
	p.CurrentRound++
	p.RoundStartTime = now
	return nil
}

// IsMember reports whether the account is on the roster.
func (p *Pool) IsMember(account id.AccountID) bool {
	for _, m := range p.Members {
		if m == account {
			return true
		}
	}
	return false
}

// MemberCount returns the roster size.
func (p *Pool) MemberCount() int { return len(p.Members) }

// HasContributed reports whether the member has paid in the given round.
func (p *Pool) HasContributed(account id.AccountID, round int) bool {
	for _, m := range p.Contributions[round] {
		if m == account {
			return true
		}
	}
	return false
}

// EveryonePaid reports whether every member has contributed this round.
func (p *Pool) EveryonePaid() bool {
	return len(p.Contributions[p.CurrentRound]) == len(p.Members)
}

// CurrentRecipient returns the member designated to receive this round's pot,
// or the nil account when the pool has not started.
func (p *Pool) CurrentRecipient() id.AccountID {
	if p.CurrentRound < 1 || p.CurrentRound > len(p.PayoutOrder) {
		return id.AccountID{}
	}
	return p.PayoutOrder[p.CurrentRound-1]
}

// PotAmount is the full pooled amount paid to the recipient each round.
func (p *Pool) PotAmount() int64 {
	return p.ContributionAmount * int64(len(p.Members))
}

// Clone returns a deep copy. The service mutates a clone and persists it only
// after all side effects succeed, so stored state never reflects a partial
// operation.
func (p *Pool) Clone() *Pool {
	cp := *p
	cp.Members = append([]id.AccountID(nil), p.Members...)
	cp.PayoutOrder = append([]id.AccountID(nil), p.PayoutOrder...)
	cp.Contributions = make(map[int][]id.AccountID, len(p.Contributions))
	for round, members := range p.Contributions {
		cp.Contributions[round] = append([]id.AccountID(nil), members...)
	}
	cp.TotalContributed = make(map[id.AccountID]int64, len(p.TotalContributed))
	for account, total := range p.TotalContributed {
		cp.TotalContributed[account] = total
	}
	cp.RoundPaidOut = make(map[int]bool, len(p.RoundPaidOut))
	for round, paid := range p.RoundPaidOut {
		cp.RoundPaidOut[round] = paid
	}
	cp.HasReceivedPayout = make(map[id.AccountID]bool, len(p.HasReceivedPayout))
	for account, received := range p.HasReceivedPayout {
		cp.HasReceivedPayout[account] = received
	}
	return &cp
}
