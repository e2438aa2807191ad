package models

import (
	dErrors "tanda/pkg/domain-errors"
)

// Named domain errors for the pool state machine. Each is a single package
// level value so callers can match with errors.Is, and each carries a code so
// the transport layer can map it without knowing the concrete rule.
var (
	// Authorization.
	ErrUnauthorized          = dErrors.New(dErrors.CodeForbidden, "caller is not allowed to perform this operation")
	ErrOnlyRecipientCanClaim = dErrors.New(dErrors.CodeForbidden, "only the current round recipient can claim the payout")
	ErrNotAMember            = dErrors.New(dErrors.CodeForbidden, "caller is not a member of this pool")

	// State.
	ErrPoolAlreadyStarted  = dErrors.New(dErrors.CodeConflict, "pool has already started")
	ErrAlreadyStarted      = dErrors.New(dErrors.CodeConflict, "pool has already started")
	ErrNotActive           = dErrors.New(dErrors.CodeConflict, "pool is not active")
	ErrRoundAlreadyPaidOut = dErrors.New(dErrors.CodeConflict, "round has already been paid out")
	ErrRoundNotPaidOut     = dErrors.New(dErrors.CodeConflict, "current round has not been paid out")

	// Validation.
	ErrAlreadyMember                = dErrors.New(dErrors.CodeConflict, "account is already a member")
	ErrCapacityExceeded             = dErrors.New(dErrors.CodeBadRequest, "pool is at maximum capacity")
	ErrNotEnoughMembers             = dErrors.New(dErrors.CodeBadRequest, "pool does not have enough members to start")
	ErrInvalidPayoutOrderLength     = dErrors.New(dErrors.CodeBadRequest, "payout order length must equal member count")
	ErrDuplicateInPayoutOrder       = dErrors.New(dErrors.CodeBadRequest, "payout order contains a duplicate entry")
	ErrPayoutOrderContainsNonMember = dErrors.New(dErrors.CodeBadRequest, "payout order contains a non-member")
	ErrIncorrectAmount              = dErrors.New(dErrors.CodeBadRequest, "contribution amount does not match the pool amount")
	ErrAlreadyContributed           = dErrors.New(dErrors.CodeConflict, "member already contributed this round")
	ErrNotEveryoneHasPaid           = dErrors.New(dErrors.CodeConflict, "not every member has contributed this round")

	// Timing.
	ErrCycleNotComplete = dErrors.New(dErrors.CodeTooEarly, "cycle duration has not elapsed since the round started")
)
