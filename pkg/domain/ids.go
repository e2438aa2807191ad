// Package domain holds the typed identifiers shared across the pool engine.
// IDs are distinct named types over uuid.UUID so that an account can never be
// passed where a pool is expected (and vice versa) without an explicit cast.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "tanda/pkg/domain-errors"
)

// AccountID identifies a participant (or the backend manager) as resolved by
// the external identity layer. The engine never authenticates; it only compares.
type AccountID uuid.UUID

// PoolID identifies one ROSCA pool instance.
type PoolID uuid.UUID

func (id AccountID) String() string { return uuid.UUID(id).String() }
func (id AccountID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id PoolID) String() string { return uuid.UUID(id).String() }
func (id PoolID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText/UnmarshalText keep the IDs rendered as canonical UUID strings in
// JSON bodies, JSONB columns, and map keys.
func (id AccountID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *AccountID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = AccountID(u)
	return nil
}

func (id PoolID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *PoolID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = PoolID(u)
	return nil
}

// NewAccountID returns a fresh random account identifier.
func NewAccountID() AccountID { return AccountID(uuid.New()) }

// NewPoolID returns a fresh random pool identifier.
func NewPoolID() PoolID { return PoolID(uuid.New()) }

// ParseAccountID parses and validates an account ID at a trust boundary.
// Rejects empty, malformed, and nil UUIDs.
func ParseAccountID(s string) (AccountID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return AccountID{}, err
	}
	return AccountID(u), nil
}

// ParsePoolID parses and validates a pool ID at a trust boundary.
func ParsePoolID(s string) (PoolID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return PoolID{}, err
	}
	return PoolID(u), nil
}

func parseUUID(s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}
