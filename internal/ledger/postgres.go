package ledger

import (
	"context"
	"database/sql"
	"fmt"

	id "tanda/pkg/domain"
	"tanda/pkg/platform/sentinel"
)

// PostgresLedger is the durable value-transfer sink: double-entry rows plus a
// balances table, moved inside one transaction per transfer.
type PostgresLedger struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// Schema is the DDL this ledger expects. Balance holders are either member
// accounts ("account:<uuid>") or pool escrows ("escrow:<uuid>").
const Schema = `
CREATE TABLE IF NOT EXISTS ledger_balances (
	holder  TEXT PRIMARY KEY,
	balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0)
);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id         BIGSERIAL PRIMARY KEY,
	debit      TEXT        NOT NULL,
	credit     TEXT        NOT NULL,
	amount     BIGINT      NOT NULL CHECK (amount > 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func accountHolder(account id.AccountID) string { return "account:" + account.String() }
func escrowHolder(poolID id.PoolID) string      { return "escrow:" + poolID.String() }

// Credit funds an account outside of pool flows (onboarding, top-ups).
func (l *PostgresLedger) Credit(ctx context.Context, account id.AccountID, amount int64) error {
	query := `
		INSERT INTO ledger_balances (holder, balance)
		VALUES ($1, $2)
		ON CONFLICT (holder) DO UPDATE SET balance = ledger_balances.balance + EXCLUDED.balance
	`
	if _, err := l.db.ExecContext(ctx, query, accountHolder(account), amount); err != nil {
		return fmt.Errorf("credit account: %w", err)
	}
	return nil
}

// Balance returns the account's current balance.
func (l *PostgresLedger) Balance(ctx context.Context, account id.AccountID) (int64, error) {
	var balance int64
	err := l.db.QueryRowContext(ctx,
		`SELECT balance FROM ledger_balances WHERE holder = $1`, accountHolder(account),
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("account balance: %w", err)
	}
	return balance, nil
}

func (l *PostgresLedger) Deposit(ctx context.Context, from id.AccountID, poolID id.PoolID, amount int64) error {
	return l.move(ctx, accountHolder(from), escrowHolder(poolID), amount)
}

func (l *PostgresLedger) Payout(ctx context.Context, poolID id.PoolID, to id.AccountID, amount int64) error {
	return l.move(ctx, escrowHolder(poolID), accountHolder(to), amount)
}

// move debits one holder and credits another atomically. A debit that would
// go negative affects zero rows and aborts the transaction.
func (l *PostgresLedger) move(ctx context.Context, debit, credit string, amount int64) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transfer: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`UPDATE ledger_balances SET balance = balance - $2 WHERE holder = $1 AND balance >= $2`,
		debit, amount,
	)
	if err != nil {
		return fmt.Errorf("debit %s: %w", debit, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrInsufficientFunds
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_balances (holder, balance)
		VALUES ($1, $2)
		ON CONFLICT (holder) DO UPDATE SET balance = ledger_balances.balance + EXCLUDED.balance
	`, credit, amount); err != nil {
		return fmt.Errorf("credit %s: %w", credit, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (debit, credit, amount) VALUES ($1, $2, $3)`,
		debit, credit, amount,
	); err != nil {
		return fmt.Errorf("record entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transfer: %w", err)
	}
	return nil
}
