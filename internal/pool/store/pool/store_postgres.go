package pool

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"tanda/internal/pool/models"
	id "tanda/pkg/domain"
	"tanda/pkg/platform/sentinel"
)

// PostgresStore persists pool aggregates in PostgreSQL. The aggregate is one
// row: hot fields live in columns for querying, the round ledger in JSONB.
// This store is pure I/O; every rule lives in the state machine.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is the DDL this store expects. Applied by migrations in deployment
// and directly by integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS pools (
	id                  UUID PRIMARY KEY,
	creator             UUID        NOT NULL,
	backend_manager     UUID        NOT NULL,
	contribution_amount BIGINT      NOT NULL,
	current_round       INT         NOT NULL DEFAULT 0,
	round_start_time    TIMESTAMPTZ,
	active              BOOLEAN     NOT NULL DEFAULT FALSE,
	complete            BOOLEAN     NOT NULL DEFAULT FALSE,
	members             JSONB       NOT NULL,
	payout_order        JSONB       NOT NULL DEFAULT '[]',
	contributions       JSONB       NOT NULL DEFAULT '{}',
	total_contributed   JSONB       NOT NULL DEFAULT '{}',
	round_paid_out      JSONB       NOT NULL DEFAULT '{}',
	has_received_payout JSONB       NOT NULL DEFAULT '{}',
	created_at          TIMESTAMPTZ NOT NULL,
	version             BIGINT      NOT NULL DEFAULT 0
);
`

// Save upserts the aggregate with an optimistic version check: the row is only
// written when the stored version matches the incoming one.
func (s *PostgresStore) Save(ctx context.Context, pool *models.Pool) error {
	members, err := json.Marshal(pool.Members)
	if err != nil {
		return fmt.Errorf("marshal members: %w", err)
	}
	payoutOrder, err := json.Marshal(pool.PayoutOrder)
	if err != nil {
		return fmt.Errorf("marshal payout order: %w", err)
	}
	contributions, err := json.Marshal(pool.Contributions)
	if err != nil {
		return fmt.Errorf("marshal contributions: %w", err)
	}
	totalContributed, err := json.Marshal(pool.TotalContributed)
	if err != nil {
		return fmt.Errorf("marshal total contributed: %w", err)
	}
	roundPaidOut, err := json.Marshal(pool.RoundPaidOut)
	if err != nil {
		return fmt.Errorf("marshal round paid out: %w", err)
	}
	hasReceived, err := json.Marshal(pool.HasReceivedPayout)
	if err != nil {
		return fmt.Errorf("marshal has received payout: %w", err)
	}

	var roundStart sql.NullTime
	if pool.CurrentRound > 0 {
		roundStart = sql.NullTime{Time: pool.RoundStartTime, Valid: true}
	}

	query := `
		INSERT INTO pools (
			id, creator, backend_manager, contribution_amount, current_round,
			round_start_time, active, complete, members, payout_order,
			contributions, total_contributed, round_paid_out, has_received_payout,
			created_at, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16 + 1)
		ON CONFLICT (id) DO UPDATE SET
			backend_manager     = EXCLUDED.backend_manager,
			current_round       = EXCLUDED.current_round,
			round_start_time    = EXCLUDED.round_start_time,
			active              = EXCLUDED.active,
			complete            = EXCLUDED.complete,
			members             = EXCLUDED.members,
			payout_order        = EXCLUDED.payout_order,
			contributions       = EXCLUDED.contributions,
			total_contributed   = EXCLUDED.total_contributed,
			round_paid_out      = EXCLUDED.round_paid_out,
			has_received_payout = EXCLUDED.has_received_payout,
			version             = EXCLUDED.version
		WHERE pools.version = $16
	`
	result, err := s.db.ExecContext(ctx, query,
		pool.ID.String(),
		pool.Creator.String(),
		pool.BackendManager.String(),
		pool.ContributionAmount,
		pool.CurrentRound,
		roundStart,
		pool.Active,
		pool.Complete,
		members,
		payoutOrder,
		contributions,
		totalContributed,
		roundPaidOut,
		hasReceived,
		pool.CreatedAt,
		pool.Version,
	)
	if err != nil {
		return fmt.Errorf("save pool: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save pool rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrConflict
	}
	pool.Version++
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, poolID id.PoolID) (*models.Pool, error) {
	query := selectColumns + ` FROM pools WHERE id = $1`
	pool, err := scanPool(s.db.QueryRowContext(ctx, query, poolID.String()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find pool: %w", err)
	}
	return pool, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Pool, error) {
	query := selectColumns + ` FROM pools ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pools: %w", err)
	}
	defer rows.Close()

	var pools []*models.Pool
	for rows.Next() {
		pool, err := scanPool(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pool: %w", err)
		}
		pools = append(pools, pool)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pools: %w", err)
	}
	return pools, nil
}

const selectColumns = `
	SELECT id, creator, backend_manager, contribution_amount, current_round,
	       round_start_time, active, complete, members, payout_order,
	       contributions, total_contributed, round_paid_out, has_received_payout,
	       created_at, version`

type poolRow interface {
	Scan(dest ...any) error
}

func scanPool(row poolRow) (*models.Pool, error) {
	var (
		pool             models.Pool
		poolID           string
		creator          string
		backendManager   string
		roundStart       sql.NullTime
		members          []byte
		payoutOrder      []byte
		contributions    []byte
		totalContributed []byte
		roundPaidOut     []byte
		hasReceived      []byte
	)
	if err := row.Scan(
		&poolID, &creator, &backendManager, &pool.ContributionAmount,
		&pool.CurrentRound, &roundStart, &pool.Active, &pool.Complete,
		&members, &payoutOrder, &contributions, &totalContributed,
		&roundPaidOut, &hasReceived, &pool.CreatedAt, &pool.Version,
	); err != nil {
		return nil, err
	}

	var err error
	if pool.ID, err = id.ParsePoolID(poolID); err != nil {
		return nil, err
	}
	if pool.Creator, err = id.ParseAccountID(creator); err != nil {
		return nil, err
	}
	if pool.BackendManager, err = id.ParseAccountID(backendManager); err != nil {
		return nil, err
	}
	if roundStart.Valid {
		pool.RoundStartTime = roundStart.Time
	}
	if err := json.Unmarshal(members, &pool.Members); err != nil {
		return nil, fmt.Errorf("unmarshal members: %w", err)
	}
	if err := json.Unmarshal(payoutOrder, &pool.PayoutOrder); err != nil {
		return nil, fmt.Errorf("unmarshal payout order: %w", err)
	}
	if err := json.Unmarshal(contributions, &pool.Contributions); err != nil {
		return nil, fmt.Errorf("unmarshal contributions: %w", err)
	}
	if err := json.Unmarshal(totalContributed, &pool.TotalContributed); err != nil {
		return nil, fmt.Errorf("unmarshal total contributed: %w", err)
	}
	if err := json.Unmarshal(roundPaidOut, &pool.RoundPaidOut); err != nil {
		return nil, fmt.Errorf("unmarshal round paid out: %w", err)
	}
	if err := json.Unmarshal(hasReceived, &pool.HasReceivedPayout); err != nil {
		return nil, fmt.Errorf("unmarshal has received payout: %w", err)
	}
	return &pool, nil
}
