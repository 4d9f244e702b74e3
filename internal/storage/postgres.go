package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mailpipe/internal/apperrors"
	"mailpipe/internal/config"
	"mailpipe/internal/model"
)

const recipientSeparator = ";"

type PostgresStorage struct {
	db *pgxpool.Pool
}

// NewPostgresPool creates the shared connection pool and verifies it.
func NewPostgresPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return pool, nil
}

func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{db: pool}
}

func (ps *PostgresStorage) Ping(ctx context.Context) error {
	return ps.db.Ping(ctx)
}

// The single-statement insert-or-update keeps concurrent writers for the same
// id from ever producing two rows or a duplicate-key error. Recipients,
// subject and requested_at keep their stored values when the caller passes
// NULL; status and error_detail are overwritten on every write.
const upsertQuery = `
	INSERT INTO email_send_log (id, status, recipients, subject, error_detail, requested_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, COALESCE($6::timestamptz, now()), now())
	ON CONFLICT (id) DO UPDATE SET
		status       = EXCLUDED.status,
		recipients   = COALESCE(EXCLUDED.recipients, email_send_log.recipients),
		subject      = COALESCE(EXCLUDED.subject, email_send_log.subject),
		error_detail = EXCLUDED.error_detail,
		requested_at = COALESCE($6::timestamptz, email_send_log.requested_at),
		updated_at   = now()
	RETURNING id, status, recipients, subject, error_detail, requested_at, updated_at
`

func (ps *PostgresStorage) Upsert(ctx context.Context, p UpsertParams) (model.StatusRecord, error) {
	if p.ID == "" {
		return model.StatusRecord{}, apperrors.NewValidation("id is required")
	}
	if p.Status == "" {
		return model.StatusRecord{}, apperrors.NewValidation("status is required")
	}

	row := ps.db.QueryRow(ctx, upsertQuery,
		p.ID, string(p.Status), joinRecipients(p.Recipients), p.Subject, p.ErrorDetail, p.RequestedAt)

	rec, err := scanRecord(row)
	if err != nil {
		return model.StatusRecord{}, apperrors.Storage(fmt.Errorf("upsert %s: %w", p.ID, err))
	}
	return rec, nil
}

func (ps *PostgresStorage) Get(ctx context.Context, id string) (model.StatusRecord, error) {
	const query = `
		SELECT id, status, recipients, subject, error_detail, requested_at, updated_at
		FROM email_send_log
		WHERE id = $1
	`

	rec, err := scanRecord(ps.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.StatusRecord{}, fmt.Errorf("email %s: %w", id, apperrors.ErrNotFound)
		}
		return model.StatusRecord{}, apperrors.Storage(fmt.Errorf("get %s: %w", id, err))
	}
	return rec, nil
}

func (ps *PostgresStorage) ListRecent(ctx context.Context, limit int) ([]model.StatusRecord, error) {
	if limit <= 0 {
		return nil, apperrors.NewValidation("limit must be > 0")
	}

	const query = `
		SELECT id, status, recipients, subject, error_detail, requested_at, updated_at
		FROM email_send_log
		ORDER BY updated_at DESC
		LIMIT $1
	`

	rows, err := ps.db.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Storage(fmt.Errorf("list recent: %w", err))
	}
	defer rows.Close()

	var recs []model.StatusRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, apperrors.Storage(fmt.Errorf("scan failed: %w", err))
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(fmt.Errorf("row iteration failed: %w", err))
	}
	return recs, nil
}

func scanRecord(row pgx.Row) (model.StatusRecord, error) {
	var (
		rec        model.StatusRecord
		status     string
		recipients *string
	)
	if err := row.Scan(
		&rec.ID, &status, &recipients, &rec.Subject,
		&rec.ErrorDetail, &rec.RequestedAt, &rec.UpdatedAt,
	); err != nil {
		return model.StatusRecord{}, err
	}
	rec.Status = model.Status(status)
	rec.Recipients = splitRecipients(recipients)
	return rec, nil
}

// joinRecipients encodes the recipient list as delimited text, nil when the
// caller did not supply one so the COALESCE keep applies.
func joinRecipients(to []string) *string {
	if to == nil {
		return nil
	}
	joined := strings.Join(to, recipientSeparator)
	return &joined
}

func splitRecipients(stored *string) []string {
	if stored == nil || *stored == "" {
		return nil
	}
	return strings.Split(*stored, recipientSeparator)
}

var _ EmailLogStorage = (*PostgresStorage)(nil)
