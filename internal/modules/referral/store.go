// README: Referral store backed by PostgreSQL.
package referral

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"hopper/internal/types"
)

const uniqueViolation = "23505"

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Create fails with ErrAlreadyReferred when the referee already has a referral.
func (s *Store) Create(ctx context.Context, r *Referral) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO referrals (id, referrer_id, referee_id, credit_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		string(r.ID),
		string(r.ReferrerID),
		string(r.RefereeID),
		r.CreditAmount.Amount,
		string(r.Status),
		r.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrAlreadyReferred
	}
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Referral, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, referrer_id, referee_id, credit_amount, status, created_at, completed_at
		FROM referrals WHERE id = $1`, string(id),
	)
	var r Referral
	var completedAt pgtype.Timestamptz
	err := row.Scan(&r.ID, &r.ReferrerID, &r.RefereeID, &r.CreditAmount.Amount, &r.Status, &r.CreatedAt, &completedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.CreditAmount.Currency = types.DefaultCurrency
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	return &r, nil
}

// MarkCompleted reports false when the referral was not pending.
func (s *Store) MarkCompleted(ctx context.Context, id types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE referrals
		SET status = 'completed', completed_at = NOW()
		WHERE id = $1 AND status = 'pending'`,
		string(id),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) CountByReferrer(ctx context.Context, referrerID types.ID) (completed, pending int, err error) {
	row := s.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'pending')
		FROM referrals
		WHERE referrer_id = $1`, string(referrerID),
	)
	err = row.Scan(&completed, &pending)
	return completed, pending, err
}

func (s *Store) TopReferrers(ctx context.Context, limit int) ([]Leader, error) {
	rows, err := s.db.Query(ctx, `
		SELECT referrer_id, COUNT(*) AS n
		FROM referrals
		WHERE status = 'completed'
		GROUP BY referrer_id
		ORDER BY n DESC, referrer_id ASC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Leader, 0, limit)
	for rows.Next() {
		var l Leader
		if err := rows.Scan(&l.ReferrerID, &l.Count); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
