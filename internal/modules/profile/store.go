// README: Profile store backed by PostgreSQL.
package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hopper/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, trust_score, phone_verified, profile_complete,
		       no_show_count, score_version, created_at
		FROM profiles
		WHERE id = $1`, string(id),
	)
	var p Profile
	err := row.Scan(
		&p.ID, &p.Name, &p.TrustScore, &p.PhoneVerified, &p.ProfileComplete,
		&p.NoShowCount, &p.ScoreVersion, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert creates the profile with the default trust score or renames an existing one.
func (s *Store) Upsert(ctx context.Context, id types.ID, name string, defaultScore float64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO profiles (id, name, trust_score, profile_complete)
		VALUES ($1, $2, $3, FALSE)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    profile_complete = (EXCLUDED.name <> '' AND profiles.phone_verified)`,
		string(id), name, defaultScore,
	)
	return err
}

func (s *Store) Ensure(ctx context.Context, id types.ID, defaultScore float64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO profiles (id, name, trust_score, profile_complete)
		VALUES ($1, '', $2, FALSE)
		ON CONFLICT (id) DO NOTHING`,
		string(id), defaultScore,
	)
	return err
}

func (s *Store) MarkPhoneVerified(ctx context.Context, id types.ID) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE profiles
		SET phone_verified = TRUE,
		    profile_complete = (name <> '')
		WHERE id = $1`, string(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CompareAndSetTrust writes score only if the profile is still at version.
func (s *Store) CompareAndSetTrust(ctx context.Context, id types.ID, version int, score float64) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE profiles
		SET trust_score = $1,
		    score_version = score_version + 1
		WHERE id = $2 AND score_version = $3`,
		score, string(id), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) IncrementNoShow(ctx context.Context, id types.ID) error {
	_, err := s.db.Exec(ctx, `UPDATE profiles SET no_show_count = no_show_count + 1 WHERE id = $1`, string(id))
	return err
}

// TopByTrust orders profiles by trust score; ties go to fewer no-shows, then id.
func (s *Store) TopByTrust(ctx context.Context, limit int) ([]Profile, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, trust_score, phone_verified, profile_complete,
		       no_show_count, score_version, created_at
		FROM profiles
		ORDER BY trust_score DESC, no_show_count ASC, id ASC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Profile, 0, limit)
	for rows.Next() {
		var p Profile
		if err := rows.Scan(
			&p.ID, &p.Name, &p.TrustScore, &p.PhoneVerified, &p.ProfileComplete,
			&p.NoShowCount, &p.ScoreVersion, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
