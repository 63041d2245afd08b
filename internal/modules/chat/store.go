// README: Chat message store backed by PostgreSQL.
package chat

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"hopper/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, m *Message) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ride_messages (id, ride_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		string(m.ID),
		string(m.RideID),
		string(m.UserID),
		m.Content,
		m.CreatedAt,
	)
	return err
}

// ListByRide returns the newest limit messages, oldest first.
func (s *Store) ListByRide(ctx context.Context, rideID types.ID, limit int) ([]Message, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, ride_id, user_id, content, created_at FROM (
			SELECT id, ride_id, user_id, content, created_at
			FROM ride_messages
			WHERE ride_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC, id ASC`,
		string(rideID), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.RideID, &m.UserID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
