// README: Membership store backed by PostgreSQL; seat reservation runs in one transaction.
package membership

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

const memberColumns = `id, ride_id, user_id, status, payment_status, no_show, joined_at, responded_at`

// Create relies on the partial unique index over active (ride_id, user_id)
// pairs, so two racing requests cannot both land.
func (s *Store) Create(ctx context.Context, m *Membership) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ride_members (id, ride_id, user_id, status, payment_status, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		string(m.ID),
		string(m.RideID),
		string(m.UserID),
		string(m.Status),
		string(m.PaymentStatus),
		m.JoinedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateRequest
	}
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Membership, error) {
	row := s.db.QueryRow(ctx, `SELECT `+memberColumns+` FROM ride_members WHERE id = $1`, string(id))
	m, err := scanMember(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) HasActive(ctx context.Context, rideID, userID types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM ride_members
			WHERE ride_id = $1 AND user_id = $2
			  AND status IN ('pending','accepted')
		)`, string(rideID), string(userID),
	)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) ListByRide(ctx context.Context, rideID types.ID) ([]Membership, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+memberColumns+`
		FROM ride_members
		WHERE ride_id = $1
		ORDER BY joined_at ASC`, string(rideID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Membership
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (s *Store) AcceptedMemberIDs(ctx context.Context, rideID types.ID) ([]types.ID, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id FROM ride_members
		WHERE ride_id = $1 AND status = 'accepted'
		ORDER BY joined_at ASC`, string(rideID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.ID
	for rows.Next() {
		var id types.ID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// completedRides has one row per (user, completed ride), for accepted members
// and hosts alike.
const completedRides = `
	SELECT m.user_id, m.ride_id
	FROM ride_members m
	JOIN rides r ON r.id = m.ride_id
	WHERE m.status = 'accepted' AND r.status = 'completed'
	UNION ALL
	SELECT host_id, id
	FROM rides
	WHERE status = 'completed'`

// CountCompleted returns how many completed rides the user hosted or joined.
func (s *Store) CountCompleted(ctx context.Context, userID types.ID) (int, error) {
	row := s.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM (`+completedRides+`) t
		WHERE t.user_id = $1`,
		string(userID),
	)
	var n int
	err := row.Scan(&n)
	return n, err
}

func (s *Store) TopRiders(ctx context.Context, limit int) ([]RiderCount, error) {
	rows, err := s.db.Query(ctx, `
		SELECT t.user_id, COALESCE(p.name, ''), COUNT(*) AS n
		FROM (`+completedRides+`) t
		LEFT JOIN profiles p ON p.id = t.user_id
		GROUP BY t.user_id, p.name
		ORDER BY n DESC, t.user_id ASC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RiderCount, 0, limit)
	for rows.Next() {
		var rc RiderCount
		if err := rows.Scan(&rc.UserID, &rc.Name, &rc.Rides); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// FlagNoShow marks an accepted member of the ride as a no-show. It reports
// false if there is no such member or the flag was already set.
func (s *Store) FlagNoShow(ctx context.Context, rideID, userID types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE ride_members
		SET no_show = TRUE
		WHERE ride_id = $1 AND user_id = $2 AND status = 'accepted' AND NOT no_show`,
		string(rideID), string(userID),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// AcceptAndReserveSeat moves a pending membership to accepted and takes one
// seat on the ride, or does neither. Concurrent accepts on the same ride
// serialise on the ride row lock taken by the seat UPDATE; the loser re-reads
// seats_taken after the winner commits and sees the ride full. A ride that
// left active in the meantime yields ErrRideClosed instead.
func (s *Store) AcceptAndReserveSeat(ctx context.Context, id, rideID types.ID) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE rides
			SET seats_taken = seats_taken + 1
			WHERE id = $1 AND status = 'active' AND seats_taken < seats_total`,
			string(rideID),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var status string
			if err := tx.QueryRow(ctx, `SELECT status FROM rides WHERE id = $1`, string(rideID)).Scan(&status); err != nil {
				return err
			}
			if status != "active" {
				return ErrRideClosed
			}
			return ErrOverbooked
		}
		tag, err = tx.Exec(ctx, `
			UPDATE ride_members
			SET status = 'accepted', responded_at = NOW()
			WHERE id = $1 AND ride_id = $2 AND status = 'pending'`,
			string(id), string(rideID),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrConflict
		}
		return nil
	})
}

// UpdateStatus performs a guarded transition that does not touch seats.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE ride_members
		SET status = $1, responded_at = NOW()
		WHERE id = $2 AND status = $3`,
		string(to), string(id), string(from),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// CancelAndReleaseSeat cancels an accepted membership and frees its seat in one transaction.
func (s *Store) CancelAndReleaseSeat(ctx context.Context, id, rideID types.ID) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE ride_members
			SET status = 'cancelled', responded_at = NOW()
			WHERE id = $1 AND ride_id = $2 AND status = 'accepted'`,
			string(id), string(rideID),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrConflict
		}
		_, err = tx.Exec(ctx, `
			UPDATE rides
			SET seats_taken = GREATEST(seats_taken - 1, 0)
			WHERE id = $1`,
			string(rideID),
		)
		return err
	})
}

func (s *Store) SetPaymentStatus(ctx context.Context, id types.ID, ps PaymentStatus) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE ride_members
		SET payment_status = $1
		WHERE id = $2 AND status = 'accepted'`,
		string(ps), string(id),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanMember(row pgx.Row) (*Membership, error) {
	var m Membership
	var respondedAt pgtype.Timestamptz
	if err := row.Scan(&m.ID, &m.RideID, &m.UserID, &m.Status, &m.PaymentStatus, &m.NoShow, &m.JoinedAt, &respondedAt); err != nil {
		return nil, err
	}
	if respondedAt.Valid {
		t := respondedAt.Time
		m.RespondedAt = &t
	}
	return &m, nil
}

