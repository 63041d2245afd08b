// README: Ride store backed by PostgreSQL.
package ride

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"hopper/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const rideColumns = `
	id, host_id, pickup_location, drop_location, ride_date, departure_time,
	flexibility_minutes, seats_total, seats_taken, status, status_version,
	estimated_fare, fare_currency, created_at, locked_at, completed_at, cancelled_at`

func (s *Store) Create(ctx context.Context, r *Ride) error {
	var fare *int64
	var currency *string
	if r.EstimatedFare != nil {
		fare = &r.EstimatedFare.Amount
		currency = &r.EstimatedFare.Currency
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO rides (
			id, host_id, pickup_location, drop_location, ride_date, departure_time,
			flexibility_minutes, seats_total, seats_taken, status, status_version,
			estimated_fare, fare_currency, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14
		)`,
		string(r.ID),
		string(r.HostID),
		r.Pickup,
		r.Drop,
		r.Date,
		clockToPg(r.DepartureTime),
		r.FlexibilityMinutes,
		r.SeatsTotal,
		r.SeatsTaken,
		string(r.Status),
		r.StatusVersion,
		fare,
		currency,
		r.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1`, string(id))
	r, err := scanRide(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListActive returns active rides ordered by date, departure time and creation.
// Zero-valued filter fields are ignored. Pickup and drop match as plain
// case-insensitive substrings.
func (s *Store) ListActive(ctx context.Context, f ListFilter) ([]Ride, error) {
	var date *time.Time
	if !f.Date.IsZero() {
		d := f.Date
		date = &d
	}
	// LIMIT NULL is no limit.
	var limit *int
	if !f.Unbounded {
		n := f.Limit
		if n <= 0 {
			n = defaultListLimit
		}
		limit = &n
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+rideColumns+`
		FROM rides
		WHERE status = 'active'
		  AND ($1::date IS NULL OR ride_date = $1::date)
		  AND ($2 = '' OR strpos(lower(pickup_location), lower($2)) > 0)
		  AND ($3 = '' OR strpos(lower(drop_location), lower($3)) > 0)
		  AND ($4 = '' OR host_id <> $4)
		ORDER BY ride_date, departure_time, created_at
		LIMIT $5::bigint`,
		date, f.Pickup, f.Drop, string(f.ExcludeHost), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE rides
		SET status = $1,
		    status_version = status_version + 1,
		    locked_at = CASE WHEN $1 = 'locked' THEN NOW() ELSE locked_at END,
		    completed_at = CASE WHEN $1 = 'completed' THEN NOW() ELSE completed_at END,
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END
		WHERE id = $2 AND status = $3 AND status_version = $4`,
		string(to),
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	var actorID *string
	if e.ActorID != nil {
		v := string(*e.ActorID)
		actorID = &v
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO ride_state_events (
			ride_id, from_status, to_status, actor_type, actor_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.RideID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		actorID,
		e.CreatedAt,
	)
	return err
}

// ListStale returns active rides dated before day, oldest first.
func (s *Store) ListStale(ctx context.Context, day time.Time, limit int) ([]Ride, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+rideColumns+`
		FROM rides
		WHERE status = 'active' AND ride_date < $1
		ORDER BY ride_date ASC, departure_time ASC
		LIMIT $2`,
		day, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func scanRide(row pgx.Row) (*Ride, error) {
	var r Ride
	var dep pgtype.Time
	var fare pgtype.Int8
	var currency pgtype.Text
	var lockedAt, completedAt, cancelledAt pgtype.Timestamptz

	err := row.Scan(
		&r.ID, &r.HostID, &r.Pickup, &r.Drop, &r.Date, &dep,
		&r.FlexibilityMinutes, &r.SeatsTotal, &r.SeatsTaken, &r.Status, &r.StatusVersion,
		&fare, &currency, &r.CreatedAt, &lockedAt, &completedAt, &cancelledAt,
	)
	if err != nil {
		return nil, err
	}
	r.Date = types.Day(r.Date)
	r.DepartureTime = clockFromPg(dep)
	if fare.Valid {
		m := types.Money{Amount: fare.Int64, Currency: currency.String}
		if m.Currency == "" {
			m.Currency = types.DefaultCurrency
		}
		r.EstimatedFare = &m
	}
	r.LockedAt = toTimePtr(lockedAt)
	r.CompletedAt = toTimePtr(completedAt)
	r.CancelledAt = toTimePtr(cancelledAt)
	return &r, nil
}

func clockToPg(c types.Clock) pgtype.Time {
	return pgtype.Time{Microseconds: c.Duration().Microseconds(), Valid: true}
}

func clockFromPg(t pgtype.Time) types.Clock {
	if !t.Valid {
		return 0
	}
	return types.Clock(t.Microseconds / int64(time.Minute/time.Microsecond))
}

func toTimePtr(v pgtype.Timestamptz) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
