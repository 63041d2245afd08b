// README: Membership service tests with an in-memory store (flow, authorization, overbooking).
package membership

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"hopper/internal/modules/ride"
	"hopper/internal/notify"
	"hopper/internal/types"
)

// TestCanTransition verifies the transition table.
func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusAccepted, StatusCancelled, true},
		// accepted can only be cancelled
		{StatusAccepted, StatusRejected, false},
		{StatusAccepted, StatusPending, false},
		// terminal states
		{StatusRejected, StatusAccepted, false},
		{StatusRejected, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusAccepted, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

// ---------------------------------------------------------------------------
// In-memory doubles
// ---------------------------------------------------------------------------

// world holds rides and memberships behind one mutex so seat reservation is atomic.
type world struct {
	mu      sync.Mutex
	rides   map[types.ID]*ride.Ride
	members map[types.ID]*Membership
	order   []types.ID
}

func newWorld() *world {
	return &world{rides: map[types.ID]*ride.Ride{}, members: map[types.ID]*Membership{}}
}

func (w *world) addRide(id, host types.ID, total, taken int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rides[id] = &ride.Ride{ID: id, HostID: host, Drop: "SRM Campus", SeatsTotal: total, SeatsTaken: taken, Status: ride.StatusActive}
}

// completedCounts mirrors the store: hosts and accepted members of completed rides.
func (w *world) completedCounts() map[types.ID]int {
	counts := map[types.ID]int{}
	for _, r := range w.rides {
		if r.Status == ride.StatusCompleted {
			counts[r.HostID]++
		}
	}
	for _, m := range w.members {
		if m.Status == StatusAccepted && w.rides[m.RideID].Status == ride.StatusCompleted {
			counts[m.UserID]++
		}
	}
	return counts
}

func (w *world) seatsTaken(id types.ID) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rides[id].SeatsTaken
}

type memRides struct{ w *world }

func (r memRides) Get(_ context.Context, id types.ID) (*ride.Ride, error) {
	r.w.mu.Lock()
	defer r.w.mu.Unlock()
	x, ok := r.w.rides[id]
	if !ok {
		return nil, ride.ErrNotFound
	}
	cp := *x
	return &cp, nil
}

type memMembers struct{ w *world }

func (s memMembers) Create(_ context.Context, m *Membership) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, x := range s.w.members {
		if x.RideID == m.RideID && x.UserID == m.UserID && x.Active() {
			return ErrDuplicateRequest
		}
	}
	cp := *m
	s.w.members[m.ID] = &cp
	s.w.order = append(s.w.order, m.ID)
	return nil
}

func (s memMembers) Get(_ context.Context, id types.ID) (*Membership, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	m, ok := s.w.members[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s memMembers) HasActive(_ context.Context, rideID, userID types.ID) (bool, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	for _, m := range s.w.members {
		if m.RideID == rideID && m.UserID == userID && m.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (s memMembers) ListByRide(_ context.Context, rideID types.ID) ([]Membership, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var out []Membership
	for _, id := range s.w.order {
		if m := s.w.members[id]; m.RideID == rideID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s memMembers) AcceptedMemberIDs(_ context.Context, rideID types.ID) ([]types.ID, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var out []types.ID
	for _, id := range s.w.order {
		if m := s.w.members[id]; m.RideID == rideID && m.Status == StatusAccepted {
			out = append(out, m.UserID)
		}
	}
	return out, nil
}

func (s memMembers) CountCompleted(_ context.Context, userID types.ID) (int, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	return s.w.completedCounts()[userID], nil
}

func (s memMembers) TopRiders(_ context.Context, limit int) ([]RiderCount, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var out []RiderCount
	for id, n := range s.w.completedCounts() {
		out = append(out, RiderCount{UserID: id, Rides: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rides != out[j].Rides {
			return out[i].Rides > out[j].Rides
		}
		return out[i].UserID < out[j].UserID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s memMembers) AcceptAndReserveSeat(_ context.Context, id, rideID types.ID) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	r := s.w.rides[rideID]
	if r.Status != ride.StatusActive {
		return ErrRideClosed
	}
	if r.SeatsTaken >= r.SeatsTotal {
		return ErrOverbooked
	}
	m := s.w.members[id]
	if m.Status != StatusPending {
		return ErrConflict
	}
	r.SeatsTaken++
	m.Status = StatusAccepted
	return nil
}

func (s memMembers) UpdateStatus(_ context.Context, id types.ID, from, to Status) (bool, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	m := s.w.members[id]
	if m.Status != from {
		return false, nil
	}
	m.Status = to
	return true, nil
}

func (s memMembers) CancelAndReleaseSeat(_ context.Context, id, rideID types.ID) error {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	m := s.w.members[id]
	if m.Status != StatusAccepted {
		return ErrConflict
	}
	m.Status = StatusCancelled
	if r := s.w.rides[rideID]; r.SeatsTaken > 0 {
		r.SeatsTaken--
	}
	return nil
}

func (s memMembers) SetPaymentStatus(_ context.Context, id types.ID, ps PaymentStatus) (bool, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	m := s.w.members[id]
	if m.Status != StatusAccepted {
		return false, nil
	}
	m.PaymentStatus = ps
	return true, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[types.ID][]notify.Kind
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, userID types.ID, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sent == nil {
		n.sent = map[types.ID][]notify.Kind{}
	}
	n.sent[userID] = append(n.sent[userID], msg.Kind)
	return n.err
}

func newTestService(w *world) (*Service, *recordingNotifier) {
	n := &recordingNotifier{}
	return NewService(memMembers{w}, memRides{w}, n), n
}

func mustRequest(t *testing.T, svc *Service, rideID, userID types.ID) *Membership {
	t.Helper()
	m, err := svc.Request(context.Background(), RequestCommand{RideID: rideID, UserID: userID})
	if err != nil {
		t.Fatalf("request %s/%s: %v", rideID, userID, err)
	}
	return m
}

// ---------------------------------------------------------------------------
// Flow
// ---------------------------------------------------------------------------

func TestRequestAcceptHappyPath(t *testing.T) {
	w := newWorld()
	w.addRide("r1", "host", 4, 0)
	svc, n := newTestService(w)
	ctx := context.Background()

	m := mustRequest(t, svc, "r1", "u1")
	if m.Status != StatusPending || m.PaymentStatus != PaymentUnpaid {
		t.Fatalf("unexpected new membership %+v", m)
	}
	got, err := svc.Accept(ctx, DecideCommand{MembershipID: m.ID, HostID: "host"})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got.Status != StatusAccepted || got.RespondedAt == nil {
		t.Fatalf("unexpected accepted membership %+v", got)
	}
	if w.seatsTaken("r1") != 1 {
		t.Fatalf("expected 1 seat taken, got %d", w.seatsTaken("r1"))
	}
	if len(n.sent["host"]) != 1 || n.sent["host"][0] != notify.KindJoinRequested {
		t.Fatalf("host should be told about the request: %v", n.sent)
	}
	if len(n.sent["u1"]) != 1 || n.sent["u1"][0] != notify.KindRequestAccepted {
		t.Fatalf("requester should be told about the decision: %v", n.sent)
	}
}

func TestRequestDuplicateWhileActive(t *testing.T) {
	w := newWorld()
	w.addRide("r1", "host", 4, 0)
	svc, _ := newTestService(w)
	ctx := context.Background()

	m := mustRequest(t, svc, "r1", "u1")
	if _, err := svc.Request(ctx, RequestCommand{RideID: "r1", UserID: "u1"}); !errors.Is(err, ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest while pending, got %v", err)
	}
	if _, err := svc.Accept(ctx, DecideCommand{MembershipID: m.ID, HostID: "host"}); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.Request(ctx, RequestCommand{RideID: "r1", UserID: "u1"}); !errors.Is(err, ErrDuplicateRequest) {
		t.Fatalf("expected ErrDuplicateRequest while accepted, got %v", err)
	}
}

func TestRequestAgainAfterRejectCreatesNewRecord(t *testing.T) {
	w := newWorld()
	w.addRide("r1", "host", 4, 0)
	svc, _ := newTestService(w)
	ctx := context.Background()

	first := mustRequest(t, svc, "r1", "u1")
	if _, err := svc.Reject(ctx, DecideCommand{MembershipID: first.ID, HostID: "host"}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	second := mustRequest(t, svc, "r1", "u1")
	if second.ID == first.ID {
		t.Fatal("re-request must create a new record")
	}
	old, _ := svc.Get(ctx, first.ID)
	if old.Status != StatusRejected {
		t.Fatalf("old request should stay rejected, got %s", old.Status)
	}

	if _, err := svc.Cancel(ctx, CancelCommand{MembershipID: second.ID, UserID: "u1"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	third := mustRequest(t, svc, "r1", "u1")
	if third.ID == second.ID {
		t.Fatal("re-request after cancel must create a new record")
	}
}

func TestRequestValidation(t *testing.T) {
	w := newWorld()
	w.addRide("r1", "host", 4, 0)
	w.addRide("r2", "host", 4, 0)
	w.rides["r2"].Status = ride.StatusLocked
	svc, _ := newTestService(w)
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  RequestCommand
		want error
	}{
		{"missing user", RequestCommand{RideID: "r1"}, ErrBadRequest},
		{"own ride", RequestCommand{RideID: "r1", UserID: "host"}, ErrOwnRide},
		{"locked ride", RequestCommand{RideID: "r2", UserID: "u1"}, ErrRideClosed},
		{"unknown ride", RequestCommand{RideID: "nope", UserID: "u1"}, ride.ErrNotFound},
	}
	for _, tc := range cases {
		if _, err := svc.Request(ctx, tc.cmd); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestAcceptRejectRequireHost(t *testing.T) {
	w := newWorld()
	w.addRide("r1", "host", 4, 0)
	svc, _ := newTestService(w)
	ctx := context.Background()

	m := mustRequest(t, svc, "r1", "u1")
	if _, err := svc.Accept(ctx, DecideCommand{MembershipID: m.ID, HostID: "u1"}); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("accept by requester: expected ErrNotAuthorized, got %v", err)
	}
	if _, err := svc.Reject(ctx, DecideCommand{MembershipID: m.ID, HostID: "stranger"}); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("reject by stranger: expected ErrNotAuthorized, got %v", err)
	}
	if w.seatsTaken("r1") != 0 {
		t.Fatal("seat must not be taken by an unauthorized accept")
	}
}

func TestCancelRequiresRequester(t *testing.T) {
	w := newWorld()
	w.addRide("r1", "host", 4, 0)
	svc, _ := newTestService(w)

	m := mustRequest(t, svc, "r1", "u1")
	if _, err := svc.Cancel(context.Background(), CancelCommand{MembershipID: m.ID, UserID: "host"}); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestTerminalStatesRejectTransitions(t *testing.T) {
	w := newWorld()
	w.addRide("r1", "host", 4, 0)
	svc, _ := newTestService(w)
	ctx := context.Background()

	m := mustRequest(t, svc, "r1", "u1")
	if _, err := svc.Reject(ctx, DecideCommand{MembershipID: m.ID, HostID: "host"}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := svc.Accept(ctx, DecideCommand{MembershipID: m.ID, HostID: "host"}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("accept after reject: expected ErrInvalidState, got %v", err)
	}
	if _, err := svc.Cancel(ctx, CancelCommand{MembershipID: m.ID, UserID: "u1"}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("cancel after reject: expected ErrInvalidState, got %v", err)
	}

	m2 := mustRequest(t, svc, "r1", "u2")
	if _, err := svc.Accept(ctx, DecideCommand{MembershipID: m2.ID, HostID: "host"}); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.Reject(ctx, DecideCommand{MembershipID: m2.ID, HostID: "host"}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("reject after accept: expected ErrInvalidState, got %v", err)
	}
}

func TestCancelAcceptedReleasesSeat(t *testing.T) {
	w := newWorld()
	w.addRide("r1", "host", 1, 0)
	svc, _ := newTestService(w)
	ctx := context.Background()

	m := mustRequest(t, svc, "r1", "u1")
	if _, err := svc.Accept(ctx, DecideCommand{MembershipID: m.ID, HostID: "host"}); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.Cancel(ctx, CancelCommand{MembershipID: m.ID, UserID: "u1"}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if w.seatsTaken("r1") != 0 {
		t.Fatalf("seat should be released, got %d taken", w.seatsTaken("r1"))
	}
	m2 := mustRequest(t, svc, "r1", "u2")
	if _, err := svc.Accept(ctx, DecideCommand{MembershipID: m2.ID, HostID: "host"}); err != nil {
		t.Fatalf("freed seat should be acceptable: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Overbooking
// ---------------------------------------------------------------------------

func TestAcceptFullRideOverbooked(t *testing.T) {
	for _, history := range []struct{ total, taken int }{{1, 1}, {4, 4}, {8, 8}} {
		w := newWorld()
		w.addRide("r1", "host", history.total, 0)
		svc, _ := newTestService(w)
		m := mustRequest(t, svc, "r1", "late")
		w.rides["r1"].SeatsTaken = history.taken

		_, err := svc.Accept(context.Background(), DecideCommand{MembershipID: m.ID, HostID: "host"})
		if !errors.Is(err, ErrOverbooked) {
			t.Fatalf("%d/%d: expected ErrOverbooked, got %v", history.taken, history.total, err)
		}
		if w.seatsTaken("r1") != history.taken {
			t.Fatalf("%d/%d: seats must not be clamped or changed", history.taken, history.total)
		}
		got, _ := svc.Get(context.Background(), m.ID)
		if got.Status != StatusPending {
			t.Fatalf("membership should stay pending, got %s", got.Status)
		}
	}
}

// TestConcurrentAcceptLastSeat: seats 3/4, two pending requests accepted at once.
func TestConcurrentAcceptLastSeat(t *testing.T) {
	w := newWorld()
	w.addRide("r1", "host", 4, 3)
	svc, _ := newTestService(w)
	a := mustRequest(t, svc, "r1", "ua")
	b := mustRequest(t, svc, "r1", "ub")

	start := make(chan struct{})
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, id := range []types.ID{a.ID, b.ID} {
		wg.Add(1)
		go func(mid types.ID) {
			defer wg.Done()
			<-start
			_, err := svc.Accept(context.Background(), DecideCommand{MembershipID: mid, HostID: "host"})
			errs <- err
		}(id)
	}
	close(start)
	wg.Wait()
	close(errs)

	success, overbooked := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			success++
		case errors.Is(err, ErrOverbooked):
			overbooked++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 || overbooked != 1 {
		t.Fatalf("expected 1 success and 1 overbooked, got %d and %d", success, overbooked)
	}
	if w.seatsTaken("r1") != 4 {
		t.Fatalf("expected 4 seats taken, got %d", w.seatsTaken("r1"))
	}
}

func TestConcurrentAcceptNeverExceedsSeats(t *testing.T) {
	w := newWorld()
	w.addRide("r1", "host", 3, 0)
	svc, _ := newTestService(w)

	const requesters = 10
	ids := make([]types.ID, requesters)
	for i := range ids {
		ids[i] = mustRequest(t, svc, "r1", types.ID(fmt.Sprintf("u%d", i))).ID
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	success := 0
	for _, id := range ids {
		wg.Add(1)
		go func(mid types.ID) {
			defer wg.Done()
			if _, err := svc.Accept(context.Background(), DecideCommand{MembershipID: mid, HostID: "host"}); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			} else if !errors.Is(err, ErrOverbooked) {
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	if success != 3 || w.seatsTaken("r1") != 3 {
		t.Fatalf("expected 3 accepted and 3 seats taken, got %d and %d", success, w.seatsTaken("r1"))
	}
	accepted, _ := svc.AcceptedMemberIDs(context.Background(), "r1")
	if len(accepted) != 3 {
		t.Fatalf("expected 3 accepted members, got %d", len(accepted))
	}
}

// ---------------------------------------------------------------------------
// Participants, listing, payment
// ---------------------------------------------------------------------------

func TestIsParticipantAndListByRide(t *testing.T) {
	w := newWorld()
	w.addRide("r1", "host", 4, 0)
	svc, _ := newTestService(w)
	ctx := context.Background()

	accepted := mustRequest(t, svc, "r1", "in")
	mustRequest(t, svc, "r1", "waiting")
	if _, err := svc.Accept(ctx, DecideCommand{MembershipID: accepted.ID, HostID: "host"}); err != nil {
		t.Fatalf("accept: %v", err)
	}

	for user, want := range map[types.ID]bool{"host": true, "in": true, "waiting": false, "stranger": false} {
		got, err := svc.IsParticipant(ctx, "r1", user)
		if err != nil {
			t.Fatalf("is participant: %v", err)
		}
		if got != want {
			t.Errorf("IsParticipant(%s) = %v, want %v", user, got, want)
		}
	}

	list, err := svc.ListByRide(ctx, "r1", "waiting")
	if err != nil || len(list) != 2 {
		t.Fatalf("requester should see the list: %v, %d", err, len(list))
	}
	if _, err := svc.ListByRide(ctx, "r1", "stranger"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for stranger, got %v", err)
	}
}

func TestMarkPaid(t *testing.T) {
	w := newWorld()
	w.addRide("r1", "host", 4, 0)
	svc, _ := newTestService(w)
	ctx := context.Background()

	m := mustRequest(t, svc, "r1", "u1")
	if _, err := svc.MarkPaid(ctx, MarkPaidCommand{MembershipID: m.ID, HostID: "host"}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("pending member cannot be paid: %v", err)
	}
	if _, err := svc.Accept(ctx, DecideCommand{MembershipID: m.ID, HostID: "host"}); err != nil {
		t.Fatalf("accept: %v", err)
	}
	got, err := svc.MarkPaid(ctx, MarkPaidCommand{MembershipID: m.ID, HostID: "host"})
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if got.PaymentStatus != PaymentPaid {
		t.Fatalf("expected paid, got %s", got.PaymentStatus)
	}
}

func TestPushFailureDoesNotFailRequest(t *testing.T) {
	w := newWorld()
	w.addRide("r1", "host", 4, 0)
	n := &recordingNotifier{err: errors.New("fcm down")}
	svc := NewService(memMembers{w}, memRides{w}, n)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) }

	m, err := svc.Request(context.Background(), RequestCommand{RideID: "r1", UserID: "u1"})
	if err != nil {
		t.Fatalf("request should succeed without push: %v", err)
	}
	if !m.JoinedAt.Equal(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected joined_at %v", m.JoinedAt)
	}
}

func TestCountCompletedIncludesHostedRides(t *testing.T) {
	w := newWorld()
	w.addRide("r1", "host", 4, 0)
	w.addRide("r2", "host", 4, 0)
	w.addRide("r3", "other", 4, 0)
	svc, _ := newTestService(w)
	ctx := context.Background()

	m := mustRequest(t, svc, "r3", "host")
	if _, err := svc.Accept(ctx, DecideCommand{MembershipID: m.ID, HostID: "other"}); err != nil {
		t.Fatalf("accept: %v", err)
	}
	w.mu.Lock()
	w.rides["r1"].Status = ride.StatusCompleted
	w.rides["r2"].Status = ride.StatusCompleted
	w.rides["r3"].Status = ride.StatusCompleted
	w.mu.Unlock()

	for id, want := range map[types.ID]int{"host": 3, "other": 1, "nobody": 0} {
		got, err := svc.CountCompleted(ctx, id)
		if err != nil {
			t.Fatalf("count %s: %v", id, err)
		}
		if got != want {
			t.Errorf("CountCompleted(%s) = %d, want %d", id, got, want)
		}
	}

	top, err := svc.TopRiders(ctx, 0)
	if err != nil {
		t.Fatalf("top riders: %v", err)
	}
	if len(top) != 2 || top[0].UserID != "host" || top[0].Rides != 3 || top[1].UserID != "other" {
		t.Fatalf("unexpected leaderboard %+v", top)
	}
}

func TestAcceptOnClosedRideAtStoreIsNotOverbooked(t *testing.T) {
	w := newWorld()
	w.addRide("r1", "host", 4, 0)
	svc, _ := newTestService(w)
	m := mustRequest(t, svc, "r1", "u1")

	// The host locks the ride after the service has read it as active.
	w.mu.Lock()
	w.rides["r1"].Status = ride.StatusLocked
	w.mu.Unlock()

	err := memMembers{w}.AcceptAndReserveSeat(context.Background(), m.ID, "r1")
	if !errors.Is(err, ErrRideClosed) {
		t.Fatalf("expected ErrRideClosed, got %v", err)
	}
	if w.seatsTaken("r1") != 0 {
		t.Fatal("no seat should be taken on a closed ride")
	}
}
