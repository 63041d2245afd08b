package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"hopper/internal/types"
)

type memRepo struct {
	profiles map[types.ID]*Profile
}

func (m *memRepo) Get(_ context.Context, id types.ID) (*Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) Upsert(_ context.Context, id types.ID, name string, defaultScore float64) error {
	if p, ok := m.profiles[id]; ok {
		p.Name = name
		p.ProfileComplete = name != "" && p.PhoneVerified
		return nil
	}
	m.profiles[id] = &Profile{ID: id, Name: name, TrustScore: defaultScore}
	return nil
}

func (m *memRepo) Ensure(_ context.Context, id types.ID, defaultScore float64) error {
	if _, ok := m.profiles[id]; !ok {
		m.profiles[id] = &Profile{ID: id, TrustScore: defaultScore}
	}
	return nil
}

func (m *memRepo) TopByTrust(_ context.Context, limit int) ([]Profile, error) {
	out := make([]Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TrustScore != out[j].TrustScore {
			return out[i].TrustScore > out[j].TrustScore
		}
		if out[i].NoShowCount != out[j].NoShowCount {
			return out[i].NoShowCount < out[j].NoShowCount
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) MarkPhoneVerified(_ context.Context, id types.ID) error {
	p, ok := m.profiles[id]
	if !ok {
		return ErrNotFound
	}
	p.PhoneVerified = true
	p.ProfileComplete = p.Name != ""
	return nil
}

func TestUpdateNameCreatesWithDefaultScore(t *testing.T) {
	svc := NewService(&memRepo{profiles: map[types.ID]*Profile{}})
	p, err := svc.UpdateName(context.Background(), "u1", "  Priya ")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Name != "Priya" || p.TrustScore != DefaultTrustScore {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestUpdateNameValidates(t *testing.T) {
	svc := NewService(&memRepo{profiles: map[types.ID]*Profile{}})
	for _, name := range []string{"", "   ", strings.Repeat("x", maxNameLength+1)} {
		if _, err := svc.UpdateName(context.Background(), "u1", name); !errors.Is(err, ErrBadRequest) {
			t.Errorf("name %q: expected ErrBadRequest, got %v", name, err)
		}
	}
}

func TestProfileCompleteAfterVerification(t *testing.T) {
	repo := &memRepo{profiles: map[types.ID]*Profile{}}
	svc := NewService(repo)
	ctx := context.Background()
	if _, err := svc.UpdateName(ctx, "u1", "Arun"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.MarkPhoneVerified(ctx, "u1"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	p, _ := svc.Get(ctx, "u1")
	if !p.ProfileComplete {
		t.Fatal("expected profile to be complete")
	}
	if err := svc.MarkPhoneVerified(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnsureKeepsExistingProfile(t *testing.T) {
	repo := &memRepo{profiles: map[types.ID]*Profile{
		"u1": {ID: "u1", Name: "Asha", TrustScore: 2.0},
	}}
	svc := NewService(repo)
	ctx := context.Background()
	if err := svc.Ensure(ctx, "u1"); err != nil {
		t.Fatalf("ensure existing: %v", err)
	}
	if err := svc.Ensure(ctx, "u2"); err != nil {
		t.Fatalf("ensure new: %v", err)
	}
	if p, _ := svc.Get(ctx, "u1"); p.TrustScore != 2.0 || p.Name != "Asha" {
		t.Fatalf("existing profile changed: %+v", p)
	}
	if p, err := svc.Get(ctx, "u2"); err != nil || p.TrustScore != DefaultTrustScore {
		t.Fatalf("new profile = %+v, %v", p, err)
	}
}

func TestTopByTrust(t *testing.T) {
	repo := &memRepo{profiles: map[types.ID]*Profile{
		"low":     {ID: "low", TrustScore: 1.0},
		"high":    {ID: "high", TrustScore: 6.0},
		"tied":    {ID: "tied", TrustScore: 4.0, NoShowCount: 1},
		"tied-ok": {ID: "tied-ok", TrustScore: 4.0},
	}}
	svc := NewService(repo)

	top, err := svc.TopByTrust(context.Background(), 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []types.ID{"high", "tied-ok", "tied"}
	if len(top) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(top))
	}
	for i, id := range want {
		if top[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, top[i].ID)
		}
	}
}

func TestTopByTrustClampsLimit(t *testing.T) {
	repo := &memRepo{profiles: map[types.ID]*Profile{}}
	for i := 0; i < maxTopLimit+20; i++ {
		id := types.ID(fmt.Sprintf("u%03d", i))
		repo.profiles[id] = &Profile{ID: id, TrustScore: DefaultTrustScore}
	}
	svc := NewService(repo)
	ctx := context.Background()

	def, _ := svc.TopByTrust(ctx, 0)
	if len(def) != defaultTopLimit {
		t.Fatalf("expected default %d, got %d", defaultTopLimit, len(def))
	}
	capped, _ := svc.TopByTrust(ctx, 1000)
	if len(capped) != maxTopLimit {
		t.Fatalf("expected cap %d, got %d", maxTopLimit, len(capped))
	}
}
