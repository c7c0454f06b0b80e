package views

import (
	"testing"

	"github.com/google/uuid"

	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	"github.com/shikhonhub/shikhon-backend/internal/domain"
)

func TestLookupLabelUnknownSentinel(t *testing.T) {
	topics := []domain.Topic{
		{ID: uuid.New(), Name: "Bangla Grammar"},
		{ID: uuid.New(), Name: "Freelancing 101"},
	}
	lookup := LookupLabel(topics,
		func(tp domain.Topic) uuid.UUID { return tp.ID },
		func(tp domain.Topic) string { return tp.Name },
	)

	if got := lookup(topics[0].ID); got != "Bangla Grammar" {
		t.Fatalf("want Bangla Grammar, got %q", got)
	}
	if got := lookup(uuid.New()); got != UnknownLabel {
		t.Fatalf("want %q for missing id, got %q", UnknownLabel, got)
	}
}

func TestPartitionIsDisjointAndComplete(t *testing.T) {
	posts := []domain.Post{
		{Title: "a", Approved: true},
		{Title: "b", Approved: false},
		{Title: "c", Approved: true},
		{Title: "d", Approved: false},
		{Title: "e", Approved: false},
	}

	approved, pending := Partition(posts, func(p domain.Post) bool { return p.Approved })

	if len(approved)+len(pending) != len(posts) {
		t.Fatalf("union size %d != input size %d", len(approved)+len(pending), len(posts))
	}
	for _, p := range approved {
		if !p.Approved {
			t.Fatalf("pending post %q landed in approved side", p.Title)
		}
	}
	for _, p := range pending {
		if p.Approved {
			t.Fatalf("approved post %q landed in pending side", p.Title)
		}
	}
	if approved[0].Title != "a" || approved[1].Title != "c" {
		t.Fatalf("approved side lost input order: %v", approved)
	}
	if pending[0].Title != "b" || pending[1].Title != "d" || pending[2].Title != "e" {
		t.Fatalf("pending side lost input order: %v", pending)
	}
}

func TestRankByIsStableDescending(t *testing.T) {
	profiles := []domain.UserProfile{
		{DisplayName: "rahim", Points: 50},
		{DisplayName: "karim", Points: 80},
		{DisplayName: "fatema", Points: 50},
		{DisplayName: "nusrat", Points: 90},
	}

	ranked := RankBy(profiles, func(p domain.UserProfile) int { return p.Points })

	wantOrder := []string{"nusrat", "karim", "rahim", "fatema"}
	for i, want := range wantOrder {
		if ranked[i].Item.DisplayName != want {
			t.Fatalf("rank %d: want %s, got %s", i, want, ranked[i].Item.DisplayName)
		}
		if ranked[i].Rank != i {
			t.Fatalf("rank field: want %d, got %d", i, ranked[i].Rank)
		}
	}
}

func TestCountOfDistinguishesLoadingFromZero(t *testing.T) {
	loading := CountOf(binding.State[domain.Topic]{Loading: true})
	if !loading.Loading || loading.Value != 0 {
		t.Fatalf("loading snapshot not flagged: %+v", loading)
	}

	empty := CountOf(binding.State[domain.Topic]{Records: nil})
	if empty.Loading || empty.Value != 0 {
		t.Fatalf("empty snapshot should be a real zero: %+v", empty)
	}

	three := CountOf(binding.State[domain.Topic]{Records: make([]domain.Topic, 3)})
	if three.Value != 3 {
		t.Fatalf("want 3, got %d", three.Value)
	}
}

func TestCanParticipate(t *testing.T) {
	cases := []struct {
		name        string
		challenge   domain.Challenge
		hasApproved bool
		want        bool
	}{
		{"7day is always open", domain.Challenge{Type: domain.ChallengeType7Day, Price: 500}, false, true},
		{"free 30day is open", domain.Challenge{Type: domain.ChallengeType30Day, Price: 0}, false, true},
		{"priced 30day without payment", domain.Challenge{Type: domain.ChallengeType30Day, Price: 500}, false, false},
		{"priced 30day with approved payment", domain.Challenge{Type: domain.ChallengeType30Day, Price: 500}, true, true},
		{"unknown type is closed", domain.Challenge{Type: "90day"}, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanParticipate(tc.challenge, tc.hasApproved); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestToggleLikeIsSymmetric(t *testing.T) {
	user := uuid.New().String()
	other := uuid.New().String()
	likes := []string{other}

	liked := ToggleLike(likes, user)
	if len(liked) != 2 {
		t.Fatalf("want 2 likes after toggle on, got %d", len(liked))
	}

	unliked := ToggleLike(liked, user)
	if len(unliked) != 1 || unliked[0] != other {
		t.Fatalf("toggle off did not restore original list: %v", unliked)
	}
}
