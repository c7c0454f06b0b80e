// Package views holds the pure read-model helpers that sit between the raw
// record lists and the HTTP layer. Everything here is side-effect free and
// recomputable on every request.
package views

import (
	"sort"

	"github.com/google/uuid"

	"github.com/shikhonhub/shikhon-backend/internal/data/binding"
	"github.com/shikhonhub/shikhon-backend/internal/domain"
)

// UnknownLabel is returned by lookups for ids that are not in the current
// record list, so a missing topic or video never breaks a listing.
const UnknownLabel = "Unknown"

// LookupLabel builds an id-to-label resolver over items. Unknown ids resolve
// to UnknownLabel.
func LookupLabel[T any](items []T, key func(T) uuid.UUID, label func(T) string) func(uuid.UUID) string {
	byID := make(map[uuid.UUID]string, len(items))
	for _, it := range items {
		byID[key(it)] = label(it)
	}
	return func(id uuid.UUID) string {
		if l, ok := byID[id]; ok {
			return l
		}
		return UnknownLabel
	}
}

// Partition splits items into the records matching pred and the rest. Every
// input record lands in exactly one side and relative order is preserved.
func Partition[T any](items []T, pred func(T) bool) (matched, rest []T) {
	for _, it := range items {
		if pred(it) {
			matched = append(matched, it)
		} else {
			rest = append(rest, it)
		}
	}
	return matched, rest
}

// Ranked pairs a record with its 0-based position after ranking.
type Ranked[T any] struct {
	Rank int
	Item T
}

// RankBy sorts items descending by score and assigns 0-based ranks. The sort
// is stable: ties keep their input order.
func RankBy[T any](items []T, score func(T) int) []Ranked[T] {
	out := make([]Ranked[T], len(items))
	for i, it := range items {
		out[i] = Ranked[T]{Item: it}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return score(out[i].Item) > score(out[j].Item)
	})
	for i := range out {
		out[i].Rank = i
	}
	return out
}

// Count is a dashboard tile value. Loading is reported separately from the
// number so an unresolved collection is never rendered as zero.
type Count struct {
	Value   int  `json:"value"`
	Loading bool `json:"loading"`
}

// CountOf derives a tile count from a watch snapshot.
func CountOf[T any](st binding.State[T]) Count {
	if st.Loading {
		return Count{Loading: true}
	}
	return Count{Value: len(st.Records)}
}

// CanParticipate reports whether a user may enter a challenge. Seven-day
// challenges are open to everyone; thirty-day challenges require either a
// free entry or an approved payment for that challenge.
func CanParticipate(ch domain.Challenge, hasApprovedPayment bool) bool {
	switch ch.Type {
	case domain.ChallengeType7Day:
		return true
	case domain.ChallengeType30Day:
		return ch.Price == 0 || hasApprovedPayment
	default:
		return false
	}
}

// ToggleLike flips userID's membership in likes and returns the new list.
// The like count is always len of the returned slice, never kept separately.
func ToggleLike(likes []string, userID string) []string {
	out := make([]string, 0, len(likes)+1)
	found := false
	for _, id := range likes {
		if id == userID {
			found = true
			continue
		}
		out = append(out, id)
	}
	if !found {
		out = append(out, userID)
	}
	return out
}
