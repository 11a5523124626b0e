// Package sequencer computes the per-student question order for a test
// attempt. The order is a pure function of (test ID, student ID, pool),
// so recomputing it for the same attempt always yields the same result.
package sequencer

import (
	"github.com/examind/proctor-backend/internal/model"
	"github.com/google/uuid"
)

// Bucket labels appended to the seed string, one shuffle per difficulty.
const (
	labelEasy   = "Easy"
	labelMedium = "Medium"
	labelHard   = "Hard"
)

// Order buckets the pool by difficulty (easy, then medium, then hard) and
// shuffles each bucket with a seed derived from the test and student IDs.
// Questions with an unknown level fall into the medium bucket.
func Order(testID, studentID uuid.UUID, questions []model.Question) []uuid.UUID {
	var easy, medium, hard []uuid.UUID
	for _, q := range questions {
		switch q.Level {
		case model.LevelEasy:
			easy = append(easy, q.ID)
		case model.LevelHard:
			hard = append(hard, q.ID)
		default:
			medium = append(medium, q.ID)
		}
	}

	seed := testID.String() + studentID.String()

	out := make([]uuid.UUID, 0, len(questions))
	out = append(out, shuffle(easy, seed+labelEasy)...)
	out = append(out, shuffle(medium, seed+labelMedium)...)
	out = append(out, shuffle(hard, seed+labelHard)...)
	return out
}

// shuffle runs a Fisher-Yates pass driven by a seeded LCG. The input
// slice is not modified.
func shuffle(ids []uuid.UUID, seedStr string) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}

	out := make([]uuid.UUID, len(ids))
	copy(out, ids)

	state := uint64(hashSeed(seedStr))
	next := func() float64 {
		state = (state*9301 + 49297) % 233280
		return float64(state) / 233280
	}

	for i := len(out) - 1; i > 0; i-- {
		j := int(next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// hashSeed folds the seed string into 32 bits with FNV-1a.
func hashSeed(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h = (h ^ uint32(s[i])) * 16777619
	}
	return h
}
