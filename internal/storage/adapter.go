// internal/storage/adapter.go
//
// Persistence adapter between the game engine and a durable KV store.
// Responsibilities:
//   - Serialize a game State to a single JSON record tagged with a
//     save timestamp and the stats-submitted flag.
//   - Restore it on load, but only within the same calendar day; a
//     record from another day is stale and proactively removed.
//   - Never let a storage failure reach gameplay: saves are
//     best-effort, unreadable records read as "nothing saved".

package storage

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hubarcade/wordle-engine/internal/game"
)

// record is the persisted shape, one per device.
type record struct {
	PuzzleID       int        `json:"puzzleId"`
	TargetWord     string     `json:"targetWord"`
	Rows           []game.Row `json:"rows"`
	PendingGuess   string     `json:"pendingGuess"`
	AttemptIndex   int        `json:"attemptIndex"`
	Status         string     `json:"status"`
	SavedAt        int64      `json:"savedAt"` // unix milliseconds
	StatsSubmitted bool       `json:"statsSubmitted"`
}

// valid checks the record against the game invariants. A record that
// decodes but breaks them (hand-edited, or written by an incompatible
// version) would restore an unplayable state, so it reads as "nothing
// saved" just like one that fails to decode.
func (r record) valid() bool {
	switch game.Status(r.Status) {
	case game.StatusPlaying, game.StatusWon, game.StatusLost:
	default:
		return false
	}
	if len(r.TargetWord) != game.WordLength {
		return false
	}
	if r.AttemptIndex != len(r.Rows) || r.AttemptIndex > game.MaxAttempts {
		return false
	}
	if len(r.PendingGuess) > game.WordLength {
		return false
	}
	return true
}

// Adapter binds one KV key to the engine's Store contract.
type Adapter struct {
	kv  KV
	key string
	now func() time.Time
}

// NewAdapter constructs an Adapter writing to key in kv.
func NewAdapter(kv KV, key string) *Adapter {
	return &Adapter{kv: kv, key: key, now: time.Now}
}

// Save persists the state. Failures are logged and swallowed:
// persistence is best-effort, never correctness-critical to the
// in-memory session.
func (a *Adapter) Save(s *game.State) {
	rec := record{
		PuzzleID:       s.Puzzle.ID,
		TargetWord:     s.Puzzle.Word,
		Rows:           s.Rows,
		PendingGuess:   s.PendingGuess,
		AttemptIndex:   s.AttemptIndex,
		Status:         string(s.Status),
		SavedAt:        a.now().UnixMilli(),
		StatsSubmitted: s.StatsSubmitted,
	}
	b, err := json.Marshal(rec)
	if err != nil {
		log.Warn().Err(err).Str("key", a.key).Msg("encode saved game")
		return
	}
	if err := a.kv.Set(a.key, string(b)); err != nil {
		log.Warn().Err(err).Str("key", a.key).Msg("write saved game")
	}
}

// Load returns the saved state, or nil when there is no record, the
// record is from a different calendar day (it is then removed), or it
// cannot be decoded.
func (a *Adapter) Load() *game.State {
	raw, ok := a.kv.Get(a.key)
	if !ok {
		return nil
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		log.Warn().Err(err).Str("key", a.key).Msg("decode saved game")
		return nil
	}
	if !rec.valid() {
		log.Warn().Str("key", a.key).Msg("clearing structurally invalid saved game")
		a.Clear()
		return nil
	}
	savedAt := time.UnixMilli(rec.SavedAt)
	if !sameDay(savedAt, a.now()) {
		log.Info().Str("key", a.key).Time("savedAt", savedAt).Msg("clearing stale saved game")
		a.Clear()
		return nil
	}

	s := &game.State{
		Puzzle:         game.Puzzle{ID: rec.PuzzleID, Word: rec.TargetWord},
		Rows:           rec.Rows,
		PendingGuess:   rec.PendingGuess,
		AttemptIndex:   rec.AttemptIndex,
		Status:         game.Status(rec.Status),
		StartedAt:      savedAt,
		StatsSubmitted: rec.StatsSubmitted,
	}
	if s.Rows == nil {
		s.Rows = []game.Row{}
	}
	if s.Status.Terminal() {
		s.CompletedAt = savedAt
	}
	return s
}

// Clear removes the record.
func (a *Adapter) Clear() {
	if err := a.kv.Remove(a.key); err != nil {
		log.Warn().Err(err).Str("key", a.key).Msg("remove saved game")
	}
}

// sameDay compares calendar days in UTC. Staleness is a day-boundary
// question, not an elapsed-duration one.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
