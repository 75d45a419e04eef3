// internal/report/report.go
//
// Completion reporting to the external statistics sink.
//
// Policy: at most one successful submission per completed puzzle per
// device, best-effort retry on reload. The engine's persisted
// statsSubmitted flag is the only guard: on sink success the flag is
// flipped and persisted; on failure it stays false so the next load
// can retry. Without a player identity the reporter is disabled
// entirely.

package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hubarcade/wordle-engine/internal/game"
)

// ErrSubmissionFailed wraps sink errors. Silent to the player; the
// unsubmitted flag makes the result eligible for a later retry.
var ErrSubmissionFailed = errors.New("report: submission failed")

// Sink is the external statistics endpoint.
type Sink interface {
	SubmitResult(ctx context.Context, playerID string, res game.Result) error
}

// Game is the slice of the engine the reporter acts through. The
// reporter never touches state fields directly.
type Game interface {
	PendingResult() (game.Result, bool)
	MarkStatsSubmitted()
}

// Reporter submits completed-game results for one player.
type Reporter struct {
	sink     Sink
	playerID string
}

// New constructs a Reporter. An empty playerID disables it.
func New(sink Sink, playerID string) *Reporter {
	return &Reporter{sink: sink, playerID: playerID}
}

// Enabled reports whether a player identity is present.
func (r *Reporter) Enabled() bool { return r.playerID != "" }

// Report submits the game's pending result, if any. It is safe to call
// at any time: a non-terminal, already-submitted, or identity-less
// game is a no-op.
func (r *Reporter) Report(ctx context.Context, g Game) error {
	if !r.Enabled() {
		return nil
	}
	res, ok := g.PendingResult()
	if !ok {
		return nil
	}
	if err := r.sink.SubmitResult(ctx, r.playerID, res); err != nil {
		log.Warn().Err(err).Int("puzzleId", res.PuzzleID).Msg("stats submission failed, will retry on next load")
		return fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	g.MarkStatsSubmitted()
	log.Info().Int("puzzleId", res.PuzzleID).Bool("solved", res.Solved).Msg("stats submitted")
	return nil
}
