// internal/game/types.go
//
// Core type definitions for the daily word-guess engine.
// Defines:
//   - Verdict: per-letter result of a guess (correct/present/absent/empty).
//   - Row: one evaluated guess, exactly WordLength marks.
//   - Puzzle: the day-scoped identity (numeric id + target word).
//   - State: the aggregate for a single player's daily game.

package game

import "time"

const (
	// WordLength is the fixed word size for guesses and targets.
	WordLength = 5
	// MaxAttempts is the number of rows on the board.
	MaxAttempts = 6
)

// Verdict is the evaluation result for a single letter in a guess.
//   - "correct": letter matches the target at that position.
//   - "present": letter exists in the target at another unconsumed position.
//   - "absent":  letter does not appear (after consumed duplicates).
//   - "empty":   slot not yet filled.
type Verdict string

const (
	VerdictCorrect Verdict = "correct"
	VerdictPresent Verdict = "present"
	VerdictAbsent  Verdict = "absent"
	VerdictEmpty   Verdict = "empty"
)

// LetterMark pairs a letter with its verdict.
type LetterMark struct {
	Letter  string  `json:"letter"`
	Verdict Verdict `json:"verdict"`
}

// Row is one committed guess on the board.
type Row [WordLength]LetterMark

// Word reassembles the guessed word from a row.
func (r Row) Word() string {
	var s string
	for _, m := range r {
		s += m.Letter
	}
	return s
}

// AllCorrect reports whether every position in the row is correct.
func (r Row) AllCorrect() bool {
	for _, m := range r {
		if m.Verdict != VerdictCorrect {
			return false
		}
	}
	return true
}

// Puzzle is the day-scoped pairing of target word and numeric id.
// Assigned once per calendar day by the daily word source; immutable
// once bound to a State.
type Puzzle struct {
	ID   int    `json:"wordId"`
	Word string `json:"word"` // always lowercase, WordLength letters
}

// Status is the coarse game state.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Terminal reports whether no further guesses are accepted.
func (s Status) Terminal() bool { return s == StatusWon || s == StatusLost }

// State is the aggregate for one player's game against one Puzzle.
// It is owned exclusively by the Engine; other components receive
// snapshots or act through Engine operations.
type State struct {
	Puzzle         Puzzle
	Rows           []Row  // committed guesses, len == AttemptIndex
	PendingGuess   string // in-progress guess, 0..WordLength letters
	AttemptIndex   int    // count of committed rows
	Status         Status
	StartedAt      time.Time
	CompletedAt    time.Time // set only on transition to a terminal status
	StatsSubmitted bool      // true once the stats sink accepted this puzzle's result
}

// Result is the completion payload handed to the statistics sink.
// Attempts is the winning attempt count, or 0 when unsolved.
type Result struct {
	PuzzleID int
	Attempts int
	Guesses  []string
	Solved   bool
}
