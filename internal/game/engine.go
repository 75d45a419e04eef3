// internal/game/engine.go
//
// Game state machine for a single player's daily puzzle.
// Responsibilities:
//   - Bind the day's puzzle identity; restore a same-day saved game or
//     start fresh.
//   - Apply player actions (append/delete letter, submit guess) with
//     validate-then-commit ordering.
//   - Score guesses, enforce attempt and status invariants, and
//     transition playing → won/lost.
//   - Persist after every successful mutation and emit transient
//     messages on rejections.
//
// The State aggregate is owned exclusively by the Engine; collaborators
// receive snapshots or act through Engine operations. Methods serialize
// behind a mutex so mutations stay strictly ordered.

package game

import (
	"errors"
	"sync"
	"time"

	"github.com/hubarcade/wordle-engine/internal/letters"
)

// Gameplay-input errors: recovered locally, surfaced to the player as
// transient messages only.
var (
	ErrInvalidCharacter = letters.ErrInvalidCharacter
	ErrWordTooShort     = errors.New("game: word too short")
	ErrWordNotFound     = errors.New("game: word not in dictionary")
	ErrGameFinished     = errors.New("game: game finished")
	ErrNoNewPuzzle      = errors.New("game: no new puzzle available")
)

// Structural errors: gameplay cannot proceed; the shell renders a
// blocking state instead of an empty board.
var (
	ErrPuzzleNotLoaded     = errors.New("game: daily puzzle not loaded")
	ErrDictionaryNotLoaded = errors.New("game: dictionary not loaded")
)

// Validator is the dictionary membership check the engine consults on
// guess submission.
type Validator interface {
	IsValid(word string) bool
	Ready() bool
}

// Store is the persistence boundary. Save is best-effort and must not
// fail past its boundary; Load returns nil for missing, stale, or
// unreadable records.
type Store interface {
	Save(s *State)
	Load() *State
	Clear()
}

// Engine owns one State and applies all mutations to it.
type Engine struct {
	mu    sync.Mutex
	dict  Validator
	store Store
	now   func() time.Time

	state   *State
	bound   bool // a puzzle identity is bound
	loadErr bool // daily puzzle fetch failed for this session

	restored     bool  // state came from storage this session
	restoredRows []int // committed rows present at restore, cleared on first action

	lastMsg   Message
	lastMsgAt time.Time

	notify     func(Message)
	onComplete func()
}

// New constructs an Engine with the given dictionary and store.
func New(dict Validator, store Store) *Engine {
	return &Engine{dict: dict, store: store, now: time.Now}
}

// SetMessageListener registers a callback invoked for every transient
// message. The callback must not call back into the engine.
func (e *Engine) SetMessageListener(fn func(Message)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notify = fn
}

// SetCompletionFunc registers a callback invoked (in its own goroutine)
// when a guess submitted in this session reaches a terminal status.
// Restoring an already-terminal game never invokes it.
func (e *Engine) SetCompletionFunc(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onComplete = fn
}

// Bootstrap binds the day's puzzle. A saved record for the same puzzle
// id is restored; a record for any other id is discarded and a fresh
// game starts. Safe to call once per session before any action.
func (e *Engine) Bootstrap(p Puzzle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bound && e.state != nil && e.state.Puzzle.ID == p.ID {
		return
	}

	if saved := e.store.Load(); saved != nil {
		if saved.Puzzle.ID == p.ID {
			e.state = saved
			e.bound = true
			e.loadErr = false
			e.restored = true
			e.restoredRows = e.restoredRows[:0]
			for i := range saved.Rows {
				e.restoredRows = append(e.restoredRows, i)
			}
			return
		}
		// Saved game belongs to a previous day's word.
		e.store.Clear()
	}
	e.startFresh(p)
}

// startFresh initializes and persists a new State. Caller holds e.mu.
func (e *Engine) startFresh(p Puzzle) {
	e.state = &State{
		Puzzle:    p,
		Rows:      []Row{},
		Status:    StatusPlaying,
		StartedAt: e.now(),
	}
	e.bound = true
	e.loadErr = false
	e.restored = false
	e.restoredRows = nil
	e.store.Save(e.state)
}

// SetLoadError records a failed or timed-out daily puzzle fetch. The
// condition is permanent for the session; recovery is a full reload.
func (e *Engine) SetLoadError() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.bound {
		e.loadErr = true
	}
}

// AppendLetter adds one keystroke to the pending guess. Accented
// letters fold to a-z; anything else is rejected with
// ErrInvalidCharacter. A full pending guess or a finished game is a
// silent no-op.
func (e *Engine) AppendLetter(r rune) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.bound {
		return ErrPuzzleNotLoaded
	}
	if e.state.Status != StatusPlaying {
		return nil
	}
	ch, err := letters.NormalizeRune(r)
	if err != nil {
		e.emit(msgInvalidCharacters)
		return ErrInvalidCharacter
	}
	if len(e.state.PendingGuess) >= WordLength {
		return nil
	}
	e.clearRestoredMarkers()
	e.state.PendingGuess += string(ch)
	e.store.Save(e.state)
	return nil
}

// DeleteLetter removes the last pending character; no-op when empty or
// finished.
func (e *Engine) DeleteLetter() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.bound {
		return ErrPuzzleNotLoaded
	}
	if e.state.Status != StatusPlaying || len(e.state.PendingGuess) == 0 {
		return nil
	}
	e.clearRestoredMarkers()
	e.state.PendingGuess = e.state.PendingGuess[:len(e.state.PendingGuess)-1]
	e.store.Save(e.state)
	return nil
}

// SubmitGuess validates and commits the pending guess.
// Check order: game still playing, full length, valid alphabet,
// dictionary loaded, dictionary membership. Only then is the guess
// evaluated and the row committed.
func (e *Engine) SubmitGuess() error {
	e.mu.Lock()
	completed, err := e.submitLocked()
	onComplete := e.onComplete
	e.mu.Unlock()

	if completed && onComplete != nil {
		go onComplete()
	}
	return err
}

func (e *Engine) submitLocked() (completed bool, err error) {
	if !e.bound {
		return false, ErrPuzzleNotLoaded
	}
	s := e.state
	if s.Status != StatusPlaying {
		e.emit(msgGameFinished)
		return false, ErrGameFinished
	}
	if len(s.PendingGuess) != WordLength {
		e.emit(msgWordTooShort)
		return false, ErrWordTooShort
	}
	guess, nerr := letters.Normalize(s.PendingGuess)
	if nerr != nil {
		e.emit(msgInvalidCharacters)
		return false, ErrInvalidCharacter
	}
	if !e.dict.Ready() {
		return false, ErrDictionaryNotLoaded
	}
	if !e.dict.IsValid(guess) {
		e.emit(msgWordNotFound)
		return false, ErrWordNotFound
	}

	e.clearRestoredMarkers()
	row := Evaluate(guess, s.Puzzle.Word)
	s.Rows = append(s.Rows, row)
	s.AttemptIndex++
	s.PendingGuess = ""

	switch {
	case row.AllCorrect():
		s.Status = StatusWon
		s.CompletedAt = e.now()
		e.emit(msgGameWon)
	case s.AttemptIndex >= MaxAttempts:
		s.Status = StatusLost
		s.CompletedAt = e.now()
	}
	e.store.Save(s)
	return s.Status.Terminal(), nil
}

// RequestNewPuzzle rebinds the engine to latest, discarding the current
// game. It only succeeds when latest carries a different puzzle id:
// replaying the same day's word is disallowed.
func (e *Engine) RequestNewPuzzle(latest Puzzle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if latest.ID == 0 || latest.Word == "" {
		return ErrPuzzleNotLoaded
	}
	if e.bound && e.state.Puzzle.ID == latest.ID {
		e.emit(msgNoNewPuzzle)
		return ErrNoNewPuzzle
	}
	e.store.Clear()
	e.startFresh(latest)
	return nil
}

// PendingResult returns the completion payload when the game is
// terminal and its result has not yet been accepted by the stats sink.
func (e *Engine) PendingResult() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.bound || !e.state.Status.Terminal() || e.state.StatsSubmitted {
		return Result{}, false
	}
	s := e.state
	guesses := make([]string, 0, len(s.Rows))
	for _, r := range s.Rows {
		guesses = append(guesses, r.Word())
	}
	attempts := 0
	if s.Status == StatusWon {
		attempts = s.AttemptIndex
	}
	return Result{
		PuzzleID: s.Puzzle.ID,
		Attempts: attempts,
		Guesses:  guesses,
		Solved:   s.Status == StatusWon,
	}, true
}

// MarkStatsSubmitted records sink acceptance and persists, making the
// at-most-one-submission guarantee durable across reloads.
func (e *Engine) MarkStatsSubmitted() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.bound || e.state.StatsSubmitted {
		return
	}
	e.state.StatsSubmitted = true
	e.store.Save(e.state)
}

// emit records a transient message and notifies the listener.
// Caller holds e.mu.
func (e *Engine) emit(m Message) {
	e.lastMsg = m
	e.lastMsgAt = e.now()
	if e.notify != nil {
		e.notify(m)
	}
}

// clearRestoredMarkers drops restore-animation markers on the first
// action after a restore. Caller holds e.mu.
func (e *Engine) clearRestoredMarkers() {
	e.restoredRows = nil
}

// Snapshot is the read-only view handed to the shell for rendering.
// Derived values (current row, key statuses, restored rows) are
// recomputed from State on demand rather than tracked reactively.
type Snapshot struct {
	PuzzleID        int                `json:"puzzleId"`
	Rows            []Row              `json:"rows"`
	PendingGuess    string             `json:"pendingGuess"`
	CurrentRow      int                `json:"currentRow"`
	Status          Status             `json:"status"`
	KeyStatuses     map[string]Verdict `json:"keyStatuses"`
	Message         *Message           `json:"message,omitempty"`
	RestoredRows    []int              `json:"restoredRows,omitempty"`
	StatsSubmitted  bool               `json:"statsSubmitted"`
	PuzzleLoaded    bool               `json:"puzzleLoaded"`
	PuzzleLoadError bool               `json:"puzzleLoadError"`
	DictionaryReady bool               `json:"dictionaryReady"`
}

// Snapshot returns the current rendering view. The transient message is
// included only while its display window is open.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		PuzzleLoaded:    e.bound,
		PuzzleLoadError: e.loadErr,
		DictionaryReady: e.dict.Ready(),
	}
	if e.lastMsg.Text != "" && e.now().Sub(e.lastMsgAt) < MessageTTL {
		m := e.lastMsg
		snap.Message = &m
	}
	if !e.bound {
		return snap
	}

	s := e.state
	snap.PuzzleID = s.Puzzle.ID
	snap.Rows = append([]Row(nil), s.Rows...)
	snap.PendingGuess = s.PendingGuess
	snap.CurrentRow = s.AttemptIndex
	snap.Status = s.Status
	snap.KeyStatuses = KeyStatuses(s.Rows)
	snap.RestoredRows = append([]int(nil), e.restoredRows...)
	snap.StatsSubmitted = s.StatsSubmitted
	return snap
}
