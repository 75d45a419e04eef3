package game

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeDict struct {
	words map[string]bool
	ready bool
}

func (d *fakeDict) IsValid(w string) bool { return d.words[w] }
func (d *fakeDict) Ready() bool           { return d.ready }

func newFakeDict(words ...string) *fakeDict {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return &fakeDict{words: m, ready: true}
}

type fakeStore struct {
	mu      sync.Mutex
	saved   *State
	saves   int
	clears  int
	initial *State
}

func (f *fakeStore) Save(s *State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	cp.Rows = append([]Row(nil), s.Rows...)
	f.saved = &cp
	f.saves++
}

func (f *fakeStore) Load() *State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.initial
}

func (f *fakeStore) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.initial = nil
}

func typeWord(t *testing.T, e *Engine, word string) {
	t.Helper()
	for _, r := range word {
		if err := e.AppendLetter(r); err != nil {
			t.Fatalf("AppendLetter(%q): %v", r, err)
		}
	}
}

func TestWinScenario(t *testing.T) {
	dict := newFakeDict("crane", "robot")
	st := &fakeStore{}
	e := New(dict, st)
	e.Bootstrap(Puzzle{ID: 7, Word: "robot"})

	typeWord(t, e, "crane")
	if err := e.SubmitGuess(); err != nil {
		t.Fatalf("first guess: %v", err)
	}
	snap := e.Snapshot()
	if snap.Status != StatusPlaying || snap.CurrentRow != 1 {
		t.Fatalf("after first guess: status=%s row=%d", snap.Status, snap.CurrentRow)
	}
	for _, m := range snap.Rows[0] {
		if m.Verdict == VerdictCorrect {
			t.Errorf("crane vs robot should have no correct position, got %v", snap.Rows[0])
			break
		}
	}

	typeWord(t, e, "robot")
	if err := e.SubmitGuess(); err != nil {
		t.Fatalf("second guess: %v", err)
	}
	snap = e.Snapshot()
	if snap.Status != StatusWon {
		t.Errorf("status = %s, want won", snap.Status)
	}
	if snap.CurrentRow != 2 {
		t.Errorf("attemptIndex = %d, want 2", snap.CurrentRow)
	}
	if !snap.Rows[1].AllCorrect() {
		t.Errorf("winning row not all correct: %v", snap.Rows[1])
	}
	if st.saved == nil || st.saved.Status != StatusWon {
		t.Error("terminal state was not persisted")
	}
}

func TestLossAfterMaxAttempts(t *testing.T) {
	dict := newFakeDict("crane", "pearl")
	st := &fakeStore{}
	e := New(dict, st)
	e.Bootstrap(Puzzle{ID: 1, Word: "pearl"})

	for i := 0; i < MaxAttempts; i++ {
		typeWord(t, e, "crane")
		if err := e.SubmitGuess(); err != nil {
			t.Fatalf("guess %d: %v", i+1, err)
		}
	}
	snap := e.Snapshot()
	if snap.Status != StatusLost {
		t.Errorf("status = %s, want lost", snap.Status)
	}
	if snap.CurrentRow != MaxAttempts {
		t.Errorf("attemptIndex = %d, want %d", snap.CurrentRow, MaxAttempts)
	}

	// Terminal: further submissions are rejected.
	if err := e.SubmitGuess(); !errors.Is(err, ErrGameFinished) {
		t.Errorf("submit after loss = %v, want ErrGameFinished", err)
	}
}

func TestAppendLetterValidation(t *testing.T) {
	e := New(newFakeDict(), &fakeStore{})
	e.Bootstrap(Puzzle{ID: 1, Word: "pearl"})

	if err := e.AppendLetter('3'); !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("digit append = %v, want ErrInvalidCharacter", err)
	}
	if got := e.Snapshot().PendingGuess; got != "" {
		t.Errorf("pendingGuess = %q after rejected append, want empty", got)
	}

	// Accented keystrokes fold to a-z.
	if err := e.AppendLetter('É'); err != nil {
		t.Fatalf("accented append: %v", err)
	}
	if got := e.Snapshot().PendingGuess; got != "e" {
		t.Errorf("pendingGuess = %q, want %q", got, "e")
	}
}

func TestPendingGuessBounds(t *testing.T) {
	e := New(newFakeDict(), &fakeStore{})
	e.Bootstrap(Puzzle{ID: 1, Word: "pearl"})

	for i := 0; i < 10; i++ {
		_ = e.AppendLetter('a')
	}
	if got := len(e.Snapshot().PendingGuess); got != WordLength {
		t.Errorf("pendingGuess length = %d, want %d", got, WordLength)
	}
	for i := 0; i < 10; i++ {
		_ = e.DeleteLetter()
	}
	if got := e.Snapshot().PendingGuess; got != "" {
		t.Errorf("pendingGuess = %q after deletes, want empty", got)
	}
}

func TestSubmitValidationOrder(t *testing.T) {
	dict := newFakeDict("pearl")
	e := New(dict, &fakeStore{})
	e.Bootstrap(Puzzle{ID: 1, Word: "pearl"})

	typeWord(t, e, "abc")
	if err := e.SubmitGuess(); !errors.Is(err, ErrWordTooShort) {
		t.Fatalf("short submit = %v, want ErrWordTooShort", err)
	}
	snap := e.Snapshot()
	if snap.CurrentRow != 0 || len(snap.Rows) != 0 {
		t.Errorf("short submit mutated board: row=%d rows=%d", snap.CurrentRow, len(snap.Rows))
	}

	typeWord(t, e, "xy")
	if err := e.SubmitGuess(); !errors.Is(err, ErrWordNotFound) {
		t.Errorf("unknown word submit = %v, want ErrWordNotFound", err)
	}

	dict.ready = false
	if err := e.SubmitGuess(); !errors.Is(err, ErrDictionaryNotLoaded) {
		t.Errorf("submit with unloaded dictionary = %v, want ErrDictionaryNotLoaded", err)
	}
}

func TestBootstrapRestoresSameDay(t *testing.T) {
	saved := &State{
		Puzzle:       Puzzle{ID: 42, Word: "pearl"},
		Rows:         []Row{Evaluate("crane", "pearl")},
		AttemptIndex: 1,
		Status:       StatusPlaying,
	}
	st := &fakeStore{initial: saved}
	e := New(newFakeDict("pearl"), st)
	e.Bootstrap(Puzzle{ID: 42, Word: "pearl"})

	snap := e.Snapshot()
	if snap.CurrentRow != 1 || len(snap.Rows) != 1 {
		t.Fatalf("restore lost rows: row=%d rows=%d", snap.CurrentRow, len(snap.Rows))
	}
	if len(snap.RestoredRows) != 1 || snap.RestoredRows[0] != 0 {
		t.Errorf("restoredRows = %v, want [0]", snap.RestoredRows)
	}

	// Markers are transient: first action clears them.
	_ = e.AppendLetter('a')
	if got := e.Snapshot().RestoredRows; len(got) != 0 {
		t.Errorf("restoredRows after action = %v, want empty", got)
	}
}

func TestBootstrapDiscardsOtherPuzzle(t *testing.T) {
	saved := &State{
		Puzzle:       Puzzle{ID: 42, Word: "pearl"},
		Rows:         []Row{Evaluate("crane", "pearl")},
		AttemptIndex: 1,
		Status:       StatusPlaying,
	}
	st := &fakeStore{initial: saved}
	e := New(newFakeDict(), st)
	e.Bootstrap(Puzzle{ID: 43, Word: "robot"})

	if st.clears == 0 {
		t.Error("stale record for previous puzzle was not cleared")
	}
	snap := e.Snapshot()
	if snap.PuzzleID != 43 || snap.CurrentRow != 0 || len(snap.Rows) != 0 {
		t.Errorf("fresh start expected, got puzzle=%d row=%d rows=%d", snap.PuzzleID, snap.CurrentRow, len(snap.Rows))
	}
}

func TestRequestNewPuzzle(t *testing.T) {
	st := &fakeStore{}
	e := New(newFakeDict(), st)
	e.Bootstrap(Puzzle{ID: 1, Word: "pearl"})

	if err := e.RequestNewPuzzle(Puzzle{ID: 1, Word: "pearl"}); !errors.Is(err, ErrNoNewPuzzle) {
		t.Errorf("same-id request = %v, want ErrNoNewPuzzle", err)
	}
	if err := e.RequestNewPuzzle(Puzzle{ID: 2, Word: "robot"}); err != nil {
		t.Fatalf("new-id request: %v", err)
	}
	if got := e.Snapshot().PuzzleID; got != 2 {
		t.Errorf("puzzleID = %d, want 2", got)
	}
}

func TestActionsBeforeBootstrap(t *testing.T) {
	e := New(newFakeDict(), &fakeStore{})
	if err := e.AppendLetter('a'); !errors.Is(err, ErrPuzzleNotLoaded) {
		t.Errorf("append before bootstrap = %v, want ErrPuzzleNotLoaded", err)
	}
	if err := e.SubmitGuess(); !errors.Is(err, ErrPuzzleNotLoaded) {
		t.Errorf("submit before bootstrap = %v, want ErrPuzzleNotLoaded", err)
	}
	e.SetLoadError()
	if snap := e.Snapshot(); !snap.PuzzleLoadError || snap.PuzzleLoaded {
		t.Errorf("load-error snapshot = %+v", snap)
	}
}

func TestCompletionCallbackOnlyOnTransition(t *testing.T) {
	dict := newFakeDict("pearl")
	st := &fakeStore{}
	e := New(dict, st)

	done := make(chan struct{}, 1)
	e.SetCompletionFunc(func() { done <- struct{}{} })
	e.Bootstrap(Puzzle{ID: 1, Word: "pearl"})

	typeWord(t, e, "pearl")
	if err := e.SubmitGuess(); err != nil {
		t.Fatalf("winning guess: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("completion callback not invoked on terminal transition")
	}

	// Restoring a terminal game must not re-fire the callback.
	e2 := New(dict, &fakeStore{initial: st.saved})
	e2.SetCompletionFunc(func() { t.Error("completion callback fired on restore") })
	e2.Bootstrap(Puzzle{ID: 1, Word: "pearl"})
	time.Sleep(50 * time.Millisecond)
}

func TestTransientMessageExpires(t *testing.T) {
	e := New(newFakeDict(), &fakeStore{})
	e.Bootstrap(Puzzle{ID: 1, Word: "pearl"})

	var got []Message
	e.SetMessageListener(func(m Message) { got = append(got, m) })

	now := time.Now()
	e.now = func() time.Time { return now }

	typeWord(t, e, "ab")
	_ = e.SubmitGuess()
	if len(got) != 1 || got[0].Severity != SeverityWarning {
		t.Fatalf("messages = %v, want one warning", got)
	}
	if snap := e.Snapshot(); snap.Message == nil {
		t.Fatal("message missing from snapshot inside TTL")
	}

	now = now.Add(MessageTTL + time.Millisecond)
	if snap := e.Snapshot(); snap.Message != nil {
		t.Errorf("message still visible after TTL: %+v", snap.Message)
	}
}

func TestMarkStatsSubmittedPersists(t *testing.T) {
	dict := newFakeDict("pearl")
	st := &fakeStore{}
	e := New(dict, st)
	e.Bootstrap(Puzzle{ID: 9, Word: "pearl"})
	typeWord(t, e, "pearl")
	if err := e.SubmitGuess(); err != nil {
		t.Fatal(err)
	}

	res, ok := e.PendingResult()
	if !ok {
		t.Fatal("expected pending result for terminal unsubmitted game")
	}
	if res.PuzzleID != 9 || !res.Solved || res.Attempts != 1 || len(res.Guesses) != 1 {
		t.Errorf("result = %+v", res)
	}

	e.MarkStatsSubmitted()
	if _, ok := e.PendingResult(); ok {
		t.Error("pending result still reported after submission")
	}
	if st.saved == nil || !st.saved.StatsSubmitted {
		t.Error("statsSubmitted flag not persisted")
	}
}
