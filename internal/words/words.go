// internal/words/words.go
//
// Dictionary validation for guesses.
//
// Responsibilities:
//   - Load two word-list tiers from a remote source: a small "common"
//     list checked first and a larger "full" list.
//   - Keep lookup sets for membership tests; either tier makes a guess
//     valid.
//   - Degrade to a small embedded fallback list when no tier can be
//     loaded, so the puzzle stays playable offline.
//
// State machine: Unloaded → Loaded | LoadedFallback. No further loads
// are attempted after either outcome.
//
// Words are normalized on ingest (accents folded, lowercased) and kept
// only when exactly WordLength bare letters remain.

package words

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hubarcade/wordle-engine/assets"
	"github.com/hubarcade/wordle-engine/internal/game"
	"github.com/hubarcade/wordle-engine/internal/letters"
)

// Tier selects a word list size.
type Tier string

const (
	TierCommon Tier = "common"
	TierFull   Tier = "full"
)

// LoadState reports how the dictionary was populated.
type LoadState int

const (
	Unloaded LoadState = iota
	Loaded
	LoadedFallback
)

// Source supplies newline-delimited word lists.
type Source interface {
	WordList(ctx context.Context, tier Tier) (string, error)
}

// Dictionary holds the lookup sets.
type Dictionary struct {
	mu      sync.RWMutex
	state   LoadState
	loading bool // a Load is fetching; readers keep seeing Unloaded
	common  map[string]struct{}
	full    map[string]struct{}
}

// New returns an empty, Unloaded dictionary.
func New() *Dictionary {
	return &Dictionary{
		common: make(map[string]struct{}),
		full:   make(map[string]struct{}),
	}
}

// Load fetches both tiers from src. A tier that fails to load is
// logged and skipped; if neither loads, the embedded fallback list is
// installed instead. Once Loaded or LoadedFallback, Load is a no-op.
//
// The lock is never held across the fetches: Ready and IsValid answer
// Unloaded immediately while a load is in flight, so gameplay stays
// responsive and submissions get the dictionary-not-loaded rejection
// until the sets are installed.
func (d *Dictionary) Load(ctx context.Context, src Source) {
	d.mu.Lock()
	if d.state != Unloaded || d.loading {
		d.mu.Unlock()
		return
	}
	d.loading = true
	d.mu.Unlock()

	var common, full map[string]struct{}
	if text, err := src.WordList(ctx, TierCommon); err != nil {
		log.Warn().Err(err).Str("tier", string(TierCommon)).Msg("word list load failed")
	} else {
		common = toSet(splitWords(text))
	}
	if text, err := src.WordList(ctx, TierFull); err != nil {
		log.Warn().Err(err).Str("tier", string(TierFull)).Msg("word list load failed")
	} else {
		full = toSet(splitWords(text))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	if common != nil || full != nil {
		if common != nil {
			d.common = common
		}
		if full != nil {
			d.full = full
		}
		d.state = Loaded
		log.Info().Int("common", len(d.common)).Int("full", len(d.full)).Msg("word lists loaded")
		return
	}
	if d.state == Unloaded {
		d.installFallbackLocked()
	}
}

// LoadFallback installs the embedded list directly, bypassing the
// remote source. No-op once loaded.
func (d *Dictionary) LoadFallback() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Unloaded {
		return
	}
	d.installFallbackLocked()
}

func (d *Dictionary) installFallbackLocked() {
	fallback, err := assets.FallbackWords()
	if err != nil {
		// Embedded data; failure here means a broken build.
		log.Error().Err(err).Msg("embedded fallback word list unreadable")
		fallback = nil
	}
	d.common = toSet(fallback)
	d.full = make(map[string]struct{})
	d.state = LoadedFallback
	log.Warn().Int("words", len(d.common)).Msg("dictionary degraded to embedded fallback list")
}

// IsValid reports whether word is guessable. The common tier is
// checked first, then the full tier.
func (d *Dictionary) IsValid(word string) bool {
	w, err := letters.Normalize(word)
	if err != nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if _, ok := d.common[w]; ok {
		return true
	}
	_, ok := d.full[w]
	return ok
}

// Ready reports whether the dictionary can answer membership queries.
func (d *Dictionary) Ready() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state != Unloaded
}

// State returns the current load state.
func (d *Dictionary) State() LoadState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Size returns the total number of distinct guessable words.
func (d *Dictionary) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := len(d.common)
	for w := range d.full {
		if _, ok := d.common[w]; !ok {
			n++
		}
	}
	return n
}

// splitWords normalizes a newline-delimited list, keeping only valid
// WordLength words.
func splitWords(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		w, err := letters.Normalize(strings.TrimSpace(line))
		if err != nil {
			continue
		}
		if len(w) == game.WordLength {
			out = append(out, w)
		}
	}
	return out
}

// toSet converts a list of words into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}
