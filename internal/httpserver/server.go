// internal/httpserver/server.go
//
// HTTP surface the embedding hub shell talks to.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Per-device engine sessions keyed by a stable device cookie.
//   - Action endpoints: POST /letter, /backspace, /guess, /new.
//   - Read-only snapshot endpoint: GET /state.
//   - Optional player identity from a hub-signed token; identity only
//     gates statistics submission, never gameplay.
//
// Gameplay rejections are not transport failures: handlers respond 200
// with a snapshot carrying the transient message. Only structural
// unavailability (puzzle or dictionary not loaded) maps to 503.

package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hubarcade/wordle-engine/internal/game"
	"github.com/hubarcade/wordle-engine/internal/hubapi"
	"github.com/hubarcade/wordle-engine/internal/identity"
	"github.com/hubarcade/wordle-engine/internal/letters"
	"github.com/hubarcade/wordle-engine/internal/report"
	"github.com/hubarcade/wordle-engine/internal/storage"
	"github.com/hubarcade/wordle-engine/internal/words"
)

const (
	deviceCookieName   = "wordle_device"
	gameStateKeyPrefix = "wordle-game-state:"
)

// session pairs one device's engine with its reporter.
type session struct {
	eng *game.Engine
	rep *report.Reporter
}

// Server bundles router, dictionary, durable store, and stats sink.
type Server struct {
	r         *chi.Mux
	dict      *words.Dictionary
	kv        storage.KV
	sink      report.Sink
	jwtSecret string

	mu       sync.Mutex
	puzzle   game.Puzzle
	puzzleOK bool
	loadErr  bool
	sessions map[string]*session
}

// New constructs a Server, installs middleware, and registers routes.
func New(dict *words.Dictionary, kv storage.KV, sink report.Sink) *Server {
	s := &Server{
		r:         chi.NewRouter(),
		dict:      dict,
		kv:        kv,
		sink:      sink,
		jwtSecret: getEnv("HUB_TOKEN_SECRET", "dev_secret_change_me"),
		sessions:  make(map[string]*session),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordle-engine","endpoints":["/health","GET /state","POST /letter","POST /backspace","POST /guess","POST /new"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"size":  s.dict.Size(),
			"state": int(s.dict.State()),
		})
	})

	// --- game surface ---
	s.r.Get("/state", s.handleState)
	s.r.Post("/letter", s.handleLetter)
	s.r.Post("/backspace", s.handleBackspace)
	s.r.Post("/guess", s.handleGuess)
	s.r.Post("/new", s.handleNew)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// SetPuzzle installs the day's puzzle. Existing sessions pick it up on
// their next request via Bootstrap.
func (s *Server) SetPuzzle(p game.Puzzle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puzzle = p
	s.puzzleOK = true
	s.loadErr = false
}

// SetPuzzleLoadError marks the daily fetch as failed for this session.
func (s *Server) SetPuzzleLoadError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.puzzleOK {
		s.loadErr = true
	}
}

// FetchDailyPuzzle loads today's word from the hub, with a bounded
// timeout. On failure the server stays up in an explicit load-error
// state; recovery is a process restart (the shell offers the reload).
func (s *Server) FetchDailyPuzzle(ctx context.Context, client *hubapi.Client, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	dw, err := client.DailyWord(ctx)
	if err != nil {
		log.Error().Err(err).Msg("daily word fetch failed")
		s.SetPuzzleLoadError()
		return
	}
	word, err := normalizeTarget(dw.Word)
	if err != nil {
		log.Error().Err(err).Str("word", dw.Word).Msg("daily word rejected")
		s.SetPuzzleLoadError()
		return
	}
	log.Info().Int("wordId", dw.WordID).Str("date", dw.Date).Msg("daily word loaded")
	s.SetPuzzle(game.Puzzle{ID: dw.WordID, Word: word})
}

// ----------------------------- sessions ------------------------------------

// session returns (creating if needed) the engine for this device and
// binds the current puzzle. On creation it also retries any pending
// stats submission left over from a previous load.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session {
	deviceID := s.ensureDeviceID(w, r)
	playerID := s.playerID(r)

	s.mu.Lock()
	sess, ok := s.sessions[deviceID]
	created := false
	if !ok {
		adapter := storage.NewAdapter(s.kv, gameStateKeyPrefix+deviceID)
		sess = &session{
			eng: game.New(s.dict, adapter),
			rep: report.New(s.sink, playerID),
		}
		s.sessions[deviceID] = sess
		created = true
	} else if !sess.rep.Enabled() && playerID != "" {
		// The hub delivered an identity after the session started.
		sess.rep = report.New(s.sink, playerID)
	}
	puzzle, puzzleOK, loadErr := s.puzzle, s.puzzleOK, s.loadErr
	s.mu.Unlock()

	if puzzleOK {
		sess.eng.Bootstrap(puzzle)
	} else if loadErr {
		sess.eng.SetLoadError()
	}

	if created {
		eng := sess.eng
		// Read the reporter through the lock: the session may gain an
		// identity after creation.
		currentRep := func() *report.Reporter {
			s.mu.Lock()
			defer s.mu.Unlock()
			return sess.rep
		}
		eng.SetCompletionFunc(func() {
			if err := currentRep().Report(context.Background(), eng); err != nil {
				log.Warn().Err(err).Msg("completion report")
			}
		})
		// Best-effort retry for a restored, unsubmitted result.
		go func() {
			if err := currentRep().Report(context.Background(), eng); err != nil {
				log.Warn().Err(err).Msg("pending report retry")
			}
		}()
	}
	return sess
}

// ensureDeviceID returns an existing device cookie or sets a new one.
// The device id scopes the saved-game record.
func (s *Server) ensureDeviceID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(deviceCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	secure := os.Getenv("NODE_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // iframe embedding requires None+Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     deviceCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// playerID extracts the hub player identity, or "" for guests.
func (s *Server) playerID(r *http.Request) string {
	tok := bearerToken(r)
	if tok == "" {
		return ""
	}
	id, err := identity.FromToken(tok, s.jwtSecret)
	if err != nil {
		return ""
	}
	return id
}

// bearerToken extracts a bearer token from the Authorization header.
func bearerToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// ----------------------------- handlers ------------------------------------

type letterReq struct {
	Letter string `json:"letter"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	writeSnapshot(w, sess.eng)
}

func (s *Server) handleLetter(w http.ResponseWriter, r *http.Request) {
	var req letterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Letter == "" {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess := s.session(w, r)
	runes := []rune(req.Letter)
	if err := sess.eng.AppendLetter(runes[0]); structural(err) {
		writeUnavailable(w, err)
		return
	}
	writeSnapshot(w, sess.eng)
}

func (s *Server) handleBackspace(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if err := sess.eng.DeleteLetter(); structural(err) {
		writeUnavailable(w, err)
		return
	}
	writeSnapshot(w, sess.eng)
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if err := sess.eng.SubmitGuess(); structural(err) {
		writeUnavailable(w, err)
		return
	}
	writeSnapshot(w, sess.eng)
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.mu.Lock()
	latest, ok := s.puzzle, s.puzzleOK
	s.mu.Unlock()
	if !ok {
		writeUnavailable(w, game.ErrPuzzleNotLoaded)
		return
	}
	// ErrNoNewPuzzle surfaces through the snapshot's transient message.
	_ = sess.eng.RequestNewPuzzle(latest)
	writeSnapshot(w, sess.eng)
}

func writeSnapshot(w http.ResponseWriter, eng *game.Engine) {
	_ = json.NewEncoder(w).Encode(eng.Snapshot())
}

// structural reports whether err is a blocking-availability error
// rather than gameplay feedback.
func structural(err error) bool {
	return err == game.ErrPuzzleNotLoaded || err == game.ErrDictionaryNotLoaded
}

func writeUnavailable(w http.ResponseWriter, err error) {
	code := "puzzle_not_loaded"
	if err == game.ErrDictionaryNotLoaded {
		code = "dictionary_not_loaded"
	}
	http.Error(w, `{"error":"`+code+`"}`, http.StatusServiceUnavailable)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for the hub origin.
// Uses HUB_ORIGIN env var; defaults to http://localhost:4200.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("HUB_ORIGIN")
	if origin == "" {
		origin = "http://localhost:4200"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- small util --------------------------------

// normalizeTarget folds the daily target word and checks its length.
func normalizeTarget(w string) (string, error) {
	word, err := letters.Normalize(w)
	if err != nil {
		return "", err
	}
	if len(word) != game.WordLength {
		return "", fmt.Errorf("daily word has length %d, want %d", len(word), game.WordLength)
	}
	return word, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
