// internal/hubapi/client.go
//
// HTTP client for the hub backend: daily word assignment, word list
// assets, and the statistics sink. All calls take a context and run
// against a timeout-bound http.Client; the daily word fetch must
// never hang the session.

package hubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hubarcade/wordle-engine/internal/game"
	"github.com/hubarcade/wordle-engine/internal/words"
)

const (
	dailyWordPath  = "/wordle/daily-word"
	statsPath      = "/wordle/stats"
	commonListPath = "/assets/french_words_popular.txt"
	fullListPath   = "/assets/french_words_full.txt"
)

// Client is the hub API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the hub at baseURL. timeout bounds every
// request.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// DailyWord is the daily puzzle assignment.
type DailyWord struct {
	Word   string `json:"word"`
	Date   string `json:"date"`
	WordID int    `json:"wordId"`
}

// DailyWord fetches today's puzzle.
func (c *Client) DailyWord(ctx context.Context) (*DailyWord, error) {
	var dw DailyWord
	if err := c.getJSON(ctx, dailyWordPath, &dw); err != nil {
		return nil, fmt.Errorf("hubapi.DailyWord: %w", err)
	}
	return &dw, nil
}

// WordList fetches a newline-delimited word list tier. Implements
// words.Source.
func (c *Client) WordList(ctx context.Context, tier words.Tier) (string, error) {
	path := fullListPath
	if tier == words.TierCommon {
		path = commonListPath
	}
	body, err := c.getText(ctx, path)
	if err != nil {
		return "", fmt.Errorf("hubapi.WordList(%s): %w", tier, err)
	}
	return body, nil
}

// statsPayload is the statistics sink's wire shape.
type statsPayload struct {
	PlayerID string   `json:"playerId"`
	WordID   int      `json:"wordId"`
	Attempts int      `json:"attempts"`
	Guesses  []string `json:"guesses"`
	Solved   bool     `json:"solved"`
}

// SubmitResult posts a completed game to the statistics sink.
// Implements report.Sink.
func (c *Client) SubmitResult(ctx context.Context, playerID string, res game.Result) error {
	payload := statsPayload{
		PlayerID: playerID,
		WordID:   res.PuzzleID,
		Attempts: res.Attempts,
		Guesses:  res.Guesses,
		Solved:   res.Solved,
	}
	if err := c.postJSON(ctx, statsPath, payload); err != nil {
		return fmt.Errorf("hubapi.SubmitResult: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.getText(ctx, path)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(body), out)
}

func (c *Client) getText(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &HTTPError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return string(body), nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	return nil
}
