// internal/game/messages.go
//
// Transient user-facing messages. Every gameplay-input rejection (and
// the win) surfaces as a short-lived {text, severity} pair; these are
// feedback, not failures, and never escape the engine as errors to the
// player.

package game

import "time"

// Severity tags a transient message for the shell's toast rendering.
type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Message is a transient user-facing notice.
type Message struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// MessageTTL is how long a message stays visible in snapshots.
const MessageTTL = 2 * time.Second

var (
	msgWordNotFound      = Message{Text: "Ce mot n'est pas dans la liste", Severity: SeverityError}
	msgWordTooShort      = Message{Text: "Le mot doit contenir 5 lettres", Severity: SeverityWarning}
	msgGameFinished      = Message{Text: "La partie est terminée", Severity: SeverityInfo}
	msgInvalidCharacters = Message{Text: "Seules les lettres sont autorisées", Severity: SeverityWarning}
	msgGameWon           = Message{Text: "Félicitations ! Vous avez gagné !", Severity: SeveritySuccess}
	msgNoNewPuzzle       = Message{Text: "Seul le mot du jour est disponible. Revenez demain pour un nouveau défi !", Severity: SeverityInfo}
)
