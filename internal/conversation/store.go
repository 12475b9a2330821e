// Package conversation keeps the bounded per-user history that is rendered
// into the generative prompt.
package conversation

import (
	"context"
	"strings"

	"jce-assistant/internal/model"
)

const (
	DefaultLimit = 20

	// DefaultPreamble opens every new session.
	DefaultPreamble = "Eres un asistente virtual especializado en Registro Civil de República Dominicana. " +
		"Responde a los gestores usando resoluciones y reglas oficiales de la Junta Central Electoral."
)

// Store holds one message sequence per user id. Sessions are created on the
// first Append with the system preamble, and every append keeps only the last
// limit entries, the preamble included.
type Store interface {
	Append(ctx context.Context, userID, role, content string) error
	Messages(ctx context.Context, userID string) ([]model.ChatMessage, error)
	Render(ctx context.Context, userID string) (string, error)
}

// RenderPrompt joins messages into a single prompt: the system entry followed
// by a blank line, then one "Usuario:"/"Asistente:" line per turn.
func RenderPrompt(messages []model.ChatMessage) string {
	var system string
	var turns strings.Builder
	for _, m := range messages {
		switch m.Role {
		case model.RoleSystem:
			system = m.Content + "\n\n"
		case model.RoleUser:
			turns.WriteString("Usuario: " + m.Content + "\n")
		case model.RoleAssistant:
			turns.WriteString("Asistente: " + m.Content + "\n")
		}
	}
	return system + turns.String()
}
