package usecase

import (
	"strings"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
)

// Límites de la memoria conversacional
const (
	// MaxMessages mensajes "frescos" que se mantienen en la conversación
	MaxMessages = 50

	// ShortHistory mensajes recientes que se envían a la IA
	ShortHistory = 6
)

// CompactMessages acota la conversación a MaxMessages. Los mensajes sobrantes
// más antiguos se serializan como líneas "Usuario:"/"IA:" y pasan al resumen
// acumulado; el contenido no se pierde, viaja comprimido como contexto en
// futuras llamadas. Con la lista dentro del límite no toca nada.
func CompactMessages(messages []entity.Message, summary string) ([]entity.Message, string) {
	if len(messages) <= MaxMessages {
		return messages, summary
	}

	excess := len(messages) - MaxMessages
	lines := make([]string, 0, excess)
	for _, m := range messages[:excess] {
		role := "IA"
		if m.From == entity.FromUser {
			role = "Usuario"
		}
		lines = append(lines, role+": "+m.Text)
	}

	part := strings.Join(lines, "\n")
	if summary != "" {
		summary = summary + "\n" + part
	} else {
		summary = part
	}
	return messages[excess:], summary
}

// BuildHistory prepara el historial que viaja al backend: el resumen como
// turno system sintético (si existe) más los últimos ShortHistory mensajes.
func BuildHistory(messages []entity.Message, summary string) []entity.Turn {
	recent := messages
	if len(recent) > ShortHistory {
		recent = recent[len(recent)-ShortHistory:]
	}

	history := make([]entity.Turn, 0, len(recent)+1)
	if summary != "" {
		history = append(history, entity.Turn{Role: "system", Content: summary})
	}
	for _, m := range recent {
		role := "assistant"
		if m.From == entity.FromUser {
			role = "user"
		}
		history = append(history, entity.Turn{Role: role, Content: m.Text})
	}
	return history
}
