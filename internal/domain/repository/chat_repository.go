package repository

import (
	"context"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
)

// ChatRepository conversación del asistente: mensajes, resumen y notas
type ChatRepository interface {
	// Messages devuelve la conversación completa en orden
	Messages(ctx context.Context) ([]entity.Message, error)

	// SaveMessages reemplaza la conversación (se persiste en cada cambio)
	SaveMessages(ctx context.Context, messages []entity.Message) error

	// Summary devuelve el resumen acumulado de mensajes compactados
	Summary(ctx context.Context) (string, error)

	// SaveSummary guarda el resumen acumulado
	SaveSummary(ctx context.Context, summary string) error

	// Notes devuelve las notas marcadas como importantes
	Notes(ctx context.Context) ([]entity.Note, error)

	// AppendNote añade una nota importante
	AppendNote(ctx context.Context, note entity.Note) error

	// Clear borra mensajes y resumen
	Clear(ctx context.Context) error
}
