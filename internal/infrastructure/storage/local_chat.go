package storage

import (
	"context"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
	"github.com/mywed360/wedding-assistant-bot/internal/domain/repository"
)

type localChatRepository struct {
	store *LocalStore
}

// NewLocalChatRepository conversación persistida en el almacén local
func NewLocalChatRepository(store *LocalStore) repository.ChatRepository {
	return &localChatRepository{store: store}
}

// Messages conversación completa en orden
func (l *localChatRepository) Messages(ctx context.Context) ([]entity.Message, error) {
	messages := []entity.Message{}
	if err := l.store.Get(KeyChatMessages, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SaveMessages reemplaza la conversación
func (l *localChatRepository) SaveMessages(ctx context.Context, messages []entity.Message) error {
	return l.store.Put(KeyChatMessages, messages)
}

// Summary resumen acumulado
func (l *localChatRepository) Summary(ctx context.Context) (string, error) {
	summary := ""
	if err := l.store.Get(KeyChatSummary, &summary); err != nil {
		return "", err
	}
	return summary, nil
}

// SaveSummary guarda el resumen acumulado
func (l *localChatRepository) SaveSummary(ctx context.Context, summary string) error {
	return l.store.Put(KeyChatSummary, summary)
}

// Notes notas importantes
func (l *localChatRepository) Notes(ctx context.Context) ([]entity.Note, error) {
	notes := []entity.Note{}
	if err := l.store.Get(KeyImportantNotes, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// AppendNote añade una nota importante
func (l *localChatRepository) AppendNote(ctx context.Context, note entity.Note) error {
	notes, err := l.Notes(ctx)
	if err != nil {
		return err
	}
	return l.store.Put(KeyImportantNotes, append(notes, note))
}

// Clear borra mensajes y resumen
func (l *localChatRepository) Clear(ctx context.Context) error {
	if err := l.store.Put(KeyChatMessages, []entity.Message{}); err != nil {
		return err
	}
	return l.store.Put(KeyChatSummary, "")
}
