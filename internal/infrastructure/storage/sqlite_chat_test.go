package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
)

func newSQLiteRepo(t *testing.T) (string, context.Context) {
	t.Helper()
	return filepath.Join(t.TempDir(), "chat.db"), context.Background()
}

func TestSQLiteChatRepository_MensajesEnOrden(t *testing.T) {
	path, ctx := newSQLiteRepo(t)
	repo, err := NewSQLiteChatRepository(path)
	require.NoError(t, err)

	ts := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)
	saved := []entity.Message{
		{ID: "m1", From: entity.FromUser, Text: "hola", Timestamp: ts},
		{ID: "m2", From: entity.FromBot, Text: "¡Hola!", Important: true, Timestamp: ts.Add(time.Second)},
	}
	require.NoError(t, repo.SaveMessages(ctx, saved))

	messages, err := repo.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, "m1", messages[0].ID)
	require.Equal(t, entity.FromUser, messages[0].From)
	require.True(t, messages[1].Important)
}

func TestSQLiteChatRepository_SaveMessagesReemplaza(t *testing.T) {
	path, ctx := newSQLiteRepo(t)
	repo, err := NewSQLiteChatRepository(path)
	require.NoError(t, err)

	require.NoError(t, repo.SaveMessages(ctx, []entity.Message{
		{ID: "m1", From: entity.FromUser, Text: "uno"},
		{ID: "m2", From: entity.FromBot, Text: "dos"},
	}))
	require.NoError(t, repo.SaveMessages(ctx, []entity.Message{
		{ID: "m2", From: entity.FromBot, Text: "dos"},
	}))

	messages, err := repo.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, "m2", messages[0].ID)
}

func TestSQLiteChatRepository_Resumen(t *testing.T) {
	path, ctx := newSQLiteRepo(t)
	repo, err := NewSQLiteChatRepository(path)
	require.NoError(t, err)

	summary, err := repo.Summary(ctx)
	require.NoError(t, err)
	require.Empty(t, summary)

	require.NoError(t, repo.SaveSummary(ctx, "Usuario: hola"))
	require.NoError(t, repo.SaveSummary(ctx, "Usuario: hola\nIA: buenas"))

	summary, err = repo.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, "Usuario: hola\nIA: buenas", summary)
}

func TestSQLiteChatRepository_NotasYClear(t *testing.T) {
	path, ctx := newSQLiteRepo(t)
	repo, err := NewSQLiteChatRepository(path)
	require.NoError(t, err)

	require.NoError(t, repo.SaveMessages(ctx, []entity.Message{{ID: "m1", From: entity.FromUser, Text: "hola"}}))
	require.NoError(t, repo.SaveSummary(ctx, "resumen"))
	require.NoError(t, repo.AppendNote(ctx, entity.Note{Text: "reservar finca", Date: 123}))

	require.NoError(t, repo.Clear(ctx))

	messages, err := repo.Messages(ctx)
	require.NoError(t, err)
	require.Empty(t, messages)

	summary, err := repo.Summary(ctx)
	require.NoError(t, err)
	require.Empty(t, summary)

	notes, err := repo.Notes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, int64(123), notes[0].Date)
}

func TestSQLiteChatRepository_PersisteEntreAperturas(t *testing.T) {
	path, ctx := newSQLiteRepo(t)

	repo, err := NewSQLiteChatRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.SaveMessages(ctx, []entity.Message{{ID: "m1", From: entity.FromUser, Text: "hola"}}))

	reopened, err := NewSQLiteChatRepository(path)
	require.NoError(t, err)
	messages, err := reopened.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
}
