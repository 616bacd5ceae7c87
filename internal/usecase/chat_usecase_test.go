package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
	"github.com/mywed360/wedding-assistant-bot/internal/domain/repository"
)

// mockChatRepo conversación en memoria
type mockChatRepo struct {
	messages []entity.Message
	summary  string
	notes    []entity.Note
}

func (m *mockChatRepo) Messages(context.Context) ([]entity.Message, error) {
	return append([]entity.Message(nil), m.messages...), nil
}
func (m *mockChatRepo) SaveMessages(_ context.Context, messages []entity.Message) error {
	m.messages = messages
	return nil
}
func (m *mockChatRepo) Summary(context.Context) (string, error) { return m.summary, nil }
func (m *mockChatRepo) SaveSummary(_ context.Context, summary string) error {
	m.summary = summary
	return nil
}
func (m *mockChatRepo) Notes(context.Context) ([]entity.Note, error) { return m.notes, nil }
func (m *mockChatRepo) AppendNote(_ context.Context, note entity.Note) error {
	m.notes = append(m.notes, note)
	return nil
}
func (m *mockChatRepo) Clear(context.Context) error {
	m.messages, m.summary, m.notes = nil, "", nil
	return nil
}

// mockDialog backend de IA programable
type mockDialog struct {
	result  *entity.DialogResult
	err     error
	calls   int
	history []entity.Turn
}

func (m *mockDialog) ParseDialog(_ context.Context, _ string, history []entity.Turn) (*entity.DialogResult, error) {
	m.calls++
	m.history = history
	return m.result, m.err
}

type chatFixture struct {
	chat     ChatUseCase
	chatRepo *mockChatRepo
	planner  *mockPlanner
	dialog   *mockDialog
	bus      *mockBus
	notifier *mockNotifier
}

func newChatFixture(dialog *mockDialog) *chatFixture {
	chatRepo := &mockChatRepo{}
	planner := &mockPlanner{}
	bus := &mockBus{}
	notifier := &mockNotifier{}
	commands := NewCommandUseCase(planner, nil, bus, notifier)
	return &chatFixture{
		chat:     NewChatUseCase(chatRepo, planner, dialog, commands, bus, notifier),
		chatRepo: chatRepo,
		planner:  planner,
		dialog:   dialog,
		bus:      bus,
		notifier: notifier,
	}
}

func TestSendMessage_TextoVacio(t *testing.T) {
	f := newChatFixture(&mockDialog{})

	replies, err := f.chat.SendMessage(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, replies)
	require.Zero(t, f.dialog.calls)
	require.Empty(t, f.chatRepo.messages)
}

func TestSendMessage_ParserLocalEvitaElBackend(t *testing.T) {
	f := newChatFixture(&mockDialog{})
	f.planner.meetings = []entity.Meeting{
		{ID: "m1", Title: "proveedores", Name: "proveedores", Start: "2026-10-15T10:00:00Z", End: "2026-10-15T11:00:00Z"},
	}

	replies, err := f.chat.SendMessage(context.Background(), "reprograma la reunión de proveedores al 20/10 a las 11:00")
	require.NoError(t, err)
	require.Zero(t, f.dialog.calls)

	require.Len(t, replies, 1)
	require.Equal(t, entity.FromBot, replies[0].From)
	require.Contains(t, replies[0].Text, "Hecho, he reprogramado la reunión de proveedores")

	meeting := f.planner.meetings[0]
	require.Contains(t, meeting.Start, "-10-20T11:00:00")
	require.Contains(t, meeting.End, "-10-20T12:00:00")
	require.Equal(t, []string{repository.EventTasks}, f.bus.events)

	// Usuario + respuesta quedan persistidos
	require.Len(t, f.chatRepo.messages, 2)
	require.Equal(t, entity.FromUser, f.chatRepo.messages[0].From)
}

func TestSendMessage_RespuestaDelBackend(t *testing.T) {
	f := newChatFixture(&mockDialog{result: &entity.DialogResult{Reply: "¡Apuntado!"}})

	replies, err := f.chat.SendMessage(context.Background(), "apunta que el ramo cuesta 80 euros")
	require.NoError(t, err)
	require.Equal(t, 1, f.dialog.calls)
	require.Len(t, replies, 1)
	require.Equal(t, entity.FromBot, replies[0].From)
	require.Equal(t, "¡Apuntado!", replies[0].Text)
}

func TestSendMessage_HistorialIncluyeElResumen(t *testing.T) {
	f := newChatFixture(&mockDialog{result: &entity.DialogResult{Reply: "ok"}})
	f.chatRepo.summary = "Usuario: hola"

	_, err := f.chat.SendMessage(context.Background(), "¿qué me falta por hacer?")
	require.NoError(t, err)
	require.NotEmpty(t, f.dialog.history)
	require.Equal(t, "system", f.dialog.history[0].Role)
	require.Equal(t, "Usuario: hola", f.dialog.history[0].Content)
}

func TestSendMessage_TimeoutDegradaARespuestaLocal(t *testing.T) {
	f := newChatFixture(&mockDialog{err: repository.ErrDialogTimeout})

	replies, err := f.chat.SendMessage(context.Background(), "¿cuánto llevo gastado en el presupuesto?")
	require.NoError(t, err)
	require.Len(t, replies, 1)

	require.Equal(t, entity.FromAssistant, replies[0].From)
	require.Contains(t, replies[0].Text, "Parece que hay problemas de conexión con el servidor")
	// La respuesta local de presupuesto viaja en el mismo mensaje
	require.Contains(t, replies[0].Text, "presupuesto")
	require.Equal(t, []string{"Tiempo de espera agotado"}, f.notifier.errors)
}

func TestSendMessage_FalloDeRed(t *testing.T) {
	f := newChatFixture(&mockDialog{err: repository.ErrDialogNetwork})

	replies, err := f.chat.SendMessage(context.Background(), "hola")
	require.NoError(t, err)
	require.Equal(t, entity.FromSystem, replies[0].From)
	require.Contains(t, replies[0].Text, "No se pudo conectar con el servidor de IA")
	require.Equal(t, []string{"Error de conexión"}, f.notifier.errors)
}

func TestSendMessage_ErrorGenerico(t *testing.T) {
	f := newChatFixture(&mockDialog{err: errors.New("algo raro")})

	replies, err := f.chat.SendMessage(context.Background(), "hola")
	require.NoError(t, err)
	require.Equal(t, entity.FromSystem, replies[0].From)
	require.Contains(t, replies[0].Text, "Ha ocurrido un error: algo raro")
}

func TestSendMessage_ErrorDelBackendAprovechaLoParcial(t *testing.T) {
	f := newChatFixture(&mockDialog{err: &repository.BackendError{
		StatusCode: 500,
		Result: &entity.DialogResult{
			Reply: "He llegado a apuntar a Ana.",
			Extracted: entity.Extracted{
				Guests: []entity.ExtractedGuest{{Name: "Ana"}},
			},
		},
	}})

	replies, err := f.chat.SendMessage(context.Background(), "añade a Ana")
	require.NoError(t, err)
	require.Contains(t, replies[0].Text, "He llegado a apuntar a Ana.")

	require.Len(t, f.planner.guests, 1)
	require.Equal(t, "Ana", f.planner.guests[0].Name)
	require.Equal(t, []string{"Error en la comunicación"}, f.notifier.errors)
}

func TestSendMessage_InvitadosExtraidos(t *testing.T) {
	f := newChatFixture(&mockDialog{result: &entity.DialogResult{
		Reply: "Apuntados.",
		Extracted: entity.Extracted{
			Guests: []entity.ExtractedGuest{{Name: "Ana"}, {Name: "Carlos", Companions: 2}},
		},
	}})
	f.planner.guests = []entity.Guest{{ID: "7", Name: "Previo"}}

	_, err := f.chat.SendMessage(context.Background(), "añade a Ana y a Carlos con dos acompañantes")
	require.NoError(t, err)

	require.Len(t, f.planner.guests, 3)
	require.Equal(t, "8", f.planner.guests[1].ID)
	require.Equal(t, "Pendiente", f.planner.guests[1].Response)
	require.Equal(t, "9", f.planner.guests[2].ID)
	require.Equal(t, 2, f.planner.guests[2].Companions)
	require.Contains(t, f.bus.events, repository.EventGuests)
	require.Contains(t, f.notifier.successes, "2 invitados añadidos")
}

func TestSendMessage_MovimientosExtraidosConAlias(t *testing.T) {
	f := newChatFixture(&mockDialog{result: &entity.DialogResult{
		Reply: "Gasto apuntado.",
		Extracted: entity.Extracted{
			BudgetMovements: []entity.ExtractedMovement{{Concept: "Flores", Amount: "150"}},
		},
	}})

	_, err := f.chat.SendMessage(context.Background(), "apunta 150 euros de flores")
	require.NoError(t, err)

	require.Len(t, f.planner.movements, 1)
	require.Equal(t, "Flores", f.planner.movements[0].Name)
	require.InDelta(t, 150, f.planner.movements[0].Amount, 0.001)
	require.Contains(t, f.bus.events, repository.EventMovements)
	require.Contains(t, f.bus.events, repository.EventFinance)
}

func TestSendMessage_ComandosExtraidos(t *testing.T) {
	f := newChatFixture(&mockDialog{result: &entity.DialogResult{
		Reply: "Hecho.",
		Extracted: entity.Extracted{
			Commands: []entity.Command{{
				Entity:  entity.EntityGuest,
				Action:  "add",
				Payload: map[string]any{"name": "Lucía"},
			}},
		},
	}})

	_, err := f.chat.SendMessage(context.Background(), "añade a Lucía")
	require.NoError(t, err)
	require.Len(t, f.planner.guests, 1)
	require.Equal(t, "Lucía", f.planner.guests[0].Name)
}

func TestSendMessage_CompactaAlSuperarElLimite(t *testing.T) {
	f := newChatFixture(&mockDialog{result: &entity.DialogResult{Reply: "ok"}})
	f.chatRepo.messages = makeMessages(MaxMessages)

	_, err := f.chat.SendMessage(context.Background(), "una más")
	require.NoError(t, err)

	require.Len(t, f.chatRepo.messages, MaxMessages)
	require.True(t, strings.HasPrefix(f.chatRepo.summary, "Usuario: mensaje 0"))
}

func TestResolveReply_Prioridad(t *testing.T) {
	require.Equal(t, "respuesta", resolveReply(&entity.DialogResult{Reply: "respuesta", Error: "fallo"}))
	require.Equal(t, "respuesta", resolveReply(&entity.DialogResult{Reply: "respuesta"}))

	withData := resolveReply(&entity.DialogResult{Extracted: entity.Extracted{
		Guests: []entity.ExtractedGuest{{Name: "Ana"}},
	}})
	require.True(t, strings.HasPrefix(withData, "Datos extraídos:\n"))
	require.Contains(t, withData, "Ana")

	require.Equal(t, "Error: fallo", resolveReply(&entity.DialogResult{Error: "fallo"}))
	require.Equal(t, "No se detectaron datos para extraer. ¿Puedes darme más detalles?", resolveReply(&entity.DialogResult{}))
}

func TestToggleImportant(t *testing.T) {
	f := newChatFixture(&mockDialog{})
	f.chatRepo.messages = []entity.Message{{ID: "m0", From: entity.FromBot, Text: "La finca se reserva en junio"}}

	important, err := f.chat.ToggleImportant(context.Background(), 0)
	require.NoError(t, err)
	require.True(t, important)
	require.Len(t, f.chatRepo.notes, 1)
	require.Equal(t, "La finca se reserva en junio", f.chatRepo.notes[0].Text)
	require.Contains(t, f.bus.events, repository.EventImportantNote)

	// Desmarcar no añade otra nota
	important, err = f.chat.ToggleImportant(context.Background(), 0)
	require.NoError(t, err)
	require.False(t, important)
	require.Len(t, f.chatRepo.notes, 1)

	_, err = f.chat.ToggleImportant(context.Background(), 99)
	require.Error(t, err)
}

func TestClearHistory(t *testing.T) {
	f := newChatFixture(&mockDialog{})
	f.chatRepo.messages = makeMessages(3)
	f.chatRepo.summary = "algo"

	require.NoError(t, f.chat.ClearHistory(context.Background()))
	require.Empty(t, f.chatRepo.messages)
	require.Empty(t, f.chatRepo.summary)
}

func TestGenerateLocalReply_PalabrasClave(t *testing.T) {
	require.Contains(t, GenerateLocalReply("hola"), "asistente")
	require.Contains(t, strings.ToLower(GenerateLocalReply("¿cuánto dinero llevo?")), "presupuesto")
	require.Contains(t, strings.ToLower(GenerateLocalReply("necesito un fotógrafo")), "proveedor")
	require.NotEmpty(t, GenerateLocalReply("texto sin ninguna palabra clave reconocible"))
}
