package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
	"github.com/mywed360/wedding-assistant-bot/internal/domain/repository"
)

// ChatUseCase pipeline del chat: parser local, backend de IA y reconciliación
// de las colecciones locales. Todas las rutas de error dejan algún texto en el
// chat; el usuario nunca se queda sin respuesta.
type ChatUseCase interface {
	// SendMessage procesa el texto y devuelve los mensajes de respuesta añadidos
	SendMessage(ctx context.Context, text string) ([]entity.Message, error)

	// Messages conversación completa
	Messages(ctx context.Context) ([]entity.Message, error)

	// Summary resumen acumulado de mensajes compactados
	Summary(ctx context.Context) (string, error)

	// ToggleImportant marca o desmarca el mensaje idx; devuelve el estado final
	ToggleImportant(ctx context.Context, idx int) (bool, error)

	// Notes notas marcadas como importantes
	Notes(ctx context.Context) ([]entity.Note, error)

	// ClearHistory borra conversación y resumen
	ClearHistory(ctx context.Context) error
}

type chatUseCase struct {
	chatRepo repository.ChatRepository
	planner  repository.PlannerRepository
	dialog   repository.DialogRepository
	commands CommandUseCase
	bus      repository.EventBus
	notifier repository.Notifier
}

// NewChatUseCase crea el pipeline del chat
func NewChatUseCase(
	chatRepo repository.ChatRepository,
	planner repository.PlannerRepository,
	dialogRepo repository.DialogRepository,
	commands CommandUseCase,
	bus repository.EventBus,
	notifier repository.Notifier,
) ChatUseCase {
	return &chatUseCase{
		chatRepo: chatRepo,
		planner:  planner,
		dialog:   dialogRepo,
		commands: commands,
		bus:      bus,
		notifier: notifier,
	}
}

// SendMessage flujo completo: texto del usuario -> intento de parser local ->
// si no encaja, backend de IA con timeout -> comandos y datos extraídos ->
// respuesta. Los fallos remotos degradan a la respuesta local.
func (u *chatUseCase) SendMessage(ctx context.Context, text string) ([]entity.Message, error) {
	if text == "" {
		return nil, nil
	}

	messages, err := u.chatRepo.Messages(ctx)
	if err != nil {
		return nil, fmt.Errorf("no se pudo leer la conversación: %w", err)
	}
	summary, err := u.chatRepo.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("no se pudo leer el resumen: %w", err)
	}

	messages = append(messages, entity.Message{
		ID:        uuid.New().String(),
		From:      entity.FromUser,
		Text:      text,
		Timestamp: time.Now(),
	})
	messages, summary = CompactMessages(messages, summary)
	u.persist(ctx, messages, summary)

	// Primero el parser local: una orden reconocida ni siquiera toca la red
	if local := ParseLocalCommands(text, time.Now()); local != nil {
		u.reportFailures(u.commands.ApplyCommands(ctx, local.Commands))
		return u.appendReply(ctx, messages, summary, entity.FromBot, local.Reply)
	}

	history := BuildHistory(messages, summary)
	result, err := u.dialog.ParseDialog(ctx, text, history)
	if err != nil {
		return u.handleDialogError(ctx, messages, summary, text, err)
	}

	u.processExtracted(ctx, result.Extracted)
	return u.appendReply(ctx, messages, summary, entity.FromBot, resolveReply(result))
}

// handleDialogError taxonomía de fallos remotos. Cada variante tiene su aviso
// y todas rematan con la respuesta local para que el chat nunca quede mudo.
func (u *chatUseCase) handleDialogError(ctx context.Context, messages []entity.Message, summary, text string, err error) ([]entity.Message, error) {
	log.Printf("fallo en la llamada a la IA: %v", err)

	var backendErr *repository.BackendError
	switch {
	case errors.As(err, &backendErr):
		// Respuesta parcial: se aprovechan reply y datos extraídos si llegaron
		reply := ""
		if backendErr.Result != nil {
			u.processExtracted(ctx, backendErr.Result.Extracted)
			if backendErr.Result.Reply != "" {
				reply = backendErr.Result.Reply
			} else if backendErr.Result.Error != "" {
				reply = "Error: " + backendErr.Result.Error
			}
		}
		u.notifier.Error("Error en la comunicación")
		return u.appendReply(ctx, messages, summary, entity.FromBot,
			joinReplies(reply, GenerateLocalReply(text)))

	case errors.Is(err, repository.ErrDialogTimeout):
		u.notifier.Error("Tiempo de espera agotado")
		notice := "Parece que hay problemas de conexión con el servidor. Puedo ayudarte con consultas básicas sobre tu boda mientras se restablece la conexión."
		return u.appendReply(ctx, messages, summary, entity.FromAssistant,
			joinReplies(notice, GenerateLocalReply(text)))

	case errors.Is(err, repository.ErrDialogNetwork):
		u.notifier.Error("Error de conexión")
		notice := "No se pudo conectar con el servidor de IA. Por favor, verifica tu conexión y vuelve a intentarlo."
		return u.appendReply(ctx, messages, summary, entity.FromSystem,
			joinReplies(notice, GenerateLocalReply(text)))

	default:
		u.notifier.Error("Error en la comunicación")
		notice := fmt.Sprintf("Ha ocurrido un error: %v", err)
		return u.appendReply(ctx, messages, summary, entity.FromSystem,
			joinReplies(notice, GenerateLocalReply(text)))
	}
}

// processExtracted vuelca cada lote extraído en su colección. Cada lote va
// protegido por separado: que falle uno no bloquea los demás.
func (u *chatUseCase) processExtracted(ctx context.Context, extracted entity.Extracted) {
	if len(extracted.Commands) > 0 {
		u.reportFailures(u.commands.ApplyCommands(ctx, extracted.Commands))
	}
	u.guarded("invitados", func() error { return u.appendGuests(ctx, extracted.Guests) })
	u.guarded("tareas", func() error { return u.appendEvents(ctx, extracted.Tasks, "tarea", "Tarea") })
	u.guarded("reuniones", func() error { return u.appendEvents(ctx, extracted.Meetings, "reunión", "Reunión") })

	movements := extracted.Movements
	if len(movements) == 0 {
		movements = extracted.BudgetMovements
	}
	u.guarded("movimientos", func() error { return u.appendMovements(ctx, movements) })
}

func (u *chatUseCase) guarded(what string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("lote de %s descartado: %v", what, r)
		}
	}()
	if err := fn(); err != nil {
		log.Printf("no se pudo guardar el lote de %s: %v", what, err)
	}
}

// appendGuests invitados extraídos: ids numéricos secuenciales a partir del
// máximo actual
func (u *chatUseCase) appendGuests(ctx context.Context, extracted []entity.ExtractedGuest) error {
	if len(extracted) == 0 {
		return nil
	}

	guests, err := u.planner.Guests(ctx)
	if err != nil {
		return err
	}

	nextID := 1
	for _, g := range guests {
		if n, err := strconv.Atoi(g.ID); err == nil && n >= nextID {
			nextID = n + 1
		}
	}

	for _, g := range extracted {
		guests = append(guests, entity.Guest{
			ID:         strconv.Itoa(nextID),
			Name:       defaultString(g.Name, "Invitado"),
			Phone:      g.Phone,
			Address:    g.Address,
			Companions: g.Companions,
			Table:      g.Table,
			Response:   "Pendiente",
		})
		nextID++
	}

	if err := u.planner.SaveGuests(ctx, guests); err != nil {
		return err
	}
	u.bus.Publish(repository.EventGuests, &repository.EventDetail{Entity: entity.EntityGuest, Action: "add"})
	u.notifier.Success(pluralize(len(extracted), "invitado añadido", "invitados añadidos"))
	return nil
}

// appendEvents tareas o reuniones extraídas: ids ai-<epoch ms>, categoría
// normalizada con OTROS por defecto
func (u *chatUseCase) appendEvents(ctx context.Context, extracted []entity.ExtractedEvent, singular, defaultTitle string) error {
	if len(extracted) == 0 {
		return nil
	}

	meetings, err := u.planner.Meetings(ctx)
	if err != nil {
		return err
	}

	nextID := time.Now().UnixMilli()
	for _, ev := range extracted {
		startISO := firstNonEmpty(ev.Due, ev.Date, ev.Start, ev.When, ev.Begin, ev.End)
		start := time.Now()
		if startISO != "" {
			start = parseISOOr(startISO, start)
		}
		end := start
		if endISO := firstNonEmpty(ev.End, ev.Until); endISO != "" {
			end = parseISOOr(endISO, start)
		}

		meetings = append(meetings, entity.Meeting{
			ID:       fmt.Sprintf("ai-%d", nextID),
			Title:    firstNonEmpty(ev.Title, ev.Name, defaultTitle),
			Name:     firstNonEmpty(ev.Title, ev.Name, defaultTitle),
			Desc:     firstNonEmpty(ev.Desc, ev.Description),
			Start:    start.Format(time.RFC3339),
			End:      end.Format(time.RFC3339),
			Type:     entity.EntityMeeting,
			Category: NormalizeCategory(ev.Category),
		})
		nextID++
	}

	if err := u.planner.SaveMeetings(ctx, meetings); err != nil {
		return err
	}
	u.bus.Publish(repository.EventTasks, &repository.EventDetail{Entity: entity.EntityMeeting, Action: "add"})
	if singular == "tarea" {
		u.notifier.Success(pluralize(len(extracted), "tarea añadida", "tareas añadidas"))
	} else {
		u.notifier.Success(pluralize(len(extracted), "reunión añadida", "reuniones añadidas"))
	}
	return nil
}

// appendMovements movimientos extraídos: tipo forzado a income/expense,
// importe numérico con 0 por defecto
func (u *chatUseCase) appendMovements(ctx context.Context, extracted []entity.ExtractedMovement) error {
	if len(extracted) == 0 {
		return nil
	}

	movements, err := u.planner.Movements(ctx)
	if err != nil {
		return err
	}

	nextID := time.Now().UnixMilli()
	for _, m := range extracted {
		movements = append(movements, entity.Movement{
			ID:     fmt.Sprintf("mov-%d", nextID),
			Name:   firstNonEmpty(m.Concept, m.Name, "Movimiento"),
			Amount: coerceNumber(m.Amount),
			Date:   defaultString(m.Date, time.Now().Format("2006-01-02")),
			Type:   movementType(m.Type),
		})
		nextID++
	}

	if err := u.planner.SaveMovements(ctx, movements); err != nil {
		return err
	}
	u.bus.Publish(repository.EventMovements, &repository.EventDetail{Entity: entity.EntityMovement, Action: "add"})
	u.bus.Publish(repository.EventFinance, nil)
	u.notifier.Success(pluralize(len(extracted), "movimiento añadido", "movimientos añadidos"))
	return nil
}

// resolveReply prioridad del texto a mostrar: error con reply > reply > volcado
// de datos extraídos > error pelado > aviso de que no se extrajo nada
func resolveReply(result *entity.DialogResult) string {
	switch {
	case result.Error != "" && result.Reply != "":
		log.Printf("el backend avisó de un error: %s %s", result.Error, result.Details)
		return result.Reply
	case result.Reply != "":
		return result.Reply
	case !result.Extracted.Empty():
		raw, err := json.MarshalIndent(result.Extracted, "", "  ")
		if err != nil {
			return "Datos extraídos."
		}
		return "Datos extraídos:\n" + string(raw)
	case result.Error != "":
		log.Printf("el backend devolvió error sin reply: %s %s", result.Error, result.Details)
		return "Error: " + result.Error
	default:
		return "No se detectaron datos para extraer. ¿Puedes darme más detalles?"
	}
}

func (u *chatUseCase) appendReply(ctx context.Context, messages []entity.Message, summary, from, text string) ([]entity.Message, error) {
	reply := entity.Message{
		ID:        uuid.New().String(),
		From:      from,
		Text:      text,
		Timestamp: time.Now(),
	}
	messages, summary = CompactMessages(append(messages, reply), summary)
	u.persist(ctx, messages, summary)
	return []entity.Message{reply}, nil
}

// persist guarda conversación y resumen; un fallo de disco no rompe el chat
func (u *chatUseCase) persist(ctx context.Context, messages []entity.Message, summary string) {
	if err := u.chatRepo.SaveMessages(ctx, messages); err != nil {
		log.Printf("no se pudo persistir la conversación: %v", err)
	}
	if err := u.chatRepo.SaveSummary(ctx, summary); err != nil {
		log.Printf("no se pudo persistir el resumen: %v", err)
	}
}

// reportFailures deja rastro de los comandos fallidos sin molestar al usuario
// con un aviso por cada uno
func (u *chatUseCase) reportFailures(results []CommandResult) {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Printf("comando %s/%s falló: %v", r.Command.Entity, r.Command.Action, r.Err)
		}
	}
	if failed > 0 {
		u.notifier.Info(pluralize(failed, "acción no aplicada", "acciones no aplicadas"))
	}
}

// Messages conversación completa
func (u *chatUseCase) Messages(ctx context.Context) ([]entity.Message, error) {
	return u.chatRepo.Messages(ctx)
}

// Summary resumen acumulado
func (u *chatUseCase) Summary(ctx context.Context) (string, error) {
	return u.chatRepo.Summary(ctx)
}

// ToggleImportant marca o desmarca un mensaje. Al marcar, el texto pasa
// también a las notas importantes y se emite su evento.
func (u *chatUseCase) ToggleImportant(ctx context.Context, idx int) (bool, error) {
	messages, err := u.chatRepo.Messages(ctx)
	if err != nil {
		return false, err
	}
	if idx < 0 || idx >= len(messages) {
		return false, fmt.Errorf("no existe el mensaje %d", idx)
	}

	messages[idx].Important = !messages[idx].Important
	if err := u.chatRepo.SaveMessages(ctx, messages); err != nil {
		return false, err
	}

	if messages[idx].Important {
		if err := u.chatRepo.AppendNote(ctx, entity.Note{
			Text: messages[idx].Text,
			Date: time.Now().UnixMilli(),
		}); err != nil {
			log.Printf("no se pudo guardar la nota importante: %v", err)
		}
		u.bus.Publish(repository.EventImportantNote, nil)
		u.notifier.Success("Nota marcada como importante")
	}
	return messages[idx].Important, nil
}

// Notes notas importantes
func (u *chatUseCase) Notes(ctx context.Context) ([]entity.Note, error) {
	return u.chatRepo.Notes(ctx)
}

// ClearHistory borra conversación y resumen
func (u *chatUseCase) ClearHistory(ctx context.Context) error {
	return u.chatRepo.Clear(ctx)
}

// joinReplies concatena el texto del backend (si llegó) con la respuesta local
func joinReplies(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += p
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
