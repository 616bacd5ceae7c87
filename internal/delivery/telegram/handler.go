package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
	"github.com/mywed360/wedding-assistant-bot/internal/domain/repository"
	"github.com/mywed360/wedding-assistant-bot/internal/usecase"
)

// BotHandler puerta de entrada por Telegram: texto libre al pipeline del chat,
// comandos para historial y notas, y ficheros Excel para importar invitados.
type BotHandler struct {
	bot         *tgbotapi.BotAPI
	chatUseCase usecase.ChatUseCase
	planner     repository.PlannerRepository
	guestParser repository.GuestParser
	bus         repository.EventBus
	notifier    *Notifier
}

// NewBotHandler crea el handler del bot
func NewBotHandler(
	token string,
	chatUseCase usecase.ChatUseCase,
	planner repository.PlannerRepository,
	guestParser repository.GuestParser,
	bus repository.EventBus,
	notifier *Notifier,
) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("no se pudo crear el bot: %w", err)
	}
	notifier.bind(bot)

	return &BotHandler{
		bot:         bot,
		chatUseCase: chatUseCase,
		planner:     planner,
		guestParser: guestParser,
		bus:         bus,
		notifier:    notifier,
	}, nil
}

// Bot cliente subyacente, para construir el Notifier compartido
func (h *BotHandler) Bot() *tgbotapi.BotAPI {
	return h.bot
}

// Start arranca el bucle de long polling hasta que el contexto se cancele
func (h *BotHandler) Start(ctx context.Context) error {
	log.Printf("Bot @%s en marcha", h.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			log.Println("Deteniendo el bot...")
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			go h.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage despacha cada mensaje entrante
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	h.notifier.SetChat(message.Chat.ID)

	if message.Document != nil {
		h.handleDocumentMessage(ctx, message)
		return
	}
	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}
	if message.Text == "" {
		return
	}
	h.handleTextMessage(ctx, message)
}

// handleCommand comandos del bot
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		h.sendMessage(message.Chat.ID, h.getWelcomeMessage())
	case "ayuda", "help":
		h.sendMessage(message.Chat.ID, h.getHelpMessage())
	case "limpiar":
		h.handleClearCommand(ctx, message)
	case "historial":
		h.handleHistoryCommand(ctx, message)
	case "resumen":
		h.handleSummaryCommand(ctx, message)
	case "notas":
		h.handleNotesCommand(ctx, message)
	case "importante":
		h.handleImportantCommand(ctx, message)
	default:
		h.sendMessage(message.Chat.ID, "No conozco ese comando. Prueba /ayuda.")
	}
}

// handleTextMessage texto libre hacia el pipeline del chat
func (h *BotHandler) handleTextMessage(ctx context.Context, message *tgbotapi.Message) {
	typingAction := tgbotapi.NewChatAction(message.Chat.ID, tgbotapi.ChatTyping)
	h.bot.Send(typingAction)

	replies, err := h.chatUseCase.SendMessage(ctx, message.Text)
	if err != nil {
		log.Printf("fallo procesando el mensaje: %v", err)
		h.sendMessage(message.Chat.ID, "Lo siento, ha ocurrido un error. Vuelve a intentarlo.")
		return
	}

	for _, reply := range replies {
		h.sendMessage(message.Chat.ID, reply.Text)
	}
}

// handleDocumentMessage importación de invitados desde Excel
func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	doc := message.Document

	if doc.FileSize > 5*1024*1024 {
		h.sendMessage(message.Chat.ID, "El fichero no puede superar los 5MB.")
		return
	}
	if !strings.HasSuffix(doc.FileName, ".xlsx") && !strings.HasSuffix(doc.FileName, ".xls") {
		h.sendMessage(message.Chat.ID, "Solo acepto ficheros Excel (.xlsx, .xls) con la lista de invitados.")
		return
	}

	h.sendMessage(message.Chat.ID, "Descargando y procesando el fichero...")

	fileBytes, err := h.downloadFile(doc.FileID)
	if err != nil {
		log.Printf("fallo descargando el fichero: %v", err)
		h.sendMessage(message.Chat.ID, "No se pudo descargar el fichero.")
		return
	}

	imported, err := h.guestParser.ParseGuestsFromBytes(ctx, fileBytes, doc.FileName)
	if err != nil {
		log.Printf("fallo importando invitados: %v", err)
		h.sendMessage(message.Chat.ID, fmt.Sprintf("No se pudo leer la lista de invitados: %v", err))
		return
	}
	if len(imported) == 0 {
		h.sendMessage(message.Chat.ID, "El fichero no contiene invitados.")
		return
	}

	guests, err := h.planner.Guests(ctx)
	if err != nil {
		log.Printf("fallo leyendo invitados: %v", err)
		h.sendMessage(message.Chat.ID, "No se pudo leer la lista actual de invitados.")
		return
	}
	guests = append(guests, imported...)
	if err := h.planner.SaveGuests(ctx, guests); err != nil {
		log.Printf("fallo guardando invitados: %v", err)
		h.sendMessage(message.Chat.ID, "No se pudo guardar la lista de invitados.")
		return
	}
	h.bus.Publish(repository.EventGuests, &repository.EventDetail{Entity: entity.EntityGuest, Action: "add"})

	h.sendMessage(message.Chat.ID, fmt.Sprintf(`Lista de invitados importada.

Invitados añadidos: %d
Fichero: %s

Puedes pedirme cambios por chat, por ejemplo "añade a María a la mesa 3".`, len(imported), doc.FileName))
}

// downloadFile descarga un fichero de Telegram
func (h *BotHandler) downloadFile(fileID string) ([]byte, error) {
	file, err := h.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}

	fileURL := file.Link(h.bot.Token)
	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// handleClearCommand borra conversación y resumen
func (h *BotHandler) handleClearCommand(ctx context.Context, message *tgbotapi.Message) {
	if err := h.chatUseCase.ClearHistory(ctx); err != nil {
		h.sendMessage(message.Chat.ID, "No se pudo limpiar el historial.")
		return
	}
	h.sendMessage(message.Chat.ID, "Historial limpiado. Empezamos de cero.")
}

// handleHistoryCommand muestra la conversación guardada
func (h *BotHandler) handleHistoryCommand(ctx context.Context, message *tgbotapi.Message) {
	messages, err := h.chatUseCase.Messages(ctx)
	if err != nil {
		h.sendMessage(message.Chat.ID, "No se pudo leer el historial.")
		return
	}
	if len(messages) == 0 {
		h.sendMessage(message.Chat.ID, "El historial está vacío.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Historial:\n\n")
	for i, msg := range messages {
		marker := ""
		if msg.Important {
			marker = " ⭐"
		}
		sb.WriteString(fmt.Sprintf("%d. [%s]%s %s\n", i+1, roleLabel(msg.From), marker, msg.Text))
	}
	sb.WriteString("\nMarca un mensaje como importante con /importante <número>.")

	h.sendLong(message.Chat.ID, sb.String())
}

// handleSummaryCommand resumen acumulado de la conversación compactada
func (h *BotHandler) handleSummaryCommand(ctx context.Context, message *tgbotapi.Message) {
	summary, err := h.chatUseCase.Summary(ctx)
	if err != nil {
		h.sendMessage(message.Chat.ID, "No se pudo leer el resumen.")
		return
	}
	if summary == "" {
		h.sendMessage(message.Chat.ID, "Todavía no hay resumen: la conversación es corta.")
		return
	}
	h.sendLong(message.Chat.ID, "Resumen de la conversación:\n\n"+summary)
}

// handleNotesCommand notas importantes
func (h *BotHandler) handleNotesCommand(ctx context.Context, message *tgbotapi.Message) {
	notes, err := h.chatUseCase.Notes(ctx)
	if err != nil {
		h.sendMessage(message.Chat.ID, "No se pudieron leer las notas.")
		return
	}
	if len(notes) == 0 {
		h.sendMessage(message.Chat.ID, "No hay notas importantes todavía.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Notas importantes:\n\n")
	for _, note := range notes {
		when := time.UnixMilli(note.Date).Format("02/01/2006 15:04")
		sb.WriteString(fmt.Sprintf("• %s (%s)\n", note.Text, when))
	}
	h.sendLong(message.Chat.ID, sb.String())
}

// handleImportantCommand marca o desmarca un mensaje del historial
func (h *BotHandler) handleImportantCommand(ctx context.Context, message *tgbotapi.Message) {
	arg := strings.TrimSpace(message.CommandArguments())
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		h.sendMessage(message.Chat.ID, "Uso: /importante <número de mensaje del historial>")
		return
	}

	important, err := h.chatUseCase.ToggleImportant(ctx, n-1)
	if err != nil {
		h.sendMessage(message.Chat.ID, fmt.Sprintf("No se pudo marcar el mensaje: %v", err))
		return
	}
	if important {
		h.sendMessage(message.Chat.ID, fmt.Sprintf("Mensaje %d marcado como importante.", n))
	} else {
		h.sendMessage(message.Chat.ID, fmt.Sprintf("Mensaje %d desmarcado.", n))
	}
}

func (h *BotHandler) sendMessage(chatID int64, text string) {
	if text == "" {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("no se pudo enviar el mensaje: %v", err)
	}
}

// sendLong trocea textos que superan el límite de Telegram
func (h *BotHandler) sendLong(chatID int64, text string) {
	const limit = 4000
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			cut = limit
		}
		h.sendMessage(chatID, text[:cut])
		text = text[cut:]
	}
	h.sendMessage(chatID, text)
}

func roleLabel(from string) string {
	switch from {
	case entity.FromUser:
		return "Tú"
	case entity.FromBot, entity.FromAssistant:
		return "IA"
	case entity.FromSystem:
		return "Sistema"
	default:
		return from
	}
}

func (h *BotHandler) getWelcomeMessage() string {
	return `¡Hola! Soy tu asistente de boda 💍

Puedo ayudarte a organizar invitados, tareas, reuniones, presupuesto y proveedores. Escríbeme en lenguaje natural, por ejemplo:

• "Añade a María con 2 acompañantes"
• "Apunta un gasto de 350 euros de flores"
• "Reprograma la reunión de proveedores al 20/10 a las 11:00"
• "Busca fotógrafos en Madrid"

También puedes enviarme un Excel con tu lista de invitados.

Comandos: /historial /resumen /notas /limpiar /ayuda`
}

func (h *BotHandler) getHelpMessage() string {
	return `Comandos disponibles:

/historial - Ver la conversación guardada
/importante <n> - Marcar un mensaje como nota importante
/notas - Ver las notas importantes
/resumen - Ver el resumen de mensajes antiguos
/limpiar - Borrar la conversación y el resumen
/ayuda - Esta ayuda

Para todo lo demás, escríbeme en lenguaje natural y me encargo de apuntar invitados, tareas, reuniones y gastos.`
}

// GetBotUsername usuario del bot
func (h *BotHandler) GetBotUsername() string {
	return h.bot.Self.UserName
}
