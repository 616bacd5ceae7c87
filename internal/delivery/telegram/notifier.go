package telegram

import (
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/repository"
)

// Notifier avisos cortos al chat activo, el equivalente a los toasts del
// widget. Sin chat activo los avisos van solo al log.
type Notifier struct {
	mu     sync.RWMutex
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier crea el notificador sin bot ni chat asignados; el handler lo
// vincula al arrancar
func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) bind(bot *tgbotapi.BotAPI) {
	n.mu.Lock()
	n.bot = bot
	n.mu.Unlock()
}

// SetChat fija el chat destino de los próximos avisos
func (n *Notifier) SetChat(chatID int64) {
	n.mu.Lock()
	n.chatID = chatID
	n.mu.Unlock()
}

// Success aviso de operación completada
func (n *Notifier) Success(text string) { n.send("✅ " + text) }

// Info aviso neutro
func (n *Notifier) Info(text string) { n.send("ℹ️ " + text) }

// Error aviso de fallo
func (n *Notifier) Error(text string) { n.send("⚠️ " + text) }

func (n *Notifier) send(text string) {
	n.mu.RLock()
	bot, chatID := n.bot, n.chatID
	n.mu.RUnlock()

	if bot == nil || chatID == 0 {
		log.Printf("aviso sin chat activo: %s", text)
		return
	}
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("no se pudo enviar el aviso: %v", err)
	}
}

var _ repository.Notifier = (*Notifier)(nil)
