package entity

import "time"

// Remitentes posibles de un mensaje del chat
const (
	FromUser      = "user"
	FromBot       = "bot"
	FromSystem    = "system"
	FromAssistant = "assistant"
)

// Message mensaje del chat del asistente
type Message struct {
	ID        string    `json:"id,omitempty"`
	From      string    `json:"from"`
	Text      string    `json:"text"`
	Important bool      `json:"important,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Turn un turno de conversación tal y como lo espera el backend de IA
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Note nota marcada como importante desde el chat
type Note struct {
	Text string `json:"text"`
	Date int64  `json:"date"`
}
