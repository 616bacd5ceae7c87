package repository

import (
	"context"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
)

// GuestParser importación de listas de invitados desde Excel
type GuestParser interface {
	// ParseGuests lee invitados desde un fichero Excel
	ParseGuests(ctx context.Context, filePath string) ([]entity.Guest, error)

	// ParseGuestsFromBytes parsea el fichero recibido como bytes
	ParseGuestsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.Guest, error)
}
