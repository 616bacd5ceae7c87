package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
)

// Errores del puerto de diálogo. El chat traduce cada uno a un aviso distinto.
var (
	// ErrDialogTimeout la llamada superó el tiempo máximo y fue abortada
	ErrDialogTimeout = errors.New("dialog: timeout")

	// ErrDialogNetwork fallo de red antes de obtener respuesta
	ErrDialogNetwork = errors.New("dialog: fallo de red")

	// ErrDialogNoToken no se pudo obtener el token de autenticación
	ErrDialogNoToken = errors.New("dialog: no se pudo obtener el token de autenticación")
)

// BackendError respuesta no-2xx del backend de diálogo. Conserva el cuerpo
// parseado por si llegó un reply o datos extraídos junto al error.
type BackendError struct {
	StatusCode int
	Result     *entity.DialogResult
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("dialog: el backend respondió %d", e.StatusCode)
}

// DialogRepository backend de IA conversacional
type DialogRepository interface {
	// ParseDialog envía el texto con su historial y devuelve respuesta y datos extraídos
	ParseDialog(ctx context.Context, text string, history []entity.Turn) (*entity.DialogResult, error)
}

// SupplierSearcher búsqueda de proveedores en el backend
type SupplierSearcher interface {
	// SearchSuppliers busca proveedores por texto libre
	SearchSuppliers(ctx context.Context, query string) ([]entity.Supplier, error)
}
