package repository

// Eventos que emiten los módulos al mutar la cache local. Otros módulos los
// escuchan para resincronizar con el backend.
const (
	EventTasks         = "maloveapp-tasks"
	EventGuests        = "maloveapp-guests"
	EventMovements     = "maloveapp-movements"
	EventFinance       = "maloveapp-finance"
	EventSuppliers     = "maloveapp-suppliers"
	EventProfile       = "maloveapp-profile"
	EventImportantNote = "maloveapp-important-note"
)

// EventDetail carga opcional de un evento: entidad y acción concretas para
// consumidores de grano fino. Los consumidores simples ignoran el detalle y
// releen la colección entera.
type EventDetail struct {
	Entity string `json:"entity,omitempty"`
	Action string `json:"action,omitempty"`
	ID     string `json:"id,omitempty"`
}

// EventBus bus de eventos fire-and-forget entre módulos
type EventBus interface {
	// Publish emite un evento sin esperar a los consumidores
	Publish(event string, detail *EventDetail)

	// Subscribe devuelve un canal con los eventos de ese nombre
	Subscribe(event string) <-chan EventDetail
}

// Notifier avisos no bloqueantes al usuario (los "toasts" del widget)
type Notifier interface {
	// Success aviso de operación completada
	Success(text string)

	// Info aviso neutro
	Info(text string)

	// Error aviso de fallo
	Error(text string)
}
