package repository

import (
	"context"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
)

// PlannerRepository colecciones de la boda cacheadas en local. Cada colección
// tiene su par get/set tipado; la fuente canónica vive en el backend y se
// resincroniza escuchando los eventos del bus.
type PlannerRepository interface {
	// Guests devuelve la lista de invitados
	Guests(ctx context.Context) ([]entity.Guest, error)

	// SaveGuests reemplaza la lista de invitados
	SaveGuests(ctx context.Context, guests []entity.Guest) error

	// Meetings devuelve reuniones y tareas
	Meetings(ctx context.Context) ([]entity.Meeting, error)

	// SaveMeetings reemplaza reuniones y tareas
	SaveMeetings(ctx context.Context, meetings []entity.Meeting) error

	// Completed devuelve el mapa de tareas completadas (id -> true)
	Completed(ctx context.Context) (map[string]bool, error)

	// SaveCompleted guarda el mapa de tareas completadas
	SaveCompleted(ctx context.Context, completed map[string]bool) error

	// Movements devuelve los movimientos del presupuesto
	Movements(ctx context.Context) ([]entity.Movement, error)

	// SaveMovements reemplaza los movimientos del presupuesto
	SaveMovements(ctx context.Context, movements []entity.Movement) error

	// Suppliers devuelve los proveedores cacheados
	Suppliers(ctx context.Context) ([]entity.Supplier, error)

	// SaveSuppliers reemplaza los proveedores cacheados
	SaveSuppliers(ctx context.Context, suppliers []entity.Supplier) error

	// Profile devuelve el perfil de la boda
	Profile(ctx context.Context) (entity.Profile, error)

	// SaveProfile guarda el perfil de la boda
	SaveProfile(ctx context.Context, profile entity.Profile) error
}
