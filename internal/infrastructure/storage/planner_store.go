package storage

import (
	"context"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
	"github.com/mywed360/wedding-assistant-bot/internal/domain/repository"
)

type plannerStore struct {
	store *LocalStore
}

// NewPlannerStore repositorio de colecciones de la boda sobre el almacén local
func NewPlannerStore(store *LocalStore) repository.PlannerRepository {
	return &plannerStore{store: store}
}

// Guests lista de invitados
func (p *plannerStore) Guests(ctx context.Context) ([]entity.Guest, error) {
	guests := []entity.Guest{}
	if err := p.store.Get(KeyGuests, &guests); err != nil {
		return nil, err
	}
	return guests, nil
}

// SaveGuests reemplaza la lista de invitados
func (p *plannerStore) SaveGuests(ctx context.Context, guests []entity.Guest) error {
	return p.store.Put(KeyGuests, guests)
}

// Meetings reuniones y tareas
func (p *plannerStore) Meetings(ctx context.Context) ([]entity.Meeting, error) {
	meetings := []entity.Meeting{}
	if err := p.store.Get(KeyMeetings, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

// SaveMeetings reemplaza reuniones y tareas
func (p *plannerStore) SaveMeetings(ctx context.Context, meetings []entity.Meeting) error {
	return p.store.Put(KeyMeetings, meetings)
}

// Completed mapa de tareas completadas
func (p *plannerStore) Completed(ctx context.Context) (map[string]bool, error) {
	completed := map[string]bool{}
	if err := p.store.Get(KeyTasksCompleted, &completed); err != nil {
		return nil, err
	}
	return completed, nil
}

// SaveCompleted guarda el mapa de tareas completadas
func (p *plannerStore) SaveCompleted(ctx context.Context, completed map[string]bool) error {
	return p.store.Put(KeyTasksCompleted, completed)
}

// Movements movimientos del presupuesto
func (p *plannerStore) Movements(ctx context.Context) ([]entity.Movement, error) {
	movements := []entity.Movement{}
	if err := p.store.Get(KeyMovements, &movements); err != nil {
		return nil, err
	}
	return movements, nil
}

// SaveMovements reemplaza los movimientos
func (p *plannerStore) SaveMovements(ctx context.Context, movements []entity.Movement) error {
	return p.store.Put(KeyMovements, movements)
}

// Suppliers proveedores cacheados
func (p *plannerStore) Suppliers(ctx context.Context) ([]entity.Supplier, error) {
	suppliers := []entity.Supplier{}
	if err := p.store.Get(KeySuppliers, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

// SaveSuppliers reemplaza los proveedores cacheados
func (p *plannerStore) SaveSuppliers(ctx context.Context, suppliers []entity.Supplier) error {
	return p.store.Put(KeySuppliers, suppliers)
}

// Profile perfil de la boda
func (p *plannerStore) Profile(ctx context.Context) (entity.Profile, error) {
	profile := entity.Profile{}
	if err := p.store.Get(KeyProfile, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SaveProfile guarda el perfil de la boda
func (p *plannerStore) SaveProfile(ctx context.Context, profile entity.Profile) error {
	return p.store.Put(KeyProfile, profile)
}
