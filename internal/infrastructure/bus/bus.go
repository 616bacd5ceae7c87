package bus

import (
	"sync"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/repository"
)

type memoryBus struct {
	mu   sync.RWMutex
	subs map[string][]chan repository.EventDetail
}

// NewMemoryBus bus de eventos en memoria. Publish no bloquea: si el buffer de
// un suscriptor está lleno, ese evento se descarta para él (el suscriptor
// relee la colección completa en el siguiente evento).
func NewMemoryBus() repository.EventBus {
	return &memoryBus{subs: make(map[string][]chan repository.EventDetail)}
}

// Publish emite un evento sin esperar a los consumidores
func (b *memoryBus) Publish(event string, detail *repository.EventDetail) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	d := repository.EventDetail{}
	if detail != nil {
		d = *detail
	}
	for _, ch := range b.subs[event] {
		select {
		case ch <- d:
		default:
		}
	}
}

// Subscribe devuelve un canal con los eventos de ese nombre
func (b *memoryBus) Subscribe(event string) <-chan repository.EventDetail {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan repository.EventDetail, 16)
	b.subs[event] = append(b.subs[event], ch)
	return ch
}
