package bus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/repository"
)

func TestMemoryBus_PublishLlegaAlSuscriptor(t *testing.T) {
	b := NewMemoryBus()
	ch := b.Subscribe(repository.EventGuests)

	b.Publish(repository.EventGuests, &repository.EventDetail{Entity: "guest", Action: "add", ID: "1"})

	detail := <-ch
	require.Equal(t, "guest", detail.Entity)
	require.Equal(t, "add", detail.Action)
	require.Equal(t, "1", detail.ID)
}

func TestMemoryBus_DetalleNilSeEntregaVacio(t *testing.T) {
	b := NewMemoryBus()
	ch := b.Subscribe(repository.EventFinance)

	b.Publish(repository.EventFinance, nil)

	detail := <-ch
	require.Equal(t, repository.EventDetail{}, detail)
}

func TestMemoryBus_EventosSeparadosPorNombre(t *testing.T) {
	b := NewMemoryBus()
	guests := b.Subscribe(repository.EventGuests)
	tasks := b.Subscribe(repository.EventTasks)

	b.Publish(repository.EventTasks, &repository.EventDetail{Action: "update"})

	select {
	case <-guests:
		t.Fatal("el evento de tareas no debe llegar al canal de invitados")
	default:
	}
	require.Equal(t, "update", (<-tasks).Action)
}

func TestMemoryBus_PublishSinSuscriptoresNoBloquea(t *testing.T) {
	b := NewMemoryBus()
	b.Publish(repository.EventProfile, nil)
}

func TestMemoryBus_BufferLlenoDescarta(t *testing.T) {
	b := NewMemoryBus()
	ch := b.Subscribe(repository.EventMovements)

	for i := 0; i < 40; i++ {
		b.Publish(repository.EventMovements, nil)
	}

	// El buffer es finito; lo no entregado se descarta sin bloquear
	delivered := 0
	for {
		select {
		case <-ch:
			delivered++
			continue
		default:
		}
		break
	}
	require.Greater(t, delivered, 0)
	require.Less(t, delivered, 40)
}
