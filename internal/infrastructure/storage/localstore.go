package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Claves fijas de la cache local, heredadas del widget web. Un fichero JSON
// hace de localStorage: una clave por colección, valor codificado en JSON.
const (
	KeyChatOpen       = "chatOpen"
	KeyChatMessages   = "chatMessages"
	KeyChatSummary    = "chatSummary"
	KeyMeetings       = "mywed360Meetings"
	KeyTasksCompleted = "tasksCompleted"
	KeyGuests         = "mywed360Guests"
	KeyMovements      = "mywed360Movements"
	KeySuppliers      = "mywed360Suppliers"
	KeyProfile        = "mywed360Profile"
	KeyImportantNotes = "importantNotes"
)

// LocalStore almacén clave-valor JSON persistido en disco. Sin path actúa
// solo en memoria (útil en tests). Último escritor gana; no se coordina
// entre procesos.
type LocalStore struct {
	mu   sync.RWMutex
	path string
	data map[string]json.RawMessage
}

// NewMemoryStore almacén solo en memoria
func NewMemoryStore() *LocalStore {
	return &LocalStore{data: make(map[string]json.RawMessage)}
}

// OpenLocalStore abre (o crea) el almacén persistido en path
func OpenLocalStore(path string) (*LocalStore, error) {
	if path == "" {
		return nil, fmt.Errorf("la ruta del almacén no puede estar vacía")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("no se pudo crear la carpeta de datos: %w", err)
	}

	s := &LocalStore{path: path, data: make(map[string]json.RawMessage)}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("no se pudo leer %s: %w", path, err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("almacén corrupto en %s: %w", path, err)
		}
	}
	return s, nil
}

// Get decodifica el valor de key en v. Si la clave no existe deja v intacto,
// para que el llamante conserve su valor por defecto.
func (s *LocalStore) Get(key string, v any) error {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("valor corrupto en clave %q: %w", key, err)
	}
	return nil
}

// Put guarda el valor y persiste todo el almacén en disco
func (s *LocalStore) Put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("no se pudo codificar la clave %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = raw
	return s.flushLocked()
}

// Delete elimina la clave y persiste
func (s *LocalStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return s.flushLocked()
}

func (s *LocalStore) flushLocked() error {
	if s.path == "" {
		return nil
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("no se pudo escribir %s: %w", s.path, err)
	}
	return nil
}
