package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
	"github.com/mywed360/wedding-assistant-bot/internal/domain/repository"
)

type sqliteChatRepository struct {
	db *sql.DB
}

// NewSQLiteChatRepository conversación persistida en SQLite
func NewSQLiteChatRepository(dbPath string) (repository.ChatRepository, error) {
	if dbPath == "" {
		return nil, errors.New("la ruta de la base de datos no puede estar vacía")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("no se pudo crear la carpeta de la base de datos: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir sqlite: %w", err)
	}

	if err := createChatSchema(db); err != nil {
		return nil, err
	}

	return &sqliteChatRepository{db: db}, nil
}

func createChatSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS messages (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT,
	sender TEXT NOT NULL,
	text TEXT,
	important INTEGER NOT NULL DEFAULT 0,
	ts TIMESTAMP
);
CREATE TABLE IF NOT EXISTS summary (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	text TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS notes (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	text TEXT NOT NULL,
	date INTEGER NOT NULL
);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("no se pudo crear el esquema: %w", err)
	}
	return nil
}

// Messages conversación completa en orden
func (s *sqliteChatRepository) Messages(ctx context.Context) ([]entity.Message, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, sender, text, important, ts FROM messages ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []entity.Message{}
	for rows.Next() {
		var msg entity.Message
		var important int
		var ts sql.NullTime
		if err := rows.Scan(&msg.ID, &msg.From, &msg.Text, &important, &ts); err != nil {
			return nil, err
		}
		msg.Important = important != 0
		if ts.Valid {
			msg.Timestamp = ts.Time
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// SaveMessages reemplaza la conversación. La compactación reescribe la lista
// entera, así que se borra e inserta dentro de una transacción.
func (s *sqliteChatRepository) SaveMessages(ctx context.Context, messages []entity.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		tx.Rollback()
		return err
	}

	for _, msg := range messages {
		important := 0
		if msg.Important {
			important = 1
		}
		ts := msg.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (id, sender, text, important, ts) VALUES (?, ?, ?, ?, ?)`,
			msg.ID, msg.From, msg.Text, important, ts); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// Summary resumen acumulado
func (s *sqliteChatRepository) Summary(ctx context.Context) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx, `SELECT text FROM summary WHERE id = 1`).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return text, err
}

// SaveSummary guarda el resumen acumulado
func (s *sqliteChatRepository) SaveSummary(ctx context.Context, summary string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO summary (id, text) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET text = excluded.text`,
		summary)
	return err
}

// Notes notas importantes
func (s *sqliteChatRepository) Notes(ctx context.Context) ([]entity.Note, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT text, date FROM notes ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []entity.Note{}
	for rows.Next() {
		var note entity.Note
		if err := rows.Scan(&note.Text, &note.Date); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// AppendNote añade una nota importante
func (s *sqliteChatRepository) AppendNote(ctx context.Context, note entity.Note) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO notes (text, date) VALUES (?, ?)`, note.Text, note.Date)
	return err
}

// Clear borra mensajes y resumen
func (s *sqliteChatRepository) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM summary`)
	return err
}
