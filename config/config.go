package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config configuración de la aplicación
type Config struct {
	TelegramToken  string
	AIBackendURL   string
	AIBackendToken string
	GeminiAPIKey   string
	DataPath       string
	ChatDBPath     string
	DialogTimeout  time.Duration
}

// Load carga la configuración desde el entorno (.env si existe)
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		AIBackendURL:   os.Getenv("AI_BACKEND_URL"),
		AIBackendToken: os.Getenv("AI_BACKEND_TOKEN"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		DataPath:       "data/localstore.json",
		DialogTimeout:  30 * time.Second,
	}

	if dataPath := os.Getenv("DATA_PATH"); dataPath != "" {
		config.DataPath = dataPath
	}
	// CHAT_DB_PATH activa la conversación en SQLite en vez del almacén JSON
	config.ChatDBPath = os.Getenv("CHAT_DB_PATH")

	if rawTimeout := os.Getenv("DIALOG_TIMEOUT"); rawTimeout != "" {
		parsed, err := time.ParseDuration(rawTimeout)
		if err != nil {
			return nil, fmt.Errorf("DIALOG_TIMEOUT en formato incorrecto: %w", err)
		}
		config.DialogTimeout = parsed
	}

	// Validación
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("falta la variable TELEGRAM_BOT_TOKEN")
	}
	if config.AIBackendURL == "" && config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("hace falta AI_BACKEND_URL o GEMINI_API_KEY")
	}

	return config, nil
}
