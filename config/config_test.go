package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "AI_BACKEND_URL", "AI_BACKEND_TOKEN",
		"GEMINI_API_KEY", "DATA_PATH", "CHAT_DB_PATH", "DIALOG_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_ConBackendDeIA(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "tg-token")
	t.Setenv("AI_BACKEND_URL", "https://api.example.com")
	t.Setenv("AI_BACKEND_TOKEN", "bearer-token")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "tg-token", cfg.TelegramToken)
	require.Equal(t, "https://api.example.com", cfg.AIBackendURL)
	require.Equal(t, "bearer-token", cfg.AIBackendToken)
	require.Equal(t, 30*time.Second, cfg.DialogTimeout)
	require.Equal(t, "data/localstore.json", cfg.DataPath)
}

func TestLoad_SinTokenDeTelegram(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_BACKEND_URL", "https://api.example.com")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_SinBackendNiGemini(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "tg-token")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_TimeoutPersonalizado(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "tg-token")
	t.Setenv("GEMINI_API_KEY", "gk")
	t.Setenv("DIALOG_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, cfg.DialogTimeout)

	t.Setenv("DIALOG_TIMEOUT", "cinco segundos")
	_, err = Load()
	require.Error(t, err)
}
