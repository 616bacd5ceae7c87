package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mywed360/wedding-assistant-bot/config"
	"github.com/mywed360/wedding-assistant-bot/internal/delivery/telegram"
	"github.com/mywed360/wedding-assistant-bot/internal/domain/repository"
	"github.com/mywed360/wedding-assistant-bot/internal/infrastructure/bus"
	"github.com/mywed360/wedding-assistant-bot/internal/infrastructure/dialog"
	"github.com/mywed360/wedding-assistant-bot/internal/infrastructure/gemini"
	"github.com/mywed360/wedding-assistant-bot/internal/infrastructure/parser"
	"github.com/mywed360/wedding-assistant-bot/internal/infrastructure/storage"
	"github.com/mywed360/wedding-assistant-bot/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuración inválida: %v", err)
	}

	store, err := storage.OpenLocalStore(cfg.DataPath)
	if err != nil {
		log.Fatalf("no se pudo abrir el almacén local: %v", err)
	}

	var chatRepo repository.ChatRepository
	if cfg.ChatDBPath != "" {
		chatRepo, err = storage.NewSQLiteChatRepository(cfg.ChatDBPath)
		if err != nil {
			log.Fatalf("no se pudo abrir la base de datos del chat: %v", err)
		}
	} else {
		chatRepo = storage.NewLocalChatRepository(store)
	}

	planner := storage.NewPlannerStore(store)
	eventBus := bus.NewMemoryBus()
	notifier := telegram.NewNotifier()

	var dialogRepo repository.DialogRepository
	var searcher repository.SupplierSearcher
	if cfg.AIBackendURL != "" {
		client, err := dialog.NewClient(cfg.AIBackendURL,
			func(ctx context.Context) (string, error) { return cfg.AIBackendToken, nil },
			dialog.WithTimeout(cfg.DialogTimeout),
		)
		if err != nil {
			log.Fatalf("no se pudo crear el cliente del backend de IA: %v", err)
		}
		dialogRepo = client
		searcher = client
	} else {
		dialogRepo, err = gemini.NewGeminiClient(cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("no se pudo crear el cliente de Gemini: %v", err)
		}
		log.Println("sin AI_BACKEND_URL: respondo con Gemini y sin búsqueda de proveedores")
	}

	commands := usecase.NewCommandUseCase(planner, searcher, eventBus, notifier)
	chat := usecase.NewChatUseCase(chatRepo, planner, dialogRepo, commands, eventBus, notifier)

	handler, err := telegram.NewBotHandler(
		cfg.TelegramToken,
		chat,
		planner,
		parser.NewExcelGuestParser(),
		eventBus,
		notifier,
	)
	if err != nil {
		log.Fatalf("no se pudo crear el bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := handler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("el bot terminó con error: %v", err)
	}
	log.Println("bot detenido")
}
