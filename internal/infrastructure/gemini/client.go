package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
	"github.com/mywed360/wedding-assistant-bot/internal/domain/repository"
	"google.golang.org/api/option"
)

type geminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	sem    chan struct{}
	mu     sync.Mutex
	last   time.Time
	delay  time.Duration
}

// NewGeminiClient proveedor de diálogo directo contra Gemini. Se usa cuando no
// hay backend parse-dialog configurado: responde conversación pero no extrae
// comandos estructurados.
func NewGeminiClient(apiKey string) (repository.DialogRepository, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("no se pudo crear el cliente de Gemini: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash-exp")

	model.SetTemperature(0.3)
	model.SetTopK(20)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(2048)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text(`Eres el asistente de planificación de bodas de MaLove. Hablas en español, con tono cercano y práctico.

La pareja te consulta sobre su boda: invitados, presupuesto, fechas y reuniones, proveedores y plan de mesas.

REGLAS:
1. Responde SOLO sobre la organización de la boda. Si preguntan otra cosa, redirige con amabilidad.
2. No inventes datos de su boda: si no conoces un dato (número de invitados, presupuesto, fecha), pregúntalo.
3. Sé concreto. Si piden presupuesto orientativo, da rangos habituales en España y dilo claramente.
4. Si piden crear, cambiar o borrar invitados, tareas, gastos o reuniones, explica que lo apunten con frases directas ("añade al invitado Ana", "reprograma la reunión del catering al 20/10 a las 11:00") para que la aplicación lo registre.
5. Respuestas cortas: párrafos breves o listas, nada de ensayos.`),
		},
	}

	return &geminiClient{
		client: client,
		model:  model,
		sem:    make(chan struct{}, 3), // máximo 3 peticiones simultáneas
		delay:  350 * time.Millisecond, // intervalo mínimo entre peticiones
	}, nil
}

// ParseDialog genera la respuesta conversacional. Extracted queda vacío: la
// extracción estructurada solo la hace el backend parse-dialog.
func (g *geminiClient) ParseDialog(ctx context.Context, text string, history []entity.Turn) (*entity.DialogResult, error) {
	release := g.acquire()
	defer release()

	var parts []genai.Part
	for _, turn := range history {
		if turn.Content == "" {
			continue
		}
		switch turn.Role {
		case "user":
			parts = append(parts, genai.Text(fmt.Sprintf("Pareja: %s", turn.Content)))
		case "system":
			parts = append(parts, genai.Text(fmt.Sprintf("Resumen de la conversación anterior:\n%s", turn.Content)))
		default:
			parts = append(parts, genai.Text(fmt.Sprintf("Tú: %s", turn.Content)))
		}
	}
	parts = append(parts, genai.Text(text))

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("no se pudo generar la respuesta: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini no devolvió candidatos")
	}

	return &entity.DialogResult{Reply: extractText(resp)}, nil
}

// extractText concatena el texto de la respuesta
func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				result.WriteString(fmt.Sprintf("%v", part))
			}
		}
	}
	return result.String()
}

func (g *geminiClient) acquire() func() {
	g.sem <- struct{}{}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if g.last.IsZero() {
		g.last = now
	} else {
		if sleep := g.delay - now.Sub(g.last); sleep > 0 {
			time.Sleep(sleep)
			now = time.Now()
		}
		g.last = now
	}

	return func() {
		<-g.sem
	}
}

// Close cierra el cliente
func (g *geminiClient) Close() error {
	return g.client.Close()
}
