package dialog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mywed360/wedding-assistant-bot/internal/domain/entity"
	"github.com/mywed360/wedding-assistant-bot/internal/domain/repository"
)

type parseDialogRequest struct {
	Text    string        `json:"text"`
	History []entity.Turn `json:"history"`
	Context string        `json:"context,omitempty"`
}

type searchSuppliersResponse struct {
	Results []entity.Supplier `json:"results"`
}

// TokenSource devuelve el token bearer vigente (colaborador externo)
type TokenSource func(ctx context.Context) (string, error)

// Client cliente HTTP del backend de IA. Implementa DialogRepository y
// SupplierSearcher.
type Client struct {
	baseURL     string
	tokenSource TokenSource
	httpClient  *http.Client
	timeout     time.Duration
	context     string
}

// Option ajuste opcional del cliente
type Option func(*Client)

// WithHTTPClient reemplaza el cliente HTTP
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTimeout cambia el tiempo máximo por llamada
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithContext fija el contexto del evento que acompaña a cada petición
func WithContext(eventContext string) Option {
	return func(c *Client) { c.context = eventContext }
}

// NewClient crea el cliente del backend de IA
func NewClient(baseURL string, tokenSource TokenSource, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("dialog: la URL del backend no puede estar vacía")
	}
	c := &Client{
		baseURL:     baseURL,
		tokenSource: tokenSource,
		httpClient:  &http.Client{},
		timeout:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ParseDialog envía el texto con su historial al backend. Sin token no se
// llega a emitir la petición. En un no-2xx devuelve *BackendError con el
// cuerpo parseado para aprovechar respuestas parciales.
func (c *Client) ParseDialog(ctx context.Context, text string, history []entity.Turn) (*entity.DialogResult, error) {
	if c.tokenSource == nil {
		return nil, repository.ErrDialogNoToken
	}
	token, err := c.tokenSource(ctx)
	if err != nil || token == "" {
		return nil, repository.ErrDialogNoToken
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(parseDialogRequest{Text: text, History: history, Context: c.context})
	if err != nil {
		return nil, fmt.Errorf("dialog: no se pudo codificar la petición: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ai/parse-dialog", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("dialog: no se pudo crear la petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}

	result := &entity.DialogResult{}
	// El cuerpo se parsea también en error: el backend puede devolver un
	// reply o datos extraídos junto al código de fallo.
	decodeErr := json.Unmarshal(raw, result)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		if decodeErr != nil {
			result = nil
		}
		return nil, &repository.BackendError{StatusCode: res.StatusCode, Result: result}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("dialog: respuesta ilegible del backend: %w", decodeErr)
	}
	return result, nil
}

// SearchSuppliers busca proveedores por texto libre
func (c *Client) SearchSuppliers(ctx context.Context, query string) ([]entity.Supplier, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/api/ai/search-suppliers?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dialog: no se pudo crear la petición: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &repository.BackendError{StatusCode: res.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}

	var payload searchSuppliersResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("dialog: respuesta ilegible del backend: %w", err)
	}
	return payload.Results, nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", repository.ErrDialogTimeout, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return fmt.Errorf("%w: %v", repository.ErrDialogTimeout, err)
		}
		return fmt.Errorf("%w: %v", repository.ErrDialogNetwork, err)
	}
	return fmt.Errorf("dialog: %w", err)
}

// El cliente implementa ambos puertos
var (
	_ repository.DialogRepository = (*Client)(nil)
	_ repository.SupplierSearcher = (*Client)(nil)
)
