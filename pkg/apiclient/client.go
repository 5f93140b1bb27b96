package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/agenda-api/internal/application/dto"
)

// ErrNotFound el recurso no existe (HTTP 404).
var ErrNotFound = errors.New("apiclient: recurso no encontrado")

// APIError respuesta no 2xx de la API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("API HTTP %d", e.Status)
	if e.Code != "" {
		msg += " " + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Is hace que errors.Is(err, ErrNotFound) sea verdadero para un 404.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Call describe una llamada terminada; se entrega al observador configurado.
type Call struct {
	Method   string
	Path     string
	Status   int // 0 si falló el transporte
	Duration time.Duration
	Err      error
}

// Option configura el Client.
type Option func(*Client)

// WithHTTPClient reemplaza el *http.Client (tests, proxies).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver recibe cada llamada terminada.
func WithObserver(fn func(Call)) Option {
	return func(c *Client) { c.observe = fn }
}

// Client cliente HTTP tipado de la Agenda API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	observe    func(Call)
}

// New construye el cliente. baseURL apunta al prefijo /api (ej. http://localhost:3001/api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListClients GET /clients
func (c *Client) ListClients(ctx context.Context) ([]dto.ClientResponse, error) {
	var out []dto.ClientResponse
	if err := c.do(ctx, http.MethodGet, "/clients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetClient GET /clients/:id
func (c *Client) GetClient(ctx context.Context, id int64) (*dto.ClientResponse, error) {
	var out dto.ClientResponse
	if err := c.do(ctx, http.MethodGet, "/clients/"+itoa(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListClientVisits GET /clients/:id/visits
func (c *Client) ListClientVisits(ctx context.Context, id int64) ([]dto.VisitListItem, error) {
	var out []dto.VisitListItem
	if err := c.do(ctx, http.MethodGet, "/clients/"+itoa(id)+"/visits", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateClient POST /clients
func (c *Client) CreateClient(ctx context.Context, in dto.ClientPatch) (*dto.ClientResponse, error) {
	var out dto.ClientResponse
	if err := c.do(ctx, http.MethodPost, "/clients", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateClient PUT /clients/:id
func (c *Client) UpdateClient(ctx context.Context, id int64, in dto.ClientPatch) (*dto.ClientResponse, error) {
	var out dto.ClientResponse
	if err := c.do(ctx, http.MethodPut, "/clients/"+itoa(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteClient DELETE /clients/:id
func (c *Client) DeleteClient(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/clients/"+itoa(id), nil, nil)
}

// ListVisits GET /visits
func (c *Client) ListVisits(ctx context.Context) ([]dto.VisitListItem, error) {
	var out []dto.VisitListItem
	if err := c.do(ctx, http.MethodGet, "/visits", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateVisit POST /visits
func (c *Client) CreateVisit(ctx context.Context, in dto.VisitPatch) (*dto.VisitResponse, error) {
	var out dto.VisitResponse
	if err := c.do(ctx, http.MethodPost, "/visits", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateVisit PUT /visits/:id
func (c *Client) UpdateVisit(ctx context.Context, id int64, in dto.VisitPatch) (*dto.VisitResponse, error) {
	var out dto.VisitResponse
	if err := c.do(ctx, http.MethodPut, "/visits/"+itoa(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteVisit DELETE /visits/:id
func (c *Client) DeleteVisit(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/visits/"+itoa(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) (err error) {
	start := time.Now()
	status := 0
	if c.observe != nil {
		defer func() {
			c.observe(Call{Method: method, Path: path, Status: status, Duration: time.Since(start), Err: err})
		}()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("apiclient: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("apiclient: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("apiclient: leer respuesta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e dto.ErrorResponse
		if json.Unmarshal(raw, &e) == nil {
			apiErr.Code, apiErr.Message, apiErr.Detail = e.Code, e.Message, e.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("apiclient: deserializar respuesta: %w", err)
	}
	return nil
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
