// Package netsis implementa el adaptador REST hacia el ERP Netsis.
package netsis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/ports"
)

// Verificar en tiempo de compilación que Client implementa ErpBridge.
var _ ports.ErpBridge = (*Client)(nil)

// Client adaptador que implementa ErpBridge contra la API REST de Netsis.
// Usa net/http de la librería estándar; no requiere SDK.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient construye el adaptador. Si apiKey está vacío las llamadas
// devuelven error descriptivo en lugar de panic.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type netsisError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// do ejecuta una llamada JSON contra Netsis y deserializa la respuesta en out
// (out puede ser nil si el cuerpo no interesa).
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("netsis: NETSIS_API_KEY no configurado")
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("netsis: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("netsis: crear HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("netsis: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("netsis: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("netsis: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp netsisError
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Message != "" {
			return fmt.Errorf("netsis: error (%s): %s", errResp.Code, errResp.Message)
		}
		return fmt.Errorf("netsis: HTTP %d: %s", resp.StatusCode, string(rawBody))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("netsis: deserializar respuesta: %w", err)
	}
	return nil
}

// GetStock consulta el saldo agregado de un material.
func (c *Client) GetStock(ctx context.Context, materialCode string) (*dto.ErpStockDTO, error) {
	var out dto.ErpStockDTO
	path := "/api/v2/stock/" + url.PathEscape(materialCode)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStockBatch consulta los saldos por lote de un material.
func (c *Client) GetStockBatch(ctx context.Context, materialCode string) ([]dto.ErpBatchStockDTO, error) {
	var out []dto.ErpBatchStockDTO
	path := "/api/v2/stock/" + url.PathEscape(materialCode) + "/batches"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrder replica una orden confirmada.
func (c *Client) CreateOrder(ctx context.Context, order dto.ErpOrderDTO) error {
	return c.do(ctx, http.MethodPost, "/api/v2/orders", order, nil)
}

// SyncToNetsis empuja saldos locales al ERP.
func (c *Client) SyncToNetsis(ctx context.Context, stocks []dto.ErpStockDTO) (*dto.ErpSyncResultDTO, error) {
	var out dto.ErpSyncResultDTO
	if err := c.do(ctx, http.MethodPost, "/api/v2/stock/sync", stocks, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SyncFromNetsis trae los saldos del ERP para los códigos dados.
func (c *Client) SyncFromNetsis(ctx context.Context, materialCodes []string) ([]dto.ErpStockDTO, error) {
	var out []dto.ErpStockDTO
	payload := map[string][]string{"material_codes": materialCodes}
	if err := c.do(ctx, http.MethodPost, "/api/v2/stock/pull", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckHealth verifica que el ERP responde.
func (c *Client) CheckHealth(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/v2/health", nil, nil)
}
