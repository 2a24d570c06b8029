// Package identity integra el proveedor de identidad hospedado: creación de
// organizaciones vía su API REST (compatible con Clerk) y verificación de webhooks Svix.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
)

var _ ports.IdentityProvider = (*ClerkClient)(nil)

// ClerkClient cliente mínimo de la Backend API del proveedor.
type ClerkClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClerkClient baseURL suele ser "https://api.clerk.com".
func NewClerkClient(baseURL, secretKey string) *ClerkClient {
	return &ClerkClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type createOrganizationRequest struct {
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
}

// CreateOrganization crea la organización con createdBy como administrador y devuelve su id.
// Un status distinto de 2xx devuelve error con el cuerpo de la respuesta.
func (c *ClerkClient) CreateOrganization(ctx context.Context, name, createdBy string) (string, error) {
	if c.secretKey == "" {
		return "", fmt.Errorf("identity: IDENTITY_SECRET_KEY: %w", domain.ErrNotConfigured)
	}
	body, err := json.Marshal(createOrganizationRequest{Name: name, CreatedBy: createdBy})
	if err != nil {
		return "", fmt.Errorf("identity: serializar request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/organizations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("identity: crear request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("identity: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("identity: crear organización HTTP %d: %s: %w", resp.StatusCode, string(raw), domain.ErrUpstream)
	}
	id := gjson.GetBytes(raw, "id").String()
	if id == "" {
		return "", fmt.Errorf("identity: respuesta sin id: %w", domain.ErrUpstream)
	}
	return id, nil
}
