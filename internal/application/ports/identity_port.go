package ports

import (
	"context"
	"net/http"
)

// IdentityProvider organizaciones en el proveedor de identidad hospedado.
type IdentityProvider interface {
	// CreateOrganization crea la organización y devuelve su ID.
	CreateOrganization(ctx context.Context, name, createdBy string) (string, error)
}

// Tipos de evento del webhook de identidad que la aplicación procesa.
const IdentityEventUserCreated = "user.created"

// IdentityEvent evento ya verificado del proveedor de identidad.
type IdentityEvent struct {
	Type   string
	DataID string // data.id (usuario u organización según el tipo)
}

// IdentityWebhookVerifier verifica la firma (Svix) y decodifica el evento.
type IdentityWebhookVerifier interface {
	Verify(payload []byte, headers http.Header) (*IdentityEvent, error)
}
