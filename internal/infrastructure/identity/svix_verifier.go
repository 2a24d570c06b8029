package identity

import (
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	svix "github.com/svix/svix-webhooks/go"

	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain"
)

var _ ports.IdentityWebhookVerifier = (*SvixVerifier)(nil)

// SvixVerifier verifica las cabeceras svix-id, svix-timestamp y svix-signature.
type SvixVerifier struct {
	wh *svix.Webhook
}

// NewSvixVerifier secret es el "whsec_..." del endpoint. Con secret vacío devuelve
// un verificador que responde domain.ErrNotConfigured.
func NewSvixVerifier(secret string) (*SvixVerifier, error) {
	if secret == "" {
		return &SvixVerifier{}, nil
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("identity: secreto de webhook inválido: %w", err)
	}
	return &SvixVerifier{wh: wh}, nil
}

// Verify comprueba la firma y extrae tipo e id del evento.
func (v *SvixVerifier) Verify(payload []byte, headers http.Header) (*ports.IdentityEvent, error) {
	if v.wh == nil {
		return nil, fmt.Errorf("identity: IDENTITY_WEBHOOK_SECRET: %w", domain.ErrNotConfigured)
	}
	if err := v.wh.Verify(payload, headers); err != nil {
		return nil, fmt.Errorf("identity: firma inválida: %v: %w", err, domain.ErrUnauthorized)
	}
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("identity: payload no es JSON: %w", domain.ErrInvalidInput)
	}
	return &ports.IdentityEvent{
		Type:   gjson.GetBytes(payload, "type").String(),
		DataID: gjson.GetBytes(payload, "data.id").String(),
	}, nil
}
