package ai

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
	"github.com/jhoicas/slick-api/internal/domain/entity"
)

// Verificar en tiempo de compilación que AnthropicService implementa LLMService.
var _ ports.LLMService = (*AnthropicService)(nil)

const (
	// DefaultAnthropicBaseURL raíz de la API de Anthropic.
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"

	// Claude no tiene modo JSON: se refuerza en el system prompt y se limpia con extractJSON.
	jsonOnlySuffix = "\nDo not include any text outside the JSON object. No markdown, no code fences."
)

// AnthropicService adaptador que implementa LLMService usando la API REST de Anthropic (Claude).
// Usa net/http de la librería estándar de Go; no requiere el SDK oficial.
type AnthropicService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewAnthropicService construye el adaptador. model suele ser "claude-3-5-haiku-20241022".
// Si apiKey está vacío las llamadas devuelven domain.ErrNotConfigured.
func NewAnthropicService(apiKey, model string) *AnthropicService {
	return &AnthropicService{
		apiKey:  apiKey,
		model:   model,
		baseURL: DefaultAnthropicBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithBaseURL cambia la raíz de la API (proxies y tests).
func (s *AnthropicService) WithBaseURL(baseURL string) *AnthropicService {
	s.baseURL = strings.TrimRight(baseURL, "/")
	return s
}

// ── Estructuras internas del protocolo Anthropic Messages API ─────────────────

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system"`
	Temperature float32            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// GenerateEstimate pide el presupuesto y extrae el JSON aunque Claude lo envuelva en markdown.
func (s *AnthropicService) GenerateEstimate(ctx context.Context, in ports.EstimateInput) (*ports.EstimateDraft, error) {
	text, err := s.complete(ctx, estimateSystemPrompt+jsonOnlySuffix, estimateUserPrompt(in), 1024, 0.2)
	if err != nil {
		return nil, err
	}
	return parseEstimate(text)
}

// AnswerQuestion respuesta en texto plano del concierge.
func (s *AnthropicService) AnswerQuestion(ctx context.Context, services []entity.Service, question string) (string, error) {
	return s.complete(ctx, conciergeSystemPrompt, conciergeUserPrompt(services, question), 512, 0.5)
}

// GenerateInsight recomendación corta para el detailer.
func (s *AnthropicService) GenerateInsight(ctx context.Context, in ports.InsightInput) (string, error) {
	return s.complete(ctx, insightSystemPrompt, insightUserPrompt(in), 256, 0.7)
}

func (s *AnthropicService) complete(ctx context.Context, system, user string, maxTokens int, temperature float32) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: ANTHROPIC_API_KEY: %w", domain.ErrNotConfigured)
	}

	body, err := json.Marshal(anthropicRequest{
		Model:       s.model,
		MaxTokens:   maxTokens,
		System:      system,
		Temperature: temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: user}},
	})
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(rawBody, "error.message"); msg.Exists() {
			return "", fmt.Errorf("AI: Anthropic error (%s): %s: %w",
				gjson.GetBytes(rawBody, "error.type").String(), msg.String(), domain.ErrUpstream)
		}
		return "", fmt.Errorf("AI: Anthropic HTTP %d: %w", resp.StatusCode, domain.ErrUpstream)
	}

	// Concatenar los bloques de texto (Claude puede partir la respuesta).
	var b strings.Builder
	for _, block := range gjson.GetBytes(rawBody, "content").Array() {
		if block.Get("type").String() == "text" {
			b.WriteString(block.Get("text").String())
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("AI: Claude devolvió respuesta vacía: %w", domain.ErrUpstream)
	}
	return text, nil
}
