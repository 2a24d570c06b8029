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

// Verificar en tiempo de compilación que GeminiService implementa LLMService.
var _ ports.LLMService = (*GeminiService)(nil)

// DefaultGeminiBaseURL raíz de la API REST de Gemini.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiService adaptador que implementa LLMService llamando a la API REST de Google Gemini.
type GeminiService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiService construye el adaptador. model suele ser "gemini-2.5-flash".
// Si apiKey está vacío, las llamadas devuelven domain.ErrNotConfigured.
func NewGeminiService(apiKey, model string) *GeminiService {
	return &GeminiService{
		apiKey:  apiKey,
		model:   model,
		baseURL: DefaultGeminiBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second, // timeout de red; el caller también pone WithTimeout
		},
	}
}

// WithBaseURL cambia la raíz de la API (proxies y tests).
func (s *GeminiService) WithBaseURL(baseURL string) *GeminiService {
	s.baseURL = strings.TrimRight(baseURL, "/")
	return s
}

// ── Estructuras internas para la API de Gemini ────────────────────────────────

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	ResponseMIMEType string          `json:"responseMimeType,omitempty"` // "application/json" → JSON puro garantizado
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
	Temperature      float32         `json:"temperature"`
	MaxOutputTokens  int             `json:"maxOutputTokens"`
	ThinkingConfig   thinkingConfig  `json:"thinkingConfig"`
}

// En los modelos 2.5 los tokens de razonamiento cuentan contra maxOutputTokens.
// Presupuesto 0 desactiva el razonamiento; todo el límite queda para la respuesta.
type thinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

// Límites de salida por operación.
const (
	estimateMaxTokens  = 4096
	conciergeMaxTokens = 1024
	insightMaxTokens   = 512
)

// estimateSchema esquema de respuesta del presupuesto (formato OpenAPI de Gemini).
var estimateSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "items": {"type": "ARRAY", "items": {"type": "OBJECT", "properties": {
      "description": {"type": "STRING"}, "price": {"type": "NUMBER"}}}},
    "total": {"type": "NUMBER"},
    "suggestedAddons": {"type": "ARRAY", "items": {"type": "OBJECT", "properties": {
      "name": {"type": "STRING"}, "description": {"type": "STRING"}, "price": {"type": "NUMBER"}}}}
  },
  "required": ["items", "total"]
}`)

// ── Implementación del puerto ─────────────────────────────────────────────────

// GenerateEstimate pide el presupuesto en JSON con esquema forzado.
func (s *GeminiService) GenerateEstimate(ctx context.Context, in ports.EstimateInput) (*ports.EstimateDraft, error) {
	text, err := s.generate(ctx, estimateSystemPrompt, estimateUserPrompt(in), genConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   estimateSchema,
		Temperature:      0.2, // baja temperatura para respuestas más deterministas
		MaxOutputTokens:  estimateMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	return parseEstimate(text)
}

// AnswerQuestion respuesta en texto plano del concierge.
func (s *GeminiService) AnswerQuestion(ctx context.Context, services []entity.Service, question string) (string, error) {
	return s.generate(ctx, conciergeSystemPrompt, conciergeUserPrompt(services, question), genConfig{
		Temperature:     0.5,
		MaxOutputTokens: conciergeMaxTokens,
	})
}

// GenerateInsight recomendación corta para el detailer.
func (s *GeminiService) GenerateInsight(ctx context.Context, in ports.InsightInput) (string, error) {
	return s.generate(ctx, insightSystemPrompt, insightUserPrompt(in), genConfig{
		Temperature:     0.7,
		MaxOutputTokens: insightMaxTokens,
	})
}

func (s *GeminiService) generate(ctx context.Context, system, user string, cfg genConfig) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: GEMINI_API_KEY: %w", domain.ErrNotConfigured)
	}

	payload := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: user}}}},
		GenerationConfig:  cfg,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

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
			return "", fmt.Errorf("AI: Gemini error %d: %s: %w", resp.StatusCode, msg.String(), domain.ErrUpstream)
		}
		return "", fmt.Errorf("AI: Gemini HTTP %d: %w", resp.StatusCode, domain.ErrUpstream)
	}

	if reason := gjson.GetBytes(rawBody, "candidates.0.finishReason").String(); reason == "MAX_TOKENS" {
		return "", fmt.Errorf("AI: Gemini cortó la respuesta (maxOutputTokens=%d): %w", cfg.MaxOutputTokens, domain.ErrUpstream)
	}
	text := gjson.GetBytes(rawBody, "candidates.0.content.parts.0.text")
	if !text.Exists() || strings.TrimSpace(text.String()) == "" {
		reason := gjson.GetBytes(rawBody, "promptFeedback.blockReason").String()
		return "", fmt.Errorf("AI: Gemini devolvió respuesta vacía %s: %w", reason, domain.ErrUpstream)
	}
	return strings.TrimSpace(text.String()), nil
}
