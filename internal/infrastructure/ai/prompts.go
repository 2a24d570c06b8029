package ai

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/jhoicas/slick-api/internal/application/ports"
	"github.com/jhoicas/slick-api/internal/domain/entity"
)

// ── Prompts ───────────────────────────────────────────────────────────────────

// Los prompts van en inglés: el producto se usa con clientes en EE. UU.
const (
	estimateSystemPrompt = `You are an expert vehicle detailer's assistant. Generate an itemized estimate.
1. Adjust base prices up or down based on the condition notes.
2. Suggest 1-2 relevant add-on services from the base price list if the notes mention something specific (e.g., suggest 'Full Interior Shampoo' for "coffee stain"). These are suggestions, not part of the main estimate.
3. Provide a final total for the main estimate.

Return ONLY a JSON object with this exact shape:
{"items":[{"description":"<string>","price":<number>}],"total":<number>,"suggestedAddons":[{"name":"<string>","description":"<string>","price":<number>}]}`

	conciergeSystemPrompt = `You are a friendly and helpful customer service agent for a vehicle detailing business.
Your goal is to answer the user's question concisely based on the services offered.
Do not answer questions that are not related to vehicle detailing.`

	insightSystemPrompt = `You are a business optimization expert for a vehicle detailing company.
Based on the following data, provide one short, actionable insight (2 sentences max).
Example: "Your average rating is high, consider promoting customer reviews on social media to attract new clients."`
)

func estimateUserPrompt(in ports.EstimateInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Vehicle: %s %s %s\n", in.VehicleYear, in.VehicleMake, in.VehicleModel)
	fmt.Fprintf(&b, "Condition Notes: %q\n", in.ConditionNotes)
	b.WriteString("Base Prices:\n")
	for _, s := range in.Services {
		fmt.Fprintf(&b, "- %s (%s): $%s\n", s.Name, s.Description, s.BasePrice.StringFixed(2))
	}
	return b.String()
}

func conciergeUserPrompt(services []entity.Service, question string) string {
	var b strings.Builder
	b.WriteString("Available Services:\n")
	for _, s := range services {
		fmt.Fprintf(&b, "- %s: $%s\n", s.Name, s.BasePrice.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nUser's Question: %q\n", question)
	return b.String()
}

func insightUserPrompt(in ports.InsightInput) string {
	return fmt.Sprintf("Data:\n- Total Revenue: $%s\n- Total Appointments: %d\n- Average Rating: %s / 5\n",
		in.TotalRevenue.StringFixed(2), in.TotalAppointments, in.AverageRating.String())
}

// ── Parseo de la respuesta ────────────────────────────────────────────────────

// parseEstimate interpreta el JSON del modelo. Acepta precios como número o string y
// "suggestedAddons" o "suggested_addons". Sin total, suma las partidas.
func parseEstimate(raw string) (*ports.EstimateDraft, error) {
	clean := extractJSON(raw)
	if clean == "" || !gjson.Valid(clean) {
		return nil, fmt.Errorf("AI: la respuesta no es JSON válido (respuesta: %.200s)", raw)
	}
	doc := gjson.Parse(clean)

	draft := &ports.EstimateDraft{}
	sum := decimal.Zero
	for _, it := range doc.Get("items").Array() {
		price, err := parsePrice(it.Get("price"))
		if err != nil {
			return nil, fmt.Errorf("AI: precio de partida: %w", err)
		}
		desc := strings.TrimSpace(it.Get("description").String())
		if desc == "" {
			return nil, fmt.Errorf("AI: partida sin descripción")
		}
		draft.Items = append(draft.Items, entity.EstimateItem{Description: desc, Price: price})
		sum = sum.Add(price)
	}
	if len(draft.Items) == 0 {
		return nil, fmt.Errorf("AI: presupuesto sin partidas")
	}

	if total := doc.Get("total"); total.Exists() {
		t, err := parsePrice(total)
		if err != nil {
			return nil, fmt.Errorf("AI: total: %w", err)
		}
		draft.Total = t
	} else {
		draft.Total = sum
	}

	addons := doc.Get("suggestedAddons")
	if !addons.Exists() {
		addons = doc.Get("suggested_addons")
	}
	for _, ad := range addons.Array() {
		price, err := parsePrice(ad.Get("price"))
		if err != nil {
			return nil, fmt.Errorf("AI: precio de adicional: %w", err)
		}
		draft.SuggestedAddons = append(draft.SuggestedAddons, entity.SuggestedAddon{
			Name:        strings.TrimSpace(ad.Get("name").String()),
			Description: strings.TrimSpace(ad.Get("description").String()),
			Price:       price,
		})
	}
	return draft, nil
}

func parsePrice(v gjson.Result) (decimal.Decimal, error) {
	if !v.Exists() {
		return decimal.Zero, fmt.Errorf("falta el precio")
	}
	s := strings.TrimPrefix(strings.TrimSpace(v.String()), "$")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("precio inválido %q", v.Raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("precio negativo %s", d)
	}
	return d.Round(2), nil
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
// Captura desde el primer '{' hasta el último '}' coincidente.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON extrae el primer objeto JSON de un texto libre.
//  1. Elimina bloques de código markdown (```json … ``` o ``` … ```).
//  2. Si no empieza por '{', captura con regex el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
