package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service servicio ofrecido por el tenant con su precio base.
type Service struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	BasePrice   decimal.Decimal `json:"base_price" yaml:"base_price"`
}

// PricingModel catálogo de servicios de un tenant (uno por tenant).
type PricingModel struct {
	ID        string
	OrgID     string
	Services  []Service
	UpdatedAt time.Time
}

// FindService devuelve el índice del servicio por nombre exacto, o -1.
func (p *PricingModel) FindService(name string) int {
	for i, s := range p.Services {
		if s.Name == name {
			return i
		}
	}
	return -1
}
