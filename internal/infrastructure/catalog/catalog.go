// Package catalog carga el catálogo de servicios por defecto embebido en el binario.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/slick-api/internal/domain/entity"
)

//go:embed default_services.yaml
var defaultServicesYAML []byte

type file struct {
	Services []entity.Service `yaml:"services"`
}

// DefaultServices devuelve el catálogo inicial de un tenant nuevo.
func DefaultServices() ([]entity.Service, error) {
	return Parse(defaultServicesYAML)
}

// Parse decodifica un catálogo en YAML. Exige al menos un servicio y precios positivos.
func Parse(raw []byte) ([]entity.Service, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("catálogo yaml: %w", err)
	}
	if len(f.Services) == 0 {
		return nil, fmt.Errorf("catálogo vacío")
	}
	for _, s := range f.Services {
		if s.Name == "" {
			return nil, fmt.Errorf("servicio sin nombre en el catálogo")
		}
		if !s.BasePrice.IsPositive() {
			return nil, fmt.Errorf("precio base inválido para %q", s.Name)
		}
	}
	return f.Services, nil
}
