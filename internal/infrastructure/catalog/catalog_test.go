package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/slick-api/internal/infrastructure/catalog"
)

func TestDefaultServices_CatalogoInicial(t *testing.T) {
	services, err := catalog.DefaultServices()
	require.NoError(t, err)
	require.Len(t, services, 4)

	assert.Equal(t, "Standard Exterior Wash", services[0].Name)
	assert.True(t, decimal.NewFromInt(45).Equal(services[0].BasePrice))
	assert.Equal(t, "Full Interior Shampoo", services[3].Name)
	assert.True(t, decimal.NewFromInt(120).Equal(services[3].BasePrice))
}

func TestParse_RechazaPrecioNoPositivo(t *testing.T) {
	_, err := catalog.Parse([]byte("services:\n  - name: Gratis\n    base_price: 0\n"))
	assert.Error(t, err)
}

func TestParse_RechazaCatalogoVacio(t *testing.T) {
	_, err := catalog.Parse([]byte("services: []\n"))
	assert.Error(t, err)
}
