package vehicle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/slick-api/internal/domain/vehicle"
)

func TestValidateVIN(t *testing.T) {
	cases := []struct {
		name    string
		vin     string
		wantErr bool
	}{
		{"vacío es opcional", "", false},
		{"VIN válido", "1HGCM82633A004352", false},
		{"muy corto", "1HGCM8263", true},
		{"contiene O", "1HGCM82633AO04352", true},
		{"contiene minúscula", "1hgcm82633a004352", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := vehicle.ValidateVIN(tc.vin)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeVIN(t *testing.T) {
	assert.Equal(t, "1HGCM82633A004352", vehicle.NormalizeVIN(" 1hgcm-82633 a004352 "))
}

func TestValidateYear(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, vehicle.ValidateYear("2019", now))
	assert.NoError(t, vehicle.ValidateYear("2027", now), "se aceptan modelos del año siguiente")
	assert.Error(t, vehicle.ValidateYear("2028", now))
	assert.Error(t, vehicle.ValidateYear("19", now))
	assert.Error(t, vehicle.ValidateYear("dos mil", now))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Toyota", vehicle.NormalizeName("toyota"))
	assert.Equal(t, "Land Cruiser", vehicle.NormalizeName("  land   cruiser "))
	assert.Equal(t, "BMW", vehicle.NormalizeName("BMW"))
	assert.Equal(t, "RAV4", vehicle.NormalizeName("RAV4"))
}
