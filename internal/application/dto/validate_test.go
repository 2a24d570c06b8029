package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/slick-api/internal/application/dto"
	"github.com/jhoicas/slick-api/internal/domain"
)

func validAssessment() dto.SubmitAssessmentRequest {
	return dto.SubmitAssessmentRequest{
		OrgID:        "org_1",
		ClientName:   "Ana",
		ClientEmail:  "ana@example.com",
		VehicleYear:  "2021",
		VehicleMake:  "toyota",
		VehicleModel: "corolla",
	}
}

func TestValidate_AssessmentValido(t *testing.T) {
	in := validAssessment()
	assert.NoError(t, dto.Validate(in))

	in.VIN = "1hg-cm8263 3a004352"
	assert.NoError(t, dto.Validate(&in), "el VIN se normaliza antes de validarse")
}

func TestValidate_AssessmentInvalido(t *testing.T) {
	cases := map[string]struct {
		mutate func(*dto.SubmitAssessmentRequest)
		field  string
	}{
		"email":      {func(r *dto.SubmitAssessmentRequest) { r.ClientEmail = "no-es-email" }, "client_email"},
		"nombre":     {func(r *dto.SubmitAssessmentRequest) { r.ClientName = "   " }, "client_name"},
		"anio texto": {func(r *dto.SubmitAssessmentRequest) { r.VehicleYear = "20a1" }, "vehicle_year"},
		"vin corto":  {func(r *dto.SubmitAssessmentRequest) { r.VIN = "123" }, "vin"},
		"vin con O":  {func(r *dto.SubmitAssessmentRequest) { r.VIN = "1HGCM82633A00435O" }, "vin"},
		"sin modelo": {func(r *dto.SubmitAssessmentRequest) { r.VehicleModel = "" }, "vehicle_model"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := validAssessment()
			tc.mutate(&in)

			err := dto.Validate(in)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestValidate_ColorDelTema(t *testing.T) {
	for _, ok := range []string{"#fff", "#1A2b3C"} {
		assert.NoError(t, dto.Validate(dto.UpdateThemeRequest{ThemeColor: ok}), ok)
	}
	for _, bad := range []string{"", "azul", "#ffff", "#11223344", "fff"} {
		assert.ErrorIs(t, dto.Validate(dto.UpdateThemeRequest{ThemeColor: bad}), domain.ErrInvalidInput, bad)
	}
}

func TestValidate_ResenaYCheckout(t *testing.T) {
	assert.ErrorIs(t, dto.Validate(dto.SubmitReviewRequest{AppointmentID: "ap1", Rating: 0}), domain.ErrInvalidInput)
	assert.ErrorIs(t, dto.Validate(dto.SubmitReviewRequest{Rating: 4}), domain.ErrInvalidInput)
	assert.NoError(t, dto.Validate(dto.SubmitReviewRequest{AppointmentID: "ap1", Rating: 5}))

	assert.ErrorIs(t, dto.Validate(dto.CreateCheckoutRequest{AssessmentID: "as1"}), domain.ErrInvalidInput)
	assert.NoError(t, dto.Validate(dto.CreateCheckoutRequest{AssessmentID: "as1", SelectedTime: time.Now()}))
}
