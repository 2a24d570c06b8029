package dto

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/slick-api/internal/domain"
	"github.com/jhoicas/slick-api/internal/domain/vehicle"
)

// Color del tema: #RGB o #RRGGBB. El hexcolor de validator acepta también canal alfa.
var themeColorRe = regexp.MustCompile(`(?i)^#([0-9A-F]{3}){1,2}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "themecolor", func(fl validator.FieldLevel) bool {
		return themeColorRe.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	mustRegister(v, "vin", func(fl validator.FieldLevel) bool {
		return vehicle.ValidateVIN(vehicle.NormalizeVIN(fl.Field().String())) == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registrar validación %s: %v", tag, err))
	}
}

// Validate aplica las etiquetas validate de un DTO. Los fallos se devuelven envueltos en
// domain.ErrInvalidInput con el nombre JSON del primer campo inválido.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		f := fields[0]
		return fmt.Errorf("campo %s inválido (%s): %w", f.Field(), f.Tag(), domain.ErrInvalidInput)
	}
	return fmt.Errorf("validar entrada: %v: %w", err, domain.ErrInvalidInput)
}
