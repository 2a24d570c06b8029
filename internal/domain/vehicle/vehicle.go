// Package vehicle reglas de dominio sobre los datos del vehículo del assessment.
package vehicle

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const vinLength = 17

// Caracteres válidos en un VIN (ISO 3779 excluye I, O y Q).
const vinAlphabet = "ABCDEFGHJKLMNPRSTUVWXYZ0123456789"

// NormalizeVIN quita espacios y guiones y pasa a mayúsculas.
func NormalizeVIN(raw string) string {
	r := strings.NewReplacer(" ", "", "-", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(raw)))
}

// ValidateVIN exige 17 caracteres del alfabeto ISO 3779. El VIN vacío es válido (campo opcional).
// No se verifica el dígito de control: solo aplica a vehículos norteamericanos.
func ValidateVIN(vin string) error {
	if vin == "" {
		return nil
	}
	if len(vin) != vinLength {
		return fmt.Errorf("el VIN debe tener %d caracteres (tiene %d)", vinLength, len(vin))
	}
	for i, c := range vin {
		if !strings.ContainsRune(vinAlphabet, c) {
			return fmt.Errorf("carácter inválido %q en la posición %d del VIN", c, i+1)
		}
	}
	return nil
}

// ValidateYear acepta años de 4 dígitos entre 1900 y el año próximo.
func ValidateYear(year string, now time.Time) error {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || len(strings.TrimSpace(year)) != 4 {
		return fmt.Errorf("año de vehículo inválido: %q", year)
	}
	if y < 1900 || y > now.Year()+1 {
		return fmt.Errorf("año de vehículo fuera de rango: %d", y)
	}
	return nil
}

// NormalizeName capitaliza marca/modelo ("toyota" -> "Toyota"). Los nombres que ya traen
// mayúsculas (BMW, RAV4) se respetan.
func NormalizeName(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" || s != strings.ToLower(s) {
		return s
	}
	return cases.Title(language.English).String(s)
}
