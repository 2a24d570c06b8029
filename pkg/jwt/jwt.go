package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los de la plantilla del proveedor de identidad.
// Role viene de los public metadata del usuario ("admin" = administrador de la plataforma);
// OrgRole es el rol dentro de la organización activa ("org:detailer", "org:client").
type Claims struct {
	jwt.RegisteredClaims
	OrgID   string   `json:"org_id,omitempty"`
	OrgRole string   `json:"org_role,omitempty"`
	OrgIDs  []string `json:"org_ids,omitempty"`
	Role    string   `json:"role,omitempty"`
	Name    string   `json:"name,omitempty"`
	Email   string   `json:"email,omitempty"`
}

// Identity es la vista de los claims que consumen middleware y casos de uso.
type Identity struct {
	UserID  string
	OrgID   string
	OrgRole string
	OrgIDs  []string
	Role    string
	Name    string
	Email   string
}

// IsMemberOf informa si la identidad pertenece a la organización.
func (i Identity) IsMemberOf(orgID string) bool {
	if orgID == "" {
		return false
	}
	if i.OrgID == orgID {
		return true
	}
	for _, id := range i.OrgIDs {
		if id == orgID {
			return true
		}
	}
	return false
}

// Generate genera un token JWT firmado para la identidad dada (seed, dev y tests).
func Generate(secret, issuer string, id Identity, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	orgIDs := id.OrgIDs
	if len(orgIDs) == 0 && id.OrgID != "" {
		orgIDs = []string{id.OrgID}
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		OrgID:   id.OrgID,
		OrgRole: id.OrgRole,
		OrgIDs:  orgIDs,
		Role:    id.Role,
		Name:    id.Name,
		Email:   id.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve la identidad.
// Retorna error si el token es inválido, expirado, con firma incorrecta o sin subject.
func Parse(secret, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("claims inválidos")
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("token sin subject")
	}
	return Identity{
		UserID:  claims.Subject,
		OrgID:   claims.OrgID,
		OrgRole: claims.OrgRole,
		OrgIDs:  claims.OrgIDs,
		Role:    claims.Role,
		Name:    claims.Name,
		Email:   claims.Email,
	}, nil
}
