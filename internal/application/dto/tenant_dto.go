package dto

import "time"

// CreateTenantRequest entrada para que un admin cree un tenant.
type CreateTenantRequest struct {
	Name string `json:"name" validate:"required,notblank,max=200"`
}

// CreateTenantResponse devuelve la organización creada en el proveedor de identidad.
type CreateTenantResponse struct {
	OrgID string `json:"org_id"`
}

// TenantResponse tenant completo (admin y detailer).
type TenantResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	OrgID      string    `json:"org_id"`
	ThemeColor string    `json:"theme_color"`
	CreatedAt  time.Time `json:"created_at"`
}

// TenantListResponse listado de tenants.
type TenantListResponse struct {
	Items []TenantResponse `json:"items"`
}

// PublicTenantResponse datos públicos para la página de assessment.
type PublicTenantResponse struct {
	Name       string `json:"name"`
	ThemeColor string `json:"theme_color"`
}

// UpdateThemeRequest cambio de color del tenant.
type UpdateThemeRequest struct {
	ThemeColor string `json:"theme_color" validate:"required,themecolor"`
}
