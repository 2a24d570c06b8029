package dto

// MeResponse identidad del token y tablero que le corresponde.
type MeResponse struct {
	UserID    string `json:"user_id"`
	OrgID     string `json:"org_id,omitempty"`
	OrgRole   string `json:"org_role,omitempty"`
	Dashboard string `json:"dashboard"` // admin | detailer | client | no_organization | unknown_role
}
