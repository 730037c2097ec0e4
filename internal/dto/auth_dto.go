package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LoginRequest arrives form-encoded, OAuth2 password-flow style.
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required,min=1"`
	Password string `form:"password" json:"password" validate:"required,min=4"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SalonAsignado is one row of a user's per-venue permission grid.
type SalonAsignado struct {
	SalonID             int64         `json:"salon_id"`
	Salon               *SalonResumen `json:"salon,omitempty"`
	PuedeVer            bool          `json:"puede_ver"`
	PuedeEditar         bool          `json:"puede_editar"`
	VerDashboard        bool          `json:"ver_dashboard"`
	VerRecaudaciones    bool          `json:"ver_recaudaciones"`
	EditarRecaudaciones bool          `json:"editar_recaudaciones"`
	VerHistorico        bool          `json:"ver_historico"`
}

type UsuarioResponse struct {
	ID               int64           `json:"id"`
	Username         string          `json:"username"`
	Nombre           string          `json:"nombre"`
	Email            string          `json:"email"`
	Activo           bool            `json:"activo"`
	Roles            []string        `json:"roles"`
	SalonesAsignados []SalonAsignado `json:"salones_asignados"`
}

// CrearUsuarioRequest is used by POST /users and the seeding tool.
type CrearUsuarioRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=50"`
	Nombre   string   `json:"nombre"   validate:"required,max=120"`
	Email    string   `json:"email"    validate:"omitempty,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Roles    []string `json:"roles"`
}
