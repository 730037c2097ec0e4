package model

import (
	"strings"
	"time"
)

// Usuario is a staff account. Roles holds role codes separated by commas
// ("ADMIN", "RECAUDADOR", ...).
type Usuario struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	Nombre       string `gorm:"not null"`
	Email        string `gorm:"index"`
	HashPassword string `gorm:"not null"`
	Roles        string `gorm:"type:varchar(120);not null;default:''"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	SalonesAsignados []UsuarioSalon `gorm:"foreignKey:UsuarioID"`
}

// ListaRoles splits Roles, dropping blanks.
func (u *Usuario) ListaRoles() []string {
	out := []string{}
	for _, r := range strings.Split(u.Roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// EsAdmin reports whether the user bypasses the per-venue grid.
func (u *Usuario) EsAdmin() bool {
	for _, r := range u.ListaRoles() {
		if strings.EqualFold(r, RolAdmin) {
			return true
		}
	}
	return false
}

const RolAdmin = "ADMIN"

// UsuarioSalon is one row of the per-venue permission grid.
type UsuarioSalon struct {
	UsuarioID           int64 `gorm:"primaryKey"`
	SalonID             int64 `gorm:"primaryKey"`
	PuedeVer            bool  `gorm:"not null;default:true"`
	PuedeEditar         bool  `gorm:"not null;default:false"`
	VerDashboard        bool  `gorm:"not null;default:false"`
	VerRecaudaciones    bool  `gorm:"not null;default:false"`
	EditarRecaudaciones bool  `gorm:"not null;default:false"`
	VerHistorico        bool  `gorm:"not null;default:false"`

	Salon *Salon `gorm:"foreignKey:SalonID"`
}

func (UsuarioSalon) TableName() string { return "usuario_salones" }
