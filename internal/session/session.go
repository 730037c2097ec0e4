// Package session holds the operator's credential and the context derived
// from it: the user profile, the venue filter and the per-venue permissions.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pozi78/Casino-Management-System-sub000/internal/apiclient"
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoSession = errors.New("no hay sesion iniciada")
	ErrNoExpiry  = errors.New("el token no indica caducidad")
)

// Permiso is one column of the per-venue permission grid.
type Permiso int

const (
	PermisoVer Permiso = iota
	PermisoEditar
	PermisoVerDashboard
	PermisoVerRecaudaciones
	PermisoEditarRecaudaciones
	PermisoVerHistorico
)

func (p Permiso) String() string {
	switch p {
	case PermisoVer:
		return "puede_ver"
	case PermisoEditar:
		return "puede_editar"
	case PermisoVerDashboard:
		return "ver_dashboard"
	case PermisoVerRecaudaciones:
		return "ver_recaudaciones"
	case PermisoEditarRecaudaciones:
		return "editar_recaudaciones"
	case PermisoVerHistorico:
		return "ver_historico"
	default:
		return "desconocido"
	}
}

// RolAdmin bypasses the per-venue grid.
const RolAdmin = "ADMIN"

// UserSource fetches the authenticated user.
type UserSource interface {
	Me(ctx context.Context) (*dto.UsuarioResponse, error)
}

type Session struct {
	src        UserSource
	tokens     apiclient.TokenStore
	warnBefore time.Duration
	now        func() time.Time

	mu     sync.RWMutex
	user   *dto.UsuarioResponse
	filtro *Filtro
}

func New(src UserSource, tokens apiclient.TokenStore, warnBefore time.Duration) *Session {
	return &Session{
		src:        src,
		tokens:     tokens,
		warnBefore: warnBefore,
		now:        time.Now,
		filtro:     NewFiltro(nil),
	}
}

// Refresh loads the current user and rebuilds the venue filter from the
// venues the user can see.
func (s *Session) Refresh(ctx context.Context) error {
	token, err := s.tokens.Token()
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if token == "" {
		return ErrNoSession
	}
	user, err := s.src.Me(ctx)
	if err != nil {
		return fmt.Errorf("session: load user: %w", err)
	}
	visibles := make([]dto.SalonResumen, 0, len(user.SalonesAsignados))
	for _, sa := range user.SalonesAsignados {
		if !sa.PuedeVer {
			continue
		}
		salon := dto.SalonResumen{ID: sa.SalonID}
		if sa.Salon != nil {
			salon = *sa.Salon
		}
		visibles = append(visibles, salon)
	}

	s.mu.Lock()
	s.user = user
	s.filtro = NewFiltro(visibles)
	s.mu.Unlock()
	log.Debug().Str("username", user.Username).Int("salones", len(visibles)).Msg("session refreshed")
	return nil
}

func (s *Session) User() *dto.UsuarioResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Filtro() *Filtro {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filtro
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	for _, r := range s.user.Roles {
		if strings.EqualFold(r, RolAdmin) {
			return true
		}
	}
	return false
}

// Can reports whether the user holds p on the given venue.
func (s *Session) Can(salonID int64, p Permiso) bool {
	if s.IsAdmin() {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	for _, sa := range s.user.SalonesAsignados {
		if sa.SalonID != salonID {
			continue
		}
		switch p {
		case PermisoVer:
			return sa.PuedeVer
		case PermisoEditar:
			return sa.PuedeEditar
		case PermisoVerDashboard:
			return sa.VerDashboard
		case PermisoVerRecaudaciones:
			return sa.VerRecaudaciones
		case PermisoEditarRecaudaciones:
			return sa.EditarRecaudaciones
		case PermisoVerHistorico:
			return sa.VerHistorico
		}
	}
	return false
}

// ExpiresIn is the time left before the stored token expires. The token is
// read without verifying its signature; only the server can do that.
func (s *Session) ExpiresIn() (time.Duration, error) {
	token, err := s.tokens.Token()
	if err != nil {
		return 0, fmt.Errorf("session: %w", err)
	}
	if token == "" {
		return 0, ErrNoSession
	}
	exp, err := TokenExpiry(token)
	if err != nil {
		return 0, err
	}
	return exp.Sub(s.now()), nil
}

// ShouldWarn is true inside the warning window before expiry.
func (s *Session) ShouldWarn() bool {
	left, err := s.ExpiresIn()
	return err == nil && left > 0 && left <= s.warnBefore
}

func (s *Session) Expired() bool {
	left, err := s.ExpiresIn()
	return err == nil && left <= 0
}

// Close forgets the credential and the derived context.
func (s *Session) Close() error {
	s.mu.Lock()
	s.user = nil
	s.filtro = NewFiltro(nil)
	s.mu.Unlock()
	return s.tokens.Clear()
}

// TokenExpiry reads the exp claim of a JWT.
func TokenExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("session: parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}
