package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/pozi78/Casino-Management-System-sub000/internal/config"
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/model"
	"github.com/pozi78/Casino-Management-System-sub000/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	// Autenticar resolves a bearer token to an active user with its venue grid.
	Autenticar(ctx context.Context, token string) (*model.Usuario, error)
	// CrearUsuario rejects a username or email already taken by another account.
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, p dto.PaginaFilter) ([]dto.UsuarioResponse, error)
	AsignarSalon(ctx context.Context, usuarioID int64, grid dto.SalonAsignado) error
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalido("Incorrect email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashPassword), []byte(req.Password)); err != nil {
		return nil, invalido("Incorrect email or password")
	}
	if !user.Activo {
		return nil, invalido("Inactive user")
	}

	token, err := s.generateToken(user, s.cfg.TokenTTL())
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *authService) Autenticar(ctx context.Context, tokenStr string) (*model.Usuario, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, &Error{Kind: ErrNoAutenticado, Detail: "Could not validate credentials"}
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, &Error{Kind: ErrNoAutenticado, Detail: "Could not validate credentials"}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, comoNoEncontrado(err, "User not found")
	}
	if !user.Activo {
		return nil, invalido("Inactive user")
	}
	return user, nil
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	for _, c := range []struct{ valor, campo string }{{req.Username, "username"}, {req.Email, "email"}} {
		if c.valor == "" {
			continue
		}
		_, err := s.repo.FindByUsername(ctx, c.valor)
		if err == nil {
			return nil, invalido("The user with this %s already exists in the system.", c.campo)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Username:     req.Username,
		Nombre:       req.Nombre,
		Email:        req.Email,
		HashPassword: string(hash),
		Roles:        strings.Join(req.Roles, ","),
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := MapUsuario(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, p dto.PaginaFilter) ([]dto.UsuarioResponse, error) {
	list, err := s.repo.List(ctx, p.Skip, p.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioResponse, 0, len(list))
	for i := range list {
		out = append(out, MapUsuario(&list[i]))
	}
	return out, nil
}

func (s *authService) AsignarSalon(ctx context.Context, usuarioID int64, g dto.SalonAsignado) error {
	return s.repo.AsignarSalon(ctx, &model.UsuarioSalon{
		UsuarioID:           usuarioID,
		SalonID:             g.SalonID,
		PuedeVer:            g.PuedeVer,
		PuedeEditar:         g.PuedeEditar,
		VerDashboard:        g.VerDashboard,
		VerRecaudaciones:    g.VerRecaudaciones,
		EditarRecaudaciones: g.EditarRecaudaciones,
		VerHistorico:        g.VerHistorico,
	})
}

// The subject is the user id, as a string.
func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
