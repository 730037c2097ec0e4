package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func signToken(t *testing.T, secret, sub string, dur time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(dur)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestLogin_Success(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	resp, err := e.auth.Login(ctx, dto.LoginRequest{Username: "operador", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(e.demo.OperadorID, 10), claims.Subject)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), claims.ExpiresAt.Time, time.Minute)

	u, err := e.auth.Autenticar(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "operador", u.Username)
	require.Len(t, u.SalonesAsignados, 1)
	assert.True(t, u.SalonesAsignados[0].EditarRecaudaciones)
}

func TestLogin_ByEmail(t *testing.T) {
	e := nuevoEntorno(t)
	_, err := e.auth.Login(context.Background(), dto.LoginRequest{Username: "ADMIN@example.com", Password: "secreto123"})
	assert.NoError(t, err)
}

func TestLogin_Failures(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, e.mem.Usuarios().Create(ctx, &model.Usuario{
		Username: "baja", Nombre: "De baja", HashPassword: string(hash), Activo: false,
	}))

	cases := []struct {
		name, user, pass, detail string
	}{
		{"wrong password", "operador", "otra-clave", "Incorrect email or password"},
		{"unknown user", "nadie", "secreto123", "Incorrect email or password"},
		{"inactive user", "baja", "secreto123", "Inactive user"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.auth.Login(ctx, dto.LoginRequest{Username: tc.user, Password: tc.pass})
			se := errorServicio(t, err)
			assert.ErrorIs(t, err, ErrInvalido)
			assert.Equal(t, tc.detail, se.Detail)
		})
	}
}

func TestAutenticar_Rejects(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		token  string
		kind   error
		detail string
	}{
		{"garbage", "not-a-jwt", ErrNoAutenticado, "Could not validate credentials"},
		{"wrong secret", signToken(t, "otro-secreto", "1", time.Hour), ErrNoAutenticado, "Could not validate credentials"},
		{"expired", signToken(t, testSecret, "1", -time.Minute), ErrNoAutenticado, "Could not validate credentials"},
		{"non numeric subject", signToken(t, testSecret, "admin", time.Hour), ErrNoAutenticado, "Could not validate credentials"},
		{"missing user", signToken(t, testSecret, "999", time.Hour), ErrNoEncontrado, "User not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.auth.Autenticar(ctx, tc.token)
			se := errorServicio(t, err)
			assert.ErrorIs(t, err, tc.kind)
			assert.Equal(t, tc.detail, se.Detail)
		})
	}
}

func TestCrearUsuario_Duplicado(t *testing.T) {
	e := nuevoEntorno(t)
	_, err := e.auth.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "admin", Nombre: "Otro", Password: "secreto123",
	})
	se := errorServicio(t, err)
	assert.ErrorIs(t, err, ErrInvalido)
	assert.Equal(t, "The user with this username already exists in the system.", se.Detail)

	_, err = e.auth.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "nuevo", Nombre: "Otro", Email: "ADMIN@example.com", Password: "secreto123",
	})
	se = errorServicio(t, err)
	assert.Equal(t, "The user with this email already exists in the system.", se.Detail)
}

func TestListarUsuarios(t *testing.T) {
	e := nuevoEntorno(t)
	list, err := e.auth.ListarUsuarios(context.Background(), dto.PaginaFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "admin", list[0].Username)
	assert.Equal(t, "operador", list[1].Username)
	assert.Len(t, list[1].SalonesAsignados, 1)

	list, err = e.auth.ListarUsuarios(context.Background(), dto.PaginaFilter{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "operador", list[0].Username)
}

func TestMapUsuario(t *testing.T) {
	e := nuevoEntorno(t)
	u, err := e.mem.Usuarios().FindByID(context.Background(), e.demo.OperadorID)
	require.NoError(t, err)

	resp := MapUsuario(u)
	assert.Equal(t, []string{"RECAUDADOR"}, resp.Roles)
	require.Len(t, resp.SalonesAsignados, 1)
	g := resp.SalonesAsignados[0]
	assert.Equal(t, e.demo.SalonID, g.SalonID)
	require.NotNil(t, g.Salon)
	assert.Equal(t, "Salón Central", g.Salon.Nombre)
	assert.True(t, g.VerRecaudaciones)
	assert.False(t, g.PuedeEditar)
}

func TestAcceso(t *testing.T) {
	admin := AccesoDe(&model.Usuario{ID: 1, Roles: "admin, X"})
	assert.True(t, admin.PuedeEditar(42))
	assert.Nil(t, admin.Visibles())

	u := &model.Usuario{ID: 2, SalonesAsignados: []model.UsuarioSalon{
		{SalonID: 3, PuedeVer: true},
		{SalonID: 1, EditarRecaudaciones: true},
		{SalonID: 7},
	}}
	acc := AccesoDe(u)
	assert.True(t, acc.PuedeVer(3))
	assert.False(t, acc.PuedeEditar(3))
	assert.True(t, acc.PuedeVer(1))
	assert.True(t, acc.PuedeEditar(1))
	assert.False(t, acc.PuedeVer(7))
	assert.Equal(t, []int64{1, 3}, acc.Visibles())
}
