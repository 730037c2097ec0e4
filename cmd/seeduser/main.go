// seeduser loads the demo venue and users into the configured database, or
// creates a single user when -username is given.
//
//	seeduser -password secreto123
//	seeduser -username ana -password secreto123 -salon 1 -editar
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/pozi78/Casino-Management-System-sub000/internal/config"
	"github.com/pozi78/Casino-Management-System-sub000/internal/dto"
	"github.com/pozi78/Casino-Management-System-sub000/internal/infra"
	"github.com/pozi78/Casino-Management-System-sub000/internal/repository"
	"github.com/pozi78/Casino-Management-System-sub000/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		username = flag.String("username", "", "user to create; empty seeds the demo data")
		password = flag.String("password", "", "password (min 8 chars)")
		nombre   = flag.String("nombre", "", "display name")
		email    = flag.String("email", "", "email")
		roles    = flag.String("roles", "RECAUDADOR", "comma separated roles (ADMIN for full access)")
		salonID  = flag.Int64("salon", 0, "venue to grant")
		editar   = flag.Bool("editar", false, "grant edit rights on -salon")
	)
	flag.Parse()

	if len(*password) < 8 {
		log.Fatal().Msg("-password must have at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx := context.Background()
	auth := service.NewAuthService(repository.NewUsuarioRepository(db), cfg)

	if *username == "" {
		demo, err := service.SembrarDemo(ctx, auth, repository.NewCatalogoRepository(db), *password)
		if err != nil {
			log.Fatal().Err(err).Msg("seed failed")
		}
		log.Info().Int64("salon_id", demo.SalonID).Msg("demo data created (users admin, operador)")
		return
	}

	if *nombre == "" {
		*nombre = *username
	}
	u, err := auth.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		Username: *username,
		Nombre:   *nombre,
		Email:    *email,
		Password: *password,
		Roles:    strings.Split(*roles, ","),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create user failed")
	}
	if *salonID > 0 {
		err := auth.AsignarSalon(ctx, u.ID, dto.SalonAsignado{
			SalonID:             *salonID,
			PuedeVer:            true,
			VerDashboard:        true,
			VerRecaudaciones:    true,
			PuedeEditar:         *editar,
			EditarRecaudaciones: *editar,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("grant failed")
		}
	}
	log.Info().Int64("usuario_id", u.ID).Str("username", u.Username).Msg("user created")
}
