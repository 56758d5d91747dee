// Comando seedadmin crea (o reactiva) el usuario administrador inicial.
//
//	go run ./cmd/seedadmin -email admin@ejemplo.gob.mx -password ...
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"oficialia/internal/apierror"
	"oficialia/internal/config"
	"oficialia/internal/infra"
	"oficialia/internal/model"
	"oficialia/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "", "correo del administrador")
	password := flag.String("password", "", "contraseña inicial")
	nombre := flag.String("nombre", "Administrador", "nombre a mostrar")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if *email == "" || *password == "" {
		log.Fatal().Msg("se requieren -email y -password")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("cargar configuración")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("base de datos")
	}

	ctx := context.Background()
	repo := repository.NewUsuarioRepository(db)
	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash de contraseña")
	}

	existente, err := repo.FindByEmail(ctx, *email)
	switch {
	case err == nil:
		existente.PasswordHash = string(hash)
		existente.Rol = model.RolAdmin
		existente.Activo = true
		if err := repo.Actualizar(ctx, existente); err != nil {
			log.Fatal().Err(err).Msg("actualizar administrador")
		}
		log.Info().Str("email", *email).Msg("administrador actualizado")
	case errors.Is(err, apierror.ErrNoEncontrado):
		u := &model.Usuario{
			ID:           uuid.New(),
			Email:        *email,
			Nombre:       *nombre,
			PasswordHash: string(hash),
			Rol:          model.RolAdmin,
			Activo:       true,
		}
		if err := repo.Crear(ctx, u); err != nil {
			log.Fatal().Err(err).Msg("crear administrador")
		}
		log.Info().Str("email", *email).Msg("administrador creado")
	default:
		log.Fatal().Err(err).Msg("buscar administrador")
	}
}
