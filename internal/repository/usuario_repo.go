package repository

import (
	"context"

	"github.com/pozi78/Casino-Management-System-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	// FindByID loads the user with the venue grid.
	FindByID(ctx context.Context, id int64) (*model.Usuario, error)
	// List returns users by username with their venue grid.
	List(ctx context.Context, skip, limit int) ([]model.Usuario, error)
	AsignarSalon(ctx context.Context, us *model.UsuarioSalon) error
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Omit("SalonesAsignados").Create(u).Error
}

func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	// Accept login by username OR email (case-insensitive email match)
	err := r.db.WithContext(ctx).
		Where("username = ? OR LOWER(email) = LOWER(?)", username, username).
		First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByID(ctx context.Context, id int64) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("SalonesAsignados.Salon").First(&u, id).Error
	return &u, err
}

func (r *usuarioRepo) List(ctx context.Context, skip, limit int) ([]model.Usuario, error) {
	out := []model.Usuario{}
	err := r.db.WithContext(ctx).Preload("SalonesAsignados.Salon").
		Order("username").Offset(skip).Limit(limite(limit)).
		Find(&out).Error
	return out, err
}

func (r *usuarioRepo) AsignarSalon(ctx context.Context, us *model.UsuarioSalon) error {
	return r.db.WithContext(ctx).
		Omit("Salon").
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(us).Error
}
