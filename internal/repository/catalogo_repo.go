package repository

import (
	"context"

	"github.com/pozi78/Casino-Management-System-sub000/internal/model"

	"gorm.io/gorm"
)

// MaquinaFilter narrows ListMaquinas. A nil SalonIDs means every venue.
type MaquinaFilter struct {
	SalonIDs []int64
	Skip     int
	Limit    int
}

// CatalogoRepository covers venues, machine types, machines with their seats
// and the learned spreadsheet names of each venue.
type CatalogoRepository interface {
	CreateSalon(ctx context.Context, s *model.Salon) error
	FindSalon(ctx context.Context, id int64) (*model.Salon, error)
	// ListSalones returns venues by name; nil ids means all of them.
	ListSalones(ctx context.Context, ids []int64, skip, limit int) ([]model.Salon, error)
	UpdateSalon(ctx context.Context, s *model.Salon) error
	CreateTipoMaquina(ctx context.Context, t *model.TipoMaquina) error
	FindTipoMaquina(ctx context.Context, id int64) (*model.TipoMaquina, error)
	ListTiposMaquina(ctx context.Context, skip, limit int) ([]model.TipoMaquina, error)
	// CreateMaquina inserts the machine and its Puestos.
	CreateMaquina(ctx context.Context, m *model.Maquina) error
	// FindMaquina loads a machine with its type and every seat.
	FindMaquina(ctx context.Context, id int64) (*model.Maquina, error)
	ListMaquinas(ctx context.Context, f MaquinaFilter) ([]model.Maquina, error)
	// UpdateMaquina saves the machine columns; seats are left alone.
	UpdateMaquina(ctx context.Context, m *model.Maquina) error
	// ListMaquinasActivas returns the active machines of a venue with their
	// type and active seats.
	ListMaquinasActivas(ctx context.Context, salonID int64) ([]model.Maquina, error)
	ListExcelMap(ctx context.Context, salonID int64) ([]model.MaquinaExcelMap, error)
}

type catalogoRepo struct{ db *gorm.DB }

func NewCatalogoRepository(db *gorm.DB) CatalogoRepository { return &catalogoRepo{db: db} }

func (r *catalogoRepo) CreateSalon(ctx context.Context, s *model.Salon) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *catalogoRepo) FindSalon(ctx context.Context, id int64) (*model.Salon, error) {
	var s model.Salon
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *catalogoRepo) ListSalones(ctx context.Context, ids []int64, skip, limit int) ([]model.Salon, error) {
	out := []model.Salon{}
	q := r.db.WithContext(ctx).Order("nombre").Order("id")
	if ids != nil {
		if len(ids) == 0 {
			return out, nil
		}
		q = q.Where("id IN ?", ids)
	}
	err := q.Offset(skip).Limit(limite(limit)).Find(&out).Error
	return out, err
}

func (r *catalogoRepo) UpdateSalon(ctx context.Context, s *model.Salon) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *catalogoRepo) CreateTipoMaquina(ctx context.Context, t *model.TipoMaquina) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *catalogoRepo) FindTipoMaquina(ctx context.Context, id int64) (*model.TipoMaquina, error) {
	var t model.TipoMaquina
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *catalogoRepo) ListTiposMaquina(ctx context.Context, skip, limit int) ([]model.TipoMaquina, error) {
	out := []model.TipoMaquina{}
	err := r.db.WithContext(ctx).Order("nombre").Order("id").
		Offset(skip).Limit(limite(limit)).Find(&out).Error
	return out, err
}

func (r *catalogoRepo) CreateMaquina(ctx context.Context, m *model.Maquina) error {
	return r.db.WithContext(ctx).Omit("TipoMaquina").Create(m).Error
}

func (r *catalogoRepo) FindMaquina(ctx context.Context, id int64) (*model.Maquina, error) {
	var m model.Maquina
	err := r.db.WithContext(ctx).
		Preload("TipoMaquina").
		Preload("Puestos", func(db *gorm.DB) *gorm.DB { return db.Order("numero_puesto") }).
		First(&m, id).Error
	return &m, err
}

func (r *catalogoRepo) ListMaquinas(ctx context.Context, f MaquinaFilter) ([]model.Maquina, error) {
	out := []model.Maquina{}
	q := r.db.WithContext(ctx).
		Preload("TipoMaquina").
		Preload("Puestos", func(db *gorm.DB) *gorm.DB { return db.Order("numero_puesto") }).
		Order("nombre").Order("id")
	if f.SalonIDs != nil {
		if len(f.SalonIDs) == 0 {
			return out, nil
		}
		q = q.Where("salon_id IN ?", f.SalonIDs)
	}
	err := q.Offset(f.Skip).Limit(limite(f.Limit)).Find(&out).Error
	return out, err
}

func (r *catalogoRepo) UpdateMaquina(ctx context.Context, m *model.Maquina) error {
	return r.db.WithContext(ctx).Model(m).
		Select("TipoMaquinaID", "Nombre", "NumeroSerie", "TasaSemanalOverride", "Activo").
		Updates(m).Error
}

func (r *catalogoRepo) ListMaquinasActivas(ctx context.Context, salonID int64) ([]model.Maquina, error) {
	var out []model.Maquina
	err := r.db.WithContext(ctx).
		Preload("TipoMaquina").
		Preload("Puestos", func(db *gorm.DB) *gorm.DB {
			return db.Where("activo = true").Order("numero_puesto")
		}).
		Where("salon_id = ? AND activo = true", salonID).
		Order("nombre").Order("id").
		Find(&out).Error
	return out, err
}

func (r *catalogoRepo) ListExcelMap(ctx context.Context, salonID int64) ([]model.MaquinaExcelMap, error) {
	var out []model.MaquinaExcelMap
	err := r.db.WithContext(ctx).Where("salon_id = ?", salonID).Find(&out).Error
	return out, err
}

// limite applies the default page size of list endpoints.
func limite(n int) int {
	if n <= 0 {
		return 100
	}
	return n
}
