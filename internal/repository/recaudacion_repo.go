package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pozi78/Casino-Management-System-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecaudacionFilter narrows a listing. SalonIDs nil means every venue; an
// empty non-nil slice matches nothing.
type RecaudacionFilter struct {
	SalonIDs []int64
	Skip     int
	Limit    int
}

type RecaudacionRepository interface {
	List(ctx context.Context, f RecaudacionFilter) ([]model.Recaudacion, error)
	LastFechaFin(ctx context.Context, salonID int64) (*time.Time, error)
	FindByID(ctx context.Context, id int64) (*model.Recaudacion, error)
	// Create inserts the header together with its Detalles.
	Create(ctx context.Context, r *model.Recaudacion) error
	// Update saves header columns only; rows and files are left alone.
	Update(ctx context.Context, r *model.Recaudacion) error
	Delete(ctx context.Context, id int64) error

	FindDetalle(ctx context.Context, id int64) (*model.RecaudacionMaquina, error)
	UpdateDetalle(ctx context.Context, d *model.RecaudacionMaquina) error

	// GuardarImportacion saves imported rows (ID 0 means new) and the learned
	// name resolutions atomically, and flags the record as imported.
	GuardarImportacion(ctx context.Context, recaudacionID int64, filename string, detalles []model.RecaudacionMaquina, mapas []model.MaquinaExcelMap) error
}

type recaudacionRepo struct{ db *gorm.DB }

func NewRecaudacionRepository(db *gorm.DB) RecaudacionRepository { return &recaudacionRepo{db: db} }

func (r *recaudacionRepo) List(ctx context.Context, f RecaudacionFilter) ([]model.Recaudacion, error) {
	var out []model.Recaudacion
	if f.SalonIDs != nil && len(f.SalonIDs) == 0 {
		return out, nil
	}
	q := r.db.WithContext(ctx).Model(&model.Recaudacion{})
	if f.SalonIDs != nil {
		q = q.Where("salon_id IN ?", f.SalonIDs)
	}
	if f.Limit <= 0 {
		f.Limit = 100
	}
	err := q.Preload("Salon").Preload("Detalles").
		Order("fecha_inicio DESC").Order("id DESC").
		Offset(f.Skip).Limit(f.Limit).
		Find(&out).Error
	return out, err
}

func (r *recaudacionRepo) LastFechaFin(ctx context.Context, salonID int64) (*time.Time, error) {
	var rec model.Recaudacion
	err := r.db.WithContext(ctx).
		Select("fecha_fin").
		Where("salon_id = ?", salonID).
		Order("fecha_inicio DESC").Order("id DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec.FechaFin, nil
}

func (r *recaudacionRepo) FindByID(ctx context.Context, id int64) (*model.Recaudacion, error) {
	var rec model.Recaudacion
	err := r.db.WithContext(ctx).
		Preload("Salon").
		Preload("Detalles.Maquina.TipoMaquina").
		Preload("Detalles.Puesto").
		Preload("Ficheros", func(db *gorm.DB) *gorm.DB {
			return db.Omit("contenido").Order("created_at")
		}).
		First(&rec, id).Error
	return &rec, err
}

func (r *recaudacionRepo) Create(ctx context.Context, rec *model.Recaudacion) error {
	return r.db.WithContext(ctx).Omit("Salon").Create(rec).Error
}

func (r *recaudacionRepo) Update(ctx context.Context, rec *model.Recaudacion) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(rec).Error
}

func (r *recaudacionRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recaudacion_id = ?", id).Delete(&model.RecaudacionMaquina{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recaudacion_id = ?", id).Delete(&model.RecaudacionFichero{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Recaudacion{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *recaudacionRepo) FindDetalle(ctx context.Context, id int64) (*model.RecaudacionMaquina, error) {
	var d model.RecaudacionMaquina
	err := r.db.WithContext(ctx).Preload("Maquina.TipoMaquina").Preload("Puesto").First(&d, id).Error
	return &d, err
}

func (r *recaudacionRepo) UpdateDetalle(ctx context.Context, d *model.RecaudacionMaquina) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(d).Error
}

func (r *recaudacionRepo) GuardarImportacion(ctx context.Context, recaudacionID int64, filename string, detalles []model.RecaudacionMaquina, mapas []model.MaquinaExcelMap) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range detalles {
			d := &detalles[i]
			d.RecaudacionID = recaudacionID
			if err := tx.Omit(clause.Associations).Save(d).Error; err != nil {
				return err
			}
		}
		if len(mapas) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "salon_id"}, {Name: "excel_name"}},
				DoUpdates: clause.AssignmentColumns([]string{"puesto_id", "is_ignored", "updated_at"}),
			}).Create(&mapas).Error
			if err != nil {
				return err
			}
		}
		return tx.Model(&model.Recaudacion{}).Where("id = ?", recaudacionID).
			Updates(map[string]interface{}{"origen": "importacion", "referencia_fichero": filename}).Error
	})
}
