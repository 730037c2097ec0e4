package repository

import (
	"context"

	"github.com/pozi78/Casino-Management-System-sub000/internal/model"

	"gorm.io/gorm"
)

type FicheroRepository interface {
	Create(ctx context.Context, f *model.RecaudacionFichero) error
	// Find loads the attachment with its bytes.
	Find(ctx context.Context, recaudacionID, ficheroID int64) (*model.RecaudacionFichero, error)
	Delete(ctx context.Context, recaudacionID, ficheroID int64) error
}

type ficheroRepo struct{ db *gorm.DB }

func NewFicheroRepository(db *gorm.DB) FicheroRepository { return &ficheroRepo{db: db} }

func (r *ficheroRepo) Create(ctx context.Context, f *model.RecaudacionFichero) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *ficheroRepo) Find(ctx context.Context, recaudacionID, ficheroID int64) (*model.RecaudacionFichero, error) {
	var f model.RecaudacionFichero
	err := r.db.WithContext(ctx).
		Where("id = ? AND recaudacion_id = ?", ficheroID, recaudacionID).
		First(&f).Error
	return &f, err
}

func (r *ficheroRepo) Delete(ctx context.Context, recaudacionID, ficheroID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND recaudacion_id = ?", ficheroID, recaudacionID).
		Delete(&model.RecaudacionFichero{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
