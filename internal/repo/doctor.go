package repo

import (
	"context"

	"gorm.io/gorm"

	"ClinicDesk/internal/model"
)

type DoctorRepository interface {
	ListDoctors(ctx context.Context) ([]model.Doctor, error)
	GetDoctor(ctx context.Context, id int64) (*model.Doctor, error)
	CreateDoctor(ctx context.Context, d *model.Doctor) error
	// UpdateDoctor перезаписывает все поля; gorm.ErrRecordNotFound, если врача нет.
	UpdateDoctor(ctx context.Context, d *model.Doctor) error
	DeleteDoctor(ctx context.Context, id int64) error
}

type doctorRepo struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) DoctorRepository {
	return &doctorRepo{db: db}
}

func (r *doctorRepo) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	var list []model.Doctor
	err := r.db.WithContext(ctx).Order("id").Find(&list).Error
	return list, err
}

func (r *doctorRepo) GetDoctor(ctx context.Context, id int64) (*model.Doctor, error) {
	var d model.Doctor
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepo) CreateDoctor(ctx context.Context, d *model.Doctor) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *doctorRepo) UpdateDoctor(ctx context.Context, d *model.Doctor) error {
	tx := r.db.WithContext(ctx).Model(&model.Doctor{}).Where("id = ?", d.ID).
		Select("full_name", "specialization", "email", "phone_number", "gender", "is_available").
		Updates(d)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *doctorRepo) DeleteDoctor(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&model.Doctor{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
