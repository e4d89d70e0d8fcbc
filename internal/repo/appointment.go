package repo

import (
	"context"

	"gorm.io/gorm"

	"ClinicDesk/internal/model"
)

type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	GetAppointment(ctx context.Context, id int64) (*model.Appointment, error)
	// ListByPatientEmail возвращает приёмы пациента (с врачом), по дате и времени.
	ListByPatientEmail(ctx context.Context, email string) ([]model.Appointment, error)
	// SlotTaken сообщает, занят ли слот врача неотменённым приёмом (кроме exceptID).
	SlotTaken(ctx context.Context, doctorID int64, date, slot string, exceptID int64) (bool, error)
	UpdateAppointment(ctx context.Context, a *model.Appointment) error
	SetStatus(ctx context.Context, id int64, status string) error
}

type appointmentRepo struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepo{db: db}
}

func (r *appointmentRepo) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *appointmentRepo) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	var a model.Appointment
	if err := r.db.WithContext(ctx).Preload("Doctor").First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepo) ListByPatientEmail(ctx context.Context, email string) ([]model.Appointment, error) {
	var list []model.Appointment
	err := r.db.WithContext(ctx).Preload("Doctor").
		Where("patient_email = ?", email).
		Order("appointment_date, appointment_time, id").
		Find(&list).Error
	return list, err
}

func (r *appointmentRepo) SlotTaken(ctx context.Context, doctorID int64, date, slot string, exceptID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND appointment_time = ? AND status <> ? AND id <> ?",
			doctorID, date, slot, model.StatusCancelled, exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *appointmentRepo) UpdateAppointment(ctx context.Context, a *model.Appointment) error {
	tx := r.db.WithContext(ctx).Model(&model.Appointment{}).Where("id = ?", a.ID).
		Select("doctor_id", "patient_name", "patient_email", "patient_phone", "appointment_date", "appointment_time").
		Updates(a)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *appointmentRepo) SetStatus(ctx context.Context, id int64, status string) error {
	tx := r.db.WithContext(ctx).Model(&model.Appointment{}).Where("id = ?", id).Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
