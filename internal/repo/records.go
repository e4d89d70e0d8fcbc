package repo

import (
	"context"

	"gorm.io/gorm"

	"ClinicDesk/internal/model"
)

// RecordRepository - рецепты, счета и амбулаторные карты; у каждого приёма не больше одной записи каждого вида.
type RecordRepository interface {
	CreatePrescription(ctx context.Context, p *model.Prescription) error
	GetPrescription(ctx context.Context, id int64) (*model.Prescription, error)
	PrescriptionByAppointment(ctx context.Context, appointmentID int64) (*model.Prescription, error)
	PrescriptionsByAppointment(ctx context.Context, appointmentID int64) ([]model.Prescription, error)

	CreateInvoice(ctx context.Context, inv *model.Invoice) error
	GetInvoice(ctx context.Context, id int64) (*model.Invoice, error)
	InvoiceByAppointment(ctx context.Context, appointmentID int64) (*model.Invoice, error)
	ListInvoices(ctx context.Context) ([]model.Invoice, error)

	CreateOPForm(ctx context.Context, f *model.OPForm) error
	GetOPForm(ctx context.Context, id int64) (*model.OPForm, error)
	OPFormByAppointment(ctx context.Context, appointmentID int64) (*model.OPForm, error)
	ListOPForms(ctx context.Context) ([]model.OPForm, error)

	// SetPdfPath сохраняет путь скачивания после того, как известен ID записи.
	SetPdfPath(ctx context.Context, record any, id int64, path string) error

	Dashboard(ctx context.Context) (model.Dashboard, error)
}

type recordRepo struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepo{db: db}
}

func (r *recordRepo) CreatePrescription(ctx context.Context, p *model.Prescription) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *recordRepo) GetPrescription(ctx context.Context, id int64) (*model.Prescription, error) {
	var p model.Prescription
	if err := r.db.WithContext(ctx).Preload("Appointment.Doctor").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *recordRepo) PrescriptionByAppointment(ctx context.Context, appointmentID int64) (*model.Prescription, error) {
	var p model.Prescription
	if err := r.db.WithContext(ctx).Where("appointment_id = ?", appointmentID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *recordRepo) PrescriptionsByAppointment(ctx context.Context, appointmentID int64) ([]model.Prescription, error) {
	var list []model.Prescription
	err := r.db.WithContext(ctx).Where("appointment_id = ?", appointmentID).Order("id").Find(&list).Error
	return list, err
}

func (r *recordRepo) CreateInvoice(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *recordRepo) GetInvoice(ctx context.Context, id int64) (*model.Invoice, error) {
	var inv model.Invoice
	if err := r.db.WithContext(ctx).Preload("Appointment.Doctor").First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *recordRepo) InvoiceByAppointment(ctx context.Context, appointmentID int64) (*model.Invoice, error) {
	var inv model.Invoice
	if err := r.db.WithContext(ctx).Where("appointment_id = ?", appointmentID).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *recordRepo) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	var list []model.Invoice
	err := r.db.WithContext(ctx).Order("id").Find(&list).Error
	return list, err
}

func (r *recordRepo) CreateOPForm(ctx context.Context, f *model.OPForm) error {
	return r.db.WithContext(ctx).Omit("Appointment", "Prescription", "Invoice").Create(f).Error
}

func (r *recordRepo) GetOPForm(ctx context.Context, id int64) (*model.OPForm, error) {
	var f model.OPForm
	if err := r.db.WithContext(ctx).Preload("Appointment.Doctor").First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *recordRepo) OPFormByAppointment(ctx context.Context, appointmentID int64) (*model.OPForm, error) {
	var f model.OPForm
	if err := r.db.WithContext(ctx).Preload("Appointment.Doctor").Where("appointment_id = ?", appointmentID).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *recordRepo) ListOPForms(ctx context.Context) ([]model.OPForm, error) {
	var list []model.OPForm
	err := r.db.WithContext(ctx).Preload("Appointment.Doctor").Order("id").Find(&list).Error
	return list, err
}

func (r *recordRepo) SetPdfPath(ctx context.Context, record any, id int64, path string) error {
	return r.db.WithContext(ctx).Model(record).Where("id = ?", id).Update("pdf_path", path).Error
}

func (r *recordRepo) Dashboard(ctx context.Context) (model.Dashboard, error) {
	var d model.Dashboard
	db := r.db.WithContext(ctx)
	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&d.TotalDoctors, db.Model(&model.Doctor{})},
		{&d.TotalAppointments, db.Model(&model.Appointment{})},
		{&d.PendingAppointments, db.Model(&model.Appointment{}).Where("status = ?", model.StatusPending)},
		{&d.CompletedAppointments, db.Model(&model.Appointment{}).Where("status = ?", model.StatusCompleted)},
		{&d.TotalPrescriptions, db.Model(&model.Prescription{})},
		{&d.TotalOPForms, db.Model(&model.OPForm{})},
		{&d.TotalInvoices, db.Model(&model.Invoice{})},
		{&d.TotalPatients, db.Model(&model.Appointment{}).Distinct("patient_email")},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return model.Dashboard{}, err
		}
	}
	return d, nil
}
