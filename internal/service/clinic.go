package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ClinicDesk/internal/model"
	"ClinicDesk/internal/repo"
)

// ClinicService - врачи, приёмы и медицинские документы.
type ClinicService struct {
	doctors      repo.DoctorRepository
	appointments repo.AppointmentRepository
	records      repo.RecordRepository
	log          *zap.SugaredLogger
}

func NewClinicService(d repo.DoctorRepository, a repo.AppointmentRepository, r repo.RecordRepository, log *zap.SugaredLogger) *ClinicService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ClinicService{doctors: d, appointments: a, records: r, log: log}
}

// PdfPath - путь скачивания PDF документа вида kind.
func PdfPath(kind string, id int64) string {
	return fmt.Sprintf("/api/%s/download/%d", kind, id)
}

// --- Doctors ---

func (s *ClinicService) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	return s.doctors.ListDoctors(ctx)
}

func (s *ClinicService) GetDoctor(ctx context.Context, id int64) (*model.Doctor, error) {
	d, err := s.doctors.GetDoctor(ctx, id)
	return d, notFound(err, "doctor")
}

func (s *ClinicService) CreateDoctor(ctx context.Context, d model.Doctor) (*model.Doctor, error) {
	d.ID = 0
	if err := s.doctors.CreateDoctor(ctx, &d); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return nil, ruleErr("Doctor with email %s already exists", d.Email)
		}
		return nil, err
	}
	return &d, nil
}

func (s *ClinicService) UpdateDoctor(ctx context.Context, id int64, d model.Doctor) (*model.Doctor, error) {
	d.ID = id
	if err := s.doctors.UpdateDoctor(ctx, &d); err != nil {
		return nil, notFound(err, "doctor")
	}
	return &d, nil
}

func (s *ClinicService) DeleteDoctor(ctx context.Context, id int64) error {
	return notFound(s.doctors.DeleteDoctor(ctx, id), "doctor")
}

// --- Appointments ---

// BookAppointment записывает пациента к доступному врачу на свободный слот.
func (s *ClinicService) BookAppointment(ctx context.Context, a model.Appointment) (*model.Appointment, error) {
	if err := s.checkSlot(ctx, a, 0); err != nil {
		return nil, err
	}
	a.ID = 0
	a.Doctor = nil
	a.Status = model.StatusPending
	a.PatientEmail = strings.ToLower(strings.TrimSpace(a.PatientEmail))
	if err := s.appointments.CreateAppointment(ctx, &a); err != nil {
		return nil, err
	}
	s.log.Infow("appointment booked", "id", a.ID, "doctor_id", a.DoctorID, "date", a.AppointmentDate, "time", a.AppointmentTime)
	return s.GetAppointment(ctx, a.ID)
}

func (s *ClinicService) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	a, err := s.appointments.GetAppointment(ctx, id)
	return a, notFound(err, "appointment")
}

func (s *ClinicService) ListAppointments(ctx context.Context, email string) ([]model.Appointment, error) {
	return s.appointments.ListByPatientEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// UpdateAppointment переносит приём; отменённый приём менять нельзя.
func (s *ClinicService) UpdateAppointment(ctx context.Context, id int64, a model.Appointment) (*model.Appointment, error) {
	cur, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.Status == model.StatusCancelled {
		return nil, ruleErr("Cancelled appointment cannot be updated")
	}
	if err := s.checkSlot(ctx, a, id); err != nil {
		return nil, err
	}
	upd := model.Appointment{
		ID:              id,
		DoctorID:        a.DoctorID,
		PatientName:     a.PatientName,
		PatientEmail:    strings.ToLower(strings.TrimSpace(a.PatientEmail)),
		PatientPhone:    a.PatientPhone,
		AppointmentDate: a.AppointmentDate,
		AppointmentTime: a.AppointmentTime,
	}
	if err := s.appointments.UpdateAppointment(ctx, &upd); err != nil {
		return nil, notFound(err, "appointment")
	}
	return s.GetAppointment(ctx, id)
}

func (s *ClinicService) CancelAppointment(ctx context.Context, id int64) error {
	cur, err := s.GetAppointment(ctx, id)
	if err != nil {
		return err
	}
	if cur.Status == model.StatusCancelled {
		return nil
	}
	if cur.Status == model.StatusCompleted {
		return ruleErr("Completed appointment cannot be cancelled")
	}
	return notFound(s.appointments.SetStatus(ctx, id, model.StatusCancelled), "appointment")
}

func (s *ClinicService) checkSlot(ctx context.Context, a model.Appointment, exceptID int64) error {
	d, err := s.doctors.GetDoctor(ctx, a.DoctorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ruleErr("Doctor not found")
		}
		return err
	}
	if !d.IsAvailable {
		return ruleErr("Doctor %s is not available", d.FullName)
	}
	taken, err := s.appointments.SlotTaken(ctx, a.DoctorID, a.AppointmentDate, a.AppointmentTime, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return ruleErr("Time slot already booked")
	}
	return nil
}

// --- Prescriptions ---

func (s *ClinicService) CreatePrescription(ctx context.Context, p model.Prescription) (*model.Prescription, error) {
	if _, err := s.GetAppointment(ctx, p.AppointmentID); err != nil {
		return nil, err
	}
	if _, err := s.records.PrescriptionByAppointment(ctx, p.AppointmentID); err == nil {
		return nil, ruleErr("Prescription already exists for this appointment")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	p.ID = 0
	p.Appointment = nil
	if err := s.records.CreatePrescription(ctx, &p); err != nil {
		return nil, err
	}
	p.PdfPath = PdfPath("Prescription", p.ID)
	if err := s.records.SetPdfPath(ctx, &model.Prescription{}, p.ID, p.PdfPath); err != nil {
		return nil, err
	}
	return &p, nil
}

// PrescriptionsByAppointment отдаёт рецепты приёма списком; пустой список, если их нет.
func (s *ClinicService) PrescriptionsByAppointment(ctx context.Context, appointmentID int64) ([]model.Prescription, error) {
	return s.records.PrescriptionsByAppointment(ctx, appointmentID)
}

// PrescriptionPDF возвращает PDF рецепта и имя файла.
func (s *ClinicService) PrescriptionPDF(ctx context.Context, id int64) ([]byte, string, error) {
	p, err := s.records.GetPrescription(ctx, id)
	if err != nil {
		return nil, "", notFound(err, "prescription")
	}
	data, err := renderPrescription(p)
	return data, fmt.Sprintf("Prescription_%d.pdf", id), err
}

// --- Invoices ---

func (s *ClinicService) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	return s.records.ListInvoices(ctx)
}

func (s *ClinicService) CreateInvoice(ctx context.Context, inv model.Invoice) (*model.Invoice, error) {
	if inv.ConsultationFee <= 0 {
		return nil, ruleErr("Consultation fee must be positive")
	}
	if _, err := s.GetAppointment(ctx, inv.AppointmentID); err != nil {
		return nil, err
	}
	if _, err := s.records.InvoiceByAppointment(ctx, inv.AppointmentID); err == nil {
		return nil, ruleErr("Invoice already exists for this appointment")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	inv.ID = 0
	inv.Appointment = nil
	if err := s.records.CreateInvoice(ctx, &inv); err != nil {
		return nil, err
	}
	inv.PdfPath = PdfPath("Invoice", inv.ID)
	if err := s.records.SetPdfPath(ctx, &model.Invoice{}, inv.ID, inv.PdfPath); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *ClinicService) InvoiceByAppointment(ctx context.Context, appointmentID int64) (*model.Invoice, error) {
	inv, err := s.records.InvoiceByAppointment(ctx, appointmentID)
	return inv, notFound(err, "invoice")
}

func (s *ClinicService) InvoicePDF(ctx context.Context, id int64) ([]byte, string, error) {
	inv, err := s.records.GetInvoice(ctx, id)
	if err != nil {
		return nil, "", notFound(err, "invoice")
	}
	data, err := renderInvoice(inv)
	return data, fmt.Sprintf("Invoice_%d.pdf", id), err
}

// --- OP forms ---

func (s *ClinicService) ListOPForms(ctx context.Context) ([]model.OPForm, error) {
	return s.records.ListOPForms(ctx)
}

func (s *ClinicService) GetOPForm(ctx context.Context, id int64) (*model.OPForm, error) {
	f, err := s.records.GetOPForm(ctx, id)
	return f, notFound(err, "OP form")
}

func (s *ClinicService) OPFormByAppointment(ctx context.Context, appointmentID int64) (*model.OPForm, error) {
	f, err := s.records.OPFormByAppointment(ctx, appointmentID)
	return f, notFound(err, "OP form")
}

// CreateOPForm заводит амбулаторную карту и закрывает приём (Completed).
// Привязанные рецепт и счёт должны относиться к тому же приёму.
func (s *ClinicService) CreateOPForm(ctx context.Context, f model.OPForm) (*model.OPForm, error) {
	appt, err := s.GetAppointment(ctx, f.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Status == model.StatusCancelled {
		return nil, ruleErr("Cannot create OP form for a cancelled appointment")
	}
	if _, err := s.records.OPFormByAppointment(ctx, f.AppointmentID); err == nil {
		return nil, ruleErr("OP form already exists for this appointment")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if f.PrescriptionID != nil {
		p, err := s.records.GetPrescription(ctx, *f.PrescriptionID)
		if err != nil {
			return nil, notFound(err, "prescription")
		}
		if p.AppointmentID != f.AppointmentID {
			return nil, ruleErr("Prescription %d belongs to another appointment", p.ID)
		}
	}
	if f.InvoiceID != nil {
		inv, err := s.records.GetInvoice(ctx, *f.InvoiceID)
		if err != nil {
			return nil, notFound(err, "invoice")
		}
		if inv.AppointmentID != f.AppointmentID {
			return nil, ruleErr("Invoice %d belongs to another appointment", inv.ID)
		}
	}

	f.ID = 0
	f.Appointment, f.Prescription, f.Invoice = nil, nil, nil
	if err := s.records.CreateOPForm(ctx, &f); err != nil {
		return nil, err
	}
	if err := s.records.SetPdfPath(ctx, &model.OPForm{}, f.ID, PdfPath("OPForm", f.ID)); err != nil {
		return nil, err
	}
	if err := s.appointments.SetStatus(ctx, f.AppointmentID, model.StatusCompleted); err != nil {
		return nil, err
	}
	s.log.Infow("OP form created", "id", f.ID, "appointment_id", f.AppointmentID)
	return s.GetOPForm(ctx, f.ID)
}

func (s *ClinicService) OPFormPDF(ctx context.Context, id int64) ([]byte, string, error) {
	f, err := s.GetOPForm(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := renderOPForm(f)
	return data, fmt.Sprintf("OPForm_%d.pdf", id), err
}

// Dashboard - сводные счётчики.
func (s *ClinicService) Dashboard(ctx context.Context) (model.Dashboard, error) {
	return s.records.Dashboard(ctx)
}

// isUniqueViolation распознаёт нарушение уникальности у драйверов без TranslateError.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
