package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ClinicDesk/internal/model"
	"ClinicDesk/internal/repo"
)

func newClinicService(t *testing.T) *ClinicService {
	t.Helper()
	db, err := repo.InitDB("", fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewClinicService(repo.NewDoctorRepository(db), repo.NewAppointmentRepository(db), repo.NewRecordRepository(db), nil)
}

func seedDoctor(t *testing.T, s *ClinicService, email string, available bool) *model.Doctor {
	t.Helper()
	d, err := s.CreateDoctor(context.Background(), model.Doctor{
		FullName: "Dr. House", Specialization: "Diagnostics", Email: email,
		PhoneNumber: "555", Gender: "Male", IsAvailable: available,
	})
	require.NoError(t, err)
	return d
}

func booking(doctorID int64) model.Appointment {
	return model.Appointment{
		DoctorID: doctorID, PatientName: "Ann", PatientEmail: "ann@clinic.io", PatientPhone: "1",
		AppointmentDate: "2025-03-01", AppointmentTime: "10:00 AM to 10:30 AM",
	}
}

func TestClinicService_Booking(t *testing.T) {
	s := newClinicService(t)
	ctx := context.Background()
	doc := seedDoctor(t, s, "house@clinic.io", true)
	busy := seedDoctor(t, s, "busy@clinic.io", false)

	a, err := s.BookAppointment(ctx, booking(doc.ID))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, a.Status)
	require.NotNil(t, a.Doctor)
	assert.Equal(t, "Dr. House", a.Doctor.FullName)

	_, err = s.BookAppointment(ctx, booking(doc.ID))
	var rule *RuleError
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "Time slot already booked", rule.Message)

	_, err = s.BookAppointment(ctx, booking(busy.ID))
	require.ErrorAs(t, err, &rule)

	_, err = s.BookAppointment(ctx, booking(999))
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "Doctor not found", rule.Message)

	// после отмены слот снова свободен
	require.NoError(t, s.CancelAppointment(ctx, a.ID))
	again, err := s.BookAppointment(ctx, booking(doc.ID))
	require.NoError(t, err)

	list, err := s.ListAppointments(ctx, "ANN@clinic.io")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	upd := booking(doc.ID)
	upd.AppointmentTime = "11:00 AM to 11:30 AM"
	moved, err := s.UpdateAppointment(ctx, again.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "11:00 AM to 11:30 AM", moved.AppointmentTime)

	_, err = s.UpdateAppointment(ctx, a.ID, upd)
	assert.ErrorAs(t, err, &rule)

	_, err = s.UpdateAppointment(ctx, 404, upd)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClinicService_Records(t *testing.T) {
	s := newClinicService(t)
	ctx := context.Background()
	doc := seedDoctor(t, s, "house@clinic.io", true)
	a, err := s.BookAppointment(ctx, booking(doc.ID))
	require.NoError(t, err)
	other := booking(doc.ID)
	other.AppointmentDate = "2025-03-02"
	b, err := s.BookAppointment(ctx, other)
	require.NoError(t, err)

	p, err := s.CreatePrescription(ctx, model.Prescription{AppointmentID: a.ID, Medication: "Aspirin", Instructions: "1/day"})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("/api/Prescription/download/%d", p.ID), p.PdfPath)

	_, err = s.CreatePrescription(ctx, model.Prescription{AppointmentID: a.ID, Medication: "x", Instructions: "y"})
	var rule *RuleError
	assert.ErrorAs(t, err, &rule)

	_, err = s.CreateInvoice(ctx, model.Invoice{AppointmentID: a.ID, ConsultationFee: 0})
	assert.ErrorAs(t, err, &rule)
	inv, err := s.CreateInvoice(ctx, model.Invoice{AppointmentID: a.ID, ConsultationFee: 500})
	require.NoError(t, err)

	got, err := s.InvoiceByAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.PdfPath, got.PdfPath)

	_, err = s.InvoiceByAppointment(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// рецепт чужого приёма привязать нельзя
	_, err = s.CreateOPForm(ctx, model.OPForm{AppointmentID: b.ID, Symptoms: "s", Diagnosis: "d", Treatment: "t", PrescriptionID: &p.ID})
	assert.ErrorAs(t, err, &rule)

	f, err := s.CreateOPForm(ctx, model.OPForm{AppointmentID: a.ID, Symptoms: "cough", Diagnosis: "cold", Treatment: "rest", PrescriptionID: &p.ID, InvoiceID: &inv.ID})
	require.NoError(t, err)
	require.NotNil(t, f.Appointment)
	assert.Equal(t, model.StatusCompleted, f.Appointment.Status)
	assert.Equal(t, "Dr. House", f.Appointment.Doctor.FullName)
	assert.Equal(t, fmt.Sprintf("/api/OPForm/download/%d", f.ID), f.PdfPath)

	assert.ErrorAs(t, s.CancelAppointment(ctx, a.ID), &rule)

	dash, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Dashboard{
		TotalDoctors: 1, TotalPatients: 1, TotalAppointments: 2,
		PendingAppointments: 1, CompletedAppointments: 1,
		TotalPrescriptions: 1, TotalOPForms: 1, TotalInvoices: 1,
	}, dash)
}

func TestClinicService_PDF(t *testing.T) {
	s := newClinicService(t)
	ctx := context.Background()
	doc := seedDoctor(t, s, "house@clinic.io", true)
	a, err := s.BookAppointment(ctx, booking(doc.ID))
	require.NoError(t, err)
	p, err := s.CreatePrescription(ctx, model.Prescription{AppointmentID: a.ID, Medication: "Ibuprofène", Instructions: "twice a day"})
	require.NoError(t, err)
	inv, err := s.CreateInvoice(ctx, model.Invoice{AppointmentID: a.ID, ConsultationFee: 120.5})
	require.NoError(t, err)
	f, err := s.CreateOPForm(ctx, model.OPForm{AppointmentID: a.ID, Symptoms: "s", Diagnosis: "d", Treatment: "t"})
	require.NoError(t, err)

	for name, render := range map[string]func() ([]byte, string, error){
		"prescription": func() ([]byte, string, error) { return s.PrescriptionPDF(ctx, p.ID) },
		"invoice":      func() ([]byte, string, error) { return s.InvoicePDF(ctx, inv.ID) },
		"opform":       func() ([]byte, string, error) { return s.OPFormPDF(ctx, f.ID) },
	} {
		data, file, err := render()
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), name)
		assert.Contains(t, file, ".pdf")
	}

	_, _, err = s.InvoicePDF(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
