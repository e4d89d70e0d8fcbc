package api

import (
	"context"
	"net/http"
	"net/url"

	"ClinicDesk/internal/cli/model"
)

// Doctors

func (c *Client) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	var out []model.Doctor
	err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: "/Doctor", Auth: true}, &out)
	return out, err
}

func (c *Client) GetDoctor(ctx context.Context, id int64) (model.Doctor, error) {
	var out model.Doctor
	err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: idPath("/Doctor", id), Auth: true}, &out)
	return out, err
}

func (c *Client) CreateDoctor(ctx context.Context, d model.Doctor) (model.Doctor, error) {
	var out model.Doctor
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/Doctor", Body: d, Auth: true}, &out)
	return out, err
}

func (c *Client) UpdateDoctor(ctx context.Context, id int64, d model.Doctor) error {
	return c.doJSON(ctx, Request{Method: http.MethodPut, Path: idPath("/Doctor", id), Body: d, Auth: true}, nil)
}

func (c *Client) DeleteDoctor(ctx context.Context, id int64) error {
	return c.doJSON(ctx, Request{Method: http.MethodDelete, Path: idPath("/Doctor", id), Auth: true}, nil)
}

// Appointments

func (c *Client) BookAppointment(ctx context.Context, in model.AppointmentCreate) (model.Appointment, error) {
	var out model.Appointment
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/Appointment/book", Body: in, Auth: true}, &out)
	return out, err
}

// ListAppointments returns the appointments visible to email.
func (c *Client) ListAppointments(ctx context.Context, email string) ([]model.Appointment, error) {
	var out []model.Appointment
	err := c.doJSON(ctx, Request{
		Method: http.MethodGet,
		Path:   "/Appointment/list",
		Query:  url.Values{"email": {email}},
		Auth:   true,
	}, &out)
	return out, err
}

func (c *Client) UpdateAppointment(ctx context.Context, id int64, in model.AppointmentCreate) error {
	return c.doJSON(ctx, Request{Method: http.MethodPut, Path: idPath("/Appointment", id), Body: in, Auth: true}, nil)
}

func (c *Client) CancelAppointment(ctx context.Context, id int64) error {
	return c.doJSON(ctx, Request{Method: http.MethodDelete, Path: idPath("/Appointment/cancel", id), Auth: true}, nil)
}

// Prescriptions

func (c *Client) CreatePrescription(ctx context.Context, in model.PrescriptionCreate) (model.Prescription, error) {
	var out model.Prescription
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/Prescription", Body: in, Auth: true}, &out)
	return out, err
}

// PrescriptionsByAppointment returns every prescription written for the appointment; none is an empty list.
func (c *Client) PrescriptionsByAppointment(ctx context.Context, appointmentID int64) ([]model.Prescription, error) {
	var out []model.Prescription
	err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: idPath("/Prescription/appointment", appointmentID), Auth: true}, &out)
	return out, err
}

// DownloadPrescription returns the PDF bytes as served.
func (c *Client) DownloadPrescription(ctx context.Context, id int64) ([]byte, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: idPath("/Prescription/download", id), Auth: true})
}

// Invoices

func (c *Client) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	var out []model.Invoice
	err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: "/Invoice", Auth: true}, &out)
	return out, err
}

func (c *Client) CreateInvoice(ctx context.Context, in model.InvoiceCreate) (model.Invoice, error) {
	var out model.Invoice
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/Invoice", Body: in, Auth: true}, &out)
	return out, err
}

// InvoiceByAppointment fails with KindNotFound when the appointment has no invoice,
// including a 2xx with an empty or null body.
func (c *Client) InvoiceByAppointment(ctx context.Context, appointmentID int64) (model.Invoice, error) {
	var out model.Invoice
	err := c.doFound(ctx, Request{Method: http.MethodGet, Path: idPath("/Invoice/appointment", appointmentID), Auth: true}, &out)
	return out, err
}

func (c *Client) DownloadInvoice(ctx context.Context, id int64) ([]byte, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: idPath("/Invoice/download", id), Auth: true})
}

// OP forms

func (c *Client) ListOPForms(ctx context.Context) ([]model.OPForm, error) {
	var out []model.OPForm
	err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: "/OPForm", Auth: true}, &out)
	return out, err
}

func (c *Client) GetOPForm(ctx context.Context, id int64) (model.OPForm, error) {
	var out model.OPForm
	err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: idPath("/OPForm", id), Auth: true}, &out)
	return out, err
}

func (c *Client) OPFormByAppointment(ctx context.Context, appointmentID int64) (model.OPForm, error) {
	var out model.OPForm
	err := c.doFound(ctx, Request{Method: http.MethodGet, Path: idPath("/OPForm/appointment", appointmentID), Auth: true}, &out)
	return out, err
}

func (c *Client) CreateOPForm(ctx context.Context, in model.OPForm) (model.OPForm, error) {
	var out model.OPForm
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/OPForm", Body: in, Auth: true}, &out)
	return out, err
}

func (c *Client) DownloadOPForm(ctx context.Context, id int64) ([]byte, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: idPath("/OPForm/download", id), Auth: true})
}

// Dashboard

func (c *Client) DashboardSummary(ctx context.Context) (model.Dashboard, error) {
	var out model.Dashboard
	err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: "/Dashboard/summary", Auth: true}, &out)
	return out, err
}
