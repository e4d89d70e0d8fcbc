package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"ClinicDesk/internal/middleware"
	"ClinicDesk/internal/model"
	"ClinicDesk/internal/service"
)

// ClinicHandler - защищённые маршруты: врачи, приёмы, документы, сводка.
type ClinicHandler struct {
	ClinicService *service.ClinicService
	Logger        *zap.SugaredLogger
}

func NewClinicHandler(clinicService *service.ClinicService, logger *zap.SugaredLogger) *ClinicHandler {
	return &ClinicHandler{ClinicService: clinicService, Logger: logger}
}

func (h *ClinicHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, h.Logger, r, err)
}

// --- Doctor ---

func (h *ClinicHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	list, err := h.ClinicService.ListDoctors(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (h *ClinicHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d, err := h.ClinicService.GetDoctor(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *ClinicHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req model.Doctor
	if err := decodeValid(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	d, err := h.ClinicService.CreateDoctor(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *ClinicHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req model.Doctor
	if err := decodeValid(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	d, err := h.ClinicService.UpdateDoctor(r.Context(), id, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *ClinicHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.ClinicService.DeleteDoctor(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Appointment ---

func (h *ClinicHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req AppointmentRequest
	if err := decodeValid(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	a, err := h.ClinicService.BookAppointment(r.Context(), req.toModel())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// ListAppointments приёмы пациента; без ?email берётся email из токена
func (h *ClinicHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		email, _ = middleware.GetEmailFromContext(r.Context())
	}
	if email == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "email is required"})
		return
	}
	list, err := h.ClinicService.ListAppointments(r.Context(), email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (h *ClinicHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req AppointmentRequest
	if err := decodeValid(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	a, err := h.ClinicService.UpdateAppointment(r.Context(), id, req.toModel())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *ClinicHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.ClinicService.CancelAppointment(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Appointment cancelled"})
}

// --- Prescription ---

func (h *ClinicHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	var req PrescriptionRequest
	if err := decodeValid(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.ClinicService.CreatePrescription(r.Context(), model.Prescription{
		AppointmentID: req.AppointmentID,
		Medication:    req.Medication,
		Instructions:  req.Instructions,
		Description:   req.Description,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ClinicHandler) PrescriptionsByAppointment(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, func(ctx context.Context, id int64) (any, error) {
		list, err := h.ClinicService.PrescriptionsByAppointment(ctx, id)
		return nonNil(list), err
	})
}

func (h *ClinicHandler) DownloadPrescription(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.ClinicService.PrescriptionPDF)
}

// --- Invoice ---

func (h *ClinicHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	list, err := h.ClinicService.ListInvoices(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (h *ClinicHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req InvoiceRequest
	if err := decodeValid(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	inv, err := h.ClinicService.CreateInvoice(r.Context(), model.Invoice{
		AppointmentID:   req.AppointmentID,
		ConsultationFee: req.ConsultationFee,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (h *ClinicHandler) InvoiceByAppointment(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, func(ctx context.Context, id int64) (any, error) {
		return h.ClinicService.InvoiceByAppointment(ctx, id)
	})
}

func (h *ClinicHandler) DownloadInvoice(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.ClinicService.InvoicePDF)
}

// --- OP form ---

func (h *ClinicHandler) ListOPForms(w http.ResponseWriter, r *http.Request) {
	list, err := h.ClinicService.ListOPForms(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (h *ClinicHandler) GetOPForm(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, func(ctx context.Context, id int64) (any, error) {
		return h.ClinicService.GetOPForm(ctx, id)
	})
}

func (h *ClinicHandler) OPFormByAppointment(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, func(ctx context.Context, id int64) (any, error) {
		return h.ClinicService.OPFormByAppointment(ctx, id)
	})
}

func (h *ClinicHandler) CreateOPForm(w http.ResponseWriter, r *http.Request) {
	var req OPFormRequest
	if err := decodeValid(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	f, err := h.ClinicService.CreateOPForm(r.Context(), model.OPForm{
		AppointmentID:  req.AppointmentID,
		Symptoms:       req.Symptoms,
		Diagnosis:      req.Diagnosis,
		Treatment:      req.Treatment,
		Remarks:        req.Remarks,
		PrescriptionID: positive(req.PrescriptionID),
		InvoiceID:      positive(req.InvoiceID),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *ClinicHandler) DownloadOPForm(w http.ResponseWriter, r *http.Request) {
	h.download(w, r, h.ClinicService.OPFormPDF)
}

// --- Dashboard ---

func (h *ClinicHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.ClinicService.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// --- helpers ---

func (h *ClinicHandler) byID(w http.ResponseWriter, r *http.Request, get func(context.Context, int64) (any, error)) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	v, err := get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *ClinicHandler) download(w http.ResponseWriter, r *http.Request, render func(context.Context, int64) ([]byte, string, error)) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data, name, err := render(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writePDF(w, name, data)
}

// nonNil отдаёт [] вместо null для пустых списков.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

// positive: 0 в JSON значит "не привязан".
func positive(id *int64) *int64 {
	if id == nil || *id <= 0 {
		return nil
	}
	return id
}
