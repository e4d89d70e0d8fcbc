package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ClinicDesk/internal/cli/api"
	"ClinicDesk/internal/cli/model"
)

// DefaultFanOut caps concurrent per-appointment lookups.
const DefaultFanOut = 4

// RecordsGateway - часть api.Client, нужная для сборки списков счетов и рецептов.
type RecordsGateway interface {
	ListAppointments(ctx context.Context, email string) ([]model.Appointment, error)
	InvoiceByAppointment(ctx context.Context, appointmentID int64) (model.Invoice, error)
	PrescriptionsByAppointment(ctx context.Context, appointmentID int64) ([]model.Prescription, error)
}

// RecordsService собирает счета и рецепты пользователя по его приёмам.
type RecordsService struct {
	gw    RecordsGateway
	log   *zap.SugaredLogger
	limit int
}

func NewRecordsService(gw RecordsGateway, log *zap.SugaredLogger) *RecordsService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &RecordsService{gw: gw, log: log, limit: DefaultFanOut}
}

// Appointments returns the caller's appointments narrowed by f.
func (s *RecordsService) Appointments(ctx context.Context, email string, f AppointmentFilter) ([]model.Appointment, error) {
	list, err := s.gw.ListAppointments(ctx, email)
	if err != nil {
		return nil, err
	}
	return f.Apply(list), nil
}

// ListInvoices returns one invoice per appointment that has one, in appointment order,
// with the patient and doctor names filled in.
func (s *RecordsService) ListInvoices(ctx context.Context, email string) ([]model.Invoice, error) {
	appts, err := s.gw.ListAppointments(ctx, email)
	if err != nil {
		return nil, err
	}
	return fanOut(ctx, s, appts, "invoice", func(ctx context.Context, a model.Appointment) (model.Invoice, error) {
		inv, err := s.gw.InvoiceByAppointment(ctx, a.ID)
		if err != nil {
			return inv, err
		}
		inv.PatientName = a.PatientName
		inv.DoctorName = a.DoctorName()
		return inv, nil
	})
}

// ListPrescriptions flattens the prescriptions of every appointment, in appointment order,
// with the patient and doctor names filled in.
func (s *RecordsService) ListPrescriptions(ctx context.Context, email string) ([]model.Prescription, error) {
	appts, err := s.gw.ListAppointments(ctx, email)
	if err != nil {
		return nil, err
	}
	perAppt, err := fanOut(ctx, s, appts, "prescriptions", func(ctx context.Context, a model.Appointment) ([]model.Prescription, error) {
		list, err := s.gw.PrescriptionsByAppointment(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		for i := range list {
			list[i].PatientName = a.PatientName
			list[i].DoctorName = a.DoctorName()
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	var out []model.Prescription
	for _, list := range perAppt {
		out = append(out, list...)
	}
	return out, nil
}

// fanOut calls fetch for every appointment with bounded parallelism.
// 404 means "nothing yet" and is skipped quietly; other failures are logged and skipped.
func fanOut[T any](
	ctx context.Context,
	s *RecordsService,
	appts []model.Appointment,
	what string,
	fetch func(context.Context, model.Appointment) (T, error),
) ([]T, error) {
	var (
		mu    sync.Mutex
		found = make(map[int]T, len(appts))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, a := range appts {
		i, a := i, a
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			v, err := fetch(gctx, a)
			if err != nil {
				if !api.IsKind(err, api.KindNotFound) {
					s.log.Warnw("skip "+what, "appointment_id", a.ID, "error", err)
				}
				return nil
			}
			mu.Lock()
			found[i] = v
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(found))
	for i := range appts {
		if v, ok := found[i]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// AppointmentFilter narrows an appointment list the way the appointments screen searches.
// Empty fields match everything.
type AppointmentFilter struct {
	Patient string // substring of patient name, case-insensitive
	Doctor  string // substring of doctor name, case-insensitive
	Date    string // YYYY-MM-DD
}

func (f AppointmentFilter) Apply(list []model.Appointment) []model.Appointment {
	if f == (AppointmentFilter{}) {
		return list
	}
	out := make([]model.Appointment, 0, len(list))
	for _, a := range list {
		if f.Patient != "" && !containsFold(a.PatientName, f.Patient) {
			continue
		}
		if f.Doctor != "" && !containsFold(a.DoctorName(), f.Doctor) {
			continue
		}
		if f.Date != "" && a.Date() != f.Date {
			continue
		}
		out = append(out, a)
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
