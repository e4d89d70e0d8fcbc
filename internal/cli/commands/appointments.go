package commands

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"ClinicDesk/internal/cli/model"
	"ClinicDesk/internal/cli/service"
	"ClinicDesk/internal/config"
)

type appointmentsCmd struct{}

func (appointmentsCmd) Name() string        { return "appointments" }
func (appointmentsCmd) Description() string { return "List, book, reschedule or cancel appointments" }
func (appointmentsCmd) Usage() string {
	return "appointments [list [--patient <s>] [--doctor <s>] [--date YYYY-MM-DD] | book <fields> | update <id> <fields> | cancel <id>]"
}

func appointmentFlags(fs *flag.FlagSet, a *model.AppointmentCreate) {
	fs.Int64Var(&a.DoctorID, "doctor-id", a.DoctorID, "doctor id")
	fs.StringVar(&a.PatientName, "patient", a.PatientName, "patient name")
	fs.StringVar(&a.PatientEmail, "email", a.PatientEmail, "patient email")
	fs.StringVar(&a.PatientPhone, "phone", a.PatientPhone, "patient phone")
	fs.StringVar(&a.AppointmentDate, "date", a.AppointmentDate, "date, YYYY-MM-DD")
	fs.StringVar(&a.AppointmentTime, "time", a.AppointmentTime, `slot, e.g. "10:00 AM to 10:30 AM"`)
}

func (appointmentsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	sub, args := subcommand(args, "list")
	e, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer e.close()

	switch sub {
	case "list":
		var f service.AppointmentFilter
		fs := newFlagSet("appointments list")
		fs.StringVar(&f.Patient, "patient", "", "patient name contains")
		fs.StringVar(&f.Doctor, "doctor", "", "doctor name contains")
		fs.StringVar(&f.Date, "date", "", "appointment date, YYYY-MM-DD")
		if rest, err := parseArgs(fs, args); err != nil || len(rest) != 0 {
			return ErrUsage
		}
		email, err := e.sess.Email()
		if err != nil {
			return err
		}
		list, err := e.records.Appointments(ctx, email, f)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(list))
		for _, a := range list {
			rows = append(rows, []string{
				strconv.FormatInt(a.ID, 10), a.Date(), a.AppointmentTime, a.PatientName, a.DoctorName(), a.Status,
			})
		}
		printTable([]string{"ID", "DATE", "TIME", "PATIENT", "DOCTOR", "STATUS"}, rows)
		return nil

	case "book":
		var in model.AppointmentCreate
		fs := newFlagSet("appointments book")
		appointmentFlags(fs, &in)
		if rest, err := parseArgs(fs, args); err != nil || len(rest) != 0 {
			return ErrUsage
		}
		if in.PatientEmail == "" {
			// по умолчанию записываем самого пользователя
			if email, err := e.sess.Email(); err == nil {
				in.PatientEmail = email
			}
		}
		a, err := e.client.BookAppointment(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Booked appointment %d on %s, %s\n", a.ID, a.Date(), a.AppointmentTime)
		return nil

	case "update":
		if len(args) == 0 {
			return ErrUsage
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		current, err := findAppointment(ctx, e, id)
		if err != nil {
			return err
		}
		in := model.AppointmentCreate{
			DoctorID:        current.DoctorID,
			PatientName:     current.PatientName,
			PatientEmail:    current.PatientEmail,
			PatientPhone:    current.PatientPhone,
			AppointmentDate: current.Date(),
			AppointmentTime: current.AppointmentTime,
		}
		fs := newFlagSet("appointments update")
		appointmentFlags(fs, &in)
		if rest, err := parseArgs(fs, args[1:]); err != nil || len(rest) != 0 {
			return ErrUsage
		}
		if err := e.client.UpdateAppointment(ctx, id, in); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Updated appointment %d\n", id)
		return nil

	case "cancel":
		if len(args) != 1 {
			return ErrUsage
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := e.client.CancelAppointment(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Cancelled appointment %d\n", id)
		return nil
	}
	return ErrUsage
}

// findAppointment looks id up in the caller's list; the API has no single-appointment GET.
func findAppointment(ctx context.Context, e *env, id int64) (model.Appointment, error) {
	email, err := e.sess.Email()
	if err != nil {
		return model.Appointment{}, err
	}
	list, err := e.records.Appointments(ctx, email, service.AppointmentFilter{})
	if err != nil {
		return model.Appointment{}, err
	}
	for _, a := range list {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Appointment{}, fmt.Errorf("appointment %d not found", id)
}

func init() { RegisterCmd(appointmentsCmd{}) }
