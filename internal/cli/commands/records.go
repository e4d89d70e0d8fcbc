package commands

import (
	"context"
	"fmt"
	"strconv"

	"ClinicDesk/internal/cli/model"
	"ClinicDesk/internal/config"
)

type prescriptionsCmd struct{}

func (prescriptionsCmd) Name() string        { return "prescriptions" }
func (prescriptionsCmd) Description() string { return "List your prescriptions, write one, or download its PDF" }
func (prescriptionsCmd) Usage() string {
	return "prescriptions [list | add --appointment <id> --medication <s> --instructions <s> [--description <s>] | download [-o file] <id>]"
}

func (prescriptionsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	sub, args := subcommand(args, "list")
	e, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer e.close()

	switch sub {
	case "list":
		if len(args) != 0 {
			return ErrUsage
		}
		email, err := e.sess.Email()
		if err != nil {
			return err
		}
		list, err := e.records.ListPrescriptions(ctx, email)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(list))
		for _, p := range list {
			rows = append(rows, []string{
				strconv.FormatInt(p.ID, 10), strconv.FormatInt(p.AppointmentID, 10), p.PatientName, p.DoctorName,
				p.Medication, p.Instructions, shortDate(p.CreatedAt),
			})
		}
		printTable([]string{"ID", "APPOINTMENT", "PATIENT", "DOCTOR", "MEDICATION", "INSTRUCTIONS", "CREATED"}, rows)
		return nil

	case "add":
		var in model.PrescriptionCreate
		fs := newFlagSet("prescriptions add")
		fs.Int64Var(&in.AppointmentID, "appointment", 0, "appointment id")
		fs.StringVar(&in.Medication, "medication", "", "medication")
		fs.StringVar(&in.Instructions, "instructions", "", "instructions")
		fs.StringVar(&in.Description, "description", "", "notes")
		if rest, err := parseArgs(fs, args); err != nil || len(rest) != 0 {
			return ErrUsage
		}
		p, err := e.client.CreatePrescription(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Created prescription %d\n", p.ID)
		return nil

	case "download":
		out, id, err := downloadArgs("prescriptions download", args)
		if err != nil {
			return err
		}
		data, err := e.client.DownloadPrescription(ctx, id)
		if err != nil {
			return err
		}
		return savePDF(out, "prescription", id, data)
	}
	return ErrUsage
}

type invoicesCmd struct{}

func (invoicesCmd) Name() string        { return "invoices" }
func (invoicesCmd) Description() string { return "List your invoices, issue one, or download its PDF" }
func (invoicesCmd) Usage() string {
	return "invoices [list [--all] | add --appointment <id> --fee <amount> | download [-o file] <id>]"
}

func (invoicesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	sub, args := subcommand(args, "list")
	e, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer e.close()

	switch sub {
	case "list":
		fs := newFlagSet("invoices list")
		all := fs.Bool("all", false, "every invoice in the clinic, not only yours")
		if rest, err := parseArgs(fs, args); err != nil || len(rest) != 0 {
			return ErrUsage
		}
		var list []model.Invoice
		if *all {
			list, err = e.client.ListInvoices(ctx)
		} else {
			var email string
			if email, err = e.sess.Email(); err != nil {
				return err
			}
			list, err = e.records.ListInvoices(ctx, email)
		}
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(list))
		for _, inv := range list {
			rows = append(rows, []string{
				strconv.FormatInt(inv.ID, 10), strconv.FormatInt(inv.AppointmentID, 10), inv.PatientName, inv.DoctorName,
				strconv.FormatFloat(inv.ConsultationFee, 'f', 2, 64), shortDate(inv.CreatedAt),
			})
		}
		printTable([]string{"ID", "APPOINTMENT", "PATIENT", "DOCTOR", "FEE", "CREATED"}, rows)
		return nil

	case "add":
		var in model.InvoiceCreate
		fs := newFlagSet("invoices add")
		fs.Int64Var(&in.AppointmentID, "appointment", 0, "appointment id")
		fs.Float64Var(&in.ConsultationFee, "fee", 0, "consultation fee")
		if rest, err := parseArgs(fs, args); err != nil || len(rest) != 0 {
			return ErrUsage
		}
		inv, err := e.client.CreateInvoice(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Created invoice %d\n", inv.ID)
		return nil

	case "download":
		out, id, err := downloadArgs("invoices download", args)
		if err != nil {
			return err
		}
		data, err := e.client.DownloadInvoice(ctx, id)
		if err != nil {
			return err
		}
		return savePDF(out, "Invoice", id, data)
	}
	return ErrUsage
}

type opFormsCmd struct{}

func (opFormsCmd) Name() string        { return "opforms" }
func (opFormsCmd) Description() string { return "List, show, fill in or download outpatient forms" }
func (opFormsCmd) Usage() string {
	return "opforms [list | get <id> | get --appointment <id> | add <fields> | download [-o file] <id>]"
}

func (opFormsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	sub, args := subcommand(args, "list")
	e, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer e.close()

	switch sub {
	case "list":
		if len(args) != 0 {
			return ErrUsage
		}
		list, err := e.client.ListOPForms(ctx)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(list))
		for _, f := range list {
			patient, doctor := opFormNames(f)
			rows = append(rows, []string{
				strconv.FormatInt(f.ID, 10), strconv.FormatInt(f.AppointmentID, 10), patient, doctor, f.Diagnosis, shortDate(f.CreatedAt),
			})
		}
		printTable([]string{"ID", "APPOINTMENT", "PATIENT", "DOCTOR", "DIAGNOSIS", "CREATED"}, rows)
		return nil

	case "get":
		fs := newFlagSet("opforms get")
		byAppointment := fs.Int64("appointment", 0, "look up by appointment id")
		rest, err := parseArgs(fs, args)
		if err != nil {
			return ErrUsage
		}
		var f model.OPForm
		switch {
		case *byAppointment > 0 && len(rest) == 0:
			f, err = e.client.OPFormByAppointment(ctx, *byAppointment)
		case *byAppointment == 0 && len(rest) == 1:
			id, perr := parseID(rest[0])
			if perr != nil {
				return perr
			}
			f, err = e.client.GetOPForm(ctx, id)
		default:
			return ErrUsage
		}
		if err != nil {
			return err
		}
		printOPForm(f)
		return nil

	case "add":
		var (
			in             model.OPForm
			prescriptionID int64
			invoiceID      int64
		)
		fs := newFlagSet("opforms add")
		fs.Int64Var(&in.AppointmentID, "appointment", 0, "appointment id")
		fs.StringVar(&in.Symptoms, "symptoms", "", "symptoms")
		fs.StringVar(&in.Diagnosis, "diagnosis", "", "diagnosis")
		fs.StringVar(&in.Treatment, "treatment", "", "treatment")
		fs.StringVar(&in.Remarks, "remarks", "", "remarks")
		fs.Int64Var(&prescriptionID, "prescription", 0, "linked prescription id")
		fs.Int64Var(&invoiceID, "invoice", 0, "linked invoice id")
		if rest, err := parseArgs(fs, args); err != nil || len(rest) != 0 {
			return ErrUsage
		}
		if prescriptionID > 0 {
			in.PrescriptionID = &prescriptionID
		}
		if invoiceID > 0 {
			in.InvoiceID = &invoiceID
		}
		f, err := e.client.CreateOPForm(ctx, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Created OP form %d\n", f.ID)
		return nil

	case "download":
		out, id, err := downloadArgs("opforms download", args)
		if err != nil {
			return err
		}
		data, err := e.client.DownloadOPForm(ctx, id)
		if err != nil {
			return err
		}
		return savePDF(out, "OPForm", id, data)
	}
	return ErrUsage
}

func opFormNames(f model.OPForm) (patient, doctor string) {
	if f.Appointment == nil {
		return "", ""
	}
	patient = f.Appointment.PatientName
	if f.Appointment.Doctor != nil {
		doctor = f.Appointment.Doctor.FullName
	}
	return patient, doctor
}

func printOPForm(f model.OPForm) {
	patient, doctor := opFormNames(f)
	fmt.Fprintf(Out, "ID:          %d\n", f.ID)
	fmt.Fprintf(Out, "Appointment: %d\n", f.AppointmentID)
	fmt.Fprintf(Out, "Patient:     %s\n", patient)
	fmt.Fprintf(Out, "Doctor:      %s\n", doctor)
	fmt.Fprintf(Out, "Symptoms:    %s\n", f.Symptoms)
	fmt.Fprintf(Out, "Diagnosis:   %s\n", f.Diagnosis)
	fmt.Fprintf(Out, "Treatment:   %s\n", f.Treatment)
	if f.Remarks != "" {
		fmt.Fprintf(Out, "Remarks:     %s\n", f.Remarks)
	}
	if f.PrescriptionID != nil {
		fmt.Fprintf(Out, "Prescription: %d\n", *f.PrescriptionID)
	}
	if f.InvoiceID != nil {
		fmt.Fprintf(Out, "Invoice:     %d\n", *f.InvoiceID)
	}
	fmt.Fprintf(Out, "Created:     %s\n", shortDate(f.CreatedAt))
}

func downloadArgs(name string, args []string) (string, int64, error) {
	fs := newFlagSet(name)
	out := fs.String("o", "", "output file")
	rest, err := parseArgs(fs, args)
	if err != nil || len(rest) != 1 {
		return "", 0, ErrUsage
	}
	id, err := parseID(rest[0])
	if err != nil {
		return "", 0, err
	}
	return *out, id, nil
}

// shortDate trims an ISO timestamp to "YYYY-MM-DD HH:MM".
func shortDate(s string) string {
	if len(s) >= 16 {
		return s[:10] + " " + s[11:16]
	}
	return s
}

type dashboardCmd struct{}

func (dashboardCmd) Name() string        { return "dashboard" }
func (dashboardCmd) Description() string { return "Show clinic totals" }
func (dashboardCmd) Usage() string       { return "dashboard" }

func (dashboardCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	e, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer e.close()

	d, err := e.client.DashboardSummary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Doctors:                %d\n", d.TotalDoctors)
	fmt.Fprintf(Out, "Patients:               %d\n", d.TotalPatients)
	fmt.Fprintf(Out, "Appointments:           %d\n", d.TotalAppointments)
	fmt.Fprintf(Out, "  pending:              %d\n", d.PendingAppointments)
	fmt.Fprintf(Out, "  completed:            %d\n", d.CompletedAppointments)
	fmt.Fprintf(Out, "Prescriptions:          %d\n", d.TotalPrescriptions)
	fmt.Fprintf(Out, "OP forms:               %d\n", d.TotalOPForms)
	fmt.Fprintf(Out, "Invoices:               %d\n", d.TotalInvoices)
	return nil
}

func init() {
	RegisterCmd(prescriptionsCmd{})
	RegisterCmd(invoicesCmd{})
	RegisterCmd(opFormsCmd{})
	RegisterCmd(dashboardCmd{})
}
