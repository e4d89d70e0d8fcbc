package commands

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"ClinicDesk/internal/cli/model"
	"ClinicDesk/internal/config"
)

type doctorsCmd struct{}

func (doctorsCmd) Name() string        { return "doctors" }
func (doctorsCmd) Description() string { return "List, show, add, update or delete doctors" }
func (doctorsCmd) Usage() string {
	return "doctors [list | get <id> | add <fields> | update <id> <fields> | delete <id>]"
}

// doctorFlags registers the editable doctor fields on fs.
func doctorFlags(fs *flag.FlagSet, d *model.Doctor) {
	fs.StringVar(&d.FullName, "name", d.FullName, "full name")
	fs.StringVar(&d.Specialization, "specialization", d.Specialization, "specialization")
	fs.StringVar(&d.Email, "email", d.Email, "email")
	fs.StringVar(&d.PhoneNumber, "phone", d.PhoneNumber, "phone number")
	fs.StringVar(&d.Gender, "gender", d.Gender, "Male or Female")
	fs.BoolVar(&d.IsAvailable, "available", d.IsAvailable, "accepting appointments")
}

func (doctorsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
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
		list, err := e.client.ListDoctors(ctx)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(list))
		for _, d := range list {
			rows = append(rows, []string{
				strconv.FormatInt(d.ID, 10), d.FullName, d.Specialization, d.Email, d.PhoneNumber, d.Gender, yesNo(d.IsAvailable),
			})
		}
		printTable([]string{"ID", "NAME", "SPECIALIZATION", "EMAIL", "PHONE", "GENDER", "AVAILABLE"}, rows)
		return nil

	case "get":
		if len(args) != 1 {
			return ErrUsage
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		d, err := e.client.GetDoctor(ctx, id)
		if err != nil {
			return err
		}
		printDoctor(d)
		return nil

	case "add":
		d := model.Doctor{IsAvailable: true}
		fs := newFlagSet("doctors add")
		doctorFlags(fs, &d)
		if rest, err := parseArgs(fs, args); err != nil || len(rest) != 0 {
			return ErrUsage
		}
		created, err := e.client.CreateDoctor(ctx, d)
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "Created doctor %d\n", created.ID)
		return nil

	case "update":
		if len(args) == 0 {
			return ErrUsage
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		// начинаем с текущих значений, флаги перезаписывают только переданные поля
		d, err := e.client.GetDoctor(ctx, id)
		if err != nil {
			return err
		}
		fs := newFlagSet("doctors update")
		doctorFlags(fs, &d)
		if rest, err := parseArgs(fs, args[1:]); err != nil || len(rest) != 0 {
			return ErrUsage
		}
		d.ID = id
		if err := e.client.UpdateDoctor(ctx, id, d); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Updated doctor %d\n", id)
		return nil

	case "delete":
		if len(args) != 1 {
			return ErrUsage
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := e.client.DeleteDoctor(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Deleted doctor %d\n", id)
		return nil
	}
	return ErrUsage
}

func printDoctor(d model.Doctor) {
	fmt.Fprintf(Out, "ID:             %d\n", d.ID)
	fmt.Fprintf(Out, "Name:           %s\n", d.FullName)
	fmt.Fprintf(Out, "Specialization: %s\n", d.Specialization)
	fmt.Fprintf(Out, "Email:          %s\n", d.Email)
	fmt.Fprintf(Out, "Phone:          %s\n", d.PhoneNumber)
	fmt.Fprintf(Out, "Gender:         %s\n", d.Gender)
	fmt.Fprintf(Out, "Available:      %s\n", yesNo(d.IsAvailable))
}

func init() { RegisterCmd(doctorsCmd{}) }
