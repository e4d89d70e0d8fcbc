package commands

import (
	"context"
	"fmt"
	"strings"

	"ClinicDesk/internal/cli/model"
	"ClinicDesk/internal/config"
)

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account" }
func (registerCmd) Usage() string {
	return "register --name <full name> --phone <phone> --gender Male|Female [--address <addr>] [--country <code>] [--password <pw>] <email>"
}

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("register")
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number")
	gender := fs.String("gender", "", "Male or Female")
	address := fs.String("address", "", "postal address")
	country := fs.String("country", "", "country code from 'countries'")
	password := fs.String("password", "", "password (prompted twice when omitted)")
	rest, err := parseArgs(fs, args)
	if err != nil || len(rest) != 1 || *name == "" {
		return ErrUsage
	}

	form := model.Register{
		FullName:    *name,
		Email:       rest[0],
		PhoneNumber: *phone,
		Gender:      *gender,
		Address:     *address,
	}
	if *password != "" {
		form.Password, form.ConfirmPassword = *password, *password
	} else {
		if form.Password, err = readPassword("Password: "); err != nil {
			return err
		}
		if form.ConfirmPassword, err = readPassword("Confirm password: "); err != nil {
			return err
		}
	}

	e, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer e.close()

	if *country != "" {
		list, err := e.client.Countries(ctx)
		if err != nil {
			return err
		}
		found := ""
		for _, c := range list {
			if strings.EqualFold(c.Code, *country) {
				found = c.Name
				break
			}
		}
		if found == "" {
			return fmt.Errorf("unknown country code %q", *country)
		}
		if form.Address == "" {
			form.Address = found
		} else {
			form.Address += ", " + found
		}
	}

	msg, err := e.auth.Register(ctx, form)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Registration successful"
	}
	fmt.Fprintln(Out, msg)
	return nil
}

type countriesCmd struct{}

func (countriesCmd) Name() string        { return "countries" }
func (countriesCmd) Description() string { return "List countries accepted at registration" }
func (countriesCmd) Usage() string       { return "countries" }

func (countriesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	e, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer e.close()

	list, err := e.client.Countries(ctx)
	if err != nil {
		return err
	}
	for _, c := range list {
		fmt.Fprintf(Out, "%s  %-4s %s\n", c.Flag, c.Code, c.Name)
	}
	return nil
}

type forgotPasswordCmd struct{}

func (forgotPasswordCmd) Name() string        { return "forgot-password" }
func (forgotPasswordCmd) Description() string { return "Request a password reset token" }
func (forgotPasswordCmd) Usage() string       { return "forgot-password <email>" }

func (forgotPasswordCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	e, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer e.close()

	msg, err := e.auth.ForgotPassword(ctx, args[0])
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "If the address is registered, a reset link has been sent"
	}
	fmt.Fprintln(Out, msg)
	return nil
}

type resetPasswordCmd struct{}

func (resetPasswordCmd) Name() string        { return "reset-password" }
func (resetPasswordCmd) Description() string { return "Set a new password using a reset token" }
func (resetPasswordCmd) Usage() string       { return "reset-password [--password <pw>] <email> <token>" }

func (resetPasswordCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("reset-password")
	password := fs.String("password", "", "new password (prompted twice when omitted)")
	rest, err := parseArgs(fs, args)
	if err != nil || len(rest) != 2 {
		return ErrUsage
	}
	in := model.ResetPassword{Email: rest[0], Token: rest[1]}
	if *password != "" {
		in.NewPassword, in.ConfirmPassword = *password, *password
	} else {
		if in.NewPassword, err = readPassword("New password: "); err != nil {
			return err
		}
		if in.ConfirmPassword, err = readPassword("Confirm password: "); err != nil {
			return err
		}
	}

	e, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer e.close()

	msg, err := e.auth.ResetPassword(ctx, in)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Password has been reset"
	}
	fmt.Fprintln(Out, msg)
	return nil
}

func init() {
	RegisterCmd(registerCmd{})
	RegisterCmd(countriesCmd{})
	RegisterCmd(forgotPasswordCmd{})
	RegisterCmd(resetPasswordCmd{})
}
