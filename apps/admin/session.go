package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/presensi/core"
	"github.com/trezcool/presensi/core/admin"
	"github.com/trezcool/presensi/core/store"
)

var errNotLoggedIn = errors.New("not logged in, run: admin login -username USERNAME")

func (cli *commandLine) login(ctx context.Context, uname, pwd, schoolID string, parent bool) error {
	creds := admin.Credentials{
		Username: uname,
		Password: pwd,
		SchoolID: core.ID(schoolID),
	}
	op := store.Login(creds)
	if parent {
		op = store.LoginParent(creds)
	}
	v, err := cli.store.Dispatch(ctx, op)
	if err != nil {
		return err
	}
	adm := v.(admin.Admin)
	fmt.Fprintf(cli.out, "logged in as %s (school %s)\n", adm.Username, adm.SchoolID)
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	cli.store.Session.Logout(ctx)
	cli.store.Reset()
	fmt.Fprintln(cli.out, "logged out")
	return nil
}

// restore loads the admin of the persisted session.
func (cli *commandLine) restore(ctx context.Context) (admin.Admin, error) {
	v, err := cli.store.Dispatch(ctx, store.CurrentUser())
	if err != nil {
		if errors.Is(err, core.ErrNotAuthenticated) || core.IsUnauthorized(err) {
			return admin.Admin{}, errNotLoggedIn
		}
		return admin.Admin{}, err
	}
	return v.(admin.Admin), nil
}

func (cli *commandLine) whoami(ctx context.Context) error {
	adm, err := cli.restore(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s (%s)\n", adm.Username, adm.Role)
	fmt.Fprintf(cli.out, "  id:     %s\n", adm.ID)
	fmt.Fprintf(cli.out, "  name:   %s\n", adm.Name)
	fmt.Fprintf(cli.out, "  email:  %s\n", adm.Email)
	fmt.Fprintf(cli.out, "  school: %s\n", adm.SchoolID)
	return nil
}

func (cli *commandLine) changePassword(ctx context.Context, id string) error {
	adm, err := cli.restore(ctx)
	if err != nil {
		return err
	}
	if id == "" {
		id = adm.ID.String()
	}

	var cp admin.ChangePassword
	if cp.Current, err = cli.prompt("Current password:"); err != nil {
		return err
	}
	if cp.Password, err = cli.prompt("New password:"); err != nil {
		return err
	}
	if cp.Confirm, err = cli.prompt("Confirm new password:"); err != nil {
		return err
	}

	if _, err := cli.store.Session.ChangePassword(ctx, core.ID(id), cp); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "password changed")
	return nil
}

// addUser registers an admin, or a parent with -role parent; it does not log in.
func (cli *commandLine) addUser(ctx context.Context, name, uname, email, pwd, schoolID, role string) error {
	na := admin.NewAdmin{
		Name:     name,
		Username: uname,
		Email:    email,
		Password: pwd,
		SchoolID: core.ID(schoolID),
		Role:     role,
	}
	register := cli.store.Session.Register
	if role == admin.RoleParent {
		register = cli.store.Session.RegisterParent
	}
	adm, err := register(ctx, na)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "registered %s (id %s)\n", adm.Username, adm.ID)
	return nil
}
