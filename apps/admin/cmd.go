package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/presensi/core/store"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	store *store.Store
	out   io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -username USERNAME [-school ID] [-parent] - log in; the password is prompted next")
	fmt.Fprintln(cli.out, "  logout - forget the persisted session")
	fmt.Fprintln(cli.out, "  whoami - print the logged in admin")
	fmt.Fprintln(cli.out, "  passwd [-id ID] - change an admin's password; defaults to the logged in admin")
	fmt.Fprintln(cli.out, "  adduser -name NAME -username USERNAME -school ID [-email EMAIL] [-role admin|parent] - register an admin")
	fmt.Fprintln(cli.out, "  list -resource school|student|teacher|news|attendance|course|calendar [-school ID] - print a collection as JSON")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginUname := loginCmd.String("username", "", "The admin's username. The password will be prompted next.")
	loginSchool := loginCmd.String("school", "", "The admin's school id.")
	loginParent := loginCmd.Bool("parent", false, "Log in with a parent account.")

	passwdCmd := flag.NewFlagSet("passwd", flag.ExitOnError)
	passwdID := passwdCmd.String("id", "", "The admin's id; the logged in admin when empty.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserName := addUserCmd.String("name", "", "The admin's full name.")
	addUserUname := addUserCmd.String("username", "", "The admin's username. The password will be prompted next.")
	addUserEmail := addUserCmd.String("email", "", "The admin's email.")
	addUserSchool := addUserCmd.String("school", "", "The admin's school id.")
	addUserRole := addUserCmd.String("role", "", "admin (default) or parent.")

	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	listResource := listCmd.String("resource", "", "The collection to list.")
	listSchool := listCmd.String("school", "", "The school id; the logged in admin's school when empty.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginUname == "" {
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := cli.prompt("Enter password:")
		if err != nil {
			return err
		}
		if pwd == "" {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(ctx, *loginUname, pwd, *loginSchool, *loginParent)
	case "logout":
		return cli.logout(ctx)
	case "whoami":
		return cli.whoami(ctx)
	case "passwd":
		if err := passwdCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.changePassword(ctx, *passwdID)
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" || *addUserSchool == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.prompt("Enter password:")
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(ctx, *addUserName, *addUserUname, *addUserEmail, pwd, *addUserSchool, *addUserRole)
	case "list":
		if err := listCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *listResource == "" {
			listCmd.Usage()
			return errHelp
		}
		return cli.list(ctx, *listResource, *listSchool)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) prompt(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
