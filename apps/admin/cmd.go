package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/academia/core/enquiry"
	"github.com/trezcool/academia/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *sql.DB
	engine     string
	usrSvc     user.ServiceInterface
	enquirySvc enquiry.ServiceInterface
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprint(cli.out, `Usage:
  migrate COMMAND [ARGS]                                    - run a goose migration command (up, down, status, ...)
  adduser -name NAME -email EMAIL [-role ROLE]              - create or update a user; the password is prompted
  resetpassword -email EMAIL                                - reset a user's password; the password is prompted
  convertenquiry -enquiry ENQUIRY_ID -course COURSE_ID      - enroll an enquiry's sender in a course
`)
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserRole := addUserCmd.String("role", string(user.RoleAdmin), "One of STUDENT, TUTOR or ADMIN.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	convertCmd := flag.NewFlagSet("convertenquiry", flag.ContinueOnError)
	convertEnquiry := convertCmd.String("enquiry", "", "The enquiry ID.")
	convertCourse := convertCmd.String("course", "", "The course ID.")

	for _, fs := range []*flag.FlagSet{addUserCmd, resetPasswordCmd, convertCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserEmail == "" || !user.Role(*addUserRole).IsValid() {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserEmail, pwd, user.Role(*addUserRole))

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)

	case "convertenquiry":
		if err := convertCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *convertEnquiry == "" || *convertCourse == "" {
			convertCmd.Usage()
			return errHelp
		}
		return cli.convertEnquiry(*convertEnquiry, *convertCourse)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	_, _ = fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cli.out)
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return string(pwd), nil
}
