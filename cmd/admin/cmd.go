package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Freeeeeet/course_app/internal/app"
	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/service"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	repos   service.Repositories
	users   *service.UserService
	migrate func(ctx context.Context, command string, args ...string) error
	out     io.Writer
}

func newCommandLine(storage *app.Storage, out io.Writer, logger *zap.Logger) *commandLine {
	return &commandLine{
		repos:   storage.Repos,
		users:   service.NewUserService(storage.Repos.Users, storage.Repos.Courses, storage.Repos.Enrollments, logger.Named("users")),
		migrate: storage.Migration,
		out:     out,
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                             - run a goose command (up, down, status, version, ...)")
	fmt.Fprintln(cli.out, "  seed [-password PASSWORD]                          - create the default courses and the instructor")
	fmt.Fprintln(cli.out, "  adduser -name NAME -email EMAIL [-role R] [-tz TZ] - create a user, the password is prompted next")
	fmt.Fprintln(cli.out, "  enroll -email EMAIL -course SLUG                   - enroll a user in a course")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL                         - reset a user's password")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2], args[3:]...)

	case "seed":
		seedCmd := cli.newFlagSet("seed")
		password := seedCmd.String("password", "", "The instructor's password. Prompted when empty.")
		if err := seedCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.seed(ctx, *password)

	case "adduser":
		addUserCmd := cli.newFlagSet("adduser")
		name := addUserCmd.String("name", "", "The user's display name.")
		email := addUserCmd.String("email", "", "The user's email.")
		role := addUserCmd.String("role", string(model.RoleStudent), "STUDENT or INSTRUCTOR.")
		tz := addUserCmd.String("tz", model.DefaultTimezone, "IANA timezone, e.g. Asia/Kolkata.")
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *name == "" || *email == "" {
			addUserCmd.Usage()
			return errHelp
		}
		r, err := model.ParseRole(*role)
		if err != nil {
			return err
		}
		pwd, err := cli.readPassword()
		if err != nil {
			addUserCmd.Usage()
			return err
		}
		return cli.addUser(ctx, service.RegisterInput{Name: *name, Email: *email, Password: pwd, Timezone: *tz}, r)

	case "enroll":
		enrollCmd := cli.newFlagSet("enroll")
		email := enrollCmd.String("email", "", "The user's email.")
		course := enrollCmd.String("course", "", "The course slug.")
		if err := enrollCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *email == "" || *course == "" {
			enrollCmd.Usage()
			return errHelp
		}
		return cli.enroll(ctx, *email, *course)

	case "resetpassword":
		resetPasswordCmd := cli.newFlagSet("resetpassword")
		email := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *email == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.readPassword()
		if err != nil {
			resetPasswordCmd.Usage()
			return err
		}
		return cli.resetPassword(ctx, *email, pwd)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) readPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) addUser(ctx context.Context, input service.RegisterInput, role model.Role) error {
	user, err := cli.users.CreateUser(ctx, input, role)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created %s %s (id %d)\n", user.Role, user.Email, user.ID)
	return nil
}

func (cli *commandLine) enroll(ctx context.Context, email, course string) error {
	created, err := cli.users.Enroll(ctx, email, course)
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(cli.out, "%s is already enrolled in %s\n", email, course)
		return nil
	}
	fmt.Fprintf(cli.out, "Enrolled %s in %s\n", email, course)
	return nil
}

func (cli *commandLine) resetPassword(ctx context.Context, email, password string) error {
	if err := cli.users.ResetPassword(ctx, email, password); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Password reset")
	return nil
}
