package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/openswad/swad/core"
	"github.com/openswad/swad/core/session"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf *core.Config
	out  io.Writer

	// set by connect
	db         *sqlx.DB
	sessionSvc *session.Service
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                          - run a goose command on the database")
	fmt.Fprintln(cli.out, "  parse -env FILE [-body FILE] [-param NAME]      - parse a captured CGI request")
	fmt.Fprintln(cli.out, "  session open -user CODE [-role N]               - open a session")
	fmt.Fprintln(cli.out, "  session close -id ID                            - close a session")
	fmt.Fprintln(cli.out, "  session purge                                   - delete expired sessions")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// isTerminal reports whether output goes to an interactive terminal.
func (cli *commandLine) isTerminal() bool {
	f, ok := cli.out.(*os.File)
	return ok && isTerminalFunc(int(f.Fd()))
}

func (cli *commandLine) run(args []string) error {
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
		if err := cli.connect(); err != nil {
			return err
		}
		return cli.migrate(args[2:])

	case "parse":
		parseCmd := cli.newFlagSet("parse")
		envFile := parseCmd.String("env", "", "File of CGI variables, one NAME=value per line.")
		bodyFile := parseCmd.String("body", "", "File holding the request body.")
		name := parseCmd.String("param", "", "Only print the values of this parameter.")
		if err := parseCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *envFile == "" {
			parseCmd.Usage()
			return errHelp
		}
		return cli.parse(*envFile, *bodyFile, *name)

	case "session":
		return cli.runSession(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) runSession(args []string) error {
	if len(args) < 1 {
		cli.printUsage()
		return errHelp
	}

	openCmd := cli.newFlagSet("session open")
	openUser := openCmd.Int64("user", 0, "Code of the user the session belongs to.")
	openRole := openCmd.Int("role", session.RoleUser, "Role of the user in the session.")

	closeCmd := cli.newFlagSet("session close")
	closeID := closeCmd.String("id", "", "Session id.")

	switch args[0] {
	case "open":
		if err := openCmd.Parse(args[1:]); err != nil {
			return errHelp
		}
		if *openUser <= 0 {
			openCmd.Usage()
			return errHelp
		}
		if err := cli.connect(); err != nil {
			return err
		}
		return cli.openSession(*openUser, *openRole)

	case "close":
		if err := closeCmd.Parse(args[1:]); err != nil {
			return errHelp
		}
		if *closeID == "" {
			closeCmd.Usage()
			return errHelp
		}
		if err := cli.connect(); err != nil {
			return err
		}
		return cli.closeSession(*closeID)

	case "purge":
		if err := cli.connect(); err != nil {
			return err
		}
		return cli.purgeSessions()

	default:
		cli.printUsage()
		return errHelp
	}
}
