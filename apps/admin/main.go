package main

import (
	"log"
	"os"

	"github.com/openswad/swad/core"
	"github.com/openswad/swad/core/session"
	"github.com/openswad/swad/storage/database"
	sqlxrepos "github.com/openswad/swad/storage/database/sqlx"
)

var logger = log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

func main() {
	cli := &commandLine{
		conf: core.NewConfig(),
		out:  os.Stdout,
	}
	err := cli.run(os.Args)
	cli.close()
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

// connect opens the database the first time a command needs it.
func (cli *commandLine) connect() error {
	if cli.sessionSvc != nil {
		return nil
	}
	db, err := database.Open(cli.conf)
	if err != nil {
		return err
	}
	cli.db = db
	cli.sessionSvc = session.NewService(sqlxrepos.NewSessionRepository(db), cli.conf)
	return nil
}

func (cli *commandLine) close() {
	if cli.db == nil {
		return
	}
	if err := cli.db.Close(); err != nil {
		logger.Printf("closing database: %s", err)
	}
}
