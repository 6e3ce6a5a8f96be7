package main

import (
	"database/sql"

	"github.com/openswad/swad/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(args []string) error {
	var db *sql.DB
	if cli.db != nil {
		db = cli.db.DB
	}
	return gooseRunFunc(db, args[0], args[1:]...)
}
