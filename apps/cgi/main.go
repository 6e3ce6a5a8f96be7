// Command cgi serves one request per process, the way web servers run CGI programs.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/openswad/swad/core"
	"github.com/openswad/swad/core/param"
	"github.com/openswad/swad/core/request"
	"github.com/openswad/swad/core/session"
	logsvc "github.com/openswad/swad/services/logger"
	"github.com/openswad/swad/services/metrics"
	"github.com/openswad/swad/storage/database"
	inmemdb "github.com/openswad/swad/storage/database/inmem"
	sqlxrepos "github.com/openswad/swad/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	// stdout carries the response
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "CGI : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	env, err := param.EnvironmentFromOS()
	if err != nil {
		logger.Fatal(fmt.Sprintf("reading environment: %v", err), err)
	}

	var sessionRepo session.Repository
	if conf.Database.Engine == "inmem" {
		sessionRepo = inmemdb.NewSessionRepository(inmemdb.NewDB())
	} else {
		db, err := database.Open(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		defer func() { _ = db.Close() }()
		sessionRepo = sqlxrepos.NewSessionRepository(db)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	// not exported, the process lives for one request
	m := metrics.New("swad", prometheus.NewRegistry())

	h, err := newHandler(conf, request.NewService(conf, session.NewService(sessionRepo, conf), validate, translator, m, logger), logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("parsing templates: %v", err), err)
	}
	if err = h.serve(context.Background(), os.Stdout, env, os.Stdin); err != nil {
		logger.Error(fmt.Sprintf("writing response: %v", err), err)
	}
}
