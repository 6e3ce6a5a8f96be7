package inmemdb

import (
	"sync"

	"github.com/openswad/swad/core/session"
)

type sessionTable struct {
	mutex sync.RWMutex
	table map[string]*session.Session
}

// DB keeps every table in memory. It is meant for tests and single-process runs.
type DB struct {
	session *sessionTable
}

func NewDB() *DB {
	return &DB{
		session: &sessionTable{table: make(map[string]*session.Session)},
	}
}
