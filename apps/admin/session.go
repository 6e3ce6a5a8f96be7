package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) openSession(userCode int64, role int) error {
	s, err := cli.sessionSvc.Open(context.Background(), userCode, role)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, s.ID)
	return nil
}

func (cli *commandLine) closeSession(id string) error {
	return cli.sessionSvc.Close(context.Background(), id)
}

func (cli *commandLine) purgeSessions() error {
	n, err := cli.sessionSvc.Purge(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d expired sessions deleted\n", n)
	return nil
}
