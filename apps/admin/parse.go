package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/openswad/swad/core/param"
)

type parseOutput struct {
	Transport string       `json:"transport"`
	Params    []param.Info `json:"params"`
}

// parse reads a request captured as a file of CGI variables and a body file,
// then prints its parameters.
func (cli *commandLine) parse(envFile, bodyFile, name string) error {
	vars, err := godotenv.Read(envFile)
	if err != nil {
		return errors.Wrapf(err, "reading %s", envFile)
	}
	env, err := param.EnvironmentFromMap(vars)
	if err != nil {
		return err
	}

	var body io.Reader = strings.NewReader("")
	if bodyFile != "" {
		f, err := os.Open(bodyFile)
		if err != nil {
			return errors.Wrapf(err, "opening %s", bodyFile)
		}
		defer func() { _ = f.Close() }()
		body = f

		if env.ContentLength == "" {
			fi, err := f.Stat()
			if err != nil {
				return errors.Wrapf(err, "reading %s", bodyFile)
			}
			env.ContentLength = strconv.FormatInt(fi.Size(), 10)
		}
	}

	rc, err := param.NewRequestContext(env, body, param.OptionsFromConfig(cli.conf))
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	if name != "" {
		values, err := rc.Values(name, int(cli.conf.Params.MaxFileSize))
		if err != nil {
			return err
		}
		for _, v := range values {
			fmt.Fprintln(cli.out, v)
		}
		return nil
	}

	infos, err := rc.Params()
	if err != nil {
		return err
	}
	if !cli.isTerminal() {
		return json.NewEncoder(cli.out).Encode(parseOutput{Transport: rc.Transport().String(), Params: infos})
	}

	fmt.Fprintf(cli.out, "transport: %s\n\n", rc.Transport())
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tFILE NAME\tCONTENT TYPE")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", info.Name, info.Size, info.FileName, info.ContentType)
	}
	return w.Flush()
}
