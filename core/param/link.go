package param

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Pair is a parameter to put in a link.
type Pair struct {
	Name  string
	Value string
}

// Link appends pairs to base as a query string, in the given order.
// Only the parameters readable from GET requests can be linked.
func Link(base string, pairs ...Pair) (string, error) {
	var b strings.Builder
	b.WriteString(base)
	sep := byte('?')
	if strings.IndexByte(base, '?') >= 0 {
		sep = '&'
	}
	for _, p := range pairs {
		if !IsAllowedInGET(p.Name) {
			return "", errors.Wrap(ErrNotLinkable, p.Name)
		}
		b.WriteByte(sep)
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
		sep = '&'
	}
	return b.String(), nil
}

// MainLink links to action with the hierarchy and session of mp.
func MainLink(base string, action int64, mp MainParams) (string, error) {
	pairs := []Pair{{NameAction, formatCode(action)}}
	if mp.Session != "" {
		pairs = append(pairs, Pair{NameSession, mp.Session})
	}
	for _, c := range []struct {
		name string
		code int64
	}{
		{NameCountry, mp.Country},
		{NameInstitution, mp.Institution},
		{NameCentre, mp.Centre},
		{NameDegree, mp.Degree},
		{NameCourse, mp.Course},
	} {
		if c.code > 0 {
			pairs = append(pairs, Pair{c.name, formatCode(c.code)})
		}
	}
	return Link(base, pairs...)
}
