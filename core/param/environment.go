package param

import (
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Transport tells where and how the request parameters were sent.
type Transport uint8

const (
	TransportGET        Transport = iota + 1 // query string
	TransportURLEncoded                      // any non-GET body that is neither multipart nor XML
	TransportMultipart                       // multipart/form-data body, spooled
	TransportWebService                      // text/xml body, parsed elsewhere
)

var transportNames = map[Transport]string{
	TransportGET:        "get",
	TransportURLEncoded: "urlencoded",
	TransportMultipart:  "multipart",
	TransportWebService: "webservice",
}

func (t Transport) String() string {
	if s, ok := transportNames[t]; ok {
		return s
	}
	return "unknown"
}

const (
	mimeMultipart = "multipart/form-data"
	mimeXML       = "text/xml"
)

// Environment holds the CGI variables a request is read from.
type Environment struct {
	Method        string `env:"REQUEST_METHOD"`
	ContentLength string `env:"CONTENT_LENGTH"`
	ContentType   string `env:"CONTENT_TYPE"`
	QueryString   string `env:"QUERY_STRING"`
	RemoteAddr    string `env:"REMOTE_ADDR"`
}

// EnvironmentFromOS reads the CGI variables set by the web server.
func EnvironmentFromOS() (Environment, error) {
	var e Environment
	if err := env.Parse(&e); err != nil {
		return Environment{}, errors.Wrap(err, "parsing CGI environment")
	}
	return e, nil
}

// EnvironmentFromMap reads the CGI variables from vars instead of the process environment.
func EnvironmentFromMap(vars map[string]string) (Environment, error) {
	var e Environment
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return Environment{}, errors.Wrap(err, "parsing CGI environment")
	}
	return e, nil
}

// EnvironmentFromRequest maps an HTTP request onto the CGI variables.
func EnvironmentFromRequest(r *http.Request) Environment {
	e := Environment{
		Method:      r.Method,
		ContentType: r.Header.Get("Content-Type"),
		QueryString: r.URL.RawQuery,
		RemoteAddr:  r.RemoteAddr,
	}
	if r.ContentLength >= 0 {
		e.ContentLength = strconv.FormatInt(r.ContentLength, 10)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		e.RemoteAddr = host
	}
	return e
}

// Transport tells how the parameters of the request are sent.
func (e Environment) Transport() Transport {
	if e.Method == http.MethodGet {
		return TransportGET
	}
	ct := strings.ToLower(e.ContentType)
	switch {
	case strings.HasPrefix(ct, mimeMultipart):
		return TransportMultipart
	case strings.HasPrefix(ct, mimeXML):
		return TransportWebService
	default:
		return TransportURLEncoded
	}
}

// contentLength returns the declared body length of a non-GET request.
func (e Environment) contentLength() (int64, error) {
	s := strings.TrimSpace(e.ContentLength)
	if s == "" {
		return 0, newError(KindContentLength, "missing content length")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, newError(KindContentLength, "invalid content length %q", e.ContentLength)
	}
	return n, nil
}

func (e Environment) boundary() (string, error) {
	_, params, err := mime.ParseMediaType(e.ContentType)
	if err != nil {
		return "", malformed(0, "content type %q: %v", e.ContentType, err)
	}
	b := params["boundary"]
	if b == "" {
		return "", malformed(0, "no boundary in content type %q", e.ContentType)
	}
	return b, nil
}
