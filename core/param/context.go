package param

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/openswad/swad/core"
)

// Options bound the resources a single request may use.
type Options struct {
	MaxFileSize int64
	SpoolDir    string
}

func OptionsFromConfig(conf *core.Config) Options {
	return Options{
		MaxFileSize: conf.Params.MaxFileSize,
		SpoolDir:    conf.Params.SpoolDir,
	}
}

// RequestContext owns everything read from one request: the byte store,
// the records pointing into it and the transport they came from.
// It is not safe for concurrent use.
type RequestContext struct {
	transport Transport
	env       Environment

	store   store
	spool   *spool    // set for multipart bodies
	body    io.Reader // untouched body of web service calls
	records []record
	names   []string // decoded record names, same index as records

	closed bool
}

// NewRequestContext reads the request parameters described by env from body.
// body is only read for non-GET requests. On error nothing is left to clean up.
func NewRequestContext(env Environment, body io.Reader, opts Options) (*RequestContext, error) {
	rc := &RequestContext{
		transport: env.Transport(),
		env:       env,
	}

	switch rc.transport {
	case TransportGET:
		buf := []byte(env.QueryString)
		rc.store = bytes.NewReader(buf)
		rc.records = parseQuery(buf)

	case TransportWebService:
		rc.body = body
		rc.store = bytes.NewReader(nil)

	case TransportMultipart:
		n, err := rc.declaredLength(opts)
		if err != nil {
			return nil, err
		}
		boundary, err := env.boundary()
		if err != nil {
			return nil, err
		}
		if rc.spool, err = newSpool(opts.SpoolDir, body, n); err != nil {
			return nil, err
		}
		rc.store = rc.spool
		if rc.records, err = parseMultipart(rc.spool, boundary); err != nil {
			_ = rc.spool.remove()
			return nil, err
		}

	default:
		n, err := rc.declaredLength(opts)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if read, err := io.ReadFull(body, buf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, newError(KindShortRead, "body ended after %d of %d bytes", read, n)
			}
			return nil, errors.Wrap(err, "reading request body")
		}
		rc.store = bytes.NewReader(buf)
		rc.records = parseQuery(buf)
	}

	if err := rc.loadNames(); err != nil {
		_ = rc.Close()
		return nil, err
	}
	return rc, nil
}

func (rc *RequestContext) declaredLength(opts Options) (int64, error) {
	n, err := rc.env.contentLength()
	if err != nil {
		return 0, err
	}
	if opts.MaxFileSize > 0 && n > opts.MaxFileSize {
		return 0, newError(KindTooLarge, "body of %d bytes exceeds the limit of %d bytes", n, opts.MaxFileSize)
	}
	return n, nil
}

func (rc *RequestContext) loadNames() error {
	rc.names = make([]string, len(rc.records))
	for i, rec := range rc.records {
		raw, err := rc.read(rec.name)
		if err != nil {
			return err
		}
		if rc.urlEncoded() {
			raw = unescape(raw)
		}
		rc.names[i] = string(raw)
	}
	return nil
}

// read copies the bytes of s out of the store.
func (rc *RequestContext) read(s span) ([]byte, error) {
	if s.isEmpty() {
		return []byte{}, nil
	}
	buf := make([]byte, s.size())
	n, err := rc.store.ReadAt(buf, s.from)
	if n == len(buf) {
		return buf, nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return nil, errors.Wrap(err, "reading request store")
}

func (rc *RequestContext) urlEncoded() bool {
	return rc.transport == TransportGET || rc.transport == TransportURLEncoded
}

func (rc *RequestContext) Transport() Transport     { return rc.transport }
func (rc *RequestContext) Environment() Environment { return rc.env }

// Body returns the unread body of a web service call, nil otherwise.
func (rc *RequestContext) Body() io.Reader { return rc.body }

// Len returns the number of records, duplicates included.
func (rc *RequestContext) Len() int { return len(rc.records) }

// Params describes every record in encounter order.
func (rc *RequestContext) Params() ([]Info, error) {
	infos := make([]Info, 0, len(rc.records))
	for i, rec := range rc.records {
		info := Info{Name: rc.names[i], Size: rec.value.size(), IsFile: rec.isFile}
		if rec.isFile {
			fn, err := rc.read(rec.fileName)
			if err != nil {
				return nil, err
			}
			ct, err := rc.read(rec.contentType)
			if err != nil {
				return nil, err
			}
			info.FileName, info.ContentType = string(fn), string(ct)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Close releases the store. The spool file of a multipart body is removed.
func (rc *RequestContext) Close() error {
	if rc.closed {
		return nil
	}
	rc.closed = true
	rc.records, rc.names = nil, nil
	if rc.spool != nil {
		return rc.spool.remove()
	}
	return nil
}
