package param

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

const (
	dispositionPrefix = `Content-Disposition: form-data; name="`
	fileNamePrefix    = ` filename="`
	contentTypePrefix = `Content-Type: `
)

// delimiter finds a fixed byte pattern in a stream (Knuth-Morris-Pratt).
type delimiter struct {
	pat  []byte
	fail []int
	j    int
}

func newDelimiter(pat string) *delimiter {
	d := &delimiter{pat: []byte(pat), fail: make([]int, len(pat))}
	for i, k := 1, 0; i < len(d.pat); i++ {
		for k > 0 && d.pat[i] != d.pat[k] {
			k = d.fail[k-1]
		}
		if d.pat[i] == d.pat[k] {
			k++
		}
		d.fail[i] = k
	}
	return d
}

// feed reports whether b completes the pattern.
func (d *delimiter) feed(b byte) bool {
	for d.j > 0 && b != d.pat[d.j] {
		d.j = d.fail[d.j-1]
	}
	if b == d.pat[d.j] {
		d.j++
	}
	if d.j == len(d.pat) {
		d.j = 0
		return true
	}
	return false
}

// multipartParser walks a spooled multipart/form-data body, recording the
// absolute offsets of names, file names, content types and values.
type multipartParser struct {
	br  *bufio.Reader
	off int64 // offset of the next byte to read

	first *delimiter // --boundary
	next  *delimiter // \r\n--boundary
}

func parseMultipart(r io.Reader, boundary string) ([]record, error) {
	p := &multipartParser{
		br:    bufio.NewReaderSize(r, 64<<10),
		first: newDelimiter("--" + boundary),
		next:  newDelimiter("\r\n--" + boundary),
	}
	return p.parse()
}

func (p *multipartParser) parse() ([]record, error) {
	// the first delimiter has no leading CRLF, anything before it is preamble
	if _, err := p.skipPast(p.first); err != nil {
		return nil, err
	}

	var records []record
	for {
		// right after a delimiter: "--" closes the body, CRLF opens a part
		b1, err := p.readByte()
		if err == io.EOF {
			return records, nil
		} else if err != nil {
			return nil, err
		}
		b2, err := p.readByte()
		if err != nil {
			return nil, p.unexpected(err, "after boundary")
		}
		if b1 == '-' && b2 == '-' {
			return records, nil
		}
		if b1 != '\r' || b2 != '\n' {
			return nil, malformed(p.off-2, "expected CRLF after boundary, got %q", []byte{b1, b2})
		}

		rec, err := p.readPartHeader()
		if err != nil {
			return nil, err
		}

		rec.value.from = p.off
		end, err := p.skipPast(p.next)
		if err != nil {
			return nil, err
		}
		rec.value.edge = end
		records = append(records, rec)
	}
}

// readPartHeader reads from the Content-Disposition line to the blank line
// that separates the part header from its content.
func (p *multipartParser) readPartHeader() (record, error) {
	var rec record
	if err := p.expect(dispositionPrefix, true); err != nil {
		return rec, err
	}
	var err error
	if rec.name, err = p.readQuoted(); err != nil {
		return rec, err
	}

	b, err := p.readByte()
	if err != nil {
		return rec, p.unexpected(err, "after field name")
	}
	switch b {
	case ';':
		rec.isFile = true
		if err = p.expect(fileNamePrefix, true); err != nil {
			return rec, err
		}
		if rec.fileName, err = p.readQuoted(); err != nil {
			return rec, err
		}
		if err = p.expectCRLF(); err != nil {
			return rec, err
		}
		// optional Content-Type line
		next, err := p.br.Peek(1)
		if err != nil {
			return rec, p.unexpected(err, "in file part header")
		}
		if next[0] != '\r' {
			if err = p.expect(contentTypePrefix, true); err != nil {
				return rec, err
			}
			if rec.contentType, err = p.readLine(); err != nil {
				return rec, err
			}
		}
	case '\r':
		if err = p.expectByte('\n'); err != nil {
			return rec, err
		}
	default:
		return rec, malformed(p.off-1, "unexpected %q after field name", b)
	}
	// blank line
	if err = p.expectCRLF(); err != nil {
		return rec, err
	}
	return rec, nil
}

func (p *multipartParser) readByte() (byte, error) {
	b, err := p.br.ReadByte()
	if err != nil {
		return 0, err
	}
	p.off++
	return b, nil
}

// skipPast consumes bytes until d is found and returns the offset where it starts.
func (p *multipartParser) skipPast(d *delimiter) (int64, error) {
	for {
		b, err := p.readByte()
		if err == io.EOF {
			return 0, &Error{Kind: KindBoundaryNotFound, Offset: p.off, Msg: "multipart boundary not found"}
		} else if err != nil {
			return 0, errors.Wrap(err, "reading spooled body")
		}
		if d.feed(b) {
			return p.off - int64(len(d.pat)), nil
		}
	}
}

// expect consumes lit, optionally ignoring ASCII case.
func (p *multipartParser) expect(lit string, fold bool) error {
	for i := 0; i < len(lit); i++ {
		b, err := p.readByte()
		if err != nil {
			return p.unexpected(err, "reading "+lit)
		}
		want := lit[i]
		if fold {
			b, want = lower(b), lower(want)
		}
		if b != want {
			return malformed(p.off-1, "expected %q", lit)
		}
	}
	return nil
}

func (p *multipartParser) expectByte(want byte) error {
	b, err := p.readByte()
	if err != nil {
		return p.unexpected(err, "")
	}
	if b != want {
		return malformed(p.off-1, "expected %q, got %q", want, b)
	}
	return nil
}

func (p *multipartParser) expectCRLF() error {
	if err := p.expectByte('\r'); err != nil {
		return err
	}
	return p.expectByte('\n')
}

// readQuoted reads up to the closing quote, which is consumed but not included.
func (p *multipartParser) readQuoted() (span, error) {
	s := span{from: p.off}
	for {
		b, err := p.readByte()
		if err != nil {
			return s, p.unexpected(err, "in quoted string")
		}
		switch b {
		case '"':
			s.edge = p.off - 1
			return s, nil
		case '\r', '\n':
			return s, malformed(p.off-1, "line break in quoted string")
		}
	}
}

// readLine reads up to CRLF, which is consumed but not included.
func (p *multipartParser) readLine() (span, error) {
	s := span{from: p.off}
	for {
		b, err := p.readByte()
		if err != nil {
			return s, p.unexpected(err, "in header line")
		}
		if b == '\r' {
			s.edge = p.off - 1
			return s, p.expectByte('\n')
		}
	}
}

func (p *multipartParser) unexpected(err error, where string) error {
	if err == io.EOF {
		if where == "" {
			return malformed(p.off, "unexpected end of body")
		}
		return malformed(p.off, "unexpected end of body %s", where)
	}
	return errors.Wrap(err, "reading spooled body")
}

func lower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
