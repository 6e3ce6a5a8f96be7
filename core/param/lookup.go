package param

import (
	"bytes"
	"strconv"
)

// Mode selects how many occurrences of a parameter a lookup returns.
type Mode uint8

const (
	Single   Mode = iota + 1 // first occurrence only
	Multiple                 // every occurrence, joined by Separator
)

// Separator joins the values of a multi-valued parameter. It is the ASCII
// unit separator; occurrences of it inside a value are dropped in Multiple
// mode, so a joined value always splits back into count values.
const Separator byte = 0x1F

// Get looks up parameter name.
//
// In Single mode the first occurrence is returned. In Multiple mode every
// occurrence is returned in encounter order, joined by Separator; a file part
// is counted but stops the accumulation, since file contents are never mixed
// with scalar values. Values longer than maxLen are a fatal KindBufferTooSmall
// error. A missing parameter is not an error: count is 0 and value empty.
//
// GET requests only expose the parameters allowed in links.
func (rc *RequestContext) Get(name string, maxLen int, mode Mode) (count int, value string, err error) {
	if rc.closed {
		return 0, "", ErrClosed
	}
	if rc.transport == TransportGET && !IsAllowedInGET(name) {
		return 0, "", nil
	}

	var buf []byte
	for i, rec := range rc.records {
		if rc.names[i] != name {
			continue
		}
		count++
		if rec.isFile {
			break
		}

		sep := 0
		if count > 1 {
			sep = 1
		}
		// decoding never makes a value longer, so the raw size is checked first
		if !rc.urlEncoded() && int64(len(buf)+sep)+rec.value.size() > int64(maxLen) {
			return count, "", rc.tooSmall(name, maxLen)
		}
		raw, err := rc.read(rec.value)
		if err != nil {
			return count, "", err
		}
		if rc.urlEncoded() {
			raw = unescape(raw)
		}
		if mode == Multiple {
			raw = stripSeparator(raw)
		}
		if len(buf)+sep+len(raw) > maxLen {
			return count, "", rc.tooSmall(name, maxLen)
		}
		if sep > 0 {
			buf = append(buf, Separator)
		}
		buf = append(buf, raw...)

		if mode != Multiple {
			break
		}
	}
	return count, string(buf), nil
}

func (rc *RequestContext) tooSmall(name string, maxLen int) error {
	return &Error{
		Kind:  KindBufferTooSmall,
		Param: name,
		Msg:   "value longer than " + strconv.Itoa(maxLen) + " bytes",
	}
}

// stripSeparator removes every Separator from b in place.
func stripSeparator(b []byte) []byte {
	if bytes.IndexByte(b, Separator) < 0 {
		return b
	}
	out := b[:0]
	for _, c := range b {
		if c != Separator {
			out = append(out, c)
		}
	}
	return out
}

// Has reports whether name was sent, under the same rules as Get.
func (rc *RequestContext) Has(name string) bool {
	if rc.closed || (rc.transport == TransportGET && !IsAllowedInGET(name)) {
		return false
	}
	for _, n := range rc.names {
		if n == name {
			return true
		}
	}
	return false
}

// unescape decodes a form-encoded value in place: '+' becomes a space and
// %XX its byte. Malformed escapes are kept as they are.
func unescape(b []byte) []byte {
	out := b[:0]
	for i := 0; i < len(b); i++ {
		switch c := b[i]; c {
		case '+':
			out = append(out, ' ')
		case '%':
			if i+2 < len(b) {
				hi, ok1 := unhex(b[i+1])
				lo, ok2 := unhex(b[i+2])
				if ok1 && ok2 {
					out = append(out, hi<<4|lo)
					i += 2
					continue
				}
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
