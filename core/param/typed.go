package param

import (
	"bytes"
	"html"
	"strconv"
	"strings"
)

// Text returns the decoded value of the first occurrence of name.
func (rc *RequestContext) Text(name string, maxLen int) (string, error) {
	_, v, err := rc.Get(name, maxLen, Single)
	return v, err
}

// HTML returns the value of name, escaped for inclusion in a page.
func (rc *RequestContext) HTML(name string, maxLen int) (string, error) {
	v, err := rc.Text(name, maxLen)
	if err != nil {
		return "", err
	}
	return html.EscapeString(v), nil
}

// maxDigits is enough for any int64, sign included.
const maxDigits = 20

// Int64 returns the value of name as a number in [min, max], or def when it
// is missing, not a number or out of range.
func (rc *RequestContext) Int64(name string, min, max, def int64) (int64, error) {
	v, err := rc.Text(name, maxDigits)
	if err != nil {
		return def, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < min || n > max {
		return def, nil
	}
	return n, nil
}

// Code returns the database code in name, or -1 when there is no valid one.
func (rc *RequestContext) Code(name string) (int64, error) {
	return rc.Int64(name, 1, 1<<63-1, -1)
}

// Bool returns true when name is "Y".
func (rc *RequestContext) Bool(name string) (bool, error) {
	v, err := rc.Text(name, 1)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(v, "Y"), nil
}

// Values returns every value of a multi-valued parameter.
func (rc *RequestContext) Values(name string, maxLen int) ([]string, error) {
	n, v, err := rc.Get(name, maxLen, Multiple)
	if err != nil || n == 0 {
		return nil, err
	}
	return strings.Split(v, string(Separator)), nil
}

// Codes returns the valid database codes of a multi-valued parameter.
func (rc *RequestContext) Codes(name string, maxLen int) ([]int64, error) {
	values, err := rc.Values(name, maxLen)
	if err != nil {
		return nil, err
	}
	codes := make([]int64, 0, len(values))
	for _, v := range values {
		if c, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && c > 0 {
			codes = append(codes, c)
		}
	}
	return codes, nil
}

// NextValue splits the first value off a multi-valued string, keeping at most
// maxLen bytes of it, and returns it together with the remainder.
func NextValue(s string, maxLen int) (value, rest string) {
	if i := strings.IndexByte(s, Separator); i >= 0 {
		value, rest = s[:i], s[i+1:]
	} else {
		value = s
	}
	if maxLen >= 0 && len(value) > maxLen {
		value = value[:maxLen]
	}
	return value, rest
}

// JoinValues is the inverse of Values. Separators inside a value are dropped.
func JoinValues(values ...string) string {
	var b bytes.Buffer
	for i, v := range values {
		if i > 0 {
			b.WriteByte(Separator)
		}
		b.Write(stripSeparator([]byte(v)))
	}
	return b.String()
}

func formatCode(c int64) string { return strconv.FormatInt(c, 10) }
