package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContext_Int64(t *testing.T) {
	tests := []struct {
		body string
		want int64
	}{
		{"n=42", 42},
		{"n=+7", 7},
		{"n=%2042%20", 42},
		{"n=0", 0},
		{"n=101", -5},
		{"n=-11", -5},
		{"n=abc", -5},
		{"n=", -5},
		{"x=1", -5},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			got, err := urlEncoded(t, tt.body).Int64("n", -10, 100, -5)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequestContext_Code(t *testing.T) {
	rc := urlEncoded(t, "a=12&b=0&c=-3&d=9223372036854775807&e=9223372036854775808")
	for name, want := range map[string]int64{
		"a": 12,
		"b": -1,
		"c": -1,
		"d": 9223372036854775807,
		"e": -1,
		"z": -1,
	} {
		got, err := rc.Code(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := urlEncoded(t, "a=123456789012345678901").Code("a")
	assert.True(t, IsKind(err, KindBufferTooSmall))
}

func TestRequestContext_Bool(t *testing.T) {
	rc := urlEncoded(t, "a=Y&b=y&c=N&d=")
	for name, want := range map[string]bool{"a": true, "b": true, "c": false, "d": false, "e": false} {
		got, err := rc.Bool(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestRequestContext_HTML(t *testing.T) {
	rc := urlEncoded(t, "t=%3Cb%3E%22Tom%22+%26+Jerry%3C%2Fb%3E")
	got, err := rc.HTML("t", 100)
	require.NoError(t, err)
	assert.Equal(t, "&lt;b&gt;&#34;Tom&#34; &amp; Jerry&lt;/b&gt;", got)
}

func TestRequestContext_ValuesAndCodes(t *testing.T) {
	rc := urlEncoded(t, "u=3&u=x&u=0&u=17&u=")

	values, err := rc.Values("u", 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "x", "0", "17", ""}, values)

	codes, err := rc.Codes("u", 100)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 17}, codes)

	values, err = rc.Values("missing", 100)
	require.NoError(t, err)
	assert.Nil(t, values)
}

func TestNextValue(t *testing.T) {
	s := JoinValues("alpha", "", "gam\x1fma")
	assert.Equal(t, "alpha\x1f\x1fgamma", s)

	v, rest := NextValue(s, 3)
	assert.Equal(t, "alp", v)
	v, rest = NextValue(rest, 10)
	assert.Equal(t, "", v)
	v, rest = NextValue(rest, 10)
	assert.Equal(t, "gamma", v)
	assert.Equal(t, "", rest)

	v, rest = NextValue("", 10)
	assert.Equal(t, "", v)
	assert.Equal(t, "", rest)
}
