package param

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/openswad/swad/tests"
)

func urlEncoded(t *testing.T, body string) *RequestContext {
	return newPOST(t, "application/x-www-form-urlencoded", []byte(body))
}

func TestRequestContext_Get(t *testing.T) {
	tests := []struct {
		name      string
		rc        func(t *testing.T) *RequestContext
		param     string
		maxLen    int
		mode      Mode
		wantCount int
		wantValue string
	}{
		{
			name:      "single value",
			rc:        func(t *testing.T) *RequestContext { return urlEncoded(t, "key=value") },
			param:     "key",
			maxLen:    100,
			mode:      Single,
			wantCount: 1,
			wantValue: "value",
		},
		{
			name:      "multiple values in order",
			rc:        func(t *testing.T) *RequestContext { return urlEncoded(t, "k=v1&k=v2&k=v3") },
			param:     "k",
			maxLen:    100,
			mode:      Multiple,
			wantCount: 3,
			wantValue: "v1\x1fv2\x1fv3",
		},
		{
			name:      "single mode takes the first occurrence",
			rc:        func(t *testing.T) *RequestContext { return urlEncoded(t, "k=v1&k=v2&k=v3") },
			param:     "k",
			maxLen:    100,
			mode:      Single,
			wantCount: 1,
			wantValue: "v1",
		},
		{
			name:      "multiple with empty values",
			rc:        func(t *testing.T) *RequestContext { return urlEncoded(t, "k=&k=2&k=") },
			param:     "k",
			maxLen:    100,
			mode:      Multiple,
			wantCount: 3,
			wantValue: "\x1f2\x1f",
		},
		{
			name:      "multiple keeps newlines inside values",
			rc:        func(t *testing.T) *RequestContext { return urlEncoded(t, "Txt=line1%0D%0Aline2&Txt=other") },
			param:     "Txt",
			maxLen:    100,
			mode:      Multiple,
			wantCount: 2,
			wantValue: "line1\r\nline2\x1fother",
		},
		{
			name:      "multiple drops separators inside values",
			rc:        func(t *testing.T) *RequestContext { return urlEncoded(t, "k=a%1Fb&k=c") },
			param:     "k",
			maxLen:    100,
			mode:      Multiple,
			wantCount: 2,
			wantValue: "ab\x1fc",
		},
		{
			name:      "single keeps the value as sent",
			rc:        func(t *testing.T) *RequestContext { return urlEncoded(t, "k=a%1Fb") },
			param:     "k",
			maxLen:    100,
			mode:      Single,
			wantCount: 1,
			wantValue: "a\x1fb",
		},
		{
			name:      "missing",
			rc:        func(t *testing.T) *RequestContext { return urlEncoded(t, "a=1") },
			param:     "b",
			maxLen:    100,
			mode:      Single,
			wantCount: 0,
		},
		{
			name:      "names are exact",
			rc:        func(t *testing.T) *RequestContext { return urlEncoded(t, "Act=1&act =2") },
			param:     "act",
			maxLen:    100,
			mode:      Single,
			wantCount: 0,
		},
		{
			name:      "percent and plus are decoded",
			rc:        func(t *testing.T) *RequestContext { return urlEncoded(t, "q=a+b%26c%3Dd&n%61me=x") },
			param:     "q",
			maxLen:    100,
			mode:      Single,
			wantCount: 1,
			wantValue: "a b&c=d",
		},
		{
			name:      "encoded names are decoded",
			rc:        func(t *testing.T) *RequestContext { return urlEncoded(t, "q=1&n%61me=x") },
			param:     "name",
			maxLen:    100,
			mode:      Single,
			wantCount: 1,
			wantValue: "x",
		},
		{
			name:      "bad escapes are kept",
			rc:        func(t *testing.T) *RequestContext { return urlEncoded(t, "q=100%25%zz%4") },
			param:     "q",
			maxLen:    100,
			mode:      Single,
			wantCount: 1,
			wantValue: "100%%zz%4",
		},
		{
			name:      "decoded length is what counts",
			rc:        func(t *testing.T) *RequestContext { return urlEncoded(t, "q=%41%42%43") },
			param:     "q",
			maxLen:    3,
			mode:      Single,
			wantCount: 1,
			wantValue: "ABC",
		},
		{
			name:      "GET returns allowed names",
			rc:        func(t *testing.T) *RequestContext { return newGET(t, "Order=1&cty=34") },
			param:     "cty",
			maxLen:    10,
			mode:      Single,
			wantCount: 1,
			wantValue: "34",
		},
		{
			name:      "GET hides other names",
			rc:        func(t *testing.T) *RequestContext { return newGET(t, "Order=1&cty=34") },
			param:     "Order",
			maxLen:    10,
			mode:      Single,
			wantCount: 0,
		},
		{
			name:      "GET hides injected parameters",
			rc:        func(t *testing.T) *RequestContext { return newGET(t, "evil=1") },
			param:     "evil",
			maxLen:    10,
			mode:      Multiple,
			wantCount: 0,
		},
		{
			name:      "POST exposes any name",
			rc:        func(t *testing.T) *RequestContext { return urlEncoded(t, "Order=1&cty=34") },
			param:     "Order",
			maxLen:    10,
			mode:      Single,
			wantCount: 1,
			wantValue: "1",
		},
		{
			name: "multipart text is not decoded",
			rc: func(t *testing.T) *RequestContext {
				return newMultipart(t, testutil.Field("q", "a+b%20"))
			},
			param:     "q",
			maxLen:    10,
			mode:      Single,
			wantCount: 1,
			wantValue: "a+b%20",
		},
		{
			name: "multipart multiple values",
			rc: func(t *testing.T) *RequestContext {
				return newMultipart(t, testutil.Field("UsrCod", "1"), testutil.Field("x", "y"), testutil.Field("UsrCod", "22"))
			},
			param:     "UsrCod",
			maxLen:    10,
			mode:      Multiple,
			wantCount: 2,
			wantValue: "1\x1f22",
		},
		{
			name: "multipart file stops accumulation",
			rc: func(t *testing.T) *RequestContext {
				return newMultipart(t,
					testutil.Field("Doc", "first"),
					testutil.File("Doc", "a.txt", "text/plain", "content"),
					testutil.Field("Doc", "third"),
				)
			},
			param:     "Doc",
			maxLen:    100,
			mode:      Multiple,
			wantCount: 2,
			wantValue: "first",
		},
		{
			name: "multipart file alone",
			rc: func(t *testing.T) *RequestContext {
				return newMultipart(t, testutil.File("Doc", "a.txt", "text/plain", "content"))
			},
			param:     "Doc",
			maxLen:    100,
			mode:      Single,
			wantCount: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := tt.rc(t)
			n, v, err := rc.Get(tt.param, tt.maxLen, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, n)
			assert.Equal(t, tt.wantValue, v)
			assert.Equal(t, tt.wantCount > 0, rc.Has(tt.param))
		})
	}
}

func TestRequestContext_Get_neverJoinsWithComma(t *testing.T) {
	rc := urlEncoded(t, "k=a,b&k=c")
	_, v, err := rc.Get("k", 100, Multiple)
	require.NoError(t, err)
	assert.Equal(t, []string{"a,b", "c"}, strings.Split(v, string(Separator)))
}

func TestRequestContext_Values_matchCount(t *testing.T) {
	for _, rc := range []*RequestContext{
		urlEncoded(t, "Txt=line1%0Aline2&Txt=other&Txt=%1F"),
		newMultipart(t, testutil.Field("Txt", "line1\r\nline2"), testutil.Field("Txt", "other"), testutil.Field("Txt", "\x1f")),
	} {
		n, _, err := rc.Get("Txt", 100, Multiple)
		require.NoError(t, err)
		values, err := rc.Values("Txt", 100)
		require.NoError(t, err)
		assert.Len(t, values, n)
		assert.Equal(t, "other", values[1])
		assert.Equal(t, "", values[2])
	}
}

func TestRequestContext_Get_bufferTooSmall(t *testing.T) {
	tests := []struct {
		name   string
		rc     func(t *testing.T) *RequestContext
		maxLen int
		mode   Mode
	}{
		{
			name:   "single",
			rc:     func(t *testing.T) *RequestContext { return urlEncoded(t, "k=abcd") },
			maxLen: 3,
			mode:   Single,
		},
		{
			name:   "separators count",
			rc:     func(t *testing.T) *RequestContext { return urlEncoded(t, "k=ab&k=cd") },
			maxLen: 4,
			mode:   Multiple,
		},
		{
			name: "multipart",
			rc: func(t *testing.T) *RequestContext {
				return newMultipart(t, testutil.Field("k", strings.Repeat("x", 65)))
			},
			maxLen: 64,
			mode:   Single,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.rc(t).Get("k", tt.maxLen, tt.mode)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindBufferTooSmall))
			assert.Contains(t, err.Error(), `param "k"`)
		})
	}
}

func Test_unescape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"a+b", "a b"},
		{"%41%62", "Ab"},
		{"%e2%82%AC", "€"},
		{"%", "%"},
		{"%4", "%4"},
		{"%G1", "%G1"},
		{"%%41", "%A"},
		{"%0A", "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, string(unescape([]byte(tt.in))))
		})
	}
}
