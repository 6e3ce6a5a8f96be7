package param

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		pairs []Pair
		want  string
	}{
		{"no pairs", "/swad", nil, "/swad"},
		{"ordered", "/swad", []Pair{{"act", "1"}, {"ses", "s1"}, {"crs", "9"}}, "/swad?act=1&ses=s1&crs=9"},
		{"base with query", "/swad?lang=es", []Pair{{"act", "1"}}, "/swad?lang=es&act=1"},
		{"escaped", "", []Pair{{"agd", "@a b&c"}}, "?agd=%40a+b%26c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Link(tt.base, tt.pairs...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLink_notLinkable(t *testing.T) {
	_, err := Link("/swad", Pair{"act", "1"}, Pair{"Order", "2"})
	require.Error(t, err)
	assert.Equal(t, ErrNotLinkable, errors.Cause(err))
	assert.Contains(t, err.Error(), "Order")
}

func TestMainLink(t *testing.T) {
	mp := MainParams{Session: "abc", Country: 34, Institution: -1, Centre: -1, Degree: 5, Course: -1}
	got, err := MainLink("/swad", 77, mp)
	require.NoError(t, err)
	assert.Equal(t, "/swad?act=77&ses=abc&cty=34&deg=5", got)

	// the link reads back through a GET request
	rc := newGET(t, got[len("/swad?"):])
	back, err := GetMainParams(rc)
	require.NoError(t, err)
	assert.Equal(t, int64(77), back.Action)
	assert.Equal(t, mp.Session, back.Session)
	assert.Equal(t, mp.Country, back.Country)
	assert.Equal(t, mp.Degree, back.Degree)
}
