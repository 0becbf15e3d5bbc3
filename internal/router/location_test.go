package router

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	cases := map[string]string{
		"":                   "/",
		"/":                  "/",
		"/?q=ada":            "/?q=ada",
		"/?q=":               "/?q=",
		"contacts/1":         "/contacts/1",
		"/contacts/1/../2/":  "/contacts/2",
		"/?q=a+b&x=1":        "/?q=a+b&x=1",
		"/contacts/a%20b/ed": "/contacts/a%20b/ed",
	}
	for raw, want := range cases {
		l, err := Parse(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, l.String(), raw)
	}

	_, err := Parse("https://example.com/")
	require.Error(t, err)
}

func TestParamDistinguishesAbsentFromEmpty(t *testing.T) {
	v, ok := MustParse("/").Param("q")
	require.False(t, ok)
	require.Empty(t, v)

	v, ok = MustParse("/?q=").Param("q")
	require.True(t, ok)
	require.Empty(t, v)

	v, ok = MustParse("/?q=ada&q=bob").Param("q")
	require.True(t, ok)
	require.Equal(t, "ada", v)
}

func TestWithQueryCopies(t *testing.T) {
	form := url.Values{"q": {"ada"}}
	l := MustParse("/contacts/1").WithQuery(form)
	form.Set("q", "changed")
	require.Equal(t, "/contacts/1?q=ada", l.String())
	require.Equal(t, "/contacts/1", MustParse("/contacts/1?q=x").WithQuery(nil).String())
	require.True(t, MustParse("/?q=a").Equal(Location{Path: "/", Query: url.Values{"q": {"a"}}}))
}
