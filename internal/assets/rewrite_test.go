package assets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapping(m map[string]string) ResolveFunc {
	return func(remote string) (string, error) {
		if local, ok := m[remote]; ok {
			return local, nil
		}
		return remote, nil
	}
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://x.test/a.png"))
	assert.True(t, IsRemote("HTTP://x.test/a.png"))
	assert.False(t, IsRemote("/assets/a.png"))
	assert.False(t, IsRemote("data:image/png;base64,AAAA"))
	assert.False(t, IsRemote("//x.test/a.png"))
}

func TestRewriteHTML_ReplacesRemoteSources(t *testing.T) {
	doc := `<p><img alt="a" src="https://x.test/a.png"> <img SRC = 'https://x.test/b.png' width=3></p>`
	out, changed, err := RewriteHTML(doc, mapping(map[string]string{
		"https://x.test/a.png": "/assets/images/issues/s/a.png",
		"https://x.test/b.png": "/assets/images/issues/s/b.png",
	}))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, `<p><img alt="a" src="/assets/images/issues/s/a.png"> <img src='/assets/images/issues/s/b.png' width=3></p>`, out)
}

func TestRewriteHTML_LeavesOtherBytesAlone(t *testing.T) {
	doc := "<div>\n  <img src=\"/local.png\">\n  <script src=\"https://cdn.test/x.js\"></script>\n</div>"
	out, changed, err := RewriteHTML(doc, mapping(nil))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, doc, out)
}

func TestRewriteHTML_DecodesEntities(t *testing.T) {
	var seen []string
	doc := `<img src="https://x.test/a.png?w=1&amp;h=2">`
	out, changed, err := RewriteHTML(doc, func(remote string) (string, error) {
		seen = append(seen, remote)
		return "/img/a&b.png", nil
	})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"https://x.test/a.png?w=1&h=2"}, seen)
	assert.Equal(t, `<img src="/img/a&amp;b.png">`, out)
}

func TestRewriteHTML_ResolverKeepsRemote(t *testing.T) {
	doc := `<img src = "https://x.test/fail.png">`
	out, changed, err := RewriteHTML(doc, mapping(nil))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, doc, out)
}

func TestRewriteHTML_ResolverError(t *testing.T) {
	boom := errors.New("boom")
	doc := `<img src="https://x.test/a.png">`
	out, changed, err := RewriteHTML(doc, func(string) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, changed)
	assert.Equal(t, doc, out)
}

func TestRewriteHTML_NoSources(t *testing.T) {
	out, changed, err := RewriteHTML("<p>plain</p>", mapping(nil))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "<p>plain</p>", out)
}
