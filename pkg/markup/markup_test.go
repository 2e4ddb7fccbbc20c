package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	out, err := ToHTML("# Title\n\nsome **bold** text")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestToMarkdown(t *testing.T) {
	out, err := ToMarkdown("<p>Use <strong>low</strong> weight</p><ul><li>one</li></ul>")
	require.NoError(t, err)
	assert.Contains(t, out, "**low**")
	assert.Contains(t, out, "- one")
}

func TestHTMLRoundTripKeepsText(t *testing.T) {
	htmlText, err := ToHTML("Hello *world*")
	require.NoError(t, err)
	back, err := ToMarkdown(htmlText)
	require.NoError(t, err)
	assert.Equal(t, "Hello _world_", strings.TrimSpace(back))
}

func TestStripTags(t *testing.T) {
	in := "<p>First  line</p>\n<p> second <b>bold</b> </p><script>var x = 1;</script><br/>"
	assert.Equal(t, "First  line\nsecond\nbold", StripTags(in))
	assert.Equal(t, "plain", StripTags("plain"))
	assert.Equal(t, "", StripTags(""))
}
