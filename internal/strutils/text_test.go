package strutils_test

import (
	"strings"
	"testing"

	"github.com/Amund211/intralinks/internal/strutils"
	"github.com/stretchr/testify/require"
)

func TestTruncateEllipsis(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{
			name:     "within limit",
			input:    "Hello",
			limit:    10,
			expected: "Hello",
		},
		{
			name:     "exactly at limit",
			input:    "HelloWorld",
			limit:    10,
			expected: "HelloWorld",
		},
		{
			name:  "over limit",
			input: "Hello World Example",
			limit: 10,
			// limit-3 characters, trailing space trimmed, then the ellipsis
			expected: "Hello W" + strutils.ELLIPSIS,
		},
		{
			name:     "trailing space at the cut is trimmed",
			input:    "Hello World",
			limit:    9,
			expected: "Hello" + strutils.ELLIPSIS,
		},
		{
			name:     "limit zero disables truncation",
			input:    strings.Repeat("a", 500),
			limit:    0,
			expected: strings.Repeat("a", 500),
		},
		{
			name:     "multi-byte characters are not cut in half",
			input:    "ææææææææ",
			limit:    10,
			expected: "æææ" + strutils.ELLIPSIS,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, c.expected, strutils.TruncateEllipsis(c.input, c.limit))
		})
	}
}

func TestTrimWords(t *testing.T) {
	t.Parallel()

	t.Run("short content is returned whole", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "a few words", strutils.TrimWords("a few words", 10))
	})

	t.Run("long content is cut at the word count", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "one two"+strutils.ELLIPSIS, strutils.TrimWords("one two three four", 2))
	})

	t.Run("markup is removed", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "bold and plain", strutils.TrimWords("<p><b>bold</b> and plain</p>", 10))
	})
}

func TestStripTags(t *testing.T) {
	t.Parallel()

	require.Equal(t, "hello world", strutils.StripTags(`<a href="https://example.com">hello</a> world`))
	require.Equal(t, "no markup", strutils.StripTags("no markup"))
}
