package linkedin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPost_Bold(t *testing.T) {
	got := FormatPost("This is **important** news")

	assert.NotContains(t, got, "*")
	assert.Contains(t, got, "\U0001D5F6\U0001D5FA\U0001D5FD\U0001D5FC\U0001D5FF\U0001D601\U0001D5EE\U0001D5FB\U0001D601") // "important" in sans-serif bold
	assert.True(t, strings.HasPrefix(got, "This is "))
	assert.True(t, strings.HasSuffix(got, " news"))
}

func TestFormatPost_BoldDigits(t *testing.T) {
	got := FormatPost("**In 2024**")

	assert.NotContains(t, got, "*")
	assert.Contains(t, got, "\U0001D7EE\U0001D7EC\U0001D7EE\U0001D7F0") // 2024 in bold digits
}

func TestFormatPost_Italic(t *testing.T) {
	got := FormatPost("a *subtle* hint")

	assert.NotContains(t, got, "*")
	assert.Contains(t, got, "\U0001D634\U0001D636\U0001D623\U0001D635\U0001D62D\U0001D626") // "subtle" in sans-serif italic
}

func TestFormatPost_BoldItalic(t *testing.T) {
	got := FormatPost("***wow***")

	assert.NotContains(t, got, "*")
	assert.Equal(t, "\U0001D66C\U0001D664\U0001D66C", got) // "wow" in sans-serif bold italic
}

func TestFormatPost_UnderscoreVariants(t *testing.T) {
	assert.NotContains(t, FormatPost("__bold__"), "_")
	assert.NotContains(t, FormatPost("_italic_"), "_")
	assert.NotContains(t, FormatPost("___both___"), "_")
}

func TestFormatPost_Heading(t *testing.T) {
	got := FormatPost("# Big News\nbody text")

	assert.NotContains(t, got, "#")
	assert.Contains(t, got, "body text")
}

func TestFormatPost_SnakeCaseUntouched(t *testing.T) {
	got := FormatPost("call snake_case_name here")

	assert.Equal(t, "call snake_case_name here", got)
}

func TestFormatPost_MultipleSpansOnOneLine(t *testing.T) {
	got := FormatPost("*a* and *b*")

	assert.NotContains(t, got, "*")
	assert.Contains(t, got, " and ")
}

func TestFormatPost_Idempotent(t *testing.T) {
	inputs := []string{
		"This is **bold**, *italic* and ***both***.",
		"# Heading\n- bullet **point**\nplain line",
		"__under__ and _score_ variants with **digits 42**",
		"no formatting at all",
	}

	for _, input := range inputs {
		once := FormatPost(input)
		twice := FormatPost(once)
		assert.Equal(t, once, twice, "re-formatting must be a no-op for %q", input)
	}
}

func TestFormatPost_UnpairedDelimiterPassesThrough(t *testing.T) {
	assert.Equal(t, "a single * star", FormatPost("a single * star"))
	assert.Equal(t, "trailing *open", FormatPost("trailing *open"))
}
