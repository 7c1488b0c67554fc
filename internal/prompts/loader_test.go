package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownPrompts(t *testing.T) {
	for _, key := range []string{"extract_job", "score_job", "tailor_resume", "parse_resume"} {
		prompt, err := Get("analyzer.json", key)
		require.NoError(t, err, "prompt %s should exist", key)
		assert.NotEmpty(t, prompt)
	}
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("analyzer.json", "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "extract_job")
	require.Error(t, err)
}

func TestFormat(t *testing.T) {
	result := Format("Hello {{.Name}}, you applied to {{.Company}}.", map[string]string{
		"Name":    "Ada",
		"Company": "Acme",
	})
	assert.Equal(t, "Hello Ada, you applied to Acme.", result)
}

func TestFormat_MissingPlaceholderLeftIntact(t *testing.T) {
	result := Format("Hello {{.Name}}", map[string]string{"Other": "x"})
	assert.Equal(t, "Hello {{.Name}}", result)
}

func TestPromptsCarryPlaceholders(t *testing.T) {
	extract := MustGet("analyzer.json", "extract_job")
	assert.True(t, strings.Contains(extract, "{{.RawText}}"))

	score := MustGet("analyzer.json", "score_job")
	assert.True(t, strings.Contains(score, "{{.Profile}}"))
	assert.True(t, strings.Contains(score, "{{.Job}}"))
}
