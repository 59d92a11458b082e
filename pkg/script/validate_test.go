package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	data := []byte(`
locale: en
conversations:
  - id: messy
    messages:
      - speaker: assistant
        at: 2000
        text: first
      - speaker: assistant
        at: 1000
        text: backwards
      - speaker: assistant
        at: "later"
        text: garbage offset
      - speaker: assistant
        at: 3000
        remove_document: ghost
      - speaker: assistant
        at: 3000
        document:
          id: real
          name: Real
      - speaker: assistant
        at: 3500
        remove_document: real
  - id: empty
    messages: []
`)

	report, err := Validate(data)
	require.NoError(t, err)
	assert.Equal(t, "en", report.Locale)
	assert.Equal(t, 2, report.Conversations)
	assert.Equal(t, 6, report.Messages)

	var got []string
	for _, issue := range report.Issues {
		got = append(got, issue.String())
	}
	assert.Equal(t, []string{
		"messy message 2: offset 1s is before the previous message (2s); it will be revealed late",
		"messy message 3: invalid offset clamped to 0",
		"messy message 3: offset 0s is before the previous message (1s); it will be revealed late",
		`messy message 4: removes document "ghost" which is not in the ledger`,
		"empty: no messages",
	}, got)
}

func TestValidateClean(t *testing.T) {
	report, err := Validate([]byte(`
locale: es
conversations:
  - messages:
      - speaker: user
        text: Hola
`))
	require.NoError(t, err)
	assert.Empty(t, report.Issues)
	assert.NotNil(t, report.Issues)
}

func TestValidateParseError(t *testing.T) {
	_, err := Validate([]byte("locale: en\nconversations:\n  - messages:\n      - speaker: robot\n"))
	assert.ErrorIs(t, err, ErrUnknownSpeaker)
}

func TestValidateBuiltinScripts(t *testing.T) {
	entries, err := builtinFS.ReadDir("builtin")
	require.NoError(t, err)

	for _, entry := range entries {
		t.Run(entry.Name(), func(t *testing.T) {
			data, err := builtinFS.ReadFile("builtin/" + entry.Name())
			require.NoError(t, err)
			report, err := Validate(data)
			require.NoError(t, err)
			assert.Empty(t, report.Issues)
		})
	}
}
