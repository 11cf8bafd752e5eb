package secret

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, pw := range []string{"", "cassandra", "p@ss w0rd!", "ünïcødé", "line\nbreak"} {
		got, err := Decode(Encode(pw))
		require.NoError(t, err)
		assert.Equal(t, pw, got)
	}
}

func TestEncodeStandardAlphabet(t *testing.T) {
	assert.Equal(t, "Y2Fzc2FuZHJh", Encode("cassandra"))
	assert.Equal(t, "Pz8/", Encode("???"))
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode("not base64!")
	assert.Error(t, err)
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	encoded, err := Prompt(strings.NewReader("cassandra\nignored\n"), &out)
	require.NoError(t, err)

	assert.Equal(t, "Y2Fzc2FuZHJh", encoded)
	assert.Equal(t, "Enter the password to encode: Your encoded password - Y2Fzc2FuZHJh\n", out.String())
}

func TestPromptWithoutTrailingNewline(t *testing.T) {
	var out bytes.Buffer
	encoded, err := Prompt(strings.NewReader("secret\r"), &out)
	require.NoError(t, err)
	assert.Equal(t, Encode("secret"), encoded)
}

func TestPromptEmptyInput(t *testing.T) {
	var out bytes.Buffer
	_, err := Prompt(strings.NewReader(""), &out)
	assert.Error(t, err)
}
