package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, WarnLevel, ParseLevel("warn"))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
}

func TestConfigure(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: WarnLevel, Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true, Output: os.Stdout}) })

	Info().Msg("hidden")
	assert.Empty(t, buf.String())

	fieldLogger := WithFields(map[string]interface{}{"sheet": "books"})
	fieldLogger.Warn().Msg("row skipped")
	assert.Contains(t, buf.String(), `"sheet":"books"`)
	assert.Contains(t, buf.String(), `"app":"campusrecords"`)
	assert.Contains(t, buf.String(), `"message":"row skipped"`)
}
