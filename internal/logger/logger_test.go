package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, parseLevel("warning"))
	assert.Equal(t, logrus.ErrorLevel, parseLevel("err"))
	assert.Equal(t, logrus.InfoLevel, parseLevel("bogus"))
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pickr.log")
	closer, err := Init(Config{LogLevel: "debug", LogFilePath: path})
	require.NoError(t, err)

	Debugf("hello %s", "file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestWith_AddsComponent(t *testing.T) {
	_, err := Init(NewConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	SetOutput(&buf)
	With("registry").Warn("dropped")
	assert.Contains(t, buf.String(), "component=registry")
	assert.Contains(t, buf.String(), "dropped")
}
