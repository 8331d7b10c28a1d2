package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugfRespectsVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})

	SetVerbose(false)
	Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debugf("shown %d", 2)
	assert.Contains(t, buf.String(), "[debug] shown 2")
}

func TestSetupWritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "windwall.log")
	closer, err := Setup(Options{File: file})
	require.NoError(t, err)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	Printf("[info test] %s", "hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[info test] hello")
}
