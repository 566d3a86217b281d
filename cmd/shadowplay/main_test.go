package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cfg := filepath.Join(t.TempDir(), "missing.yaml")
	cmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSimulateCommand(t *testing.T) {
	out, err := execute(t, "simulate", "--from", "-4", "--to", "4", "--steps", "5")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "x=  -4.00 shadow=on  regime=right")
	assert.Contains(t, lines[2], "x=   0.00 shadow=on  regime=within")
	assert.Contains(t, lines[4], "x=   4.00 shadow=off")
}

func TestSimulateCommandVertices(t *testing.T) {
	out, err := execute(t, "simulate", "--from", "-4", "--to", "-2", "--steps", "2", "--vertices")
	require.NoError(t, err)
	assert.Equal(t, 8, strings.Count(out, "    v"))
}

func TestSimulateCommandBadFlags(t *testing.T) {
	_, err := execute(t, "simulate", "--facing", "sideways")
	assert.Error(t, err)

	_, err = execute(t, "simulate", "--steps", "1")
	assert.Error(t, err)
}
