package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"frame-sketch/internal/engine/model"
	"frame-sketch/internal/engine/wire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cantilever = `[
	{"type": "support", "x": 0, "y": 0},
	{"type": "member", "x": 0, "y": 0, "x2": 1, "y2": 0},
	{"type": "load", "x": 1, "y": 0, "amount": 500},
	{"type": "arch"}
]`

func writeSketch(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sketch.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestModelCommand(t *testing.T) {
	out, err := run(t, "model", writeSketch(t, cantilever))
	require.NoError(t, err)

	var m model.Model
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, 2, m.NodeCount())
	require.Len(t, m.Loads, 1)
	assert.Equal(t, model.Load{Point: 2, Fy: -500}, m.Loads[0])
}

func TestUpgradeCommand(t *testing.T) {
	out, err := run(t, "upgrade", writeSketch(t, cantilever))
	require.NoError(t, err)

	var elements []wire.Element
	require.NoError(t, json.Unmarshal([]byte(out), &elements))
	require.Len(t, elements, 3)
	assert.Equal(t, "member", elements[1].Type)
	assert.Len(t, elements[1].Points, 2)
	assert.Nil(t, elements[1].X2)
}

func TestProjectCommand(t *testing.T) {
	out, err := run(t, "project", writeSketch(t, cantilever), "--view", "top", "--pan-x", "10")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "View: top (h=x, v=z)"), out)
	assert.Contains(t, out, "member #2")
	assert.Contains(t, out, "(1.000, 0.000, 0.000) -> (110.0, 0.0)")

	_, err = run(t, "project", writeSketch(t, cantilever), "--view", "iso")
	assert.Error(t, err)
}

func TestMissingFile(t *testing.T) {
	_, err := run(t, "model", filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
