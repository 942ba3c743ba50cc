package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/datejust/internal/config"
	"github.com/taigrr/datejust/internal/logx"
	"github.com/taigrr/datejust/pkg/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestInspect(t *testing.T) {
	out, err := execute(t, "inspect", "--detail", "standard")
	require.NoError(t, err)
	assert.Contains(t, out, "Detail:")
	assert.Contains(t, out, "standard")
	assert.Contains(t, out, "bracelet")
	assert.Contains(t, out, "crystal")
}

func TestConfigFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "datejust.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lighting: natural\ndate: 7\n"), 0o644))

	saved := filepath.Join(dir, "out.yaml")
	_, err := execute(t, "config", saved, "--config", path, "--date", "12")
	require.NoError(t, err)

	c, err := config.Load(saved)
	require.NoError(t, err)
	assert.Equal(t, "natural", c.Lighting, "file value kept")
	assert.Equal(t, 12, c.Date, "flag wins over file")
}

func TestInvalidFlagIsRejected(t *testing.T) {
	_, err := execute(t, "config", "--environment", "150")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = execute(t, "inspect", "--log-level", "chatty")
	assert.Error(t, err)
}

func TestExportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.glb")
	_, err := execute(t, "export", path, "--detail", "standard")
	require.NoError(t, err)

	mesh, err := models.LoadGLB(path)
	require.NoError(t, err)
	assert.Positive(t, mesh.TriangleCount())

	out, err := execute(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Triangles:")
	assert.Contains(t, out, "true", "the date disc keeps its label texture")
}

func TestSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.png")
	_, err := execute(t, "snapshot", path, "--detail", "standard", "--width", "32", "--height", "24")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = execute(t, "snapshot", path, "--width", "0")
	assert.Error(t, err)
}

func TestLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "datejust.log")
	_, err := execute(t, "export", filepath.Join(dir, "w.glb"), "--detail", "standard", "--log", logPath)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "exported")
}

func TestControlsHelpListsBindings(t *testing.T) {
	help := controlsHelp()
	assert.Contains(t, help, "toggle exploded view")
	assert.Contains(t, help, "orbit the camera")
}

func TestLiveSettingsFromConfig(t *testing.T) {
	c := config.Default()
	c.Lighting = "jewelry"
	c.Camera = "case"
	c.HUD = true
	l := liveSettings(c)
	assert.Equal(t, "jewelry", l.Lighting)
	assert.Equal(t, "case", l.Camera)
	assert.InDelta(t, c.Environment, l.Environment, 0)
	assert.True(t, l.HUD)
	assert.False(t, l.Wireframe)
}

// fakeScreen records the teardown calls made on the terminal.
type fakeScreen struct {
	calls []string
	err   error
}

func (f *fakeScreen) ExitAltScreen() { f.calls = append(f.calls, "exit-alt") }
func (f *fakeScreen) ShowCursor()    { f.calls = append(f.calls, "show-cursor") }

func (f *fakeScreen) Shutdown(context.Context) error {
	f.calls = append(f.calls, "shutdown")
	return f.err
}

func TestRestoreTerminal(t *testing.T) {
	var logs, out bytes.Buffer
	a := &app{log: logx.New(&logs, slog.LevelInfo)}
	term := &fakeScreen{err: errors.New("tty gone")}

	a.restoreTerminal(&out, term)
	assert.Equal(t, []string{"exit-alt", "show-cursor", "shutdown"}, term.calls)
	assert.Contains(t, out.String(), ansi.ResetModeMouseAnyEvent)
	assert.Contains(t, out.String(), ansi.ResetModeMouseExtSgr)
	assert.Contains(t, logs.String(), "tty gone")
}
