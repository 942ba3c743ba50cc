package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/datejust/pkg/parts"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "high", c.Detail)
	assert.Equal(t, 28, c.Date)
	assert.InDelta(t, 100, c.Environment, 0)
}

func TestLoadEmptyPathGivesDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadOverlaysDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datejust.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detail: standard\ndate: 3\ncamera: crown\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "standard", c.Detail)
	assert.Equal(t, 3, c.Date)
	assert.Equal(t, "crown", c.Camera)
	assert.Equal(t, "studio", c.Lighting, "unset fields keep defaults")
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field": "sparkle: true\n",
		"bad date":      "date: 32\n",
		"bad lighting":  "lighting: disco\n",
		"bad camera":    "camera: wrist\n",
		"bad env":       "environment: 120\n",
		"bad fps":       "fps: 0\n",
		"bad color":     "background: teal\n",
		"bad detail":    "detail: ultra\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestValidateSentinel(t *testing.T) {
	c := Default()
	c.Date = 0
	assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "datejust.yaml")
	c := Default()
	c.Lighting = "jewelry"
	c.TimeAnimation = true
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Default()))
	assert.Contains(t, buf.String(), "lighting: studio")
	assert.Contains(t, buf.String(), "time_animation: false")
	assert.NotContains(t, buf.String(), "camera:", "empty camera is omitted")
}

func TestPartOptions(t *testing.T) {
	c := Default()
	c.Detail = "standard"
	c.Date = 14
	o, err := c.PartOptions()
	require.NoError(t, err)
	assert.Equal(t, parts.DetailStandard, o.Detail)
	assert.Equal(t, 14, o.Dial.DateWindow.Day)
}

func TestBackgroundColor(t *testing.T) {
	c := Default()
	c.Background = "#ff0000"
	assert.Equal(t, "#ff0000", c.BackgroundColor().Hex())
}
