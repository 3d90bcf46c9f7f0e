package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.ini")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadProfileReadsSections(t *testing.T) {
	path := writeProfile(t, `
[session]
host = mainframe.example.com
port = 1175
rhost = CLIENT
ohost = MVSHOST
timeout = 10

[auth]
password = secret12
userid = JDOE
group = SYS1
`)

	p, err := LoadProfile(path)
	require.NoError(t, err)
	require.Equal(t, "mainframe.example.com", p.Host)
	require.Equal(t, 1175, p.Port)
	require.Equal(t, "CLIENT", p.RHost)
	require.Equal(t, "MVSHOST", p.OHost)
	require.Equal(t, 10*time.Second, p.Timeout)
	require.Equal(t, "secret12", p.Password)
	require.Equal(t, "JDOE", p.UserID)
	require.Equal(t, "SYS1", p.Group)
}

func TestLoadProfileDefaults(t *testing.T) {
	path := writeProfile(t, `
[session]
host = mainframe.example.com
`)

	p, err := LoadProfile(path)
	require.NoError(t, err)
	require.Equal(t, 175, p.Port)
	require.Equal(t, 30*time.Second, p.Timeout)
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.ini"))
	require.Error(t, err)
}
