package paths

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPlatform replaces the platform lookups for the duration of a test.
func stubPlatform(t *testing.T, home, config string, err error) {
	t.Helper()
	saved := platformDir
	t.Cleanup(func() { platformDir = saved })
	platformDir.homeDir = func() (string, error) { return home, err }
	platformDir.userConfigDir = func() (string, error) { return config, err }
}

func TestDefaultConfigDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/acp", got)
	})

	t.Run("falls back to ~/.config when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		stubPlatform(t, "/home/tester", "", nil)

		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/home/tester/.config/acp", got)
	})

	t.Run("home lookup failure", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		stubPlatform(t, "", "", errors.New("no home"))

		_, err := DefaultConfigDir()
		assert.Error(t, err)
	})
}

func TestDefaultConfigDir_Other(t *testing.T) {
	if runtime.GOOS == "linux" {
		t.Skip("non-linux test")
	}
	stubPlatform(t, "", filepath.FromSlash("/config/root"), nil)

	got, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.FromSlash("/config/root"), "acp"), got)
}

func TestResolveConfigDir(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		envVal  string
		wantSub string // substring the result must contain
	}{
		{
			name:    "flag wins over env",
			flag:    "/explicit/config",
			envVal:  "/env/config",
			wantSub: filepath.FromSlash("/explicit/config"),
		},
		{
			name:    "env wins when flag empty",
			envVal:  "/env/config",
			wantSub: filepath.FromSlash("/env/config"),
		},
		{
			name:    "platform default when both empty",
			wantSub: "acp",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.envVal)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantSub)
		})
	}
}

func TestResolveWorkspaceDir(t *testing.T) {
	abs := func(p string) string {
		got, err := filepath.Abs(p)
		require.NoError(t, err)
		return got
	}

	tests := []struct {
		name        string
		flag        string
		configValue string
		envVal      string
		want        string
	}{
		{
			name:        "flag wins over all",
			flag:        "/flag/ws",
			configValue: "/config/ws",
			envVal:      "/env/ws",
			want:        abs("/flag/ws"),
		},
		{
			name:        "config wins over env",
			configValue: "/config/ws",
			envVal:      "/env/ws",
			want:        abs("/config/ws"),
		},
		{
			name:   "env wins when flag and config empty",
			envVal: "/env/ws",
			want:   abs("/env/ws"),
		},
		{
			name: "empty means system temp",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvWorkspaceDir, tt.envVal)
			got, err := ResolveWorkspaceDir(tt.flag, tt.configValue)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_AbsolutePath(t *testing.T) {
	t.Run("relative config flag becomes absolute", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		got, err := ResolveConfigDir("relative/path")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})

	t.Run("relative config env becomes absolute", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "relative/env")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})

	t.Run("relative workspace value becomes absolute", func(t *testing.T) {
		t.Setenv(EnvWorkspaceDir, "")
		got, err := ResolveWorkspaceDir("", "relative/ws")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})
}
