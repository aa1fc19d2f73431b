package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    *BotConfig
		wantErr bool
	}{
		{
			name: "all variables set",
			env: map[string]string{
				EnvServer:  "ws://localhost:8080/ws",
				EnvSeed:    "12345",
				EnvBotID:   "bot-1",
				EnvWeights: "weights.hcl",
			},
			want: &BotConfig{
				ServerURL:   "ws://localhost:8080/ws",
				Seed:        12345,
				BotID:       "bot-1",
				WeightsFile: "weights.hcl",
			},
		},
		{
			name: "only required variables",
			env: map[string]string{
				EnvServer: "ws://localhost:8080/ws",
			},
			want: &BotConfig{
				ServerURL: "ws://localhost:8080/ws",
			},
		},
		{
			name:    "missing server URL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name: "invalid seed",
			env: map[string]string{
				EnvServer: "ws://localhost:8080/ws",
				EnvSeed:   "not-a-number",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{EnvServer, EnvSeed, EnvBotID, EnvWeights} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := FromEnv()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	for _, k := range []string{EnvServer, EnvSeed, EnvBotID, EnvWeights} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	path := filepath.Join(t.TempDir(), "bot.env")
	require.NoError(t, os.WriteFile(path, []byte("THREECARD_SERVER=ws://dealer:9000/ws\nTHREECARD_SEED=7\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://dealer:9000/ws", cfg.ServerURL)
	assert.Equal(t, int64(7), cfg.Seed)
}

func TestLoadIgnoresMissingFile(t *testing.T) {
	t.Setenv(EnvServer, "ws://localhost:8080/ws")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/ws", cfg.ServerURL)
}

func TestSetEnv(t *testing.T) {
	env := []string{"EXISTING=value"}
	env = SetEnv(env, "NEW_KEY", "new_value")

	assert.Equal(t, []string{"EXISTING=value", "NEW_KEY=new_value"}, env)
}
