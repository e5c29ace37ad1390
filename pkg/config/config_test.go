package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrom_Defaults(t *testing.T) {
	cfg, err := ParseFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 20*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, logrus.WarnLevel, cfg.LogLevel)
	assert.False(t, cfg.NoColor)
}

func TestParseFrom(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    Config
		wantErr bool
	}{
		{
			name: "all set",
			environ: map[string]string{
				"CHILDPROC_POLL_INTERVAL": "150ms",
				"CHILDPROC_LOG_LEVEL":     "debug",
				"CHILDPROC_NO_COLOR":      "true",
			},
			want: Config{PollInterval: 150 * time.Millisecond, LogLevel: logrus.DebugLevel, NoColor: true},
		},
		{
			name:    "unprefixed names ignored",
			environ: map[string]string{"POLL_INTERVAL": "1s", "LOG_LEVEL": "error"},
			want:    Config{PollInterval: 20 * time.Millisecond, LogLevel: logrus.WarnLevel},
		},
		{
			name:    "bad duration",
			environ: map[string]string{"CHILDPROC_POLL_INTERVAL": "soon"},
			wantErr: true,
		},
		{
			name:    "zero interval",
			environ: map[string]string{"CHILDPROC_POLL_INTERVAL": "0s"},
			wantErr: true,
		},
		{
			name:    "bad level",
			environ: map[string]string{"CHILDPROC_LOG_LEVEL": "loud"},
			wantErr: true,
		},
		{
			name:    "bad bool",
			environ: map[string]string{"CHILDPROC_NO_COLOR": "maybe"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseFrom(tt.environ)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *cfg)
		})
	}
}

func TestParse_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("CHILDPROC_POLL_INTERVAL", "75ms")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, 75*time.Millisecond, cfg.PollInterval)
}

func TestConfigureLogging(t *testing.T) {
	old := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(old) })

	cfg := &Config{LogLevel: logrus.ErrorLevel}

	cfg.ConfigureLogging(false)
	assert.Equal(t, logrus.ErrorLevel, logrus.GetLevel())

	cfg.ConfigureLogging(true)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}
