package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	cfgFlags := []string{"-c", "-config", "--config"}

	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "config path among board flags",
			args:         []string{"-a", "http://board:8000", "-c", "board.json", "-l", "debug"},
			allowedFlags: cfgFlags,
			want:         []string{"-c", "board.json"},
		},
		{
			name:         "equals form",
			args:         []string{"--config=board.json", "-s", "/var/lib/board/session.db"},
			allowedFlags: cfgFlags,
			want:         []string{"--config=board.json"},
		},
		{
			name:         "equals form of a dropped flag is skipped whole",
			args:         []string{"-t=10", "-c", "board.json"},
			allowedFlags: cfgFlags,
			want:         []string{"-c", "board.json"},
		},
		{
			name:         "mixed forms keep their order",
			args:         []string{"--config=first.json", "-n", "20", "-c", "second.json"},
			allowedFlags: cfgFlags,
			want:         []string{"--config=first.json", "-c", "second.json"},
		},
		{
			name:         "nothing allowed present",
			args:         []string{"-a", "http://x", "-i", "5", "positional"},
			allowedFlags: cfgFlags,
			want:         []string{},
		},
		{
			name:         "trailing flag without value",
			args:         []string{"-l", "info", "-c"},
			allowedFlags: cfgFlags,
			want:         []string{"-c"},
		},
		{
			name:         "next flag is not taken as value",
			args:         []string{"-c", "-a", "http://x"},
			allowedFlags: cfgFlags,
			want:         []string{"-c"},
		},
		{
			name:         "value starting with dash survives in equals form",
			args:         []string{"-config=-odd.json"},
			allowedFlags: cfgFlags,
			want:         []string{"-config=-odd.json"},
		},
		{
			name:         "several allowed flags",
			args:         []string{"-a", "http://board:8000", "-s", "s.db", "-t", "5"},
			allowedFlags: []string{"-a", "-t"},
			want:         []string{"-a", "http://board:8000", "-t", "5"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: cfgFlags,
			want:         []string{},
		},
		{
			name:         "repeated flag kept in order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: cfgFlags,
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short -c with value", args: []string{"-c", "/path/short.json"}, want: "/path/short.json"},
		{name: "long -config with value", args: []string{"-config", "/path/long.json"}, want: "/path/long.json"},
		{name: "double dash with equals", args: []string{"--config=/path/eq.json", "-a", "http://x"}, want: "/path/eq.json"},
		{name: "unknown flags are ignored", args: []string{"-x", "1", "-y", "2"}},
		{name: "multiple flags, last wins", args: []string{"-c", "/path/1.json", "-config", "/path/2.json"}, want: "/path/2.json"},
		{name: "missing value", args: []string{"-c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigFileFlag(tt.args))
		})
	}
}
