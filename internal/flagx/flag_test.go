package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeep(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		names []string
		want  []string
	}{
		{
			name:  "separate value",
			args:  []string{"-c", "conf.json", "-a", "localhost"},
			names: []string{"c"},
			want:  []string{"-c", "conf.json"},
		},
		{
			name:  "inline value with double dash",
			args:  []string{"--config=alt.json", "-a", "localhost"},
			names: []string{"config"},
			want:  []string{"--config=alt.json"},
		},
		{
			name:  "names accept any dash prefix",
			args:  []string{"--a", ":1", "-m", "badger"},
			names: []string{"-a", "--m"},
			want:  []string{"--a", ":1", "-m", "badger"},
		},
		{
			name:  "order is preserved",
			args:  []string{"-x", "1", "-config=first.json", "-c", "second.json"},
			names: []string{"c", "config"},
			want:  []string{"-config=first.json", "-c", "second.json"},
		},
		{
			name:  "unknown flags and positionals dropped",
			args:  []string{"-x", "1", "--y=2", "positional"},
			names: []string{"c"},
			want:  []string{},
		},
		{
			name:  "trailing flag without value",
			args:  []string{"-c"},
			names: []string{"c"},
			want:  []string{"-c"},
		},
		{
			name:  "next flag is not taken as value",
			args:  []string{"-c", "-a", "addr"},
			names: []string{"c"},
			want:  []string{"-c"},
		},
		{
			name:  "stops at terminator",
			args:  []string{"-a", ":1", "--", "-a", ":2"},
			names: []string{"a"},
			want:  []string{"-a", ":1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Keep(tt.args, tt.names...))
		})
	}
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short", args: []string{"-a", ":1", "-c", "a.json"}, want: "a.json"},
		{name: "long inline", args: []string{"--config=b.json"}, want: "b.json"},
		{name: "last wins", args: []string{"-c", "a.json", "-config", "b.json"}, want: "b.json"},
		{name: "absent", args: []string{"-a", ":1"}, want: ""},
		{name: "missing value", args: []string{"-c"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigPath(tt.args))
		})
	}
}
