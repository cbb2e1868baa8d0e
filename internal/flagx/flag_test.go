package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-c", "conf.json", "-db", "bibliotube.db"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "equals form",
			args:    []string{"-config=alt.json", "-scheme", "bibliotube"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-config=alt.json"},
		},
		{
			name:    "unknown flags dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "dash token is not a value",
			args:    []string{"-c", "-config=alt.json"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-c", "-config=alt.json"},
		},
		{
			name:    "repeats keep order",
			args:    []string{"-c", "one.json", "-c", "two.json"},
			allowed: []string{"-c"},
			want:    []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:    "empty",
			args:    []string{},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestFirstPositional(t *testing.T) {
	values := []string{"-c", "-d"}

	assert.Equal(t, "bibliotube://video?url=x", FirstPositional([]string{"-c", "a.json", "-n", "bibliotube://video?url=x"}, values))
	assert.Equal(t, "link", FirstPositional([]string{"-d=postgres://x", "link", "other"}, values))
	assert.Equal(t, "-odd", FirstPositional([]string{"-n", "--", "-odd"}, values))
	assert.Empty(t, FirstPositional([]string{"-c", "a.json", "-d", "dsn"}, values))
	assert.Empty(t, FirstPositional(nil, values))
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/bt.json", ConfigPath([]string{"-c", "/etc/bt.json"}))
	assert.Equal(t, "/etc/long.json", ConfigPath([]string{"-config", "/etc/long.json"}))
	assert.Equal(t, "/2.json", ConfigPath([]string{"-c", "/1.json", "-config", "/2.json"}))
	assert.Empty(t, ConfigPath([]string{"-db", "x.db"}))
}

func TestJsonConfigFlags(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"bibliotube", "-sync-on-start=false", "-c", "/tmp/bt.json"}
	assert.Equal(t, "/tmp/bt.json", JsonConfigFlags())
}
