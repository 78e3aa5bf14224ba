package cli

import (
	"bytes"
	"path/filepath"
	"testing"
)

// executeCommand runs a command with the given args and captures output.
func executeCommand(args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// isolate points HOME and the server settings away from the real user
// environment and returns a fresh database path.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ET_SERVER_URL", "")
	t.Setenv("ET_API_KEY", "")
	return filepath.Join(home, "tacna.db")
}

func TestRootHelp(t *testing.T) {
	if _, err := executeCommand("--help"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	tests := []struct {
		name, def string
	}{
		{"format", "text"},
		{"db", ""},
		{"server", ""},
	}
	for _, tt := range tests {
		f := root.PersistentFlags().Lookup(tt.name)
		if f == nil {
			t.Errorf("expected --%s flag to exist", tt.name)
			continue
		}
		if f.DefValue != tt.def {
			t.Errorf("--%s default = %q, want %q", tt.name, f.DefValue, tt.def)
		}
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{
		"add", "list", "show", "visit", "visited", "featured",
		"stats", "categories", "locate", "serve", "keys", "version",
	} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"show needs id", []string{"show"}},
		{"show numeric id", []string{"show", "abc"}},
		{"visit needs id", []string{"visit"}},
		{"visit numeric id", []string{"visit", "x1"}},
		{"list takes no args", []string{"list", "extra"}},
		{"keys create needs email", []string{"keys", "create", "laptop"}},
		{"keys delete numeric id", []string{"keys", "delete", "abc"}},
		{"locate needs input", []string{"locate"}},
		{"locate lat needs lng", []string{"locate", "--lat", "-18"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := isolate(t)
			if _, err := executeCommand(append(tt.args, "--db", db)...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestVersion(t *testing.T) {
	out, err := executeCommand("version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if out != Version+"\n" {
		t.Errorf("output = %q", out)
	}
}
