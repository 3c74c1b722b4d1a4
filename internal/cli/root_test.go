package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/pi-bie/ocitysmap/pkg/observability"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"plan", "index", "papers", "pages", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("root.Find(%q) = %v, %v; want a subcommand", name, cmd, err)
		}
	}
	if f := root.PersistentFlags().Lookup("config"); f == nil {
		t.Error("root command has no --config flag")
	}
}

func TestConfigureVerbose(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.configure(false)
	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug output at info level: %q", buf.String())
	}
	if _, ok := observability.Plan().(*observability.LogHooks); ok {
		t.Error("configure(false) registered log hooks")
	}

	c.configure(true)
	c.Logger.Debug("shown")
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Error("configure(true) did not enable debug logging")
	}
	if _, ok := observability.Plan().(*observability.LogHooks); !ok {
		t.Errorf("Plan() = %T, want *observability.LogHooks", observability.Plan())
	}
}
