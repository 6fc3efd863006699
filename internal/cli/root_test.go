package cli

import (
	"strings"
	"testing"
)

func TestRootCmd_Subcommands(t *testing.T) {
	want := map[string]bool{"generate": false, "variants": false, "entity": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}

	if rootCmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("persistent --verbose flag not registered")
	}
}

func TestInitDependencies(t *testing.T) {
	prev := deps
	t.Cleanup(func() { deps = prev })

	InitDependencies()
	if deps == nil {
		t.Fatal("deps is nil")
	}
	if deps.Theme == nil || deps.Headless == nil || deps.Progress == nil || deps.Prompter == nil || deps.Logger == nil {
		t.Errorf("incomplete dependencies: %+v", deps)
	}
	if deps.Runner != nil {
		t.Error("Runner should default to nil")
	}

	gen, err := deps.NewGenerator(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if gen == nil {
		t.Fatal("generator is nil")
	}
}

func TestDependencies_SetVerbose(t *testing.T) {
	var buf strings.Builder
	d := &Dependencies{}
	d.SetVerbose(&buf)

	d.Logger.Debug("step", "name", "entity-schema")
	if !strings.Contains(buf.String(), "name=entity-schema") {
		t.Errorf("debug log = %q, want step record", buf.String())
	}
}

func TestRenderKeyValueLines(t *testing.T) {
	t.Parallel()

	got := renderKeyValueLines([]kvPair{{"camel", "company"}, {"pluralPascal", "Companies"}})
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.HasSuffix(lines[0], " company") {
		t.Errorf("line 0 = %q, want value company", lines[0])
	}
	if !strings.HasSuffix(lines[1], " Companies") {
		t.Errorf("line 1 = %q, want value Companies", lines[1])
	}
	if strings.Index(lines[0], "company") != strings.Index(lines[1], "Companies") {
		t.Errorf("values not aligned:\n%s", got)
	}
}

func TestRenderCard(t *testing.T) {
	t.Parallel()

	got := renderCard("Tenant Company", "body")
	for _, w := range []string{"Tenant Company", "body"} {
		if !strings.Contains(got, w) {
			t.Errorf("card missing %q:\n%s", w, got)
		}
	}
}
