// Package cli provides the Cobra command tree and dependency injection
// wiring for the jhipster-multitenancy CLI. This file defines the
// Dependencies struct (Composition Root) that wires the domain modules
// together.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/sonalake/jhipster-multitenancy/internal/cli/wizard"
	"github.com/sonalake/jhipster-multitenancy/internal/generator"
	"github.com/sonalake/jhipster-multitenancy/internal/host"
	"github.com/sonalake/jhipster-multitenancy/internal/ui"
)

// Dependencies holds the services used by CLI commands.
// This is the Composition Root: the only place where concrete types
// are instantiated and wired together.
type Dependencies struct {
	Theme    *ui.Theme
	Headless *ui.HeadlessManager
	Progress ui.Progress
	Prompter generator.Prompter
	Runner   host.Runner // nil runs real commands on os.Stdout and os.Stderr
	Logger   *slog.Logger
}

// deps is the global dependencies instance, initialized by InitDependencies.
var deps *Dependencies

// @MX:ANCHOR: [AUTO] InitDependencies is the Composition Root that wires all domain modules
// @MX:REASON: [AUTO] called from root.go and every command test
// InitDependencies creates and wires all domain dependencies.
// It should be called once during application startup.
func InitDependencies() {
	theme := ui.NewTheme(ui.ThemeConfig{NoColor: ui.NoColorFromEnv()})
	hm := ui.NewHeadlessManager()

	deps = &Dependencies{
		Theme:    theme,
		Headless: hm,
		Progress: ui.NewProgress(theme, hm),
		Prompter: wizard.NewPrompter(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetVerbose switches the logger to a debug-level text handler on w.
func (d *Dependencies) SetVerbose(w io.Writer) {
	d.Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// NewGenerator builds a generator for the project in root, reporting
// progress to progress.
func (d *Dependencies) NewGenerator(root string, progress generator.ProgressFunc) (*generator.Generator, error) {
	opts := []generator.Option{
		generator.WithLogger(d.Logger.With("module", "generator")),
		generator.WithPrompter(d.Prompter),
	}
	if progress != nil {
		opts = append(opts, generator.WithProgress(progress))
	}
	if d.Runner != nil {
		opts = append(opts, generator.WithRunner(d.Runner))
	} else {
		opts = append(opts, generator.WithRunner(host.NewExecRunner(os.Stdout, os.Stderr)))
	}
	return generator.New(osfs.New(root), opts...)
}
