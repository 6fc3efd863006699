package host

import (
	"context"
	"fmt"
	"log/slog"
)

// InstallConfig is the part of the host configuration that selects the
// dependency toolchain.
type InstallConfig interface {
	PackageManager() string
	IsAngular1() bool
}

// Installer installs the client dependencies of the host project.
type Installer struct {
	runner Runner
	logger *slog.Logger
}

// NewInstaller creates an Installer running commands through runner.
func NewInstaller(runner Runner, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.Default().With("module", "host")
	}
	return &Installer{runner: runner, logger: logger}
}

// Install runs "<npm|yarn> install". AngularJS 1.x projects additionally run
// "bower install" and, once that succeeds, "gulp install".
func (i *Installer) Install(ctx context.Context, root string, cfg InstallConfig) error {
	pm := cfg.PackageManager()
	i.logger.Info("installing dependencies", "manager", pm)
	if err := i.runner.Run(ctx, root, pm, "install"); err != nil {
		return fmt.Errorf("%s install: %w", pm, err)
	}

	if !cfg.IsAngular1() {
		return nil
	}
	if err := i.runner.Run(ctx, root, "bower", "install"); err != nil {
		return fmt.Errorf("bower install: %w", err)
	}
	if err := i.runner.Run(ctx, root, "gulp", "install"); err != nil {
		return fmt.Errorf("gulp install: %w", err)
	}
	return nil
}
