package host

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// DefaultJHipsterCommand is the host framework's CLI.
const DefaultJHipsterCommand = "jhipster"

// RegenerateOptions selects which parts of the entity are regenerated.
// All true means a full regeneration with no skip flags.
type RegenerateOptions struct {
	Server         bool
	Client         bool
	UserManagement bool
}

// DefaultRegenerateOptions regenerates server, client and user management.
func DefaultRegenerateOptions() RegenerateOptions {
	return RegenerateOptions{Server: true, Client: true, UserManagement: true}
}

// Flags returns the sub-generator flags for opts.
func (o RegenerateOptions) Flags() []string {
	flags := []string{"--regenerate", "--skip-install"}
	if !o.Server {
		flags = append(flags, "--skip-server")
	}
	if !o.Client {
		flags = append(flags, "--skip-client")
	}
	if !o.UserManagement {
		flags = append(flags, "--skip-user-management")
	}
	return flags
}

// Delegator hands entity regeneration to the host framework.
type Delegator struct {
	runner  Runner
	command string
	logger  *slog.Logger
}

// DelegatorOption configures a Delegator.
type DelegatorOption func(*Delegator)

// WithCommand overrides the host CLI, e.g. "npx jhipster".
func WithCommand(command string) DelegatorOption {
	return func(d *Delegator) {
		if command != "" {
			d.command = command
		}
	}
}

// WithDelegatorLogger sets the logger.
func WithDelegatorLogger(logger *slog.Logger) DelegatorOption {
	return func(d *Delegator) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDelegator creates a Delegator running commands through runner.
func NewDelegator(runner Runner, opts ...DelegatorOption) *Delegator {
	d := &Delegator{
		runner:  runner,
		command: DefaultJHipsterCommand,
		logger:  slog.Default().With("module", "host"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RegenerateEntity runs "<cmd> entity <name> --regenerate --skip-install"
// plus skip flags in root.
func (d *Delegator) RegenerateEntity(ctx context.Context, root, name string, opts RegenerateOptions) error {
	exe, lead, err := splitCommand(d.command)
	if err != nil {
		return err
	}

	args := slices.Concat(lead, []string{"entity", name}, opts.Flags())
	d.logger.Info("delegating entity regeneration", "entity", name, "command", exe, "args", args)

	if err := d.runner.Run(ctx, root, exe, args...); err != nil {
		return fmt.Errorf("regenerate entity %s: %w", name, err)
	}
	return nil
}
