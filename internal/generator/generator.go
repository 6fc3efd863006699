package generator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"

	"github.com/sonalake/jhipster-multitenancy/internal/host"
	"github.com/sonalake/jhipster-multitenancy/internal/hostconfig"
	"github.com/sonalake/jhipster-multitenancy/internal/manifest"
	"github.com/sonalake/jhipster-multitenancy/internal/patch"
	"github.com/sonalake/jhipster-multitenancy/internal/template"
	"github.com/sonalake/jhipster-multitenancy/internal/tenant"
	"github.com/sonalake/jhipster-multitenancy/internal/workspace"
	"github.com/sonalake/jhipster-multitenancy/pkg/version"
)

// changelogDateLayout is the Liquibase changelog timestamp, yyyyMMddHHmmss.
const changelogDateLayout = "20060102150405"

var changelogDatePattern = regexp.MustCompile(`^(\d{14})__`)

// Prompter asks the user for the tenant alias.
type Prompter interface {
	TenantAlias(ctx context.Context, defaultAlias string) (string, error)
}

// ProgressFunc is called after each file operation of the write phase.
type ProgressFunc func(name string, done, total int)

// Generator runs the phases initialize, prompt, write, install and end
// against one project filesystem.
type Generator struct {
	fsys     billy.Filesystem
	deployer template.Deployer
	manifest manifest.Manager
	runner   host.Runner
	prompter Prompter
	progress ProgressFunc
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithPrompter sets the prompter used in interactive runs.
func WithPrompter(p Prompter) Option {
	return func(g *Generator) { g.prompter = p }
}

// WithRunner sets the runner for host commands.
func WithRunner(r host.Runner) Option {
	return func(g *Generator) { g.runner = r }
}

// WithProgress sets the write phase progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(g *Generator) { g.progress = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithDeployer replaces the embedded template deployer.
func WithDeployer(d template.Deployer) Option {
	return func(g *Generator) { g.deployer = d }
}

// WithManifest replaces the manifest manager.
func WithManifest(m manifest.Manager) Option {
	return func(g *Generator) { g.manifest = m }
}

// WithClock sets the time source of changelog dates.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a Generator for the project on fsys.
func New(fsys billy.Filesystem, opts ...Option) (*Generator, error) {
	g := &Generator{
		fsys:     fsys,
		manifest: manifest.NewManager(),
		logger:   slog.Default().With("module", "generator"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.deployer == nil {
		templates, err := template.EmbeddedTemplates()
		if err != nil {
			return nil, fmt.Errorf("load templates: %w", err)
		}
		g.deployer = template.NewDeployer(templates, g.logger)
	}
	if g.runner == nil {
		g.runner = host.NewExecRunner(os.Stdout, os.Stderr)
	}
	return g, nil
}

// Run executes every phase in order. Fatal errors stop the run; everything
// else is recorded in the result as a warning.
func (g *Generator) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}

	cfg, err := g.initialize(ctx, res)
	if err != nil {
		return res, err
	}

	v, err := g.prompt(ctx, opts)
	if err != nil {
		return res, err
	}

	c := newContext(cfg, v, g.changelogDate(), opts)
	res.Tenant = v.Camel
	res.Entity = v.Pascal
	res.ChangelogDate = c.ChangelogDate

	ws := workspace.New(g.fsys, workspace.WithLogger(g.logger))
	if err := g.write(ctx, c, ws, res); err != nil {
		return res, err
	}

	if opts.DryRun {
		g.collectDiffs(ws, res)
		g.end(res)
		return res, nil
	}

	if err := g.install(ctx, c, ws, res); err != nil {
		return res, err
	}
	g.end(res)
	return res, nil
}

// initialize loads the host configuration, checks its version and reads
// the manifest of an earlier run.
func (g *Generator) initialize(ctx context.Context, res *Result) (*hostconfig.Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, err := hostconfig.Load(g.fsys)
	if err != nil {
		return nil, err
	}
	g.logger.Info("loaded host configuration",
		"baseName", cfg.BaseName,
		"package", cfg.PackageName,
		"jhipsterVersion", cfg.JHipsterVersion,
	)

	if msg := cfg.CheckVersion(); msg != "" {
		res.VersionWarning = msg
		g.logger.Warn("unsupported host version", "version", cfg.JHipsterVersion)
	}

	if _, err := g.manifest.Load(g.fsys); err != nil {
		g.warn(res, "manifest", err)
	}
	return cfg, nil
}

// prompt resolves the tenant alias from options, the prompter or the default.
func (g *Generator) prompt(ctx context.Context, opts Options) (tenant.Variants, error) {
	alias := opts.Tenant
	if alias == "" && !opts.NonInteractive {
		if g.prompter == nil {
			return tenant.Variants{}, ErrNoPrompter
		}
		answer, err := g.prompter.TenantAlias(ctx, tenant.DefaultAlias)
		if err != nil {
			return tenant.Variants{}, err
		}
		alias = answer
	}
	if strings.TrimSpace(alias) == "" {
		alias = tenant.DefaultAlias
	}

	if err := tenant.ValidateAlias(alias); err != nil {
		return tenant.Variants{}, fmt.Errorf("%w: %w", ErrInvalidAlias, err)
	}
	v, err := tenant.Derive(alias)
	if err != nil {
		return tenant.Variants{}, fmt.Errorf("%w: %w", ErrInvalidAlias, err)
	}
	g.logger.Info("tenant alias", "alias", v.Alias, "entity", v.Pascal)
	return v, nil
}

// changelogDate reuses the timestamp of an earlier run so the master
// changelog include stays stable, or stamps the current time.
func (g *Generator) changelogDate() string {
	if e, ok := g.manifest.GetEntry(opChangelog); ok {
		if m := changelogDatePattern.FindStringSubmatch(path.Base(e.Path)); m != nil {
			return m[1]
		}
	}
	return g.now().UTC().Format(changelogDateLayout)
}

// write stages the full plan for c in a fresh manifest run.
func (g *Generator) write(ctx context.Context, c *Context, ws *workspace.Workspace, res *Result) error {
	g.manifest.Begin(version.GetVersion(), c.Tenant.Map())
	return g.apply(ctx, c, ws, BuildPlan(c), res)
}

// apply stages every render, patch and JSON edit of plan, records them in
// the manifest and commits the workspace.
func (g *Generator) apply(ctx context.Context, c *Context, ws *workspace.Workspace, plan Plan, res *Result) error {
	total := plan.Len()
	done := 0
	step := func(name string) {
		done++
		if g.progress != nil {
			g.progress(name, done, total)
		}
	}

	pt := patch.NewPatcher(patch.WithStrict(c.Options.Strict), patch.WithLogger(g.logger))
	var entries []manifest.Entry

	data := c.TemplateData()
	for _, op := range plan.Renders {
		if _, err := g.deployer.Deploy(ctx, ws, []template.RenderOp{op}, data); err != nil {
			return err
		}
		res.Rendered = append(res.Rendered, op.Dest)
		entries = append(entries, manifest.Entry{Name: op.Name, Path: op.Dest, Kind: manifest.KindRender, Status: "rendered"})
		step(op.Name)
	}

	for _, p := range plan.Patches {
		r, err := pt.Patch(ctx, ws, p)
		if err != nil {
			return err
		}
		entries = append(entries, g.record(res, r, manifest.KindPatch))
		step(p.Name)
	}

	for _, e := range plan.Edits {
		r, err := pt.EditJSON(ctx, ws, e)
		if err != nil {
			if e.Name != opModuleHook || ctx.Err() != nil {
				return err
			}
			// the generator still works without the hook
			g.warn(res, "could not register as a jhipster entity post creation hook", err)
			r = patch.Result{Name: e.Name, File: e.File, Status: patch.AnchorMissing, Detail: err.Error()}
		}
		entries = append(entries, g.record(res, r, manifest.KindJSON))
		step(e.Name)
	}

	if err := g.track(ws, entries...); err != nil {
		return err
	}
	if c.Options.DryRun {
		return nil
	}

	written, err := ws.Commit(ctx)
	res.Written = append(res.Written, written...)
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// install persists the alias, delegates entity regeneration and installs
// client dependencies. Only a failed commit is fatal.
func (g *Generator) install(ctx context.Context, c *Context, ws *workspace.Workspace, res *Result) error {
	pt := patch.NewPatcher(patch.WithLogger(g.logger))
	r, err := pt.EditJSON(ctx, ws, tenantNameEdit(c))
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		g.warn(res, "could not save tenantName", err)
	} else {
		entry := g.record(res, r, manifest.KindJSON)
		if err := g.track(ws, entry); err != nil {
			return err
		}
		written, err := ws.Commit(ctx)
		res.Written = append(res.Written, written...)
		if err != nil {
			return fmt.Errorf("commit: %w", err)
		}
	}

	opts := c.Options
	if !opts.SkipDelegate {
		d := host.NewDelegator(g.runner, host.WithCommand(opts.JHipsterCommand), host.WithDelegatorLogger(g.logger))
		if err := d.RegenerateEntity(ctx, opts.Root, c.Tenant.Pascal, regenerateOptions(c)); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			g.warn(res, "entity regeneration failed", err)
		} else {
			res.Delegated = true
		}
	}

	if opts.SkipInstall {
		res.ManualInstall = c.Host.InstallCommand()
		return nil
	}
	if err := host.NewInstaller(g.runner, g.logger).Install(ctx, opts.Root, c.Host); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		g.warn(res, "dependency installation failed", err)
		res.ManualInstall = c.Host.InstallCommand()
		return nil
	}
	res.Installed = true
	return nil
}

// regenerateOptions narrows the requested regeneration to the parts the
// host project has.
func regenerateOptions(c *Context) host.RegenerateOptions {
	o := c.Options.Regenerate
	o.Server = o.Server && !c.Host.SkipServer
	o.Client = o.Client && !c.Host.SkipClient
	o.UserManagement = o.UserManagement && !c.Host.SkipUserManagement
	return o
}

func (g *Generator) end(res *Result) {
	g.logger.Info("End of multitenancy generator",
		"rendered", len(res.Rendered),
		"applied", res.Counts[patch.Applied.String()],
		"missing", res.Counts[patch.AnchorMissing.String()],
	)
}

// record adds r to the result and returns its manifest entry.
func (g *Generator) record(res *Result, r patch.Result, kind manifest.Kind) manifest.Entry {
	res.Patches = append(res.Patches, r)
	res.count(r.Status)
	return manifest.Entry{Name: r.Name, Path: r.File, Kind: kind, Status: r.Status.String(), Detail: r.Detail}
}

// track hashes the staged content of each entry, records the entries and
// stages the manifest.
func (g *Generator) track(ws *workspace.Workspace, entries ...manifest.Entry) error {
	for _, e := range entries {
		if ws.Exists(e.Path) {
			if data, err := ws.Read(e.Path); err == nil {
				e.SHA256 = manifest.Hash(data)
			}
		}
		if err := g.manifest.Track(e); err != nil {
			return fmt.Errorf("track %s: %w", e.Name, err)
		}
	}
	return g.manifest.Save(ws)
}

func (g *Generator) collectDiffs(ws *workspace.Workspace, res *Result) {
	for _, ch := range ws.Changes() {
		diff, err := ws.Diff(ch.Path)
		if err != nil {
			g.warn(res, "diff "+ch.Path, err)
			continue
		}
		if diff == "" {
			continue
		}
		res.Diffs = append(res.Diffs, FileDiff{Path: ch.Path, Created: ch.Created, Diff: diff})
	}
}

func (g *Generator) warn(res *Result, msg string, err error) {
	res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", msg, err))
	g.logger.Warn(msg, "error", err)
}
