package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sonalake/jhipster-multitenancy/internal/cli/wizard"
	"github.com/sonalake/jhipster-multitenancy/internal/generator"
	"github.com/sonalake/jhipster-multitenancy/internal/patch"
	"github.com/sonalake/jhipster-multitenancy/internal/ui"
	"github.com/sonalake/jhipster-multitenancy/pkg/version"
)

// newGenerateCmd builds the generate command with its flags.
func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Add a tenant entity to a JHipster project",
		Long: `Add a tenant entity to the JHipster project in the current directory
(or --root), link users to it and register its administration screens.

Examples:
  jhipster-multitenancy generate
  jhipster-multitenancy generate --tenant "Business Unit" --non-interactive
  jhipster-multitenancy generate --dry-run   Show the pending changes only`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}

	cmd.Flags().String("root", "", "Project root directory (default: current directory)")
	cmd.Flags().String("tenant", "", "Tenant alias, e.g. \"Company\" or \"Business Unit\"")
	cmd.Flags().Bool("non-interactive", false, "Never prompt; use --tenant or the default alias")
	cmd.Flags().Bool("skip-install", false, "Print the install command instead of running it")
	cmd.Flags().Bool("skip-delegate", false, "Do not run the jhipster entity sub-generator")
	cmd.Flags().Bool("strict", false, "Fail when a patch anchor is not found")
	cmd.Flags().Bool("dry-run", false, "Show the pending changes without writing")
	cmd.Flags().String("jhipster-cmd", "", "JHipster command line (default: jhipster)")
	return cmd
}

func init() {
	rootCmd.AddCommand(newGenerateCmd())
}

// getStringFlag retrieves a string flag value from the command.
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// getBoolFlag retrieves a bool flag value from the command.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}

// generateOptions maps the command flags onto generator options.
func generateOptions(cmd *cobra.Command, root string, headless bool) generator.Options {
	opts := generator.DefaultOptions(root)
	opts.Tenant = getStringFlag(cmd, "tenant")
	opts.NonInteractive = getBoolFlag(cmd, "non-interactive") || headless
	opts.SkipInstall = getBoolFlag(cmd, "skip-install")
	opts.SkipDelegate = getBoolFlag(cmd, "skip-delegate")
	opts.Strict = getBoolFlag(cmd, "strict")
	opts.DryRun = getBoolFlag(cmd, "dry-run")
	opts.JHipsterCommand = getStringFlag(cmd, "jhipster-cmd")
	return opts
}

// resolveRoot returns the absolute project root.
func resolveRoot(flag string) (string, error) {
	if flag == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return cwd, nil
	}
	abs, err := filepath.Abs(flag)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	return abs, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if deps == nil {
		return fmt.Errorf("dependencies not initialized")
	}
	out := cmd.OutOrStdout()

	root, err := resolveRoot(getStringFlag(cmd, "root"))
	if err != nil {
		return err
	}
	if getBoolFlag(cmd, "verbose") {
		deps.SetVerbose(cmd.ErrOrStderr())
	}

	_, _ = fmt.Fprintln(out, deps.Theme.Banner(version.GetVersion()))

	tracker := ui.NewStepTracker(deps.Progress, "Writing files")
	gen, err := deps.NewGenerator(root, tracker.Report)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	opts := generateOptions(cmd, root, deps.Headless.IsHeadless())
	res, err := gen.Run(ctx, opts)
	tracker.Finish()

	if errors.Is(err, wizard.ErrCancelled) {
		_, _ = fmt.Fprintln(out, cliMuted.Render("Generation cancelled."))
		return nil
	}
	if err != nil {
		if res != nil {
			printMissing(out, res)
		}
		printStrictHint(out, err)
		return fmt.Errorf("generate: %w", err)
	}

	if opts.DryRun {
		printDiffs(out, res)
	}
	printSummary(out, res, opts)
	return nil
}

// printDiffs writes the pending change of every file of a dry run.
func printDiffs(w io.Writer, res *generator.Result) {
	if len(res.Diffs) == 0 {
		_, _ = fmt.Fprintln(w, cliMuted.Render("No pending changes."))
		return
	}
	for _, d := range res.Diffs {
		state := "modified"
		if d.Created {
			state = "created"
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", cliPrimary.Render(state), d.Path)
		if d.Diff != "" {
			_, _ = fmt.Fprintln(w, d.Diff)
		}
	}
}

// printMissing lists the unmatched anchors of a failed run.
func printMissing(w io.Writer, res *generator.Result) {
	for _, p := range res.Missing() {
		_, _ = fmt.Fprintf(w, "%s %s: %s\n", symWarning(), p.Name, p.File)
	}
}

// printStrictHint explains how to get past an anchor that strict mode
// refused to skip.
func printStrictHint(w io.Writer, err error) {
	if patch.IsMissing(err) {
		_, _ = fmt.Fprintln(w, cliMuted.Render("Run without --strict to skip edits whose anchor is missing and list them instead."))
	}
}

// printSummary renders the end-of-run summary, falling back to the raw
// markdown when the renderer fails.
func printSummary(w io.Writer, res *generator.Result, opts generator.Options) {
	md := summaryMarkdown(res, opts)
	rendered, err := ui.RenderMarkdown(deps.Theme, deps.Headless, md)
	if err != nil {
		deps.Logger.Debug("render summary", "error", err)
		rendered = md
	}
	_, _ = fmt.Fprint(w, rendered)

	switch {
	case len(res.Missing()) > 0 || len(res.Warnings) > 0:
		_, _ = fmt.Fprintf(w, "%s Multitenancy added with warnings.\n", symWarning())
	case opts.DryRun:
		_, _ = fmt.Fprintf(w, "%s Dry run complete. Nothing was written.\n", symSuccess())
	default:
		_, _ = fmt.Fprintf(w, "%s Multitenancy added for %s.\n", symSuccess(), res.Entity)
	}
}

// summaryMarkdown describes res as markdown.
func summaryMarkdown(res *generator.Result, opts generator.Options) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Tenant `%s`\n\n", res.Entity)
	if res.VersionWarning != "" {
		fmt.Fprintf(&sb, "> %s\n\n", res.VersionWarning)
	}
	fmt.Fprintf(&sb, "- Entity file: `.jhipster/%s.json`\n", res.Entity)
	fmt.Fprintf(&sb, "- Changelog date: `%s`\n", res.ChangelogDate)
	fmt.Fprintf(&sb, "- Files rendered: %d\n", len(res.Rendered))
	if opts.DryRun {
		fmt.Fprintf(&sb, "- Files pending: %d\n", len(res.Diffs))
	} else {
		fmt.Fprintf(&sb, "- Files written: %d\n", len(res.Written))
	}

	sb.WriteString("\n## Patches\n\n")
	fmt.Fprintf(&sb, "- applied: %d\n", res.Counts[patch.Applied.String()])
	fmt.Fprintf(&sb, "- already applied: %d\n", res.Counts[patch.AlreadyApplied.String()])
	fmt.Fprintf(&sb, "- anchor missing: %d\n", res.Counts[patch.AnchorMissing.String()])

	if missing := res.Missing(); len(missing) > 0 {
		sb.WriteString("\nThese edits were skipped and must be made by hand:\n\n")
		for _, p := range missing {
			fmt.Fprintf(&sb, "- `%s` in `%s`", p.Name, p.File)
			if p.Detail != "" {
				fmt.Fprintf(&sb, ": %s", p.Detail)
			}
			sb.WriteString("\n")
		}
	}

	if len(res.Warnings) > 0 {
		sb.WriteString("\n## Warnings\n\n")
		for _, warning := range res.Warnings {
			fmt.Fprintf(&sb, "- %s\n", warning)
		}
	}

	if opts.DryRun {
		return sb.String()
	}

	sb.WriteString("\n## Next steps\n\n")
	if !res.Delegated {
		fmt.Fprintf(&sb, "- Regenerate the entity: `jhipster entity %s --regenerate`\n", res.Entity)
	}
	if res.ManualInstall != "" {
		fmt.Fprintf(&sb, "- Install dependencies: `%s`\n", res.ManualInstall)
	}
	if res.Delegated && res.ManualInstall == "" {
		sb.WriteString("- Nothing left to do.\n")
	}
	return sb.String()
}
