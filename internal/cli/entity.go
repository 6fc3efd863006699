package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sonalake/jhipster-multitenancy/internal/generator"
	"github.com/sonalake/jhipster-multitenancy/internal/patch"
)

// newEntityCmd builds the entity command the host runs through the module
// hook after it generates an entity.
func newEntityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entity NAME",
		Short: "Filter an entity by the tenant of the signed-in user",
		Long: `Filter the REST resource of a generated entity by tenant and give its
update form the signed-in account. JHipster runs this through the module
hook that generate registers; it can also be run by hand.

Examples:
  jhipster-multitenancy entity Book
  jhipster-multitenancy entity Book --dry-run   Show the pending changes only`,
		Args: cobra.ExactArgs(1),
		RunE: runEntity,
	}

	cmd.Flags().String("root", "", "Project root directory (default: current directory)")
	cmd.Flags().Bool("strict", false, "Fail when a patch anchor is not found")
	cmd.Flags().Bool("dry-run", false, "Show the pending changes without writing")
	return cmd
}

func init() {
	rootCmd.AddCommand(newEntityCmd())
}

func runEntity(cmd *cobra.Command, args []string) error {
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

	gen, err := deps.NewGenerator(root, nil)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	opts := generator.EntityOptions{
		Name:   args[0],
		Strict: getBoolFlag(cmd, "strict"),
		DryRun: getBoolFlag(cmd, "dry-run"),
	}
	res, err := gen.RunEntity(ctx, opts)
	if err != nil {
		if res != nil {
			printMissing(out, res)
		}
		printStrictHint(out, err)
		return fmt.Errorf("entity: %w", err)
	}

	if opts.DryRun {
		printDiffs(out, res)
	}
	printEntitySummary(out, res, opts)
	return nil
}

// printEntitySummary reports the outcome of an entity run.
func printEntitySummary(w io.Writer, res *generator.Result, opts generator.EntityOptions) {
	if res.VersionWarning != "" {
		_, _ = fmt.Fprintf(w, "%s %s\n", symWarning(), res.VersionWarning)
	}
	if res.SkipReason != "" {
		_, _ = fmt.Fprintln(w, cliMuted.Render(fmt.Sprintf("%s left as is: %s.", res.Entity, res.SkipReason)))
		return
	}

	_, _ = fmt.Fprintln(w, renderKeyValueLines([]kvPair{
		{"applied", fmt.Sprint(res.Counts[patch.Applied.String()])},
		{"already applied", fmt.Sprint(res.Counts[patch.AlreadyApplied.String()])},
		{"anchor missing", fmt.Sprint(res.Counts[patch.AnchorMissing.String()])},
	}))
	printMissing(w, res)

	switch {
	case len(res.Missing()) > 0 || len(res.Warnings) > 0:
		_, _ = fmt.Fprintf(w, "%s %s tenantised with warnings.\n", symWarning(), res.Entity)
	case opts.DryRun:
		_, _ = fmt.Fprintf(w, "%s Dry run complete. Nothing was written.\n", symSuccess())
	default:
		_, _ = fmt.Fprintf(w, "%s %s is filtered by %s.\n", symSuccess(), res.Entity, res.Tenant)
	}
}
