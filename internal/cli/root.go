package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sonalake/jhipster-multitenancy/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "jhipster-multitenancy",
	Short: "Add multitenancy to a JHipster application",
	Long: `jhipster-multitenancy adds a tenant entity to an existing JHipster
application, ties users to a tenant and restricts administration screens
to the tenant of the signed-in user.

Run it from the root of a generated JHipster project (the directory that
holds .yo-rc.json).`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// @MX:ANCHOR: [AUTO] Execute is the main entry point for the CLI
// @MX:REASON: [AUTO] called from cmd/jhipster-multitenancy/main.go and root_test.go
// Execute initializes dependencies and runs the root command.
func Execute() error {
	InitDependencies()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "%s %v\n", symError(), err)
	}
	return err
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("jhipster-multitenancy %s\n", version.GetFullVersion()))
	rootCmd.PersistentFlags().Bool("verbose", false, "Log every generator step to stderr")
}
