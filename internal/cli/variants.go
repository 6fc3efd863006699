package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sonalake/jhipster-multitenancy/internal/tenant"
)

var variantsCmd = &cobra.Command{
	Use:   "variants NAME",
	Short: "Print the names derived from a tenant alias",
	Long: `Print every name the generator derives from a tenant alias, without
touching any project.

Examples:
  jhipster-multitenancy variants Company
  jhipster-multitenancy variants "Business Unit"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVariants,
}

func init() {
	rootCmd.AddCommand(variantsCmd)
}

func runVariants(cmd *cobra.Command, args []string) error {
	alias := strings.Join(args, " ")
	if err := tenant.ValidateAlias(alias); err != nil {
		return err
	}
	v, err := tenant.Derive(alias)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderCard("Tenant "+v.Alias, renderKeyValueLines(variantPairs(v))))
	return nil
}

// variantPairs lists v in a fixed order.
func variantPairs(v tenant.Variants) []kvPair {
	return []kvPair{
		{"camel", v.Camel},
		{"pascal", v.Pascal},
		{"upper", v.Upper},
		{"lower", v.Lower},
		{"kebab", v.Kebab},
		{"snake", v.Snake},
		{"title", v.Title},
		{"plural", v.Plural},
		{"pluralPascal", v.PluralPascal},
		{"pluralKebab", v.PluralKebab},
	}
}
