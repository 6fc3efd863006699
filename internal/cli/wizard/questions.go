package wizard

import "github.com/sonalake/jhipster-multitenancy/internal/tenant"

// QuestionTenantAlias is the ID of the tenant alias question.
const QuestionTenantAlias = "tenant_alias"

// DefaultQuestions returns the questions of a generator run.
func DefaultQuestions(defaultAlias string) []Question {
	if defaultAlias == "" {
		defaultAlias = tenant.DefaultAlias
	}
	return []Question{
		{
			ID:          QuestionTenantAlias,
			Title:       "What is the alias given tenants in your application?",
			Description: "Every user will belong to one of these. Press Enter for " + defaultAlias + ".",
			Default:     defaultAlias,
			Validate:    validateAlias,
		},
	}
}

// validateAlias rejects the reserved word and aliases that derive no
// identifier, so the user is asked again instead of the run failing later.
func validateAlias(alias string) error {
	if err := tenant.ValidateAlias(alias); err != nil {
		return err
	}
	_, err := tenant.Derive(alias)
	return err
}
