// Package wizard asks the interactive questions of the multitenancy
// generator with huh forms.
package wizard

import "errors"

// WizardResult holds the answers of one wizard run.
type WizardResult struct {
	TenantAlias string // alias given tenants, e.g. "Company"
}

// Question defines a single text question.
type Question struct {
	ID          string             // Unique identifier
	Title       string             // Question title
	Description string             // Additional description
	Default     string             // Used when the answer is blank
	Validate    func(string) error // Rejects an answer; nil accepts everything
}

// Brand colors of the wizard theme (dark background variants).
const (
	ColorPrimary   = "#3E8ACC"
	ColorSecondary = "#2C5F8A"
	ColorSuccess   = "#10B981"
	ColorError     = "#EF4444"
	ColorText      = "#E5E7EB"
	ColorMuted     = "#6B7280"
	ColorBorder    = "#374151"
)

// Error definitions for the wizard package.
var (
	// ErrCancelled is returned when the user cancels the wizard.
	ErrCancelled = errors.New("wizard cancelled by user")
	// ErrNoQuestions is returned when no questions are provided.
	ErrNoQuestions = errors.New("no questions provided")
)
