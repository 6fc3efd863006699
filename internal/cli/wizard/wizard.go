package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Run asks every question in order and returns the answers.
// Each question runs as its own huh.Form.
func Run(ctx context.Context, questions []Question) (*WizardResult, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	result := &WizardResult{}
	theme := newWizardTheme()

	for i := range questions {
		q := &questions[i]
		form := huh.NewForm(huh.NewGroup(buildInputField(q, result))).
			WithTheme(theme).
			WithAccessible(false)

		if err := form.RunWithContext(ctx); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil, ErrCancelled
			}
			return nil, fmt.Errorf("wizard error: %w", err)
		}
	}

	return result, nil
}

// Prompter asks the generator questions interactively.
type Prompter struct{}

// NewPrompter creates a Prompter.
func NewPrompter() *Prompter {
	return &Prompter{}
}

// TenantAlias asks for the tenant alias.
func (p *Prompter) TenantAlias(ctx context.Context, defaultAlias string) (string, error) {
	result, err := Run(ctx, DefaultQuestions(defaultAlias))
	if err != nil {
		return "", err
	}
	return result.TenantAlias, nil
}

// buildInputField creates a huh.Input for q that stores valid answers in result.
func buildInputField(q *Question, result *WizardResult) *huh.Input {
	var value string

	inp := huh.NewInput().
		Title(q.Title).
		Description(q.Description).
		Value(&value)

	if q.Default != "" {
		inp = inp.Placeholder(q.Default)
	}

	return inp.Validate(func(val string) error {
		v := answer(val, q.Default)
		if q.Validate != nil {
			if err := q.Validate(v); err != nil {
				return err
			}
		}
		saveAnswer(q.ID, v, result)
		return nil
	})
}

// answer trims val and falls back to def when it is blank.
func answer(val, def string) string {
	v := strings.TrimSpace(val)
	if v == "" {
		return def
	}
	return v
}

// saveAnswer stores an answer in the result.
func saveAnswer(id, value string, result *WizardResult) {
	switch id {
	case QuestionTenantAlias:
		result.TenantAlias = value
	}
}

// newWizardTheme creates a huh.Theme with the generator colors.
func newWizardTheme() *huh.Theme {
	t := huh.ThemeBase()

	primary := lipgloss.AdaptiveColor{Light: "#1F5F99", Dark: ColorPrimary}
	secondary := lipgloss.AdaptiveColor{Light: "#173F5F", Dark: ColorSecondary}
	red := lipgloss.AdaptiveColor{Light: "#DC2626", Dark: ColorError}
	text := lipgloss.AdaptiveColor{Light: "#111827", Dark: ColorText}
	muted := lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: ColorMuted}
	border := lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: ColorBorder}

	t.Focused.Base = t.Focused.Base.BorderForeground(border)
	t.Focused.Card = t.Focused.Base
	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(red)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(red)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(primary)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(muted)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(secondary)
	t.Focused.TextInput.Text = t.Focused.TextInput.Text.Foreground(text)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Card = t.Blurred.Base

	t.Group.Title = t.Focused.Title
	t.Group.Description = t.Focused.Description

	return t
}
