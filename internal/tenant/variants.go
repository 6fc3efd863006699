// Package tenant derives the naming variants of the tenant alias, the
// user-chosen name of the entity every user of the generated application
// belongs to.
package tenant

import (
	"errors"
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultAlias is offered when the user does not type an alias.
const DefaultAlias = "Company"

// reservedWord collides with the host's own account resource.
const reservedWord = "account"

var (
	// ErrReservedWord indicates the alias collides with a host-owned name.
	ErrReservedWord = errors.New("tenant: reserved word")

	// ErrEmptyAlias indicates the alias holds no letters or digits.
	ErrEmptyAlias = errors.New("tenant: alias has no letters or digits")
)

// ReservedWordError reports an alias rejected by ValidateAlias.
type ReservedWordError struct {
	Input string
}

// Error implements the error interface.
func (e *ReservedWordError) Error() string {
	return e.Input + " is a reserved word."
}

// Unwrap returns ErrReservedWord.
func (e *ReservedWordError) Unwrap() error {
	return ErrReservedWord
}

// ValidateAlias rejects the reserved word "account" in any letter case.
// Every other input is accepted.
func ValidateAlias(input string) error {
	if strings.ToLower(input) == reservedWord {
		return &ReservedWordError{Input: input}
	}
	return nil
}

// Variants is the immutable set of names derived from one tenant alias.
// It is passed by value; none of its fields change after Derive returns.
type Variants struct {
	Alias        string // raw alias, trimmed: "Business Unit"
	Camel        string // lower camel: "businessUnit"
	Pascal       string // upper first: "BusinessUnit"
	Upper        string // "BUSINESSUNIT"
	Lower        string // "businessunit"
	Kebab        string // "business-unit"
	Snake        string // "business_unit"
	Title        string // "Business Unit"
	Plural       string // "businessUnits"
	PluralPascal string // "BusinessUnits"
	PluralKebab  string // "business-units"
}

var titleCaser = cases.Title(language.English)

// Derive computes every variant of alias. It is a pure function of its input.
// Accents are stripped before the identifier variants are built.
func Derive(alias string) (Variants, error) {
	alias = strings.TrimSpace(norm.NFC.String(alias))

	camel := strcase.ToLowerCamel(deburr(alias))
	if camel == "" {
		return Variants{}, ErrEmptyAlias
	}

	kebab := strcase.ToKebab(camel)
	plural := inflection.Plural(camel)

	return Variants{
		Alias:        alias,
		Camel:        camel,
		Pascal:       UpperFirst(camel),
		Upper:        strings.ToUpper(camel),
		Lower:        strings.ToLower(camel),
		Kebab:        kebab,
		Snake:        strcase.ToSnake(camel),
		Title:        titleCaser.String(strings.ReplaceAll(kebab, "-", " ")),
		Plural:       plural,
		PluralPascal: UpperFirst(plural),
		PluralKebab:  strcase.ToKebab(plural),
	}, nil
}

// deburr removes combining marks, so "Ünit" becomes "Unit".
func deburr(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// UpperFirst upper-cases the first byte of an ASCII identifier.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Map returns the variants keyed by name, for logs and the run manifest.
func (v Variants) Map() map[string]string {
	return map[string]string{
		"alias":        v.Alias,
		"camel":        v.Camel,
		"pascal":       v.Pascal,
		"upper":        v.Upper,
		"lower":        v.Lower,
		"kebab":        v.Kebab,
		"snake":        v.Snake,
		"title":        v.Title,
		"plural":       v.Plural,
		"pluralPascal": v.PluralPascal,
		"pluralKebab":  v.PluralKebab,
	}
}
