// Package generator runs the multitenancy generator against a JHipster
// project: it reads the host configuration, asks for the tenant alias,
// renders and patches the project files and hands entity regeneration
// back to the host framework.
package generator

import "errors"

// Sentinel errors for generator runs.
var (
	// ErrNoPrompter indicates an interactive run without a prompter.
	ErrNoPrompter = errors.New("generator: no prompter configured")

	// ErrInvalidAlias indicates the tenant alias was rejected.
	ErrInvalidAlias = errors.New("generator: invalid tenant alias")

	// ErrNoTenant indicates an entity run in a project the generator has
	// not been run in yet.
	ErrNoTenant = errors.New("generator: no tenant saved in .yo-rc.json, run the generator first")

	// ErrInvalidEntity indicates an entity name that derives no identifier.
	ErrInvalidEntity = errors.New("generator: invalid entity name")
)
