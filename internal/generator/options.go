package generator

import (
	"github.com/sonalake/jhipster-multitenancy/internal/host"
	"github.com/sonalake/jhipster-multitenancy/internal/patch"
)

// Options configures a generator run.
type Options struct {
	Root            string // project root, for external commands
	Tenant          string // tenant alias; empty asks or uses the default
	NonInteractive  bool   // never prompt
	SkipInstall     bool   // print the install command instead of running it
	SkipDelegate    bool   // do not run the host entity sub-generator
	Strict          bool   // unmatched anchors abort the run
	DryRun          bool   // stage and diff, never write
	JHipsterCommand string // host CLI, "jhipster" when empty
	Regenerate      host.RegenerateOptions
}

// DefaultOptions returns options for a full interactive run in root.
func DefaultOptions(root string) Options {
	return Options{
		Root:       root,
		Regenerate: host.DefaultRegenerateOptions(),
	}
}

// EntityOptions configures an entity hook run.
type EntityOptions struct {
	Name   string // entity the host just generated
	Strict bool   // unmatched anchors abort the run
	DryRun bool   // stage and diff, never write
}

// FileDiff is the pending change of one file in a dry run.
type FileDiff struct {
	Path    string
	Created bool
	Diff    string
}

// Result summarizes a generator run.
type Result struct {
	Tenant         string         // derived Camel name
	Entity         string         // entity name handed to the host, Pascal
	ChangelogDate  string         // Liquibase changelog timestamp
	VersionWarning string         // non-empty when the host is older than supported
	Rendered       []string       // staged render destinations
	Patches        []patch.Result // text patches and JSON edits, in order
	Written        []string       // files committed to disk
	Diffs          []FileDiff     // pending changes when DryRun is set
	Warnings       []string       // non-fatal problems
	ManualInstall  string         // command to run by hand, when install did not run
	Delegated      bool           // host entity sub-generator ran successfully
	Installed      bool           // dependencies were installed
	SkipReason     string         // why an entity run changed nothing
	Counts         map[string]int // patch status -> count
}

// Missing returns the patch results whose anchor or target was not found.
func (r *Result) Missing() []patch.Result {
	var out []patch.Result
	for _, p := range r.Patches {
		if p.Status == patch.AnchorMissing {
			out = append(out, p)
		}
	}
	return out
}

func (r *Result) count(s patch.Status) {
	if r.Counts == nil {
		r.Counts = make(map[string]int)
	}
	r.Counts[s.String()]++
}
