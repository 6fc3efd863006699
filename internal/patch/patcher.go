package patch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Store is the file access a Patcher needs. *workspace.Workspace satisfies it.
type Store interface {
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
	Exists(path string) bool
}

// Result reports the outcome of one patch or JSON edit.
type Result struct {
	Name   string
	File   string
	Status Status
	Detail string // why an edit was not applied
}

// Patcher applies patches and JSON edits through a Store.
type Patcher struct {
	strict bool
	logger *slog.Logger
}

// Option configures a Patcher.
type Option func(*Patcher)

// WithStrict makes a missing target or anchor an error instead of a
// reported AnchorMissing result.
func WithStrict(strict bool) Option {
	return func(p *Patcher) {
		p.strict = strict
	}
}

// WithLogger sets the logger used for patch outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(p *Patcher) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPatcher creates a Patcher.
func NewPatcher(opts ...Option) *Patcher {
	p := &Patcher{
		logger: slog.Default().With("module", "patch"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Patch applies p to its target file and stages the result.
func (pt *Patcher) Patch(ctx context.Context, store Store, p Patch) (Result, error) {
	res := Result{Name: p.Name, File: p.File}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	if !store.Exists(p.File) {
		return pt.missing(res, ErrTargetMissing, "target file not found")
	}

	data, err := store.Read(p.File)
	if err != nil {
		return res, fmt.Errorf("patch %s: %w", p.Name, err)
	}

	out, status, err := Apply(string(data), p)
	if err != nil {
		return res, err
	}
	res.Status = status

	switch status {
	case AnchorMissing:
		return pt.missing(res, ErrAnchorNotFound, "anchor "+p.describe()+" not found")
	case Applied:
		if err := store.Write(p.File, []byte(out)); err != nil {
			return res, fmt.Errorf("patch %s: %w", p.Name, err)
		}
	}

	pt.logger.Debug("patch", "name", p.Name, "file", p.File, "status", status.String())
	return res, nil
}

// missing records an unmatched anchor or target. In strict mode it returns
// sentinel wrapped with the file and detail.
func (pt *Patcher) missing(res Result, sentinel error, detail string) (Result, error) {
	res.Status = AnchorMissing
	res.Detail = detail
	if pt.strict {
		return res, fmt.Errorf("%w: %s: %s", sentinel, res.File, detail)
	}
	pt.logger.Warn("patch not applied", "name", res.Name, "file", res.File, "reason", detail)
	return res, nil
}

// IsMissing reports whether err came from a missing anchor or target.
func IsMissing(err error) bool {
	return errors.Is(err, ErrAnchorNotFound) || errors.Is(err, ErrTargetMissing)
}
