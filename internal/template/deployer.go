package template

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// RenderOp renders one template to one destination.
type RenderOp struct {
	Name     string // operation name, unique within a plan
	Template string // path within the template tree
	Dest     string // project-relative destination
	Raw      bool   // copy verbatim instead of rendering
}

// Writer stages file content. *workspace.Workspace satisfies it.
type Writer interface {
	Write(path string, data []byte) error
}

// Deployed is the outcome of one RenderOp.
type Deployed struct {
	Op   RenderOp
	Size int
}

// Deployer renders templates and stages them into a workspace.
// @MX:ANCHOR: [AUTO] every rendered project file passes through Deploy.
type Deployer interface {
	// Deploy renders every op in order and stages the results, overwriting
	// existing destinations. It stops at the first failure.
	Deploy(ctx context.Context, w Writer, ops []RenderOp, tmplCtx *TemplateContext) ([]Deployed, error)

	// ExtractTemplate returns the raw content of a single template by name.
	ExtractTemplate(name string) ([]byte, error)

	// ListTemplates returns the relative paths of all templates.
	ListTemplates() []string
}

// deployer is the concrete implementation of Deployer.
type deployer struct {
	fsys     fs.FS
	renderer Renderer
	logger   *slog.Logger
}

// NewDeployer creates a Deployer backed by the given filesystem.
// In production the fs.FS comes from EmbeddedTemplates; in tests use
// testing/fstest.MapFS.
func NewDeployer(fsys fs.FS, logger *slog.Logger) Deployer {
	if logger == nil {
		logger = slog.Default().With("module", "template")
	}
	return &deployer{fsys: fsys, renderer: NewRenderer(fsys), logger: logger}
}

func (d *deployer) Deploy(ctx context.Context, w Writer, ops []RenderOp, tmplCtx *TemplateContext) ([]Deployed, error) {
	deployed := make([]Deployed, 0, len(ops))
	for _, op := range ops {
		select {
		case <-ctx.Done():
			return deployed, ctx.Err()
		default:
		}

		if err := validateDeployPath(op.Dest); err != nil {
			return deployed, err
		}

		var content []byte
		var err error
		if op.Raw {
			content, err = d.ExtractTemplate(op.Template)
		} else {
			content, err = d.renderer.Render(op.Template, tmplCtx)
		}
		if err != nil {
			return deployed, fmt.Errorf("render %s: %w", op.Name, err)
		}

		if err := w.Write(op.Dest, content); err != nil {
			return deployed, fmt.Errorf("stage %s: %w", op.Dest, err)
		}
		d.logger.Debug("rendered", "op", op.Name, "dest", op.Dest, "bytes", len(content))
		deployed = append(deployed, Deployed{Op: op, Size: len(content)})
	}
	return deployed, nil
}

// ExtractTemplate returns the content of a single named template.
func (d *deployer) ExtractTemplate(name string) ([]byte, error) {
	data, err := fs.ReadFile(d.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return data, nil
}

// ListTemplates returns sorted relative paths of all files in the template tree.
func (d *deployer) ListTemplates() []string {
	var list []string
	_ = fs.WalkDir(d.fsys, ".", func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors during listing
		}
		if p == "." || entry.IsDir() {
			return nil
		}
		list = append(list, p)
		return nil
	})
	slices.Sort(list)
	return list
}

// validateDeployPath rejects destinations that are absolute or climb out
// of the project root.
func validateDeployPath(relPath string) error {
	if relPath == "" {
		return fmt.Errorf("%w: empty destination", ErrPathTraversal)
	}
	if filepath.IsAbs(relPath) || strings.HasPrefix(relPath, "/") {
		return fmt.Errorf("%w: absolute path %q", ErrPathTraversal, relPath)
	}
	cleaned := path.Clean(filepath.ToSlash(relPath))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("%w: %q escapes project root", ErrPathTraversal, relPath)
	}
	return nil
}
