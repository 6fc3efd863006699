package patch

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// JSON indentation used by the host framework.
const (
	IndentEntity = 4 // .jhipster entity and module hook files
	IndentConfig = 2 // i18n and .yo-rc.json
)

// JSONEdit sets or appends one value in a JSON document.
type JSONEdit struct {
	Name  string
	File  string
	Path  string // JSONPath, "$" for the document root
	Value any

	// Append adds Value to the array at Path unless an equal element is
	// already present.
	Append bool

	// CreateFile starts from an empty document when File does not exist:
	// an array when Append is set, an object otherwise.
	CreateFile bool

	// Indent is the number of spaces per nesting level in the output.
	Indent int
}

// EditJSON applies e to its target file and stages the result. Existing
// documents are edited in place: other keys keep their order and layout.
func (pt *Patcher) EditJSON(ctx context.Context, store Store, e JSONEdit) (Result, error) {
	res := Result{Name: e.Name, File: e.File}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	x, err := jp.ParseString(e.Path)
	if err == nil && len(x) == 0 {
		err = errors.New("empty path")
	}
	var segs []any
	if err == nil {
		segs, err = pathSegments(x)
	}
	if err != nil {
		return res, fmt.Errorf("%w: %s: %q: %v", ErrInvalidPath, e.Name, e.Path, err)
	}

	var (
		doc  any
		data []byte
	)
	switch {
	case store.Exists(e.File):
		if data, err = store.Read(e.File); err != nil {
			return res, fmt.Errorf("edit %s: %w", e.Name, err)
		}
		if doc, err = oj.ParseString(string(data)); err != nil {
			return res, fmt.Errorf("%w: %s: %v", ErrInvalidJSON, e.File, err)
		}
	case e.CreateFile && e.Append:
		doc = []any{}
	case e.CreateFile:
		doc = map[string]any{}
	default:
		return pt.missing(res, ErrTargetMissing, "target file not found")
	}

	updated, status, err := SetJSON(doc, x, e.Value, e.Append)
	if err != nil {
		return pt.missing(res, ErrAnchorNotFound, err.Error())
	}
	res.Status = status

	if status == Applied {
		out := MarshalJSON(updated, e.Indent)
		if data != nil {
			if out, err = spliceJSON(data, segs, e.Value, e.Append, e.Indent); err != nil {
				return res, fmt.Errorf("%w: %s: %q: %v", ErrInvalidPath, e.Name, e.Path, err)
			}
		}
		if err := store.Write(e.File, out); err != nil {
			return res, fmt.Errorf("edit %s: %w", e.Name, err)
		}
	}

	pt.logger.Debug("json edit", "name", e.Name, "file", e.File, "path", e.Path, "status", status.String())
	return res, nil
}

// SetJSON sets value at x in doc, or appends it to the array at x when
// appendValue is set. It returns the updated document, which is doc itself
// unless x addresses the root.
func SetJSON(doc any, x jp.Expr, value any, appendValue bool) (any, Status, error) {
	current := x.First(doc)
	_, isRoot := x[0].(jp.Root)
	isRoot = isRoot && len(x) == 1

	if appendValue {
		arr, ok := current.([]any)
		if current != nil && !ok {
			return doc, 0, fmt.Errorf("%w: %s is not an array", ErrInvalidPath, x)
		}
		if slices.ContainsFunc(arr, func(v any) bool { return reflect.DeepEqual(v, value) }) {
			return doc, AlreadyApplied, nil
		}
		value = append(slices.Clone(arr), value)
	} else if current != nil && reflect.DeepEqual(current, value) {
		return doc, AlreadyApplied, nil
	}

	if isRoot {
		return value, Applied, nil
	}
	if err := x.Set(doc, value); err != nil {
		return doc, 0, fmt.Errorf("%w: %s: %v", ErrInvalidPath, x, err)
	}
	if !reflect.DeepEqual(x.First(doc), value) {
		return doc, 0, fmt.Errorf("%w: %s could not be set", ErrInvalidPath, x)
	}
	return doc, Applied, nil
}

// MarshalJSON renders a new document with the given indent and a trailing
// newline. Map keys are sorted since Go maps carry no order.
func MarshalJSON(doc any, indent int) []byte {
	return []byte(renderJSON(doc, indent, "") + "\n")
}

func renderJSON(v any, indent int, base string) string {
	opts := oj.DefaultOptions
	opts.Indent = indent
	opts.Sort = true
	opts.HTMLUnsafe = true
	s := oj.JSON(v, &opts)
	if indent > 0 && base != "" {
		s = strings.ReplaceAll(s, "\n", "\n"+base)
	}
	return s
}
