// Package patch applies targeted edits to files the host framework
// generated: text insertions located by an anchor string or regular
// expression, and value updates in JSON documents located by JSONPath.
//
// A patch never corrupts its target. When the anchor is absent the content
// is returned unchanged and the outcome is reported as AnchorMissing.
package patch

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors for patch operations.
var (
	// ErrAnchorNotFound indicates the anchor does not occur in the target (strict mode).
	ErrAnchorNotFound = errors.New("patch: anchor not found")

	// ErrTargetMissing indicates the target file does not exist (strict mode).
	ErrTargetMissing = errors.New("patch: target file missing")

	// ErrNoAnchor indicates a patch defines neither Anchor nor Pattern.
	ErrNoAnchor = errors.New("patch: no anchor or pattern")

	// ErrInvalidPattern indicates Pattern is not a valid regular expression.
	ErrInvalidPattern = errors.New("patch: invalid pattern")

	// ErrInvalidPath indicates a JSONPath that cannot be parsed or set.
	ErrInvalidPath = errors.New("patch: invalid JSON path")

	// ErrInvalidJSON indicates the target of a JSON edit is not valid JSON.
	ErrInvalidJSON = errors.New("patch: invalid JSON document")
)

// Mode selects where the payload goes relative to the anchor.
type Mode int

const (
	// InsertBefore places the payload immediately before the anchor.
	InsertBefore Mode = iota
	// InsertAfter places the payload immediately after the anchor.
	InsertAfter
	// Replace substitutes the payload for the anchor.
	Replace
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case InsertBefore:
		return "insert-before"
	case InsertAfter:
		return "insert-after"
	case Replace:
		return "replace"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Status is the outcome of one patch or JSON edit.
type Status int

const (
	// Applied means the target content changed.
	Applied Status = iota + 1
	// AlreadyApplied means the payload was already in place.
	AlreadyApplied
	// AnchorMissing means the anchor or the target file was not found and
	// nothing changed.
	AnchorMissing
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Applied:
		return "applied"
	case AlreadyApplied:
		return "already-applied"
	case AnchorMissing:
		return "anchor-missing"
	default:
		return "unknown"
	}
}

// Patch is one targeted text edit.
type Patch struct {
	Name    string
	File    string // project-relative path
	Anchor  string // literal anchor; takes precedence over Pattern
	Pattern string // regular expression anchor
	Payload string
	Mode    Mode

	// LineAware inserts the payload as whole lines before or after the line
	// holding the anchor, each payload line prefixed with that line's
	// indentation. Ignored by Replace.
	LineAware bool

	// Guard marks the patch as already applied whenever the target contains
	// it, wherever it sits. Used for payloads that later patches move away
	// from the anchor.
	Guard string
}

// describe returns the anchor text used in messages.
func (p Patch) describe() string {
	if p.Anchor != "" {
		return fmt.Sprintf("%q", p.Anchor)
	}
	return fmt.Sprintf("/%s/", p.Pattern)
}

// locate returns the byte range of the first anchor match, or ok=false.
func (p Patch) locate(content string) (start, end int, re *regexp.Regexp, ok bool, err error) {
	switch {
	case p.Anchor != "":
		i := strings.Index(content, p.Anchor)
		if i < 0 {
			return 0, 0, nil, false, nil
		}
		return i, i + len(p.Anchor), nil, true, nil
	case p.Pattern != "":
		re, err = regexp.Compile(p.Pattern)
		if err != nil {
			return 0, 0, nil, false, fmt.Errorf("%w: %s: %v", ErrInvalidPattern, p.Name, err)
		}
		loc := re.FindStringIndex(content)
		if loc == nil {
			return 0, 0, re, false, nil
		}
		return loc[0], loc[1], re, true, nil
	default:
		return 0, 0, nil, false, fmt.Errorf("%w: %s", ErrNoAnchor, p.Name)
	}
}

// Apply splices p into content. It is pure: the result depends only on its
// arguments. When the anchor is absent content is returned unchanged with
// AnchorMissing; when the payload already sits where it would be inserted,
// or the target contains Guard, content is returned unchanged with
// AlreadyApplied.
func Apply(content string, p Patch) (string, Status, error) {
	start, end, re, ok, err := p.locate(content)
	if err != nil {
		return content, 0, err
	}
	if p.Guard != "" && strings.Contains(content, p.Guard) {
		return content, AlreadyApplied, nil
	}

	if p.Mode == Replace {
		return applyReplace(content, p, start, end, re, ok)
	}
	if !ok {
		return content, AnchorMissing, nil
	}
	if p.LineAware {
		return applyLines(content, p, start, end)
	}

	switch p.Mode {
	case InsertBefore:
		if strings.HasSuffix(content[:start], p.Payload) {
			return content, AlreadyApplied, nil
		}
		return content[:start] + p.Payload + content[start:], Applied, nil
	case InsertAfter:
		if strings.HasPrefix(content[end:], p.Payload) {
			return content, AlreadyApplied, nil
		}
		return content[:end] + p.Payload + content[end:], Applied, nil
	default:
		return content, 0, fmt.Errorf("patch %s: unsupported mode %s", p.Name, p.Mode)
	}
}

func applyReplace(content string, p Patch, start, end int, re *regexp.Regexp, ok bool) (string, Status, error) {
	if !ok {
		if p.Payload != "" && !strings.Contains(p.Payload, "$") && strings.Contains(content, p.Payload) {
			return content, AlreadyApplied, nil
		}
		return content, AnchorMissing, nil
	}

	replacement := p.Payload
	if re != nil {
		match := re.FindStringSubmatchIndex(content)
		replacement = string(re.ExpandString(nil, p.Payload, content, match))
	}
	if replacement == content[start:end] {
		return content, AlreadyApplied, nil
	}
	return content[:start] + replacement + content[end:], Applied, nil
}

// applyLines inserts the payload as whole lines around the anchor line.
func applyLines(content string, p Patch, start, end int) (string, Status, error) {
	lineStart := strings.LastIndexByte(content[:start], '\n') + 1

	lineEnd := len(content)
	if i := strings.IndexByte(content[end:], '\n'); i >= 0 {
		lineEnd = end + i + 1
	}

	line := content[lineStart:]
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	block := indentBlock(p.Payload, indent)

	switch p.Mode {
	case InsertBefore:
		if strings.HasSuffix(content[:lineStart], block) {
			return content, AlreadyApplied, nil
		}
		return content[:lineStart] + block + content[lineStart:], Applied, nil
	case InsertAfter:
		rest := content[lineEnd:]
		if rest != "" && strings.HasPrefix(withNewline(rest), block) {
			return content, AlreadyApplied, nil
		}
		head := content[:lineEnd]
		if !strings.HasSuffix(head, "\n") {
			return head + "\n" + strings.TrimSuffix(block, "\n"), Applied, nil
		}
		return head + block + rest, Applied, nil
	default:
		return content, 0, fmt.Errorf("patch %s: unsupported mode %s", p.Name, p.Mode)
	}
}

func withNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// indentBlock prefixes every non-empty payload line with indent and
// terminates each line with a newline.
func indentBlock(payload, indent string) string {
	lines := strings.Split(strings.TrimSuffix(payload, "\n"), "\n")
	var sb strings.Builder
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			sb.WriteString(indent)
			sb.WriteString(l)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
