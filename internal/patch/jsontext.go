package patch

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

var errUnterminated = errors.New("unterminated value")

// pathSegments reduces x to member names and array indexes.
func pathSegments(x jp.Expr) ([]any, error) {
	var segs []any
	for i, f := range x {
		switch f := f.(type) {
		case jp.Root:
			if i != 0 {
				return nil, errors.New("root must lead the path")
			}
		case jp.Bracket:
		case jp.Child:
			segs = append(segs, string(f))
		case jp.Nth:
			if f < 0 {
				return nil, fmt.Errorf("negative index %d", int(f))
			}
			segs = append(segs, int(f))
		default:
			return nil, fmt.Errorf("unsupported path fragment %T", f)
		}
	}
	return segs, nil
}

// spliceJSON writes value at segs into data by rewriting only the bytes of
// the target value, or by inserting a new member or element before the
// closing bracket of the deepest existing container. Missing members along
// the path are created as nested objects.
func spliceJSON(data []byte, segs []any, value any, appendValue bool, indent int) ([]byte, error) {
	start := skipSpace(data, 0)
	end, err := skipValue(data, start)
	if err != nil {
		return nil, err
	}

	resolved := 0
	for _, seg := range segs {
		var (
			s, e  int
			found bool
		)
		switch seg := seg.(type) {
		case string:
			if data[start] != '{' {
				return nil, fmt.Errorf("%q: parent is not an object", seg)
			}
			s, e, found, err = findMember(data, start, seg)
		case int:
			if data[start] != '[' {
				return nil, fmt.Errorf("[%d]: parent is not an array", seg)
			}
			s, e, found, err = findElement(data, start, seg)
		}
		if err != nil {
			return nil, err
		}
		if !found {
			break
		}
		start, end = s, e
		resolved++
	}

	rest := segs[resolved:]
	if len(rest) == 0 {
		if !appendValue {
			return replaceSpan(data, start, end, value, indent), nil
		}
		if data[start] != '[' {
			return nil, errors.New("append target is not an array")
		}
		return insertInto(data, start, end, "", value, indent), nil
	}

	key, ok := rest[0].(string)
	if !ok || data[start] != '{' {
		return nil, fmt.Errorf("cannot create %v", rest[0])
	}
	if appendValue {
		value = []any{value}
	}
	for i := len(rest) - 1; i > 0; i-- {
		k, ok := rest[i].(string)
		if !ok {
			return nil, fmt.Errorf("cannot create [%v]", rest[i])
		}
		value = map[string]any{k: value}
	}
	return insertInto(data, start, end, oj.JSON(key)+": ", value, indent), nil
}

// replaceSpan swaps data[start:end] for value rendered at the indent of its
// line.
func replaceSpan(data []byte, start, end int, value any, indent int) []byte {
	if !multiline(data) {
		indent = 0
	}
	return splice(data, start, end, renderJSON(value, indent, lineIndent(data, start)))
}

// insertInto adds label+value as the last entry of the container at
// data[start:end]. Single-line containers stay on one line.
func insertInto(data []byte, start, end int, label string, value any, indent int) []byte {
	closing := end - 1
	last := closing - 1
	for last > start && isSpace(data[last]) {
		last--
	}
	empty := last == start

	if !bytes.ContainsRune(data[start:end], '\n') {
		text := label + renderJSON(value, 0, "")
		if empty {
			return splice(data, start+1, closing, text)
		}
		return splice(data, last+1, last+1, ", "+text)
	}

	child := childIndent(data, start, indent)
	text := label + renderJSON(value, indent, child)
	if empty {
		return splice(data, start+1, closing, "\n"+child+text+"\n"+lineIndent(data, start))
	}
	return splice(data, last+1, last+1, ",\n"+child+text)
}

// childIndent is the indent of the first entry of the container at start,
// or one level deeper than the container's line when it is empty.
func childIndent(data []byte, start, indent int) string {
	first := skipSpace(data, start+1)
	gap := data[start+1 : first]
	if i := bytes.LastIndexByte(gap, '\n'); i >= 0 && first < len(data) && data[first] != '}' && data[first] != ']' {
		return string(gap[i+1:])
	}
	return lineIndent(data, start) + strings.Repeat(" ", indent)
}

func lineIndent(data []byte, pos int) string {
	from := bytes.LastIndexByte(data[:pos], '\n') + 1
	to := from
	for to < pos && (data[to] == ' ' || data[to] == '\t') {
		to++
	}
	return string(data[from:to])
}

func multiline(data []byte) bool {
	return bytes.ContainsRune(bytes.TrimSpace(data), '\n')
}

func splice(data []byte, from, to int, text string) []byte {
	out := make([]byte, 0, len(data)+len(text))
	out = append(out, data[:from]...)
	out = append(out, text...)
	return append(out, data[to:]...)
}

// findMember returns the value span of member key in the object at start.
func findMember(data []byte, start int, key string) (int, int, bool, error) {
	i := skipSpace(data, start+1)
	for i < len(data) && data[i] != '}' {
		keyEnd, err := skipString(data, i)
		if err != nil {
			return 0, 0, false, err
		}
		name, err := oj.ParseString(string(data[i:keyEnd]))
		if err != nil {
			return 0, 0, false, err
		}
		i = skipSpace(data, keyEnd)
		if i >= len(data) || data[i] != ':' {
			return 0, 0, false, errors.New("missing ':' after member name")
		}
		i = skipSpace(data, i+1)
		valueEnd, err := skipValue(data, i)
		if err != nil {
			return 0, 0, false, err
		}
		if name == key {
			return i, valueEnd, true, nil
		}
		i = skipEntrySeparator(data, valueEnd)
	}
	return 0, 0, false, nil
}

// findElement returns the span of element n of the array at start.
func findElement(data []byte, start, n int) (int, int, bool, error) {
	i := skipSpace(data, start+1)
	for idx := 0; i < len(data) && data[i] != ']'; idx++ {
		valueEnd, err := skipValue(data, i)
		if err != nil {
			return 0, 0, false, err
		}
		if idx == n {
			return i, valueEnd, true, nil
		}
		i = skipEntrySeparator(data, valueEnd)
	}
	return 0, 0, false, nil
}

func skipEntrySeparator(data []byte, i int) int {
	i = skipSpace(data, i)
	if i < len(data) && data[i] == ',' {
		i = skipSpace(data, i+1)
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func skipSpace(data []byte, i int) int {
	for i < len(data) && isSpace(data[i]) {
		i++
	}
	return i
}

// skipString returns the offset just past the string starting at i.
func skipString(data []byte, i int) (int, error) {
	for j := i + 1; j < len(data); j++ {
		switch data[j] {
		case '\\':
			j++
		case '"':
			return j + 1, nil
		}
	}
	return 0, errUnterminated
}

// skipValue returns the offset just past the value starting at i.
func skipValue(data []byte, i int) (int, error) {
	if i >= len(data) {
		return 0, errUnterminated
	}
	switch data[i] {
	case '"':
		return skipString(data, i)
	case '{', '[':
		depth := 0
		for j := i; j < len(data); j++ {
			switch data[j] {
			case '"':
				end, err := skipString(data, j)
				if err != nil {
					return 0, err
				}
				j = end - 1
			case '{', '[':
				depth++
			case '}', ']':
				depth--
				if depth == 0 {
					return j + 1, nil
				}
			}
		}
		return 0, errUnterminated
	default:
		j := i
		for j < len(data) && !isSpace(data[j]) && data[j] != ',' && data[j] != '}' && data[j] != ']' {
			j++
		}
		return j, nil
	}
}
