// Package merge computes line diffs between the content a file has on disk
// and the content the generator staged for it.
package merge

import (
	"fmt"
	"strings"
)

// EditOp is the kind of a single line in an edit script.
type EditOp int

const (
	// OpEqual means the line is unchanged.
	OpEqual EditOp = iota
	// OpInsert means the line exists only in the new content.
	OpInsert
	// OpDelete means the line exists only in the old content.
	OpDelete
)

// Line is one entry of a full edit script.
type Line struct {
	Op   EditOp
	Text string
	Old  int // 0-based index in the old lines, -1 for inserts
	New  int // 0-based index in the new lines, -1 for deletes
}

// contextLines is the number of unchanged lines kept around each change.
const contextLines = 3

// DiffLines returns the full edit script turning a into b, equal lines
// included, computed from the longest common subsequence of the two slices.
func DiffLines(a, b []string) []Line {
	m, n := len(a), len(b)

	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, m+1)
	for i := range lcs {
		lcs[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	script := make([]Line, 0, max(m, n))
	i, j := 0, 0
	for i < m || j < n {
		switch {
		case i < m && j < n && a[i] == b[j]:
			script = append(script, Line{Op: OpEqual, Text: a[i], Old: i, New: j})
			i++
			j++
		case i < m && (j == n || lcs[i+1][j] >= lcs[i][j+1]):
			script = append(script, Line{Op: OpDelete, Text: a[i], Old: i, New: -1})
			i++
		default:
			script = append(script, Line{Op: OpInsert, Text: b[j], Old: -1, New: j})
			j++
		}
	}
	return script
}

// Stats counts the inserted and deleted lines of a script.
func Stats(script []Line) (added, removed int) {
	for _, l := range script {
		switch l.Op {
		case OpInsert:
			added++
		case OpDelete:
			removed++
		}
	}
	return added, removed
}

// UnifiedDiff renders the change from old to current as a unified diff.
// A nil old marks a file the generator creates. Identical content yields "".
func UnifiedDiff(filename string, old, current []byte) string {
	script := DiffLines(splitLines(string(old)), splitLines(string(current)))

	hunks := groupHunks(script)
	if len(hunks) == 0 {
		return ""
	}

	var sb strings.Builder
	if old == nil {
		sb.WriteString("--- /dev/null\n")
	} else {
		fmt.Fprintf(&sb, "--- a/%s\n", filename)
	}
	fmt.Fprintf(&sb, "+++ b/%s\n", filename)

	for _, h := range hunks {
		writeHunk(&sb, script[h[0]:h[1]])
	}
	return sb.String()
}

// groupHunks returns [start, end) ranges of script that hold at least one
// change plus up to contextLines of surrounding equal lines. Changes closer
// than twice the context share a hunk.
func groupHunks(script []Line) [][2]int {
	var hunks [][2]int
	for i, l := range script {
		if l.Op == OpEqual {
			continue
		}
		start := max(i-contextLines, 0)
		end := min(i+contextLines+1, len(script))
		if n := len(hunks); n > 0 && start <= hunks[n-1][1] {
			hunks[n-1][1] = end
			continue
		}
		hunks = append(hunks, [2]int{start, end})
	}
	return hunks
}

func writeHunk(sb *strings.Builder, lines []Line) {
	oldStart, newStart := -1, -1
	oldCount, newCount := 0, 0
	for _, l := range lines {
		if l.Op != OpInsert {
			oldCount++
			if oldStart < 0 {
				oldStart = l.Old
			}
		}
		if l.Op != OpDelete {
			newCount++
			if newStart < 0 {
				newStart = l.New
			}
		}
	}

	fmt.Fprintf(sb, "@@ -%s +%s @@\n", hunkRange(oldStart, oldCount), hunkRange(newStart, newCount))
	for _, l := range lines {
		switch l.Op {
		case OpEqual:
			sb.WriteString(" ")
		case OpInsert:
			sb.WriteString("+")
		case OpDelete:
			sb.WriteString("-")
		}
		sb.WriteString(l.Text)
		sb.WriteString("\n")
	}
}

// hunkRange formats one side of a hunk header. An empty side is reported as
// "0,0" the way diff -u does for created files.
func hunkRange(start, count int) string {
	if count == 0 {
		return "0,0"
	}
	return fmt.Sprintf("%d,%d", start+1, count)
}

// splitLines splits content into lines, dropping the empty element a final
// newline would produce.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
