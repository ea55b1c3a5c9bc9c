// internal/diff/diff.go
package diff

import (
	"bytes"
	"fmt"
)

// Line is one line of a diff with its position in either side. OldNum or
// NewNum is zero where the line does not exist on that side.
type Line struct {
	Type    LineType
	Content string
	OldNum  int
	NewNum  int
}

type LineType int

const (
	Context LineType = iota
	Addition
	Deletion
)

// DiffResult contains the complete diff information
type DiffResult struct {
	Hunks []Hunk
	Stats struct {
		Additions int
		Deletions int
		Changes   int
	}
}

// Empty reports whether the two inputs were identical.
func (r *DiffResult) Empty() bool {
	return len(r.Hunks) == 0
}

// Hunk represents a continuous section of changes plus surrounding context
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// Engine provides diffing capabilities
type Engine struct {
	contextLines int
}

func NewEngine(contextLines int) *Engine {
	if contextLines < 0 {
		contextLines = 0
	}
	return &Engine{
		contextLines: contextLines,
	}
}

func splitLines(content []byte) [][]byte {
	if len(content) == 0 {
		return nil
	}
	return bytes.Split(bytes.TrimSuffix(content, []byte{'\n'}), []byte{'\n'})
}

// Diff generates a line-by-line diff between two contents
func (e *Engine) Diff(oldContent, newContent []byte) (*DiffResult, error) {
	oldLines := splitLines(oldContent)
	newLines := splitLines(newContent)

	script := e.editScript(oldLines, newLines)

	result := &DiffResult{}
	result.Hunks = e.group(script)

	for _, line := range script {
		switch line.Type {
		case Addition:
			result.Stats.Additions++
		case Deletion:
			result.Stats.Deletions++
		}
	}
	result.Stats.Changes = result.Stats.Additions + result.Stats.Deletions

	return result, nil
}

// editScript walks a longest-common-subsequence table forward and emits
// every line of both inputs in order.
func (e *Engine) editScript(oldLines, newLines [][]byte) []Line {
	n, m := len(oldLines), len(newLines)

	// lcs[i][j] is the LCS length of oldLines[i:] and newLines[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if bytes.Equal(oldLines[i], newLines[j]) {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	script := make([]Line, 0, n+m)
	i, j := 0, 0
	for i < n || j < m {
		switch {
		case i < n && j < m && bytes.Equal(oldLines[i], newLines[j]):
			script = append(script, Line{Type: Context, Content: string(oldLines[i]), OldNum: i + 1, NewNum: j + 1})
			i++
			j++
		case i < n && (j == m || lcs[i+1][j] >= lcs[i][j+1]):
			script = append(script, Line{Type: Deletion, Content: string(oldLines[i]), OldNum: i + 1})
			i++
		default:
			script = append(script, Line{Type: Addition, Content: string(newLines[j]), NewNum: j + 1})
			j++
		}
	}
	return script
}

// group cuts the edit script into hunks, keeping contextLines of unchanged
// lines around each change and merging hunks whose context would overlap.
func (e *Engine) group(script []Line) []Hunk {
	var hunks []Hunk

	for start := 0; start < len(script); {
		first := nextChange(script, start)
		if first < 0 {
			break
		}

		from := max(start, first-e.contextLines)
		last := first
		for {
			next := nextChange(script, last+1)
			if next < 0 || next-last-1 > 2*e.contextLines {
				break
			}
			last = next
		}
		to := min(len(script), last+1+e.contextLines)

		hunks = append(hunks, newHunk(script, from, to))
		start = to
	}

	return hunks
}

func nextChange(script []Line, from int) int {
	for i := from; i < len(script); i++ {
		if script[i].Type != Context {
			return i
		}
	}
	return -1
}

// newHunk builds the hunk for script[from:to]. Line positions before the
// hunk are recovered from the preceding lines.
func newHunk(script []Line, from, to int) Hunk {
	h := Hunk{Lines: append([]Line(nil), script[from:to]...)}

	oldBefore, newBefore := 0, 0
	for _, line := range script[:from] {
		if line.OldNum > 0 {
			oldBefore = line.OldNum
		}
		if line.NewNum > 0 {
			newBefore = line.NewNum
		}
	}

	for _, line := range h.Lines {
		if line.Type != Addition {
			h.OldLines++
		}
		if line.Type != Deletion {
			h.NewLines++
		}
	}

	h.OldStart = oldBefore
	if h.OldLines > 0 {
		h.OldStart++
	}
	h.NewStart = newBefore
	if h.NewLines > 0 {
		h.NewStart++
	}
	return h
}

// Format renders the result in unified diff style.
func (r *DiffResult) Format() string {
	var buf bytes.Buffer

	for _, hunk := range r.Hunks {
		buf.WriteString(hunk.Header())
		buf.WriteString("\n")

		for _, line := range hunk.Lines {
			buf.WriteString(line.Prefix())
			buf.WriteString(line.Content)
			buf.WriteString("\n")
		}
	}

	return buf.String()
}

func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
}

func (l Line) Prefix() string {
	switch l.Type {
	case Addition:
		return "+"
	case Deletion:
		return "-"
	default:
		return " "
	}
}
