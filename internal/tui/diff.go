package tui

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/voltray/internal/config"
)

type diffKind int

const (
	diffContext diffKind = iota
	diffRemoved
	diffAdded
)

type diffLine struct {
	kind diffKind
	text string
}

// diffContextLines is how many unchanged lines are kept around each change.
const diffContextLines = 2

// maxDiffCells bounds the LCS table; larger inputs are shown as a full
// replacement.
const maxDiffCells = 250_000

// computeDiffLines renders both configs as YAML and diffs them line by line.
// It returns nil when either config is missing or nothing changed.
func computeDiffLines(original, current *config.Config) []diffLine {
	before, ok := yamlLines(original)
	if !ok {
		return nil
	}
	after, ok := yamlLines(current)
	if !ok {
		return nil
	}
	return lcsDiff(before, after)
}

func yamlLines(cfg *config.Config) ([]string, bool) {
	if cfg == nil {
		return nil, false
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, false
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n"), true
}

// lcsDiff diffs a against b and trims unchanged runs down to
// diffContextLines of context. It returns nil when a equals b.
func lcsDiff(a, b []string) []diffLine {
	if (len(a)+1)*(len(b)+1) > maxDiffCells {
		out := make([]diffLine, 0, len(a)+len(b))
		for _, l := range a {
			out = append(out, diffLine{diffRemoved, l})
		}
		for _, l := range b {
			out = append(out, diffLine{diffAdded, l})
		}
		return filterDiffContext(out, diffContextLines)
	}

	// suffix[i*w+j] is the LCS length of a[i:] and b[j:].
	w := len(b) + 1
	suffix := make([]int, (len(a)+1)*w)
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			switch {
			case a[i] == b[j]:
				suffix[i*w+j] = suffix[(i+1)*w+j+1] + 1
			default:
				suffix[i*w+j] = max(suffix[(i+1)*w+j], suffix[i*w+j+1])
			}
		}
	}

	out := make([]diffLine, 0, max(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			out = append(out, diffLine{diffContext, a[i]})
			i++
			j++
		case j == len(b) || (i < len(a) && suffix[(i+1)*w+j] >= suffix[i*w+j+1]):
			out = append(out, diffLine{diffRemoved, a[i]})
			i++
		default:
			out = append(out, diffLine{diffAdded, b[j]})
			j++
		}
	}
	return filterDiffContext(out, diffContextLines)
}

// filterDiffContext keeps changed lines plus ctx lines either side and
// replaces each dropped run with a single "..." line. It returns nil when
// nothing changed.
func filterDiffContext(lines []diffLine, ctx int) []diffLine {
	// dist[i] is the distance from line i to the nearest change.
	const far = int(^uint(0) >> 1)
	dist := make([]int, len(lines))
	last := -1
	for i, l := range lines {
		if l.kind != diffContext {
			last = i
		}
		dist[i] = far
		if last >= 0 {
			dist[i] = i - last
		}
	}
	if last < 0 {
		return nil
	}
	next := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i].kind != diffContext {
			next = i
		}
		if next >= 0 {
			dist[i] = min(dist[i], next-i)
		}
	}

	var out []diffLine
	elided := false
	for i, l := range lines {
		if dist[i] > ctx {
			elided = true
			continue
		}
		if elided {
			out = append(out, diffLine{diffContext, "..."})
		}
		elided = false
		out = append(out, l)
	}
	return out
}
