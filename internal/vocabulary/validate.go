package vocabulary

import (
	"fmt"
	"strings"

	"github.com/starford/linkshelf/internal/models"
)

// Validate reports every parent reference that does not name a tag, in tag
// order and then parent order. It does not detect cycles; see Cycles.
func Validate(tags []models.Tag) []string {
	names := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		names[t.Name] = struct{}{}
	}

	var errs []string
	for _, t := range tags {
		for _, p := range t.Parents {
			if _, ok := names[p]; !ok {
				errs = append(errs, fmt.Sprintf("%s mentions unknown parent %s", t.Name, p))
			}
		}
	}
	return errs
}

// Cycles reports tags whose parent chain loops back on itself. Dangling
// parents are ignored. Tags are reported in input order.
func Cycles(tags []models.Tag) []string {
	known := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		known[t.Name] = struct{}{}
	}

	// Edges run parent -> child.
	children := make(map[string][]string)
	parents := make(map[string][]string)
	inDegree := make(map[string]int, len(tags))
	for _, t := range tags {
		if _, ok := inDegree[t.Name]; !ok {
			inDegree[t.Name] = 0
		}
		for _, p := range t.Parents {
			if _, ok := known[p]; !ok {
				continue
			}
			children[p] = append(children[p], t.Name)
			parents[t.Name] = append(parents[t.Name], p)
			inDegree[t.Name]++
		}
	}

	// Kahn's algorithm from the roots down.
	var queue []string
	for _, t := range tags {
		if inDegree[t.Name] == 0 {
			queue = append(queue, t.Name)
		}
	}
	removed := make(map[string]bool, len(tags))
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if removed[cur] {
			continue
		}
		removed[cur] = true
		for _, c := range children[cur] {
			inDegree[c]--
			if inDegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}

	// Peel descendants of a cycle from the leaves up so only loop members remain.
	outDegree := make(map[string]int)
	for name := range inDegree {
		if removed[name] {
			continue
		}
		for _, c := range children[name] {
			if !removed[c] {
				outDegree[name]++
			}
		}
	}
	queue = queue[:0]
	for _, t := range tags {
		if !removed[t.Name] && outDegree[t.Name] == 0 {
			queue = append(queue, t.Name)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if removed[cur] {
			continue
		}
		removed[cur] = true
		for _, p := range parents[cur] {
			if removed[p] {
				continue
			}
			outDegree[p]--
			if outDegree[p] == 0 {
				queue = append(queue, p)
			}
		}
	}

	var errs []string
	reported := make(map[string]bool)
	for _, t := range tags {
		if !removed[t.Name] && !reported[t.Name] {
			reported[t.Name] = true
			errs = append(errs, fmt.Sprintf("%s is part of a parent cycle", t.Name))
		}
	}
	return errs
}

// Report joins validation errors into the text printed on completion.
// It is empty when there is nothing to report.
func Report(errs []string) string {
	return strings.Join(errs, "\n")
}
