// Package prompt provides answer providers for the entry composer: an
// interactive terminal backed by liner and a scripted provider for tests
// and non-interactive callers.
package prompt

import (
	"slices"
	"strings"
)

// ClearAnswer typed at an input prompt replaces the default with "".
const ClearAnswer = "-"

// Split parses a tag selection typed as space or comma separated names.
// Duplicates are dropped; names not in choices are returned as unknown.
func Split(input string, choices []string) (selected, unknown []string) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for _, f := range fields {
		if slices.Contains(selected, f) || slices.Contains(unknown, f) {
			continue
		}
		if slices.Contains(choices, f) {
			selected = append(selected, f)
		} else {
			unknown = append(unknown, f)
		}
	}
	return selected, unknown
}

// completeWord completes the word under the cursor against choices,
// skipping choices already present elsewhere on the line.
func completeWord(line string, pos int, choices []string) (head string, completions []string, tail string) {
	runes := []rune(line)
	if pos > len(runes) {
		pos = len(runes)
	}
	start := pos
	for start > 0 && runes[start-1] != ' ' && runes[start-1] != ',' {
		start--
	}
	head = string(runes[:start])
	tail = string(runes[pos:])
	word := string(runes[start:pos])

	taken, _ := Split(head+" "+tail, choices)
	for _, c := range choices {
		if strings.HasPrefix(c, word) && !slices.Contains(taken, c) {
			completions = append(completions, c+" ")
		}
	}
	return head, completions, tail
}

// resolveInput applies the default and clear conventions to a typed answer.
func resolveInput(answer, initial string) string {
	answer = strings.TrimSpace(answer)
	switch answer {
	case "":
		return initial
	case ClearAnswer:
		return ""
	default:
		return answer
	}
}
