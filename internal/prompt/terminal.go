package prompt

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/peterh/liner"
)

// ErrAborted is returned when the operator cancels a prompt.
var ErrAborted = errors.New("prompt: aborted")

// Terminal asks questions on the controlling terminal with line editing,
// editable defaults and tab completion of choices.
type Terminal struct {
	line *liner.State
	out  io.Writer
}

// NewTerminal starts line editing. Hints and listings go to out.
// Close must be called to restore the terminal.
func NewTerminal(out io.Writer) *Terminal {
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	l.SetTabCompletionStyle(liner.TabPrints)
	return &Terminal{line: l, out: out}
}

// Close restores the terminal mode.
func (t *Terminal) Close() error {
	return t.line.Close()
}

// Input asks a free-text question. The default is pre-filled for editing;
// an empty answer keeps it and "-" clears it.
func (t *Terminal) Input(message, initial string) (string, error) {
	t.line.SetWordCompleter(nil)
	answer, err := t.line.PromptWithSuggestion(message+": ", initial, -1)
	if err != nil {
		return "", t.wrap(err)
	}
	return resolveInput(answer, initial), nil
}

// MultiSelect asks for any number of choices, typed as space or comma
// separated names with tab completion. Unknown names re-ask the question.
func (t *Terminal) MultiSelect(message string, choices []string) ([]string, error) {
	t.line.SetWordCompleter(func(line string, pos int) (string, []string, string) {
		return completeWord(line, pos, choices)
	})
	defer t.line.SetWordCompleter(nil)

	fmt.Fprintf(t.out, "%s [%s]\n", message, strings.Join(choices, " "))
	for {
		answer, err := t.line.Prompt("> ")
		if err != nil {
			return nil, t.wrap(err)
		}
		selected, unknown := Split(answer, choices)
		if len(unknown) == 0 {
			return selected, nil
		}
		fmt.Fprintf(t.out, "unknown: %s\n", strings.Join(unknown, ", "))
	}
}

// Select asks for exactly one of choices, pre-filled with initial.
// An empty answer with an empty initial selects nothing.
func (t *Terminal) Select(message string, choices []string, initial string) (string, error) {
	t.line.SetWordCompleter(func(line string, pos int) (string, []string, string) {
		return completeWord(line, pos, choices)
	})
	defer t.line.SetWordCompleter(nil)

	fmt.Fprintf(t.out, "%s [%s]\n", message, strings.Join(choices, " "))
	for {
		answer, err := t.line.PromptWithSuggestion("> ", initial, -1)
		if err != nil {
			return "", t.wrap(err)
		}
		choice := resolveInput(answer, initial)
		if choice == "" || slices.Contains(choices, choice) {
			return choice, nil
		}
		fmt.Fprintf(t.out, "unknown: %s\n", choice)
	}
}

func (t *Terminal) wrap(err error) error {
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return ErrAborted
	}
	return fmt.Errorf("prompt: %w", err)
}
