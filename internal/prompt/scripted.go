package prompt

import (
	"fmt"
	"slices"
)

// Asked records one question put to a Scripted provider.
type Asked struct {
	Message string
	Default string
	Choices []string
}

// Scripted answers questions from fixed maps keyed by prompt message.
// Unanswered questions take their default. It records what was asked.
type Scripted struct {
	Inputs     map[string]string
	Selections map[string][]string

	Asked []Asked
}

// Input returns the scripted answer for message, or initial.
func (s *Scripted) Input(message, initial string) (string, error) {
	s.Asked = append(s.Asked, Asked{Message: message, Default: initial})
	if v, ok := s.Inputs[message]; ok {
		return v, nil
	}
	return initial, nil
}

// MultiSelect returns the scripted selection for message. Every scripted
// name must be one of choices.
func (s *Scripted) MultiSelect(message string, choices []string) ([]string, error) {
	s.Asked = append(s.Asked, Asked{Message: message, Choices: choices})
	picked := s.Selections[message]
	for _, p := range picked {
		if !slices.Contains(choices, p) {
			return nil, fmt.Errorf("prompt: %q is not a choice for %q", p, message)
		}
	}
	return append([]string(nil), picked...), nil
}

// Select returns the scripted choice for message, or initial.
func (s *Scripted) Select(message string, choices []string, initial string) (string, error) {
	s.Asked = append(s.Asked, Asked{Message: message, Default: initial, Choices: choices})
	v, ok := s.Inputs[message]
	if !ok {
		return initial, nil
	}
	if v != "" && !slices.Contains(choices, v) {
		return "", fmt.Errorf("prompt: %q is not a choice for %q", v, message)
	}
	return v, nil
}
