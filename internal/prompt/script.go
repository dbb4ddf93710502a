package prompt

import (
	"context"
	"fmt"
)

// Script is a Prompter for tests: answers come from pre-loaded queues
// and every asked title is recorded. Running out of answers is a test
// bug and fails loudly.
type Script struct {
	SelectAnswers      []string
	MultiSelectAnswers [][]string
	ConfirmAnswers     []bool
	InputAnswers       []string

	Asked []string
}

func (s *Script) Select(title string, options []Option) (string, error) {
	s.Asked = append(s.Asked, title)
	if len(s.SelectAnswers) == 0 {
		return "", fmt.Errorf("scripted prompter: no select answer for %q", title)
	}
	answer := s.SelectAnswers[0]
	s.SelectAnswers = s.SelectAnswers[1:]
	return answer, nil
}

func (s *Script) MultiSelect(title string, options []Option) ([]string, error) {
	s.Asked = append(s.Asked, title)
	if len(s.MultiSelectAnswers) == 0 {
		return nil, fmt.Errorf("scripted prompter: no multiselect answer for %q", title)
	}
	answer := s.MultiSelectAnswers[0]
	s.MultiSelectAnswers = s.MultiSelectAnswers[1:]
	return answer, nil
}

func (s *Script) Confirm(title, description string) (bool, error) {
	s.Asked = append(s.Asked, title)
	if len(s.ConfirmAnswers) == 0 {
		return false, fmt.Errorf("scripted prompter: no confirm answer for %q", title)
	}
	answer := s.ConfirmAnswers[0]
	s.ConfirmAnswers = s.ConfirmAnswers[1:]
	return answer, nil
}

func (s *Script) Input(title, placeholder string) (string, error) {
	s.Asked = append(s.Asked, title)
	if len(s.InputAnswers) == 0 {
		return "", fmt.Errorf("scripted prompter: no input answer for %q", title)
	}
	answer := s.InputAnswers[0]
	s.InputAnswers = s.InputAnswers[1:]
	return answer, nil
}

// Spin runs fn directly; tests have no terminal to animate.
func (s *Script) Spin(ctx context.Context, title string, fn func() error) error {
	return fn()
}
