// Package prompt wraps the interactive terminal forms behind a small
// interface so workflows can be driven by a scripted fake in tests.
package prompt

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrCancelled is returned when the user backs out of a prompt.
var ErrCancelled = errors.New("cancelled")

// Option is one selectable entry: Label is shown, Value is returned.
type Option struct {
	Label string
	Value string
}

// Opt builds an Option whose label and value are the same string.
func Opt(s string) Option {
	return Option{Label: s, Value: s}
}

// Prompter asks the user questions. All geeto interaction funnels
// through here.
type Prompter interface {
	Select(title string, options []Option) (string, error)
	MultiSelect(title string, options []Option) ([]string, error)
	Confirm(title, description string) (bool, error)
	Input(title, placeholder string) (string, error)
	// Spin runs fn while showing a spinner titled title. The spinner is
	// always brought down, success or failure, so the terminal never
	// hangs mid-animation.
	Spin(ctx context.Context, title string, fn func() error) error
}

// Terminal implements Prompter with huh forms.
type Terminal struct{}

// NewTerminal returns the interactive Prompter.
func NewTerminal() *Terminal {
	return &Terminal{}
}

func (t *Terminal) Select(title string, options []Option) (string, error) {
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o.Label, o.Value))
	}
	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return "", ErrCancelled
	}
	return selected, nil
}

func (t *Terminal) MultiSelect(title string, options []Option) ([]string, error) {
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o.Label, o.Value))
	}
	var selected []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(title).
				Options(opts...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return nil, ErrCancelled
	}
	return selected, nil
}

func (t *Terminal) Confirm(title, description string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false, ErrCancelled
	}
	return confirmed, nil
}

func (t *Terminal) Input(title, placeholder string) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder(placeholder).
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		return "", ErrCancelled
	}
	return value, nil
}

func (t *Terminal) Spin(ctx context.Context, title string, fn func() error) error {
	var fnErr error
	err := spinner.New().
		Title(title).
		Context(ctx).
		Action(func() { fnErr = fn() }).
		Run()
	if fnErr != nil {
		return fnErr
	}
	return err
}
