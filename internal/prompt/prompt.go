package prompt

import (
	"errors"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInterrupted is returned when the operator aborts a prompt with Ctrl-C.
var ErrInterrupted = errors.New("prompt interrupted")

// Prompter asks the operator for input.
type Prompter interface {
	// Input asks a free-form question and returns the raw answer.
	Input(message string) (string, error)
	// MultiSelect offers options and returns the zero-based indices the
	// operator checked, in option order. An empty result is valid.
	MultiSelect(message string, options []string) ([]int, error)
}

// Terminal implements Prompter on an interactive terminal.
type Terminal struct {
	in       terminal.FileReader
	out      terminal.FileWriter
	errOut   io.Writer
	pageSize int
}

var _ Prompter = (*Terminal)(nil)

// NewTerminal returns a prompter bound to the process stdio.
func NewTerminal() *Terminal {
	return NewTerminalWithIO(os.Stdin, os.Stdout, os.Stderr)
}

// NewTerminalWithIO returns a prompter bound to the supplied streams.
func NewTerminalWithIO(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) *Terminal {
	return &Terminal{in: in, out: out, errOut: errOut, pageSize: 20}
}

func (t *Terminal) opts() []survey.AskOpt {
	return []survey.AskOpt{survey.WithStdio(t.in, t.out, t.errOut)}
}

// Input implements Prompter.
func (t *Terminal) Input(message string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Input{Message: message}, &answer, t.opts()...)
	if err != nil {
		return "", translate(err)
	}
	return answer, nil
}

// MultiSelect implements Prompter.
func (t *Terminal) MultiSelect(message string, options []string) ([]int, error) {
	if len(options) == 0 {
		return nil, nil
	}
	pageSize := t.pageSize
	if len(options) < pageSize {
		pageSize = len(options)
	}
	var picked []int
	err := survey.AskOne(&survey.MultiSelect{
		Message:  message,
		Options:  options,
		PageSize: pageSize,
	}, &picked, t.opts()...)
	if err != nil {
		return nil, translate(err)
	}
	return picked, nil
}

func translate(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrInterrupted
	}
	return err
}
