package curator

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user yes/no questions and collects free-form answers.
type Prompter interface {
	Confirm(question string) (bool, error)
	Ask(question string) (string, error)
}

// TerminalPrompter reads answers line by line, typically from stdin.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter builds a prompter over the given streams.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

// Confirm prints the question and accepts y/yes (case-insensitive) as
// agreement. Anything else, including an empty line, declines.
func (p *TerminalPrompter) Confirm(question string) (bool, error) {
	answer, err := p.prompt(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Ask prints the question and returns the trimmed answer line.
func (p *TerminalPrompter) Ask(question string) (string, error) {
	return p.prompt(question + " ")
}

func (p *TerminalPrompter) prompt(text string) (string, error) {
	if _, err := fmt.Fprint(p.out, text); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
