package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNoInput is returned when the input stream ends before an answer.
var ErrNoInput = errors.New("no input")

// Prompter asks line-based questions. Every answer is trimmed; an empty
// answer takes the offered default.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	styles Styles
}

func NewPrompter(in io.Reader, out io.Writer, styles Styles) *Prompter {
	if in == nil {
		in = strings.NewReader("")
	}
	return &Prompter{in: bufio.NewReader(in), out: out, styles: styles}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask shows label with its default and returns the answer.
func (p *Prompter) Ask(label, def string) (string, error) {
	suffix := ""
	if def != "" {
		suffix = " " + p.styles.Default.Render("["+def+"]")
	}
	fmt.Fprintf(p.out, "%s%s: ", p.styles.Label.Render(label), suffix)
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question; an empty answer returns def.
func (p *Prompter) Confirm(label string, def bool) (bool, error) {
	hint := "(y/N)"
	if def {
		hint = "(Y/n)"
	}
	for {
		fmt.Fprintf(p.out, "%s %s ", p.styles.Label.Render(label), p.styles.Default.Render(hint))
		answer, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.Warn("Please answer y or n.")
	}
}

// ChooseIndex asks for a number between 1 and max and keeps asking until
// it gets one.
func (p *Prompter) ChooseIndex(label string, max int) (int, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", p.styles.Label.Render(label))
		answer, err := p.readLine()
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= max {
			return n, nil
		}
		p.Warn(fmt.Sprintf("Please enter a number between 1 and %d.", max))
	}
}

func (p *Prompter) Header(text string) {
	fmt.Fprintln(p.out, p.styles.Header.Render(text))
}

func (p *Prompter) Println(text string) {
	fmt.Fprintln(p.out, text)
}

func (p *Prompter) Muted(text string) {
	fmt.Fprintln(p.out, p.styles.Muted.Render(text))
}

func (p *Prompter) Warn(text string) {
	fmt.Fprintln(p.out, p.styles.Warning.Render(text))
}

func (p *Prompter) Error(text string) {
	fmt.Fprintln(p.out, p.styles.Error.Render(text))
}

func (p *Prompter) Success(text string) {
	fmt.Fprintln(p.out, p.styles.Success.Render(text))
}
