package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/deanrtaylor1/gospam/model"
	"github.com/deanrtaylor1/gospam/util"
)

const promptMessage = "Enter a text message:"

// Prompter asks the user for one line of input
type Prompter interface {
	Ask(message string) (string, error)
}

// surveyPrompter prompts on an interactive terminal
type surveyPrompter struct{}

func (surveyPrompter) Ask(message string) (string, error) {
	prompt := &survey.Input{
		Message: message,
	}

	var input string
	err := survey.AskOne(prompt, &input)
	if err == terminal.InterruptErr {
		return "", io.EOF
	}
	return input, err
}

// linePrompter reads lines from a non-interactive reader
type linePrompter struct {
	scanner *bufio.Scanner
}

func newLinePrompter(r io.Reader) *linePrompter {
	return &linePrompter{scanner: bufio.NewScanner(r)}
}

func (p *linePrompter) Ask(string) (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

// Session repeatedly classifies messages until the user types exit
type Session struct {
	Model    *model.Model
	Prompter Prompter
	Out      io.Writer
	Color    bool
}

// Run reads and classifies messages until exit, Exit or end of input
func (s *Session) Run() error {
	for {
		sms, err := s.Prompter.Ask(promptMessage)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if cmd := strings.TrimSpace(sms); cmd == "exit" || cmd == "Exit" {
			break
		}
		PrintResult(s.Out, s.Model.Classify(sms), s.Color)
	}
	fmt.Fprintln(s.Out, "Bye!")
	return nil
}

// PrintResult writes a classification block
func PrintResult(w io.Writer, r model.Result, color bool) {
	classColor := util.TerminalRed
	if r.Class == model.Ham {
		classColor = util.TerminalGreen
	}

	fmt.Fprintln(w, "-----------------")
	fmt.Fprintf(w, "SMS: %s\n", r.SMS)
	fmt.Fprintf(w, "score: %v\n", r.Score)
	fmt.Fprintf(w, "class: %s\n", util.Colorize(color, classColor, r.Class.String()))
	fmt.Fprintln(w, "-------------------")
}
