package cli

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("aborted")

// Prompter asks the user for single line answers.
type Prompter interface {
	Input(message string) (string, error)
}

// SurveyPrompter prompts on the terminal.
type SurveyPrompter struct{}

// NewSurveyPrompter creates a terminal prompter.
func NewSurveyPrompter() *SurveyPrompter {
	return &SurveyPrompter{}
}

// Input asks a free text question.
func (p *SurveyPrompter) Input(message string) (string, error) {
	var answer string
	prompt := &survey.Input{Message: message}
	if err := survey.AskOne(prompt, &answer); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", ErrAborted
		}
		return "", err
	}
	return answer, nil
}
