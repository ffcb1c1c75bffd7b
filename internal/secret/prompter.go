package secret

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/forestctl/forestctl/internal/messages"
	"github.com/forestctl/forestctl/internal/terminal"
)

// HuhPrompter implements Prompter using charmbracelet/huh.
type HuhPrompter struct {
	canPrompt func() bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// NewHuhPrompter creates a prompter using the default terminal check.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{canPrompt: terminal.CanPrompt}
}

// SecretInput renders a masked input prompt on stderr and returns the
// entered value. A non-interactive session fails instead of hanging.
func (p *HuhPrompter) SecretInput(title string) (string, error) {
	checker := p.canPrompt
	if checker == nil {
		checker = terminal.CanPrompt
	}
	if !checker() {
		return "", fmt.Errorf(messages.SecretRequiresTerminal)
	}

	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(&value).
				EchoMode(huh.EchoModePassword),
		),
	)
	form.WithProgramOptions(tea.WithOutput(os.Stderr))

	if err := runFormFunc(form); err != nil {
		return "", err
	}
	return value, nil
}
