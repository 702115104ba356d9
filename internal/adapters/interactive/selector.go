package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/treb-proxy/internal/config"
	"github.com/trebuchet-org/treb-proxy/internal/domain"
	"github.com/trebuchet-org/treb-proxy/internal/usecase"
)

// SelectorAdapter handles interactive selection and input prompts
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectContract selects a contract name from a list
func (s *SelectorAdapter) SelectContract(ctx context.Context, names []string, prompt string) (string, error) {
	if s.config.NonInteractive {
		return "", fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	if len(names) == 0 {
		return "", fmt.Errorf("no contracts provided for selection")
	}

	if len(names) == 1 {
		return names[0], nil
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             names,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: len(names) > 10,
		Searcher:          createFuzzySearchFunc(names),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}

	return names[index], nil
}

// PromptInputs asks for one value per initializer input, labelled with its placeholder
func (s *SelectorAdapter) PromptInputs(ctx context.Context, inputs []domain.ParsedInput) ([]string, error) {
	if s.config.NonInteractive {
		return nil, fmt.Errorf("initializer arguments required in non-interactive mode (use --args)")
	}

	values := make([]string, len(inputs))
	for i, input := range inputs {
		prompt := promptui.Prompt{
			Label:    input.Placeholder,
			Validate: validateInput(input),
		}
		value, err := prompt.Run()
		if err != nil {
			return nil, fmt.Errorf("input cancelled: %w", err)
		}
		values[i] = strings.TrimSpace(value)
	}
	return values, nil
}

// PromptAddress asks for an Ethereum address
func (s *SelectorAdapter) PromptAddress(ctx context.Context, label string) (string, error) {
	if s.config.NonInteractive {
		return "", fmt.Errorf("%s required in non-interactive mode", strings.ToLower(label))
	}

	prompt := promptui.Prompt{
		Label:    label,
		Validate: validateAddress,
	}
	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}
	return strings.TrimSpace(value), nil
}

func validateInput(input domain.ParsedInput) promptui.ValidateFunc {
	if input.Type == "address" {
		return validateAddress
	}
	return func(value string) error {
		if strings.TrimSpace(value) == "" && input.Type != "string" && input.Type != "bytes" {
			return fmt.Errorf("%s is required", input.Placeholder)
		}
		return nil
	}
}

func validateAddress(value string) error {
	if !common.IsHexAddress(strings.TrimSpace(value)) {
		return domain.ErrInvalidAddress
	}
	return nil
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var _ usecase.ContractSelector = (*SelectorAdapter)(nil)
