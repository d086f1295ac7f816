// Package flags provides Cobra flag helpers shared by the fleet commands.
package flags

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefix           = "<"
	choicePlaceholderSuffix           = ">"
	choiceSeparatorLiteral            = "|"
	choiceUsageEmptyTemplate          = "`%s`"
	choiceUsageFullTemplate           = "`%s` %s"
	choiceErrorTemplateConstant       = "%w %q (expected one of %s)"
	choiceValueTypeNameConstant       = "string"
	choiceListSeparatorConstant       = ", "
	choiceNormalizationCutsetConstant = " \t"
)

// ErrUnsupportedChoice reports a flag value outside its allowed set.
var ErrUnsupportedChoice = errors.New("unsupported value")

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := buildChoicePlaceholder(defaultChoice, choices)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// ChoiceValue is a pflag.Value restricted to a fixed set of lower-case choices.
// The empty string is accepted and leaves the decision to configuration.
type ChoiceValue struct {
	target  *string
	choices []string
}

// AddChoiceFlag registers a string flag on flagSet that only accepts choices.
func AddChoiceFlag(flagSet *pflag.FlagSet, target *string, name string, defaultChoice string, choices []string, description string) {
	if flagSet == nil || target == nil || len(name) == 0 {
		return
	}
	*target = defaultChoice
	flagSet.Var(&ChoiceValue{target: target, choices: append([]string(nil), choices...)}, name, FormatChoiceUsage(defaultChoice, choices, description))
}

// Set validates rawValue against the allowed choices.
func (value *ChoiceValue) Set(rawValue string) error {
	normalizedValue := strings.ToLower(strings.Trim(rawValue, choiceNormalizationCutsetConstant))
	if len(normalizedValue) == 0 {
		*value.target = ""
		return nil
	}
	for _, choice := range value.choices {
		if strings.EqualFold(strings.TrimSpace(choice), normalizedValue) {
			*value.target = normalizedValue
			return nil
		}
	}
	return fmt.Errorf(choiceErrorTemplateConstant, ErrUnsupportedChoice, rawValue, strings.Join(value.choices, choiceListSeparatorConstant))
}

// String reports the current value.
func (value *ChoiceValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

// Type names the value kind shown in help output.
func (value *ChoiceValue) Type() string {
	return choiceValueTypeNameConstant
}

func buildChoicePlaceholder(defaultChoice string, choices []string) string {
	highlightedChoices := highlightDefaultChoice(defaultChoice, choices)
	return choicePlaceholderPrefix + strings.Join(highlightedChoices, choiceSeparatorLiteral) + choicePlaceholderSuffix
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}

		displayValue := trimmedChoice
		if normalizedChoice == normalizedDefault {
			displayValue = strings.ToUpper(trimmedChoice)
		}

		highlighted = append(highlighted, displayValue)
		seen[normalizedChoice] = struct{}{}
	}

	return highlighted
}
