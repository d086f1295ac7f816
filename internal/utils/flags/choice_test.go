package flags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "local",
			choices:        []string{"local", "user"},
			description:    "Write configuration to LOCAL or user scope.",
			expectedOutput: "`<LOCAL|user>` Write configuration to LOCAL or user scope.",
		},
		{
			name:           "DefaultSecondChoice",
			defaultChoice:  "user",
			choices:        []string{"local", "user"},
			description:    "Persist configuration for the selected scope.",
			expectedOutput: "`<local|USER>` Persist configuration for the selected scope.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "alpha",
			choices:        []string{"alpha", "beta"},
			description:    "",
			expectedOutput: "`<ALPHA|beta>`",
		},
		{
			name:           "DuplicateChoicesIgnored",
			defaultChoice:  "beta",
			choices:        []string{"beta", "beta", "alpha", "alpha"},
			description:    "Select between options.",
			expectedOutput: "`<BETA|alpha>` Select between options.",
		},
		{
			name:           "WhitespaceTrimmed",
			defaultChoice:  "primary",
			choices:        []string{" primary ", " secondary "},
			description:    "Pick a palette.",
			expectedOutput: "`<PRIMARY|secondary>` Pick a palette.",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(t, testCase.expectedOutput, actual)
		})
	}
}

func TestAddChoiceFlag(testInstance *testing.T) {
	testCases := []struct {
		name          string
		arguments     []string
		expectedValue string
		expectError   bool
	}{
		{name: "default_kept", arguments: []string{}, expectedValue: "git"},
		{name: "accepted_choice", arguments: []string{"--protocol", "https"}, expectedValue: "https"},
		{name: "case_insensitive", arguments: []string{"--protocol=SSH"}, expectedValue: "ssh"},
		{name: "empty_defers_to_configuration", arguments: []string{"--protocol="}, expectedValue: ""},
		{name: "rejected_choice", arguments: []string{"--protocol", "ftp"}, expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			flagSet := pflag.NewFlagSet("clone", pflag.ContinueOnError)
			var protocol string
			AddChoiceFlag(flagSet, &protocol, "protocol", "git", []string{"git", "ssh", "https"}, "Remote protocol.")

			parseError := flagSet.Parse(testCase.arguments)
			if testCase.expectError {
				require.ErrorContains(subtest, parseError, ErrUnsupportedChoice.Error())
				return
			}
			require.NoError(subtest, parseError)
			require.Equal(subtest, testCase.expectedValue, protocol)
			require.Equal(subtest, "`<GIT|ssh|https>` Remote protocol.", flagSet.Lookup("protocol").Usage)
		})
	}
}
