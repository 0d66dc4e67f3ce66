package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/internal/reconcile"
)

func TestCommandBuilderRegistersFlags(testInstance *testing.T) {
	builder := reconcile.CommandBuilder{}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	require.Equal(testInstance, "reconcile", command.Name())

	expectedFlagNames := []string{"repos", "branch", "editor", "check-forks"}
	for _, expectedFlagName := range expectedFlagNames {
		require.NotNil(testInstance, command.Flags().Lookup(expectedFlagName), expectedFlagName)
	}
}

func TestCheckForksToggleAcceptsYesNoValues(testInstance *testing.T) {
	testCases := []struct {
		name          string
		flagArguments []string
		expectedValue string
	}{
		{name: "bare_flag_enables", flagArguments: []string{"--check-forks"}, expectedValue: "true"},
		{name: "yes_literal_enables", flagArguments: []string{"--check-forks=yes"}, expectedValue: "true"},
		{name: "no_literal_disables", flagArguments: []string{"--check-forks=no"}, expectedValue: "false"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			builder := reconcile.CommandBuilder{}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			require.NoError(testInstance, command.Flags().Parse(testCase.flagArguments))
			require.Equal(testInstance, testCase.expectedValue, command.Flags().Lookup("check-forks").Value.String())
		})
	}
}
