package reconcile

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/forksync/internal/execshell"
	"github.com/temirov/forksync/internal/githubcli"
	"github.com/temirov/forksync/internal/gitrepo"
	"github.com/temirov/forksync/internal/prompt"
	"github.com/temirov/forksync/internal/terminal"
	"github.com/temirov/forksync/internal/utils"
	"github.com/temirov/forksync/internal/utils/flags"
	pathutils "github.com/temirov/forksync/internal/utils/path"
)

const (
	commandUseConstant                    = "reconcile"
	commandShortDescriptionConstant       = "Reconcile tracked files across forked repositories"
	commandLongDescriptionConstant        = "reconcile clones each configured fork, resets it to its upstream default branch, and compares the tracked file against the bundled canonical copy. Divergences are shown as a unified diff; accepted updates are committed on a session branch, pushed to the fork, and proposed upstream as a pull request."
	repositoriesFlagNameConstant          = "repos"
	repositoriesFlagDescriptionConstant   = "Path to a repository manifest (YAML or TOML); defaults to the bundled list."
	checkForksFlagNameConstant            = "check-forks"
	checkForksFlagDescriptionConstant     = "Verify each fork exists before cloning, creating it when absent"
	upstreamBranchFlagNameConstant        = "branch"
	upstreamBranchFlagDescriptionConstant = "Upstream branch the clones are reset to."
	editorFlagNameConstant                = "editor"
	editorFlagDescriptionConstant         = "Editor command used to compose commit messages."
	temporaryDirectoryPatternConstant     = "forksync-"
	temporaryDirectoryErrorTemplate       = "unable to create temporary directory: %w"
	temporaryDirectoryMessageConstant     = "Using temporary directory"
	temporaryCleanupWarningConstant       = "temporary directory cleanup failed"
	sessionStartedMessageConstant         = "reconciliation session started"
	logFieldTemporaryDirectoryConstant    = "temporary_directory"
	logFieldSessionIdentifierConstant     = "session_id"
	logFieldRepositoryCountConstant       = "repository_count"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the reconcile command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	VerbosityProvider     func() int
	NoANSIProvider        func() bool
}

// Build constructs the reconcile command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	var checkForksFlagValue bool

	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, checkForksFlagValue)
		},
	}

	command.Flags().String(repositoriesFlagNameConstant, "", repositoriesFlagDescriptionConstant)
	command.Flags().String(upstreamBranchFlagNameConstant, "", upstreamBranchFlagDescriptionConstant)
	command.Flags().String(editorFlagNameConstant, "", editorFlagDescriptionConstant)
	flags.AddToggleFlag(command.Flags(), &checkForksFlagValue, checkForksFlagNameConstant, "", false, checkForksFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, checkForksFlagValue bool) error {
	configuration := builder.resolveConfiguration()
	logger := builder.resolveLogger()

	homeExpander := pathutils.NewHomeExpander()

	manifestPath := configuration.RepositoriesFile
	if command.Flags().Changed(repositoriesFlagNameConstant) {
		flagValue, flagError := command.Flags().GetString(repositoriesFlagNameConstant)
		if flagError != nil {
			return flagError
		}
		manifestPath = flagValue
	}

	upstreamBranch := configuration.UpstreamBranch
	if command.Flags().Changed(upstreamBranchFlagNameConstant) {
		flagValue, flagError := command.Flags().GetString(upstreamBranchFlagNameConstant)
		if flagError != nil {
			return flagError
		}
		upstreamBranch = flagValue
	}

	editorSetting := configuration.Editor
	if command.Flags().Changed(editorFlagNameConstant) {
		flagValue, flagError := command.Flags().GetString(editorFlagNameConstant)
		if flagError != nil {
			return flagError
		}
		editorSetting = flagValue
	}

	checkForks := configuration.CheckForks
	if command.Flags().Changed(checkForksFlagNameConstant) {
		checkForks = checkForksFlagValue
	}

	repositories, repositoriesError := builder.loadRepositories(homeExpander, manifestPath)
	if repositoriesError != nil {
		return repositoriesError
	}

	temporaryRoot, temporaryDirectoryError := os.MkdirTemp("", temporaryDirectoryPatternConstant)
	if temporaryDirectoryError != nil {
		return fmt.Errorf(temporaryDirectoryErrorTemplate, temporaryDirectoryError)
	}
	defer func() {
		if cleanupError := os.RemoveAll(temporaryRoot); cleanupError != nil {
			logger.Warn(temporaryCleanupWarningConstant, zap.Error(cleanupError))
		}
	}()
	logger.Info(temporaryDirectoryMessageConstant, zap.String(logFieldTemporaryDirectoryConstant, temporaryRoot))

	session, sessionError := NewSession(SessionOptions{
		TemporaryRoot:  temporaryRoot,
		EditorCommand:  prompt.ResolveEditorCommand(editorSetting),
		CheckForks:     checkForks,
		UpstreamBranch: upstreamBranch,
		Repositories:   repositories,
	})
	if sessionError != nil {
		return sessionError
	}

	logger.Info(
		sessionStartedMessageConstant,
		zap.String(logFieldSessionIdentifierConstant, session.SessionID),
		zap.Int(logFieldRepositoryCountConstant, len(session.Repositories)),
	)

	terminalFeatures := terminal.DetectFeatures(builder.noANSIRequested())
	progressFactory := func(progressLabel string) execshell.ProgressIndicator {
		return terminal.NewSpinner(terminal.SpinnerOptions{
			Label:    progressLabel,
			Features: terminalFeatures,
			Writer:   command.OutOrStdout(),
		})
	}

	shellExecutor, executorError := execshell.NewShellExecutor(
		logger,
		execshell.NewOSCommandRunner(),
		execshell.NewTeeCommandRunner(utils.NewFlushingWriter(command.OutOrStdout()), utils.NewFlushingWriter(command.ErrOrStderr())),
		builder.verbosity(),
		progressFactory,
	)
	if executorError != nil {
		return executorError
	}

	githubClient, clientError := githubcli.NewClient(shellExecutor)
	if clientError != nil {
		return clientError
	}

	gitSteps, stepsError := gitrepo.NewSteps(shellExecutor)
	if stepsError != nil {
		return stepsError
	}

	orchestrator, orchestratorError := NewOrchestrator(logger, githubClient, gitSteps)
	if orchestratorError != nil {
		return orchestratorError
	}

	trackedFileCheck, checkError := NewTrackedFileCheck(DefaultToxIniCheckDefinition(), CheckDependencies{
		Logger:        logger,
		BranchSteps:   gitSteps,
		PullRequests:  githubClient,
		Prompter:      prompt.NewIOPrompter(command.InOrStdin(), command.OutOrStdout(), terminalFeatures),
		MessageEditor: prompt.NewCommitMessageEditor(session.EditorCommand),
		DiffRenderer:  terminal.NewDiffRenderer(command.OutOrStdout(), terminalFeatures),
	})
	if checkError != nil {
		return checkError
	}

	if prepareError := orchestrator.PrepareAll(command.Context(), session); prepareError != nil {
		return prepareError
	}

	return trackedFileCheck.Run(command.Context(), session)
}

func (builder *CommandBuilder) loadRepositories(homeExpander *pathutils.HomeExpander, manifestPath string) ([]*Repository, error) {
	if len(manifestPath) == 0 {
		return DefaultRepositories()
	}
	return LoadManifest(homeExpander.Expand(manifestPath))
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	if logger := builder.LoggerProvider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) verbosity() int {
	if builder.VerbosityProvider == nil {
		return 0
	}
	return builder.VerbosityProvider()
}

func (builder *CommandBuilder) noANSIRequested() bool {
	if builder.NoANSIProvider == nil {
		return false
	}
	return builder.NoANSIProvider()
}
