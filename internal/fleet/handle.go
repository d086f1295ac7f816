package fleet

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/repofleet/internal/execshell"
	"github.com/temirov/repofleet/internal/gitrepo"
	"github.com/temirov/repofleet/internal/repos/shared"
)

const (
	gitCloneSubcommandConstant        = "clone"
	gitQuietFlagConstant              = "-q"
	gitFetchSubcommandConstant        = "fetch"
	gitPruneFlagConstant              = "--prune"
	gitStatusSubcommandConstant       = "status"
	gitPorcelainFlagConstant          = "--porcelain"
	gitShortBranchFlagConstant        = "-sb"
	gitRevListSubcommandConstant      = "rev-list"
	gitCountFlagConstant              = "--count"
	gitUpstreamRangeConstant          = "HEAD...HEAD@{u}"
	gitNoPagerFlagConstant            = "-P"
	gitDiffSubcommandConstant         = "diff"
	gitIgnoreWhitespaceFlagConstant   = "-w"
	gitColorAlwaysFlagConstant        = "--color=always"
	gitRebaseSubcommandConstant       = "rebase"
	gitVerboseFlagConstant            = "-v"
	gitConfigurationFlagConstant      = "-c"
	gitColorStatusSettingConstant     = "color.status=always"
	gitColorUISettingConstant         = "color.ui=always"
	zeroRevisionCountConstant         = "0"
	alreadyClonedDetailConstant       = "already cloned"
	clonedDetailConstant              = "cloned"
	noDiffsDetailConstant             = "no diffs"
	cloneDirectoryPermissionsConstant = 0o755
	logFieldRepositoryConstant        = "repository"
	logFieldRootConstant              = "root"
	fetchFailedLogMessageConstant     = "fetch failed"
	mkdirDestinationTemplateConstant  = "create clone destination %s: %w"
	gitTerminalPromptVariableConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledConstant = "0"
)

// BranchReader reads what HEAD points at.
type BranchReader interface {
	CurrentBranch() (gitrepo.BranchState, error)
}

// RepositoryOpener opens the repository rooted at path.
type RepositoryOpener func(path string) (BranchReader, error)

// OpenGitRepository opens path with go-git.
func OpenGitRepository(path string) (BranchReader, error) {
	repository, openError := gitrepo.OpenRepository(path)
	if openError != nil {
		return nil, openError
	}
	return repository, nil
}

// HandleDependencies are the collaborators shared by every RepositoryHandle.
type HandleDependencies struct {
	Logger           *zap.Logger
	GitExecutor      shared.GitExecutor
	FileSystem       shared.FileSystem
	RepositoryOpener RepositoryOpener
}

// HandleSettings tune repository operations.
type HandleSettings struct {
	User          string
	TrunkBranches []string
	ColorEnabled  bool
}

// CloneOptions configure a clone.
type CloneOptions struct {
	Protocol             shared.RemoteProtocol
	DestinationDirectory string
	Verbose              bool
}

// RepositoryHandle wraps one on-disk repository for the duration of one operation.
type RepositoryHandle struct {
	name         string
	hostGroup    string
	root         string
	repository   BranchReader
	openFailure  error
	dependencies HandleDependencies
	settings     HandleSettings
}

// OpenRepositoryHandle opens the repository at root. A missing repository is
// recorded on the handle so that every operation except clone reports it as a
// failure; allowMissing is passed by clone, which expects nothing on disk.
func OpenRepositoryHandle(root string, hostGroup string, allowMissing bool, dependencies HandleDependencies, settings HandleSettings) *RepositoryHandle {
	handle := &RepositoryHandle{
		name:         filepath.Base(root),
		hostGroup:    hostGroup,
		root:         root,
		dependencies: dependencies,
		settings:     settings,
	}
	opener := dependencies.RepositoryOpener
	if opener == nil {
		opener = OpenGitRepository
	}
	repository, openError := opener(root)
	switch {
	case openError == nil:
		handle.repository = repository
	case allowMissing && errors.Is(openError, gitrepo.ErrRepositoryNotFound):
	default:
		handle.openFailure = openError
	}
	return handle
}

// Name is the base name of the handle's root.
func (handle *RepositoryHandle) Name() string {
	return handle.name
}

// Root is the repository working tree.
func (handle *RepositoryHandle) Root() string {
	return handle.root
}

// Exists reports whether a repository was found at the root.
func (handle *RepositoryHandle) Exists() bool {
	return handle.repository != nil
}

// Clone clones the repository into its host group directory or into the
// requested destination. An existing repository at the default location is
// left alone.
func (handle *RepositoryHandle) Clone(executionContext context.Context, options CloneOptions) (OperationResult, error) {
	if handle.openFailure != nil && !errors.Is(handle.openFailure, gitrepo.ErrRepositoryNotFound) {
		return failureResult(handle.name, handle.openFailure, indentFailureText(handle.openFailure.Error())), nil
	}

	destinationDirectory := strings.TrimSpace(options.DestinationDirectory)
	if len(destinationDirectory) == 0 {
		if handle.Exists() {
			return successResult(handle.name, alreadyClonedDetailConstant), nil
		}
		destinationDirectory = filepath.Dir(handle.root)
	}

	cloneURL, urlError := gitrepo.RemoteURL{
		Protocol:   options.Protocol,
		HostGroup:  handle.hostGroup,
		Owner:      handle.settings.User,
		Repository: handle.name,
	}.CloneURL()
	if urlError != nil {
		return failureResult(handle.name, urlError, urlError.Error()), nil
	}

	if mkdirError := handle.dependencies.FileSystem.MkdirAll(destinationDirectory, cloneDirectoryPermissionsConstant); mkdirError != nil {
		wrappedError := fmt.Errorf(mkdirDestinationTemplateConstant, destinationDirectory, mkdirError)
		return failureResult(handle.name, wrappedError, wrappedError.Error()), nil
	}

	cloneArguments := []string{gitCloneSubcommandConstant}
	if !options.Verbose {
		cloneArguments = append(cloneArguments, gitQuietFlagConstant)
	}
	cloneArguments = append(cloneArguments, cloneURL)

	_, cloneError := handle.runGit(executionContext, destinationDirectory, cloneArguments...)
	if cloneError != nil {
		return handle.commandFailure(cloneError)
	}
	return successResult(handle.name, clonedDetailConstant), nil
}

// Status reports SuccessWithChanges when the working tree is dirty, HEAD is off
// the trunk branches, or the branch has diverged from its upstream. A missing
// upstream is a failure only for a clean trunk checkout.
func (handle *RepositoryHandle) Status(executionContext context.Context, verbose bool) (OperationResult, error) {
	if handle.openFailure != nil {
		return failureResult(handle.name, handle.openFailure, indentFailureText(handle.openFailure.Error())), nil
	}
	if fetchError := handle.fetch(executionContext); fetchError != nil && isInternalFailure(fetchError) {
		return OperationResult{}, fetchError
	}

	porcelainResult, porcelainError := handle.runGit(executionContext, handle.root, gitStatusSubcommandConstant, gitPorcelainFlagConstant)
	if porcelainError != nil {
		return handle.commandFailure(porcelainError)
	}
	workingTreeDirty := len(strings.TrimSpace(porcelainResult.StandardOutput)) > 0

	branchState, branchError := handle.repository.CurrentBranch()
	if branchError != nil {
		return failureResult(handle.name, branchError, indentFailureText(branchError.Error())), nil
	}
	offTrunk := !handle.isTrunkBranch(branchState)

	if !workingTreeDirty && !offTrunk {
		revisionResult, revisionError := handle.runGit(executionContext, handle.root, gitRevListSubcommandConstant, gitCountFlagConstant, gitUpstreamRangeConstant)
		if revisionError != nil {
			if isInternalFailure(revisionError) {
				return OperationResult{}, revisionError
			}
			upstreamError := fmt.Errorf(upstreamUnavailableTemplateConstant, ErrUpstreamUnavailable, revisionError.Error())
			return failureResult(handle.name, upstreamError, describeCommandFailure(revisionError)), nil
		}
		revisionCount := strings.TrimSpace(revisionResult.StandardOutput)
		if len(revisionCount) == 0 {
			countError := fmt.Errorf(unexpectedRevisionCountTemplateConstant, ErrUnexpectedRevisionCount, revisionResult.StandardOutput)
			return failureResult(handle.name, countError, countError.Error()), nil
		}
		if revisionCount == zeroRevisionCountConstant {
			return successResult(handle.name, ""), nil
		}
	}

	detailResult, detailError := handle.runGit(executionContext, handle.root, handle.statusDetailArguments(verbose)...)
	if detailError != nil {
		return handle.commandFailure(detailError)
	}
	detail := strings.TrimRight(detailResult.StandardOutput, failureTextLineBreakConstant)
	if verbose && len(strings.TrimSpace(detail)) == 0 {
		detail = noDiffsDetailConstant
	}
	return changesResult(handle.name, detail), nil
}

// Update fetches with pruning and rebases the current branch onto its upstream.
// A failed rebase is reported as is; nothing is rolled back.
func (handle *RepositoryHandle) Update(executionContext context.Context) (OperationResult, error) {
	if handle.openFailure != nil {
		return failureResult(handle.name, handle.openFailure, indentFailureText(handle.openFailure.Error())), nil
	}
	if fetchError := handle.fetch(executionContext); fetchError != nil {
		return handle.commandFailure(fetchError)
	}

	rebaseArguments := handle.colorArguments(gitColorUISettingConstant)
	rebaseArguments = append(rebaseArguments, gitRebaseSubcommandConstant, gitVerboseFlagConstant)
	rebaseResult, rebaseError := handle.runGit(executionContext, handle.root, rebaseArguments...)
	if rebaseError != nil {
		return handle.commandFailure(rebaseError)
	}
	return successResult(handle.name, strings.TrimRight(rebaseResult.StandardOutput, failureTextLineBreakConstant)), nil
}

// fetch refreshes remote-tracking branches. Its failures are logged here and
// left to the calling operation to fold into its own result.
func (handle *RepositoryHandle) fetch(executionContext context.Context) error {
	_, fetchError := handle.runGit(executionContext, handle.root, gitFetchSubcommandConstant, gitPruneFlagConstant, gitQuietFlagConstant)
	if fetchError != nil && handle.dependencies.Logger != nil {
		handle.dependencies.Logger.Warn(
			fetchFailedLogMessageConstant,
			zap.String(logFieldRepositoryConstant, handle.name),
			zap.String(logFieldRootConstant, handle.root),
			zap.Error(fetchError),
		)
	}
	return fetchError
}

func (handle *RepositoryHandle) statusDetailArguments(verbose bool) []string {
	if verbose {
		diffArguments := []string{gitNoPagerFlagConstant, gitDiffSubcommandConstant}
		if handle.settings.ColorEnabled {
			diffArguments = append(diffArguments, gitColorAlwaysFlagConstant)
		}
		return append(diffArguments, gitIgnoreWhitespaceFlagConstant)
	}
	statusArguments := handle.colorArguments(gitColorStatusSettingConstant)
	return append(statusArguments, gitStatusSubcommandConstant, gitShortBranchFlagConstant)
}

func (handle *RepositoryHandle) colorArguments(setting string) []string {
	if !handle.settings.ColorEnabled {
		return []string{}
	}
	return []string{gitConfigurationFlagConstant, setting}
}

func (handle *RepositoryHandle) isTrunkBranch(branchState gitrepo.BranchState) bool {
	if branchState.Detached {
		return false
	}
	for _, trunkBranch := range handle.settings.TrunkBranches {
		if branchState.Name == trunkBranch {
			return true
		}
	}
	return false
}

// runGit disables credential prompts; concurrent git processes share one terminal.
func (handle *RepositoryHandle) runGit(executionContext context.Context, workingDirectory string, arguments ...string) (execshell.ExecutionResult, error) {
	return handle.dependencies.GitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     workingDirectory,
		EnvironmentVariables: map[string]string{gitTerminalPromptVariableConstant: gitTerminalPromptDisabledConstant},
	})
}

func (handle *RepositoryHandle) commandFailure(executionError error) (OperationResult, error) {
	if isInternalFailure(executionError) {
		return OperationResult{}, executionError
	}
	return failureResult(handle.name, executionError, describeCommandFailure(executionError)), nil
}
