package fleet

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/repofleet/internal/catalog"
)

const (
	skippedDetailConstant           = "skipped"
	runStartedLogMessageConstant    = "fleet operation started"
	runCompletedLogMessageConstant  = "fleet operation completed"
	resultLogMessageConstant        = "repository result"
	logFieldOperationConstant       = "operation"
	logFieldRepositoryCountConstant = "repository_count"
	logFieldConcurrencyConstant     = "concurrency"
	logFieldFailureCountConstant    = "failure_count"
	logFieldOutcomeConstant         = "outcome"
)

// OrchestratorSettings configure fleet-wide behavior.
type OrchestratorSettings struct {
	Handle      HandleSettings
	Concurrency int
}

// Orchestrator runs one operation across every enabled catalog entry.
type Orchestrator struct {
	catalog      catalog.Catalog
	dependencies HandleDependencies
	settings     OrchestratorSettings
}

type repositoryTask func(executionContext context.Context, handle *RepositoryHandle, entry catalog.Entry) (OperationResult, error)

// NewOrchestrator validates the dependencies shared by every handle.
func NewOrchestrator(fleetCatalog catalog.Catalog, dependencies HandleDependencies, settings OrchestratorSettings) (*Orchestrator, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if dependencies.RepositoryOpener == nil {
		dependencies.RepositoryOpener = OpenGitRepository
	}
	return &Orchestrator{catalog: fleetCatalog, dependencies: dependencies, settings: settings}, nil
}

// CloneAll clones every repository that is not yet on disk.
func (orchestrator *Orchestrator) CloneAll(executionContext context.Context, options CloneOptions) (RunReport, error) {
	return orchestrator.run(executionContext, OperationClone, true, func(taskContext context.Context, handle *RepositoryHandle, _ catalog.Entry) (OperationResult, error) {
		return handle.Clone(taskContext, options)
	})
}

// StatusAll reports repositories that need attention.
func (orchestrator *Orchestrator) StatusAll(executionContext context.Context, verbose bool) (RunReport, error) {
	return orchestrator.run(executionContext, OperationStatus, false, func(taskContext context.Context, handle *RepositoryHandle, _ catalog.Entry) (OperationResult, error) {
		return handle.Status(taskContext, verbose)
	})
}

// UpdateAll fetches and rebases every repository.
func (orchestrator *Orchestrator) UpdateAll(executionContext context.Context) (RunReport, error) {
	return orchestrator.run(executionContext, OperationUpdate, false, func(taskContext context.Context, handle *RepositoryHandle, _ catalog.Entry) (OperationResult, error) {
		return handle.Update(taskContext)
	})
}

// LinkAll installs the links of every entry that manages them.
func (orchestrator *Orchestrator) LinkAll(executionContext context.Context, verbose bool) (RunReport, error) {
	return orchestrator.run(executionContext, OperationLink, false, func(_ context.Context, handle *RepositoryHandle, entry catalog.Entry) (OperationResult, error) {
		if !entry.ManagesLinks() {
			return successResult(handle.Name(), skippedDetailConstant), nil
		}
		return handle.CreateLinks(entry, verbose), nil
	})
}

// UnlinkAll removes the links of every entry that manages them.
func (orchestrator *Orchestrator) UnlinkAll(executionContext context.Context, verbose bool) (RunReport, error) {
	return orchestrator.run(executionContext, OperationUnlink, true, func(_ context.Context, handle *RepositoryHandle, entry catalog.Entry) (OperationResult, error) {
		if !entry.ManagesLinks() {
			return successResult(handle.Name(), skippedDetailConstant), nil
		}
		return handle.RemoveLinks(entry, verbose), nil
	})
}

// run fans the task out over the catalog. Each task writes only its own slot,
// so results come back in catalog order whatever the completion order.
func (orchestrator *Orchestrator) run(executionContext context.Context, operation Operation, allowMissing bool, task repositoryTask) (RunReport, error) {
	entries := orchestrator.catalog.EnabledEntries()
	results := make([]OperationResult, len(entries))

	concurrencyLimit := orchestrator.settings.Concurrency
	if concurrencyLimit <= 0 || concurrencyLimit > len(entries) {
		concurrencyLimit = len(entries)
	}

	logger := orchestrator.dependencies.Logger
	logger.Debug(runStartedLogMessageConstant,
		zap.String(logFieldOperationConstant, string(operation)),
		zap.Int(logFieldRepositoryCountConstant, len(entries)),
		zap.Int(logFieldConcurrencyConstant, concurrencyLimit),
	)

	group, groupContext := errgroup.WithContext(executionContext)
	if concurrencyLimit > 0 {
		group.SetLimit(concurrencyLimit)
	}

	for entryIndex, entry := range entries {
		group.Go(func() (taskError error) {
			defer func() {
				if recovered := recover(); recovered != nil {
					taskError = InternalError{Operation: operation, RepositoryName: entry.Name, Cause: fmt.Errorf(panicErrorTemplateConstant, recovered)}
				}
			}()
			if contextError := groupContext.Err(); contextError != nil {
				return InternalError{Operation: operation, RepositoryName: entry.Name, Cause: contextError}
			}

			handle := OpenRepositoryHandle(
				entry.RootPath(orchestrator.catalog.BaseDirectory()),
				entry.HostGroup,
				allowMissing,
				orchestrator.dependencies,
				orchestrator.settings.Handle,
			)
			result, executionError := task(groupContext, handle, entry)
			if executionError != nil {
				return InternalError{Operation: operation, RepositoryName: entry.Name, Cause: executionError}
			}
			result.RepositoryName = entry.Name
			results[entryIndex] = result

			logger.Debug(resultLogMessageConstant,
				zap.String(logFieldOperationConstant, string(operation)),
				zap.String(logFieldRepositoryConstant, entry.Name),
				zap.Stringer(logFieldOutcomeConstant, result.Outcome),
			)
			return nil
		})
	}

	waitError := group.Wait()
	report := RunReport{Operation: operation, Results: results}
	if waitError != nil {
		return report, waitError
	}

	logger.Info(runCompletedLogMessageConstant,
		zap.String(logFieldOperationConstant, string(operation)),
		zap.Int(logFieldRepositoryCountConstant, len(results)),
		zap.Int(logFieldFailureCountConstant, report.FailureCount()),
	)
	return report, nil
}
