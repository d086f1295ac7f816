package fleet

// Outcome classifies an OperationResult.
type Outcome int

// Supported outcomes.
const (
	OutcomeSuccess Outcome = iota
	OutcomeSuccessWithChanges
	OutcomeFailure
)

const (
	outcomeSuccessLabelConstant            = "success"
	outcomeSuccessWithChangesLabelConstant = "success_with_changes"
	outcomeFailureLabelConstant            = "failure"
	outcomeUnknownLabelConstant            = "unknown"
)

// String returns the log label of the outcome.
func (outcome Outcome) String() string {
	switch outcome {
	case OutcomeSuccess:
		return outcomeSuccessLabelConstant
	case OutcomeSuccessWithChanges:
		return outcomeSuccessWithChangesLabelConstant
	case OutcomeFailure:
		return outcomeFailureLabelConstant
	default:
		return outcomeUnknownLabelConstant
	}
}

// Operation names a fleet-wide verb.
type Operation string

// Fleet operations.
const (
	OperationClone  Operation = Operation("clone")
	OperationStatus Operation = Operation("status")
	OperationUpdate Operation = Operation("update")
	OperationLink   Operation = Operation("link")
	OperationUnlink Operation = Operation("unlink")
)

// OperationResult is the answer of one repository to one operation.
type OperationResult struct {
	RepositoryName string
	Outcome        Outcome
	Detail         string
	Failure        error
}

// RunReport holds one result per enabled catalog entry, in catalog order.
type RunReport struct {
	Operation Operation
	Results   []OperationResult
}

// FailureCount reports how many repositories failed.
func (report RunReport) FailureCount() int {
	failureCount := 0
	for _, result := range report.Results {
		if result.Outcome == OutcomeFailure {
			failureCount++
		}
	}
	return failureCount
}

func successResult(repositoryName string, detail string) OperationResult {
	return OperationResult{RepositoryName: repositoryName, Outcome: OutcomeSuccess, Detail: detail}
}

func changesResult(repositoryName string, detail string) OperationResult {
	return OperationResult{RepositoryName: repositoryName, Outcome: OutcomeSuccessWithChanges, Detail: detail}
}

func failureResult(repositoryName string, failure error, detail string) OperationResult {
	return OperationResult{RepositoryName: repositoryName, Outcome: OutcomeFailure, Detail: detail, Failure: failure}
}
