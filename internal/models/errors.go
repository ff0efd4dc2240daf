package models

import "fmt"

// Kind identifies which row of the error-handling table a DomainError
// belongs to.
type Kind string

const (
	// KindInputValidation covers item-with-no-tiers, max-profit<=0 tiers,
	// and duplicate SKU across brands. Fatal: aborts the run.
	KindInputValidation Kind = "InputValidation"
	// KindBudgetOutOfRange covers B < min_budget or B > max_budget.
	// Rejected; existing Report state is kept.
	KindBudgetOutOfRange Kind = "BudgetOutOfRange"
	// KindInfeasible covers a Selector run with no feasible selection
	// within budget. No mutation.
	KindInfeasible Kind = "Infeasible"
	// KindSolverTimeout covers the Selector hitting its wall-clock bound
	// with no feasible solution found. Same surface as Infeasible.
	KindSolverTimeout Kind = "SolverTimeout"
	// KindForecastSkipped covers <15 observations or an all-zero series.
	// Per-product warning; the run continues.
	KindForecastSkipped Kind = "ForecastSkipped"
	// KindStateConflict covers a Phase 2 attempt on an already
	// ORDER_CREATED report.
	KindStateConflict Kind = "StateConflict"
)

// DomainError is the one error type for every row of the error-handling
// table; Kind selects surfacing behavior at the handler layer.
type DomainError struct {
	Kind    Kind
	Message string
	Field   string // optional, set for InputValidation errors naming the offending item/tier
}

func (e *DomainError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewInputValidationError builds a fatal, run-aborting validation error.
func NewInputValidationError(field, message string) *DomainError {
	return &DomainError{Kind: KindInputValidation, Field: field, Message: message}
}

// NewBudgetOutOfRangeError builds a rejected-but-state-kept budget error.
func NewBudgetOutOfRangeError(message string) *DomainError {
	return &DomainError{Kind: KindBudgetOutOfRange, Message: message}
}

// NewInfeasibleError builds a no-solution error with no mutation performed.
func NewInfeasibleError(message string) *DomainError {
	return &DomainError{Kind: KindInfeasible, Message: message}
}

// NewSolverTimeoutError builds a wall-clock-exhausted error, surfaced the
// same way as Infeasible.
func NewSolverTimeoutError(message string) *DomainError {
	return &DomainError{Kind: KindSolverTimeout, Message: message}
}

// NewStateConflictError builds a Phase-2-on-committed-report error.
func NewStateConflictError(message string) *DomainError {
	return &DomainError{Kind: KindStateConflict, Message: message}
}

// IsKind reports whether err is a *DomainError of the given Kind.
func IsKind(err error, kind Kind) bool {
	de, ok := err.(*DomainError)
	return ok && de.Kind == kind
}
