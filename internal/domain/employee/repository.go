package employee

import "context"

// EmployeeFilter narrows the bulk-generation population.
type EmployeeFilter struct {
	EmploymentTypes    []string
	EmploymentStatuses []string
}

// EmployeeRepository - read-only interface over the employees table
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetEligible returns active, non-archived employees matching the filter.
	GetEligible(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
}
