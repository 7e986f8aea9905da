package employee

import "time"

// Employee read model. This core never mutates employees; the surrounding
// system owns the master data.
type Employee struct {
	ID               string
	FullName         string
	EmploymentType   string
	EmploymentStatus string
	HireDate         *time.Time
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// IsArchived reports whether the employee has been soft-deleted.
func (e Employee) IsArchived() bool {
	return e.DeletedAt != nil
}
