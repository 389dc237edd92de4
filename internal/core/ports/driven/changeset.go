package driven

import "github.com/custodia-labs/git-analyzer/internal/core/domain"

// ChangeSetParser transforms a commit's raw file list into a change table.
type ChangeSetParser interface {
	// ToChangeTable maps each raw file to one row, in input order.
	// Missing optional fields are left empty; it never fails.
	ToChangeTable(files []domain.RawFile) domain.ChangeTable
}
