package usertable

import (
	"fmt"

	"socialautomator/internal/models"
)

// BulkAction is an action applied to the selected rows.
type BulkAction string

const (
	BulkActivate   BulkAction = "activate"
	BulkDeactivate BulkAction = "deactivate"
	BulkDelete     BulkAction = "delete"
)

// ParseBulkAction validates an action name.
func ParseBulkAction(s string) (BulkAction, error) {
	switch a := BulkAction(s); a {
	case BulkActivate, BulkDeactivate, BulkDelete:
		return a, nil
	}
	return "", models.NewValidationError(fmt.Sprintf("unknown bulk action %q", s))
}

// ActivityAction maps the bulk action to its activity-log action.
func (a BulkAction) ActivityAction() models.ActivityAction {
	switch a {
	case BulkActivate:
		return models.ActionBulkActivate
	case BulkDeactivate:
		return models.ActionBulkDeactivate
	default:
		return models.ActionBulkDelete
	}
}

// BulkResult reports which ids an action was applied to.
type BulkResult struct {
	Action BulkAction `json:"action"`
	IDs    []string   `json:"ids"`
}

// Bulk applies action to the selection and clears it. Records are not
// modified. An empty selection is rejected.
func (t *Table) Bulk(action BulkAction) (*BulkResult, error) {
	if _, err := ParseBulkAction(string(action)); err != nil {
		return nil, err
	}
	ids := t.Selected()
	if len(ids) == 0 {
		return nil, models.NewValidationError("No users selected")
	}
	t.SelectAll(false)
	return &BulkResult{Action: action, IDs: ids}, nil
}
