// Package usertable implements the admin user-management table: search,
// header-click sorting, row selection, bulk actions and CSV export.
package usertable

import (
	"fmt"
	"sort"
	"strings"

	"socialautomator/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Field names a sortable column.
type Field string

const (
	FieldName       Field = "name"
	FieldEmail      Field = "email"
	FieldRole       Field = "role"
	FieldStatus     Field = "status"
	FieldPostsCount Field = "postsCount"
	FieldLastActive Field = "lastActive"
)

// ParseField validates a column name.
func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldName, FieldEmail, FieldRole, FieldStatus, FieldPostsCount, FieldLastActive:
		return f, nil
	}
	return "", models.NewValidationError(fmt.Sprintf("unknown sort field %q", s))
}

// Direction is the sort direction of a column.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc", "desc" or empty (ascending).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", string(Asc):
		return Asc, nil
	case string(Desc):
		return Desc, nil
	}
	return "", models.NewValidationError(fmt.Sprintf("unknown sort direction %q", s))
}

// SortState is the column and direction currently applied.
type SortState struct {
	Field     Field     `json:"field"`
	Direction Direction `json:"direction"`
}

// DefaultSort is name ascending.
var DefaultSort = SortState{Field: FieldName, Direction: Asc}

// Filter returns the records whose name or email contains term, ignoring
// case. An empty term keeps everything.
func Filter(records []*models.ManagedUser, term string) []*models.ManagedUser {
	needle := strings.ToLower(term)
	out := make([]*models.ManagedUser, 0, len(records))
	for _, r := range records {
		if needle == "" ||
			strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.Contains(strings.ToLower(r.Email), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Sort orders records in place. Equal keys fall back to id so the order is total.
func Sort(records []*models.ManagedUser, state SortState) {
	col := collate.New(language.English)

	cmp := func(a, b *models.ManagedUser) int {
		switch state.Field {
		case FieldEmail:
			return col.CompareString(a.Email, b.Email)
		case FieldRole:
			return col.CompareString(string(a.Role), string(b.Role))
		case FieldStatus:
			return col.CompareString(string(a.Status), string(b.Status))
		case FieldPostsCount:
			return a.PostsCount - b.PostsCount
		case FieldLastActive:
			return a.LastActive.Compare(b.LastActive)
		default:
			return col.CompareString(a.Name, b.Name)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		c := cmp(records[i], records[j])
		if c == 0 {
			c = strings.Compare(records[i].ID, records[j].ID)
		}
		if state.Direction == Desc {
			return c > 0
		}
		return c < 0
	})
}

// Query filters then sorts a copy of records.
func Query(records []*models.ManagedUser, term string, state SortState) []*models.ManagedUser {
	view := Filter(records, term)
	Sort(view, state)
	return view
}

// Table holds one viewer's search, sort and selection over a record set.
// It is not safe for concurrent use.
type Table struct {
	records  []*models.ManagedUser
	search   string
	sort     SortState
	selected map[string]struct{}
}

// New creates a table over records with the default sort and nothing selected.
func New(records []*models.ManagedUser) *Table {
	return &Table{
		records:  records,
		sort:     DefaultSort,
		selected: make(map[string]struct{}),
	}
}

// Search returns the current search term.
func (t *Table) Search() string { return t.search }

// SetSearch replaces the search term. Selection is left untouched.
func (t *Table) SetSearch(term string) { t.search = term }

// SortState returns the applied sort.
func (t *Table) SortState() SortState { return t.sort }

// ToggleSort applies a header click: the active column flips direction, any
// other column becomes active ascending.
func (t *Table) ToggleSort(field Field) error {
	if _, err := ParseField(string(field)); err != nil {
		return err
	}
	if t.sort.Field == field {
		if t.sort.Direction == Asc {
			t.sort.Direction = Desc
		} else {
			t.sort.Direction = Asc
		}
		return nil
	}
	t.sort = SortState{Field: field, Direction: Asc}
	return nil
}

// View returns the filtered, sorted rows.
func (t *Table) View() []*models.ManagedUser {
	return Query(t.records, t.search, t.sort)
}

func (t *Table) known(id string) bool {
	for _, r := range t.records {
		if r.ID == id {
			return true
		}
	}
	return false
}

// Toggle flips selection of id and reports whether it is now selected.
func (t *Table) Toggle(id string) (bool, error) {
	if !t.known(id) {
		return false, models.NewNotFoundError("Managed user", id)
	}
	if _, ok := t.selected[id]; ok {
		delete(t.selected, id)
		return false, nil
	}
	t.selected[id] = struct{}{}
	return true, nil
}

// SelectAll selects every record, ignoring the search term, or clears the selection.
func (t *Table) SelectAll(checked bool) {
	t.selected = make(map[string]struct{}, len(t.records))
	if !checked {
		return
	}
	for _, r := range t.records {
		t.selected[r.ID] = struct{}{}
	}
}

// AllSelected reports whether every record is selected.
func (t *Table) AllSelected() bool {
	return len(t.records) > 0 && len(t.selected) == len(t.records)
}

// IsSelected reports whether id is selected.
func (t *Table) IsSelected(id string) bool {
	_, ok := t.selected[id]
	return ok
}

// Selected returns the selected ids in record order.
func (t *Table) Selected() []string {
	out := make([]string, 0, len(t.selected))
	for _, r := range t.records {
		if _, ok := t.selected[r.ID]; ok {
			out = append(out, r.ID)
		}
	}
	return out
}
