package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"socialautomator/internal/events"
	"socialautomator/internal/models"
	"socialautomator/internal/observability"
	"socialautomator/internal/repository"
	"socialautomator/internal/usertable"

	"go.opentelemetry.io/otel/attribute"
)

// Settings bounds.
const (
	MinPostsPerDay = 1
	MaxPostsPerDay = 1000
)

// AdminService backs the admin dashboard. Each admin has an independent
// user-table state.
type AdminService struct {
	managed  repository.ManagedUserRepository
	settings repository.SettingsRepository
	activity repository.ActivityRepository
	emitter  *events.Emitter
	now      func() time.Time

	mu     sync.Mutex
	tables map[string]*usertable.Table
}

func NewAdminService(
	managed repository.ManagedUserRepository,
	settings repository.SettingsRepository,
	activity repository.ActivityRepository,
	emitter *events.Emitter,
) *AdminService {
	return &AdminService{
		managed:  managed,
		settings: settings,
		activity: activity,
		emitter:  emitter,
		now:      time.Now,
		tables:   make(map[string]*usertable.Table),
	}
}

// QueryUsersInput is a stateless filtered, sorted listing.
type QueryUsersInput struct {
	Search    string
	Sort      string
	Direction string
}

// TableView is a snapshot of one admin's table.
type TableView struct {
	Search      string                `json:"search"`
	Sort        usertable.SortState   `json:"sort"`
	Rows        []*models.ManagedUser `json:"rows"`
	Selected    []string              `json:"selected"`
	AllSelected bool                  `json:"all_selected"`
}

// StatusChange reports a single-record status action.
type StatusChange struct {
	ID     string               `json:"id"`
	Status models.AccountStatus `json:"status"`
}

// QueryUsers filters and sorts without touching any admin's table state.
func (s *AdminService) QueryUsers(ctx context.Context, in QueryUsersInput) ([]*models.ManagedUser, error) {
	state := usertable.DefaultSort
	if in.Sort != "" {
		f, err := usertable.ParseField(in.Sort)
		if err != nil {
			return nil, err
		}
		state.Field = f
	}
	dir, err := usertable.ParseDirection(in.Direction)
	if err != nil {
		return nil, err
	}
	state.Direction = dir

	records, err := s.managed.List(ctx)
	if err != nil {
		return nil, err
	}
	return usertable.Query(records, in.Search, state), nil
}

// withTable runs fn on adminID's table under the service lock, creating the
// table on first use.
func (s *AdminService) withTable(ctx context.Context, adminID string, fn func(t *usertable.Table) error) (*TableView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[adminID]
	if !ok {
		records, err := s.managed.List(ctx)
		if err != nil {
			return nil, err
		}
		t = usertable.New(records)
		s.tables[adminID] = t
	}
	if fn != nil {
		if err := fn(t); err != nil {
			return nil, err
		}
	}
	return &TableView{
		Search:      t.Search(),
		Sort:        t.SortState(),
		Rows:        t.View(),
		Selected:    t.Selected(),
		AllSelected: t.AllSelected(),
	}, nil
}

func (s *AdminService) Table(ctx context.Context, adminID string) (*TableView, error) {
	return s.withTable(ctx, adminID, nil)
}

func (s *AdminService) SetSearch(ctx context.Context, adminID, term string) (*TableView, error) {
	return s.withTable(ctx, adminID, func(t *usertable.Table) error {
		t.SetSearch(term)
		return nil
	})
}

// ToggleSort applies a header click on field.
func (s *AdminService) ToggleSort(ctx context.Context, adminID, field string) (*TableView, error) {
	return s.withTable(ctx, adminID, func(t *usertable.Table) error {
		f, err := usertable.ParseField(field)
		if err != nil {
			return err
		}
		return t.ToggleSort(f)
	})
}

func (s *AdminService) ToggleSelect(ctx context.Context, adminID, id string) (*TableView, error) {
	return s.withTable(ctx, adminID, func(t *usertable.Table) error {
		_, err := t.Toggle(id)
		return err
	})
}

func (s *AdminService) SelectAll(ctx context.Context, adminID string, checked bool) (*TableView, error) {
	return s.withTable(ctx, adminID, func(t *usertable.Table) error {
		t.SelectAll(checked)
		return nil
	})
}

// Export writes admin's current view as CSV.
func (s *AdminService) Export(ctx context.Context, adminID string, w io.Writer) error {
	_, err := s.withTable(ctx, adminID, func(t *usertable.Table) error {
		return t.Export(w)
	})
	return err
}

// Bulk applies action to admin's selection. Records are not modified; the
// action is logged, recorded and published, and the selection is cleared.
func (s *AdminService) Bulk(ctx context.Context, admin *models.User, action string) (_ *usertable.BulkResult, err error) {
	ctx, span := observability.StartSpan(ctx, "AdminService", "Bulk", attribute.String("bulk.action", action))
	defer func() { observability.EndSpan(span, err) }()

	a, err := usertable.ParseBulkAction(action)
	if err != nil {
		return nil, err
	}

	var res *usertable.BulkResult
	if _, err := s.withTable(ctx, admin.ID, func(t *usertable.Table) error {
		r, err := t.Bulk(a)
		res = r
		return err
	}); err != nil {
		return nil, err
	}

	observability.AdminActions.WithLabelValues("bulk_" + string(a)).Inc()
	observability.GlobalLogger.InfoContext(ctx, "bulk action applied",
		slog.String("action", string(a)),
		slog.Any("ids", res.IDs),
	)
	s.Record(ctx, admin.ID, a.ActivityAction(),
		fmt.Sprintf("Bulk %s applied to %d users (%s)", a, len(res.IDs), strings.Join(res.IDs, ", ")))
	s.emitter.Emit(ctx, events.AdminBulkAction, admin.ID, res)
	return res, nil
}

// ChangeStatus is the single-row activate/deactivate action. Like bulk
// actions it only logs and records.
func (s *AdminService) ChangeStatus(ctx context.Context, admin *models.User, id string, status models.AccountStatus) (_ *StatusChange, err error) {
	ctx, span := observability.StartSpan(ctx, "AdminService", "ChangeStatus", attribute.String("user.id", id))
	defer func() { observability.EndSpan(span, err) }()

	if status != models.AccountActive && status != models.AccountInactive {
		return nil, models.NewValidationError(fmt.Sprintf("Unknown status %q", status))
	}
	if _, err := s.managed.GetByID(ctx, id); err != nil {
		return nil, err
	}

	change := &StatusChange{ID: id, Status: status}
	observability.AdminActions.WithLabelValues("status_change").Inc()
	observability.GlobalLogger.InfoContext(ctx, "status change requested",
		slog.String("id", id),
		slog.String("status", string(status)),
	)
	s.Record(ctx, admin.ID, models.ActionStatusChange, fmt.Sprintf("Status change to %s for user %s", status, id))
	s.emitter.Emit(ctx, events.AdminStatusChange, admin.ID, change)
	return change, nil
}

func (s *AdminService) Settings(ctx context.Context) (models.SystemSettings, error) {
	return s.settings.Get(ctx)
}

// UpdateSettings replaces the settings document.
func (s *AdminService) UpdateSettings(ctx context.Context, admin *models.User, in models.SystemSettings) (_ models.SystemSettings, err error) {
	ctx, span := observability.StartSpan(ctx, "AdminService", "UpdateSettings")
	defer func() { observability.EndSpan(span, err) }()

	if in.MaxPostsPerDay < MinPostsPerDay || in.MaxPostsPerDay > MaxPostsPerDay {
		return models.SystemSettings{}, models.NewValidationError(
			fmt.Sprintf("max_posts_per_day must be between %d and %d", MinPostsPerDay, MaxPostsPerDay))
	}
	if err := s.settings.Put(ctx, in); err != nil {
		return models.SystemSettings{}, err
	}
	s.Record(ctx, admin.ID, models.ActionSettingsUpdate, "Updated system settings")
	s.emitter.Emit(ctx, events.SettingsUpdated, admin.ID, in)
	return in, nil
}

// ResetSettings restores the defaults.
func (s *AdminService) ResetSettings(ctx context.Context, admin *models.User) (_ models.SystemSettings, err error) {
	ctx, span := observability.StartSpan(ctx, "AdminService", "ResetSettings")
	defer func() { observability.EndSpan(span, err) }()

	defaults := models.DefaultSystemSettings()
	if err := s.settings.Put(ctx, defaults); err != nil {
		return models.SystemSettings{}, err
	}
	s.Record(ctx, admin.ID, models.ActionSettingsUpdate, "Reset system settings to defaults")
	s.emitter.Emit(ctx, events.SettingsUpdated, admin.ID, defaults)
	return defaults, nil
}

// Activity returns the newest limit entries; limit <= 0 returns all retained.
func (s *AdminService) Activity(ctx context.Context, limit int) ([]*models.ActivityEntry, error) {
	return s.activity.List(ctx, limit)
}

// Record appends an activity entry. Failures are logged only.
func (s *AdminService) Record(ctx context.Context, userID string, action models.ActivityAction, details string) {
	entry := &models.ActivityEntry{
		UserID:    userID,
		Action:    action,
		Timestamp: s.now(),
		Details:   details,
	}
	if err := s.activity.Append(ctx, entry); err != nil {
		observability.GlobalLogger.WarnContext(ctx, "failed to record activity",
			slog.String("action", string(action)), slog.String("error", err.Error()))
	}
}
