package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gakkou-tools/kintai/internal/domain/calendar"
	"github.com/gakkou-tools/kintai/internal/domain/entity"
	"github.com/gakkou-tools/kintai/internal/domain/leave"
	"github.com/gakkou-tools/kintai/internal/domain/workflow"
)

// Shared test doubles for the service layer.

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

type nopTxManager struct{}

func (nopTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func statusKey(userID string, ym calendar.YearMonth, track entity.Track) string {
	return fmt.Sprintf("%s|%s|%s", userID, ym, track)
}

type mockStatusRepo struct {
	records map[string]*entity.MonthlyStatus
	nextID  int64
	getErr  error
}

func newMockStatusRepo() *mockStatusRepo {
	return &mockStatusRepo{records: make(map[string]*entity.MonthlyStatus)}
}

func (m *mockStatusRepo) Get(ctx context.Context, userID string, ym calendar.YearMonth, track entity.Track) (*entity.MonthlyStatus, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	st, ok := m.records[statusKey(userID, ym, track)]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (m *mockStatusRepo) Create(ctx context.Context, st *entity.MonthlyStatus) error {
	key := statusKey(st.UserID, st.YearMonth, st.Track)
	if _, exists := m.records[key]; exists {
		return fmt.Errorf("unique constraint violated: %s", key)
	}
	m.nextID++
	st.ID = m.nextID
	cp := *st
	m.records[key] = &cp
	return nil
}

func (m *mockStatusRepo) Update(ctx context.Context, st *entity.MonthlyStatus) error {
	cp := *st
	m.records[statusKey(st.UserID, st.YearMonth, st.Track)] = &cp
	return nil
}

func (m *mockStatusRepo) ListByMonth(ctx context.Context, ym calendar.YearMonth, state workflow.State, limit, offset int) ([]*entity.MonthlyStatus, error) {
	var out []*entity.MonthlyStatus
	for _, st := range m.records {
		if st.YearMonth == ym && (state == "" || st.State == state) {
			cp := *st
			out = append(out, &cp)
		}
	}
	return out, nil
}

func dayKey(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

type mockScheduleRepo struct {
	entries map[string]*entity.ScheduleEntry
	putErr  error
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{entries: make(map[string]*entity.ScheduleEntry)}
}

func (m *mockScheduleRepo) GetByDate(ctx context.Context, userID string, date time.Time) (*entity.ScheduleEntry, error) {
	return m.entries[dayKey(userID, date)], nil
}

func (m *mockScheduleRepo) ListByMonth(ctx context.Context, userID string, ym calendar.YearMonth) ([]*entity.ScheduleEntry, error) {
	var out []*entity.ScheduleEntry
	for _, e := range m.entries {
		if e.UserID == userID && ym.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) Put(ctx context.Context, e *entity.ScheduleEntry) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.entries[dayKey(e.UserID, e.Date)] = e
	return nil
}

func (m *mockScheduleRepo) Delete(ctx context.Context, userID string, date time.Time) error {
	delete(m.entries, dayKey(userID, date))
	return nil
}

type mockClaimRepo struct {
	claims map[string]*entity.AllowanceClaim
	putErr error
}

func newMockClaimRepo() *mockClaimRepo {
	return &mockClaimRepo{claims: make(map[string]*entity.AllowanceClaim)}
}

func (m *mockClaimRepo) GetByDate(ctx context.Context, userID string, date time.Time) (*entity.AllowanceClaim, error) {
	return m.claims[dayKey(userID, date)], nil
}

func (m *mockClaimRepo) ListByMonth(ctx context.Context, userID string, ym calendar.YearMonth) ([]*entity.AllowanceClaim, error) {
	var out []*entity.AllowanceClaim
	for _, c := range m.claims {
		if c.UserID == userID && ym.Contains(c.Date) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockClaimRepo) Put(ctx context.Context, c *entity.AllowanceClaim) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.claims[dayKey(c.UserID, c.Date)] = c
	return nil
}

func (m *mockClaimRepo) Delete(ctx context.Context, userID string, date time.Time) error {
	delete(m.claims, dayKey(userID, date))
	return nil
}

type mockLeaveRepo struct {
	apps   map[int64]*entity.LeaveApplication
	nextID int64
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{apps: make(map[int64]*entity.LeaveApplication)}
}

func (m *mockLeaveRepo) GetByID(ctx context.Context, id int64) (*entity.LeaveApplication, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *app
	return &cp, nil
}

func (m *mockLeaveRepo) GetByDate(ctx context.Context, userID string, date time.Time) (*entity.LeaveApplication, error) {
	for _, app := range m.apps {
		if app.UserID == userID && app.Date.Equal(date) {
			cp := *app
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockLeaveRepo) Create(ctx context.Context, app *entity.LeaveApplication) error {
	m.nextID++
	app.ID = m.nextID
	cp := *app
	m.apps[app.ID] = &cp
	return nil
}

func (m *mockLeaveRepo) Update(ctx context.Context, app *entity.LeaveApplication) error {
	cp := *app
	m.apps[app.ID] = &cp
	return nil
}

func (m *mockLeaveRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.LeaveApplication, error) {
	var out []*entity.LeaveApplication
	for _, app := range m.apps {
		if app.UserID == userID {
			cp := *app
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockLeaveRepo) ListPending(ctx context.Context, limit int) ([]*entity.LeaveApplication, error) {
	var out []*entity.LeaveApplication
	for _, app := range m.apps {
		if app.Status == entity.LeaveStatusPending {
			cp := *app
			out = append(out, &cp)
		}
	}
	return out, nil
}

type mockBalanceRepo struct {
	balances map[string]leave.Balance
}

func newMockBalanceRepo() *mockBalanceRepo {
	return &mockBalanceRepo{balances: make(map[string]leave.Balance)}
}

func (m *mockBalanceRepo) Get(ctx context.Context, userID string) (*leave.Balance, error) {
	b, ok := m.balances[userID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *mockBalanceRepo) Save(ctx context.Context, b leave.Balance) error {
	m.balances[b.UserID] = b
	return nil
}

type memoryStorage struct {
	files map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: make(map[string][]byte)}
}

func (m *memoryStorage) Save(ctx context.Context, path string, content []byte) error {
	m.files[path] = content
	return nil
}

func (m *memoryStorage) Read(ctx context.Context, path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("not found: %s", path)
	}
	return content, nil
}

func (m *memoryStorage) Exists(ctx context.Context, path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m *memoryStorage) GetFullPath(relativePath string) string {
	return "/exports/" + relativePath
}
