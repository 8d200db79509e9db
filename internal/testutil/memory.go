package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/balance"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/notification"
	"github.com/shopspring/decimal"
)

type snapshotter interface {
	snapshot() (restore func())
}

// Transactor runs fn directly and restores the registered stores when fn
// fails, standing in for a database rollback.
type Transactor struct {
	Stores    []snapshotter
	Calls     int
	Rollbacks int
}

func NewTransactor(stores ...snapshotter) *Transactor {
	return &Transactor{Stores: stores}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	t.Calls++
	restores := make([]func(), 0, len(t.Stores))
	for _, s := range t.Stores {
		restores = append(restores, s.snapshot())
	}
	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		t.Rollbacks++
		return err
	}
	return nil
}

// EmployeeStore is an in-memory employee.EmployeeRepository
type EmployeeStore struct {
	mu        sync.RWMutex
	employees map[int64]employee.Employee
	Balances  *BalanceStore
	Err       error
}

func NewEmployeeStore(employees ...employee.Employee) *EmployeeStore {
	s := &EmployeeStore{employees: make(map[int64]employee.Employee)}
	for _, e := range employees {
		s.employees[e.ID] = e
	}
	return s
}

func (s *EmployeeStore) Put(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

func (s *EmployeeStore) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	if s.Err != nil {
		return employee.Employee{}, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (s *EmployeeStore) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	if s.Err != nil {
		return employee.Employee{}, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.employees {
		if strings.EqualFold(e.Email, email) {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (s *EmployeeStore) GetFirstAdmin(ctx context.Context) (employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var admin *employee.Employee
	for _, e := range s.employees {
		if e.Role != employee.RoleAdmin {
			continue
		}
		if admin == nil || e.ID < admin.ID {
			found := e
			admin = &found
		}
	}
	if admin == nil {
		return employee.Employee{}, employee.ErrAdminNotFound
	}
	return *admin, nil
}

func (s *EmployeeStore) ListIDsWithoutBalance(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int64, 0)
	for id := range s.employees {
		if s.Balances != nil && s.Balances.Has(id) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// LeaveStore is an in-memory leave.LeaveRepository honoring version checks
type LeaveStore struct {
	mu        sync.RWMutex
	leaves    map[int64]leave.Leave
	nextID    int64
	employees *EmployeeStore

	CreateErr error
	UpdateErr error
}

func NewLeaveStore(employees *EmployeeStore) *LeaveStore {
	return &LeaveStore{
		leaves:    make(map[int64]leave.Leave),
		employees: employees,
	}
}

// Seed stores l as is, assigning an id when it has none.
func (s *LeaveStore) Seed(l leave.Leave) leave.Leave {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		s.nextID++
		l.ID = s.nextID
	} else if l.ID > s.nextID {
		s.nextID = l.ID
	}
	if l.Version == 0 {
		l.Version = 1
	}
	s.leaves[l.ID] = l
	return l
}

func (s *LeaveStore) snapshot() func() {
	s.mu.RLock()
	saved := make(map[int64]leave.Leave, len(s.leaves))
	for id, l := range s.leaves {
		saved[id] = l
	}
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		s.leaves = saved
		s.mu.Unlock()
	}
}

func (s *LeaveStore) withEmployee(l leave.Leave) leave.Leave {
	if s.employees == nil {
		return l
	}
	if e, err := s.employees.GetByID(context.Background(), l.EmployeeID); err == nil {
		name := e.Name
		l.EmployeeName = &name
		l.Department = e.Department
	}
	return l
}

func (s *LeaveStore) filter(keep func(leave.Leave) bool) []leave.Leave {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]leave.Leave, 0)
	for _, l := range s.leaves {
		if keep(l) {
			out = append(out, s.withEmployee(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *LeaveStore) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	if s.CreateErr != nil {
		return leave.Leave{}, s.CreateErr
	}
	now := time.Now()
	l.ID = 0
	l.CreatedAt = now
	l.UpdatedAt = now
	return s.Seed(l), nil
}

func (s *LeaveStore) GetByID(ctx context.Context, id int64) (leave.Leave, error) {
	s.mu.RLock()
	l, ok := s.leaves[id]
	s.mu.RUnlock()
	if !ok {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	return s.withEmployee(l), nil
}

func (s *LeaveStore) ListByEmployee(ctx context.Context, employeeID int64) ([]leave.Leave, error) {
	return s.filter(func(l leave.Leave) bool { return l.EmployeeID == employeeID }), nil
}

func (s *LeaveStore) ListBySupervisor(ctx context.Context, supervisorID int64, status leave.Status) ([]leave.Leave, error) {
	return s.filter(func(l leave.Leave) bool {
		return l.SupervisorID != nil && *l.SupervisorID == supervisorID && l.Status == status
	}), nil
}

func (s *LeaveStore) ListApprovedByDepartment(ctx context.Context, department string, endingFrom time.Time) ([]leave.Leave, error) {
	return s.filter(func(l leave.Leave) bool {
		if l.Status != leave.StatusApproved || l.EndDate.Before(dayOf(endingFrom)) {
			return false
		}
		return s.departmentOf(l.EmployeeID) == department
	}), nil
}

func (s *LeaveStore) ListApprovedCovering(ctx context.Context, day time.Time) ([]leave.Leave, error) {
	return s.filter(func(l leave.Leave) bool {
		return l.Status == leave.StatusApproved && l.Overlaps(day, day)
	}), nil
}

func (s *LeaveStore) ListApprovedInRange(ctx context.Context, employeeID int64, from, to time.Time) ([]leave.Leave, error) {
	return s.filter(func(l leave.Leave) bool {
		return l.EmployeeID == employeeID && l.Status == leave.StatusApproved && l.Overlaps(from, to)
	}), nil
}

func (s *LeaveStore) ListAll(ctx context.Context, status leave.Status) ([]leave.Leave, error) {
	out := s.filter(func(l leave.Leave) bool { return status == "" || l.Status == status })
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *LeaveStore) ListApprovedOverlapping(ctx context.Context, from, to time.Time, department string) ([]leave.Leave, error) {
	return s.filter(func(l leave.Leave) bool {
		if l.Status != leave.StatusApproved || !l.Overlaps(from, to) {
			return false
		}
		return department == "" || s.departmentOf(l.EmployeeID) == department
	}), nil
}

func (s *LeaveStore) CountByStatus(ctx context.Context, employeeID int64) (map[leave.Status]int, error) {
	counts := make(map[leave.Status]int)
	for _, l := range s.filter(func(l leave.Leave) bool { return l.EmployeeID == employeeID }) {
		counts[l.Status]++
	}
	return counts, nil
}

func (s *LeaveStore) CountDepartmentOverlaps(ctx context.Context, department string, excludeEmployeeID int64, start, end time.Time) (int, error) {
	employees := make(map[int64]struct{})
	for _, l := range s.filter(func(l leave.Leave) bool {
		return l.Status == leave.StatusApproved && l.EmployeeID != excludeEmployeeID && l.Overlaps(start, end)
	}) {
		if s.departmentOf(l.EmployeeID) == department {
			employees[l.EmployeeID] = struct{}{}
		}
	}
	return len(employees), nil
}

func (s *LeaveStore) UpdateState(ctx context.Context, l leave.Leave, expectedVersion int64) error {
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.leaves[l.ID]
	if !ok || stored.Version != expectedVersion {
		return leave.ErrVersionConflict
	}
	l.EmployeeName = nil
	l.Department = nil
	s.leaves[l.ID] = l
	return nil
}

func (s *LeaveStore) departmentOf(employeeID int64) string {
	if s.employees == nil {
		return ""
	}
	e, err := s.employees.GetByID(context.Background(), employeeID)
	if err != nil {
		return ""
	}
	return e.DepartmentName()
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// BalanceStore is an in-memory balance.BalanceRepository
type BalanceStore struct {
	mu       sync.RWMutex
	balances map[int64]decimal.Decimal
}

func NewBalanceStore() *BalanceStore {
	return &BalanceStore{balances: make(map[int64]decimal.Decimal)}
}

func (s *BalanceStore) Set(employeeID int64, days float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[employeeID] = decimal.NewFromFloat(days)
}

func (s *BalanceStore) Has(employeeID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.balances[employeeID]
	return ok
}

func (s *BalanceStore) snapshot() func() {
	s.mu.RLock()
	saved := make(map[int64]decimal.Decimal, len(s.balances))
	for id, b := range s.balances {
		saved[id] = b
	}
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		s.balances = saved
		s.mu.Unlock()
	}
}

func (s *BalanceStore) Get(ctx context.Context, employeeID int64) (balance.LeaveBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.balances[employeeID]
	if !ok {
		return balance.LeaveBalance{}, balance.ErrBalanceNotFound
	}
	return balance.LeaveBalance{EmployeeID: employeeID, Balance: b}, nil
}

func (s *BalanceStore) GetOrCreate(ctx context.Context, employeeID int64, initial decimal.Decimal) (balance.LeaveBalance, error) {
	s.mu.Lock()
	if _, ok := s.balances[employeeID]; !ok {
		s.balances[employeeID] = initial
	}
	s.mu.Unlock()
	return s.Get(ctx, employeeID)
}

func (s *BalanceStore) Adjust(ctx context.Context, employeeID int64, delta decimal.Decimal) (balance.LeaveBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.balances[employeeID]
	if !ok {
		return balance.LeaveBalance{}, balance.ErrBalanceNotFound
	}
	next := b.Add(delta)
	if next.IsNegative() {
		return balance.LeaveBalance{}, balance.ErrWouldOverdraw
	}
	s.balances[employeeID] = next
	return balance.LeaveBalance{EmployeeID: employeeID, Balance: next}, nil
}

// NotificationStore is an in-memory notification.Repository
type NotificationStore struct {
	mu            sync.RWMutex
	notifications []*notification.Notification
	CreateErr     error
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

// All returns every stored notification in insertion order.
func (s *NotificationStore) All() []notification.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]notification.Notification, len(s.notifications))
	for i, n := range s.notifications {
		out[i] = *n
	}
	return out
}

func (s *NotificationStore) Create(ctx context.Context, n *notification.Notification) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	stored := *n
	s.notifications = append(s.notifications, &stored)
	return nil
}

func (s *NotificationStore) ListByRecipient(ctx context.Context, recipientID int64, limit int) ([]*notification.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*notification.Notification, 0)
	for i := len(s.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if s.notifications[i].RecipientID == recipientID {
			n := *s.notifications[i]
			out = append(out, &n)
		}
	}
	return out, nil
}

func (s *NotificationStore) GetUnreadCount(ctx context.Context, recipientID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *NotificationStore) MarkAsRead(ctx context.Context, id string, recipientID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			if !n.IsRead {
				now := time.Now()
				n.IsRead = true
				n.ReadAt = &now
			}
			return nil
		}
	}
	return notification.ErrNotificationNotFound
}
