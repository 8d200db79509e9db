package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

const leaveSelect = `
	SELECT l.id, l.employee_id, l.supervisor_id, l.start_date, l.end_date, l.category,
		   l.status, l.admin_approved,
		   l.approved_by, l.approved_at, l.supervisor_comment,
		   l.rejected_by, l.rejected_at, l.rejection_reason,
		   l.cancelled_by, l.cancelled_at, l.cancellation_reason,
		   l.version, l.created_at, l.updated_at,
		   e.name, e.department
	FROM leaves l
	INNER JOIN employees e ON l.employee_id = e.id
`

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.SupervisorID, &l.StartDate, &l.EndDate, &l.Category,
		&l.Status, &l.AdminApproved,
		&l.ApprovedBy, &l.ApprovedAt, &l.SupervisorComment,
		&l.RejectedBy, &l.RejectedAt, &l.RejectionReason,
		&l.CancelledBy, &l.CancelledAt, &l.CancellationReason,
		&l.Version, &l.CreatedAt, &l.UpdatedAt,
		&l.EmployeeName, &l.Department,
	)
	return l, err
}

func (r *leaveRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaves := make([]leave.Leave, 0)
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

// Create implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	if l.Version == 0 {
		l.Version = 1
	}

	query := `
		INSERT INTO leaves (
			employee_id, supervisor_id, start_date, end_date, category,
			status, admin_approved, version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		l.EmployeeID, l.SupervisorID, l.StartDate, l.EndDate, l.Category,
		l.Status, l.AdminApproved, l.Version,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return l, nil
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id int64) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLeave(q.QueryRow(ctx, leaveSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Leave{}, leave.ErrLeaveNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to get leave request with id %d: %w", id, err)
	}
	return l, nil
}

// ListByEmployee implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListByEmployee(ctx context.Context, employeeID int64) ([]leave.Leave, error) {
	return r.list(ctx, leaveSelect+`
		WHERE l.employee_id = $1
		ORDER BY l.start_date DESC, l.id DESC
	`, employeeID)
}

// ListBySupervisor implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListBySupervisor(ctx context.Context, supervisorID int64, status leave.Status) ([]leave.Leave, error) {
	return r.list(ctx, leaveSelect+`
		WHERE l.supervisor_id = $1 AND l.status = $2
		ORDER BY l.start_date ASC, l.id ASC
	`, supervisorID, status)
}

// ListApprovedByDepartment implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListApprovedByDepartment(ctx context.Context, department string, endingFrom time.Time) ([]leave.Leave, error) {
	return r.list(ctx, leaveSelect+`
		WHERE e.department = $1 AND l.status = $2 AND l.end_date >= $3
		ORDER BY l.start_date ASC, l.id ASC
	`, department, leave.StatusApproved, dateOnly(endingFrom))
}

// ListApprovedCovering implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListApprovedCovering(ctx context.Context, day time.Time) ([]leave.Leave, error) {
	return r.list(ctx, leaveSelect+`
		WHERE l.status = $1 AND l.start_date <= $2 AND l.end_date >= $2
		ORDER BY e.name ASC, l.id ASC
	`, leave.StatusApproved, dateOnly(day))
}

// ListApprovedInRange implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListApprovedInRange(ctx context.Context, employeeID int64, from, to time.Time) ([]leave.Leave, error) {
	return r.list(ctx, leaveSelect+`
		WHERE l.employee_id = $1 AND l.status = $2
		  AND l.start_date <= $4 AND l.end_date >= $3
		ORDER BY l.start_date ASC
	`, employeeID, leave.StatusApproved, dateOnly(from), dateOnly(to))
}

// ListAll implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListAll(ctx context.Context, status leave.Status) ([]leave.Leave, error) {
	if status == "" {
		return r.list(ctx, leaveSelect+`
			ORDER BY l.start_date DESC, l.id DESC
		`)
	}
	return r.list(ctx, leaveSelect+`
		WHERE l.status = $1
		ORDER BY l.start_date DESC, l.id DESC
	`, status)
}

// ListApprovedOverlapping implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ListApprovedOverlapping(ctx context.Context, from, to time.Time, department string) ([]leave.Leave, error) {
	return r.list(ctx, leaveSelect+`
		WHERE l.status = $1
		  AND l.start_date <= $3 AND l.end_date >= $2
		  AND ($4 = '' OR e.department = $4)
		ORDER BY l.start_date ASC, l.id ASC
	`, leave.StatusApproved, dateOnly(from), dateOnly(to), department)
}

// CountByStatus implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) CountByStatus(ctx context.Context, employeeID int64) (map[leave.Status]int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT status, COUNT(*)
		FROM leaves
		WHERE employee_id = $1
		GROUP BY status
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[leave.Status]int)
	for rows.Next() {
		var status leave.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CountDepartmentOverlaps implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) CountDepartmentOverlaps(ctx context.Context, department string, excludeEmployeeID int64, start, end time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(DISTINCT l.employee_id)
		FROM leaves l
		INNER JOIN employees e ON l.employee_id = e.id
		WHERE e.department = $1
		  AND l.employee_id <> $2
		  AND l.status = $3
		  AND l.start_date <= $5
		  AND l.end_date >= $4
	`

	var count int
	err := q.QueryRow(ctx, query, department, excludeEmployeeID, leave.StatusApproved, dateOnly(start), dateOnly(end)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count department overlaps: %w", err)
	}
	return count, nil
}

// UpdateState implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) UpdateState(ctx context.Context, l leave.Leave, expectedVersion int64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves SET
			status = $3,
			supervisor_id = $4,
			admin_approved = $5,
			approved_by = $6,
			approved_at = $7,
			supervisor_comment = $8,
			rejected_by = $9,
			rejected_at = $10,
			rejection_reason = $11,
			cancelled_by = $12,
			cancelled_at = $13,
			cancellation_reason = $14,
			version = $15,
			updated_at = NOW()
		WHERE id = $1 AND version = $2
	`

	commandTag, err := q.Exec(ctx, query,
		l.ID, expectedVersion,
		l.Status, l.SupervisorID, l.AdminApproved,
		l.ApprovedBy, l.ApprovedAt, l.SupervisorComment,
		l.RejectedBy, l.RejectedAt, l.RejectionReason,
		l.CancelledBy, l.CancelledAt, l.CancellationReason,
		l.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request with id %d: %w", l.ID, err)
	}
	if commandTag.RowsAffected() == 0 {
		return leave.ErrVersionConflict
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
