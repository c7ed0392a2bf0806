package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edufin/finboard-backend/internal/model"
)

// LedgerRepository reads the append-only payment/refund event ledger.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Snapshot scans both event tables and the dictionaries inside one
// repeatable-read read-only transaction, so every view computed from the
// result sees the same ledger state even while events are being appended.
func (r *LedgerRepository) Snapshot(ctx context.Context, f model.LedgerFilter) (*model.LedgerSnapshot, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback(ctx)

	snap := &model.LedgerSnapshot{}

	if snap.Payments, err = r.scanPayments(ctx, tx, f); err != nil {
		return nil, err
	}
	if snap.Refunds, err = r.scanRefunds(ctx, tx, f); err != nil {
		return nil, err
	}
	if snap.Classes, err = r.loadClasses(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Teachers, err = loadNames(ctx, tx, `SELECT id, name FROM teachers`); err != nil {
		return nil, err
	}
	if snap.Campuses, err = loadNames(ctx, tx, `SELECT id, name FROM campuses`); err != nil {
		return nil, err
	}
	if snap.CourseTypes, err = loadNames(ctx, tx, `SELECT code, name FROM course_types`); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit snapshot tx: %w", err)
	}
	return snap, nil
}

// eventWhere builds the shared WHERE clause for both event tables. The date
// interval is closed on both ends.
func eventWhere(dateCol string, f model.LedgerFilter) (string, []interface{}) {
	where := ` WHERE ` + dateCol + ` BETWEEN $1 AND $2`
	args := []interface{}{f.Start, f.End}

	add := func(cond, col string, val interface{}) {
		args = append(args, val)
		where += ` AND ` + col + cond + `$` + strconv.Itoa(len(args))
	}

	if f.CampusID != "" {
		add(` = `, `campus_id`, f.CampusID)
	}
	if f.CourseType != "" {
		add(` = `, `course_type`, f.CourseType)
	}
	if f.ClassID != "" {
		add(` = `, `class_id`, f.ClassID)
	}
	if f.TeacherID != "" {
		add(` = `, `teacher_id`, f.TeacherID)
	}
	if len(f.ClassIDs) > 0 {
		add(` = ANY(`, `class_id`, f.ClassIDs)
		where += `)`
	}
	return where, args
}

func (r *LedgerRepository) scanPayments(ctx context.Context, tx pgx.Tx, f model.LedgerFilter) ([]model.PaymentEvent, error) {
	where, args := eventWhere("pay_date", f)
	rows, err := tx.Query(ctx,
		`SELECT id, pay_date, class_id, teacher_id, campus_id, course_type, pay_count, pay_amount
		 FROM payment_events`+where+` ORDER BY pay_date, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("scan payment events: %w", err)
	}
	defer rows.Close()

	events := []model.PaymentEvent{}
	for rows.Next() {
		var e model.PaymentEvent
		if err := rows.Scan(&e.ID, &e.PayDate, &e.ClassID, &e.TeacherID, &e.CampusID, &e.CourseType, &e.PayCount, &e.PayAmount); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *LedgerRepository) scanRefunds(ctx context.Context, tx pgx.Tx, f model.LedgerFilter) ([]model.RefundEvent, error) {
	where, args := eventWhere("refund_date", f)
	rows, err := tx.Query(ctx,
		`SELECT id, refund_date, class_id, teacher_id, campus_id, course_type, refund_count, refund_amount, COALESCE(reason, '')
		 FROM refund_events`+where+` ORDER BY refund_date, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("scan refund events: %w", err)
	}
	defer rows.Close()

	events := []model.RefundEvent{}
	for rows.Next() {
		var e model.RefundEvent
		if err := rows.Scan(&e.ID, &e.RefundDate, &e.ClassID, &e.TeacherID, &e.CampusID, &e.CourseType, &e.RefundCount, &e.RefundAmount, &e.Reason); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *LedgerRepository) loadClasses(ctx context.Context, tx pgx.Tx) (map[string]model.Class, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, display_name, teacher_id, campus_id, course_type, classification FROM classes`)
	if err != nil {
		return nil, fmt.Errorf("load classes: %w", err)
	}
	defer rows.Close()

	classes := make(map[string]model.Class)
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.DisplayName, &c.TeacherID, &c.CampusID, &c.CourseType, &c.Classification); err != nil {
			return nil, err
		}
		classes[c.ID] = c
	}
	return classes, rows.Err()
}

// loadNames loads an id/name dictionary table into a map.
func loadNames(ctx context.Context, tx pgx.Tx, query string) (map[string]string, error) {
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}
