package model

import (
	"errors"
	"time"
)

// ErrInvalidDateRange is returned when startDate is after endDate.
var ErrInvalidDateRange = errors.New("startDate must not be after endDate")

// Metric selects which value the pivot table aggregates.
type Metric string

const (
	MetricNetAmount    Metric = "netAmount"
	MetricPayAmount    Metric = "payAmount"
	MetricRefundAmount Metric = "refundAmount"
	MetricPayCount     Metric = "payCount"
	MetricRefundCount  Metric = "refundCount"
)

// DashboardQuery is the common filter envelope shared by every dashboard
// view: a required closed date interval plus optional equality filters.
type DashboardQuery struct {
	StartDate  string `form:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate    string `form:"endDate" binding:"required,datetime=2006-01-02"`
	CampusID   string `form:"campusId"`
	CourseType string `form:"courseType"`
}

// Window parses the date interval and rejects inverted ranges.
func (q *DashboardQuery) Window() (start, end time.Time, err error) {
	start, err = time.Parse(DateLayout, q.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = time.Parse(DateLayout, q.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return start, end, nil
}

// Detail pagination bounds.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// DetailQuery extends the filter envelope for the transaction-level detail
// lists with class/teacher filters and 1-indexed pagination.
type DetailQuery struct {
	DashboardQuery
	ClassID   string `form:"classId"`
	TeacherID string `form:"teacherId"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// Normalize applies pagination defaults and caps.
func (q *DetailQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
}

// PivotQuery extends the filter envelope for the date×class pivot table.
type PivotQuery struct {
	DashboardQuery
	Metric   Metric   `form:"metric" binding:"omitempty,oneof=netAmount payAmount refundAmount payCount refundCount"`
	ClassIDs []string `form:"classIds"`
}

// Normalize applies the default metric.
func (q *PivotQuery) Normalize() {
	if q.Metric == "" {
		q.Metric = MetricNetAmount
	}
}
