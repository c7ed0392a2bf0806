package service

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/edufin/finboard-backend/internal/model"
)

// fakeLedgerStore serves snapshots from in-memory slices, applying the same
// filter semantics the SQL repository does.
type fakeLedgerStore struct {
	payments    []model.PaymentEvent
	refunds     []model.RefundEvent
	classes     map[string]model.Class
	teachers    map[string]string
	campuses    map[string]string
	courseTypes map[string]string
}

func (f *fakeLedgerStore) Snapshot(_ context.Context, flt model.LedgerFilter) (*model.LedgerSnapshot, error) {
	inClassSet := func(id string) bool {
		if len(flt.ClassIDs) == 0 {
			return true
		}
		for _, c := range flt.ClassIDs {
			if c == id {
				return true
			}
		}
		return false
	}
	match := func(date time.Time, campus, course, class, teacher string) bool {
		if date.Before(flt.Start) || date.After(flt.End) {
			return false
		}
		if flt.CampusID != "" && campus != flt.CampusID {
			return false
		}
		if flt.CourseType != "" && course != flt.CourseType {
			return false
		}
		if flt.ClassID != "" && class != flt.ClassID {
			return false
		}
		if flt.TeacherID != "" && teacher != flt.TeacherID {
			return false
		}
		return inClassSet(class)
	}

	snap := &model.LedgerSnapshot{
		Classes:     f.classes,
		Teachers:    f.teachers,
		Campuses:    f.campuses,
		CourseTypes: f.courseTypes,
	}
	for _, p := range f.payments {
		if match(p.PayDate, p.CampusID, p.CourseType, p.ClassID, p.TeacherID) {
			snap.Payments = append(snap.Payments, p)
		}
	}
	for _, r := range f.refunds {
		if match(r.RefundDate, r.CampusID, r.CourseType, r.ClassID, r.TeacherID) {
			snap.Refunds = append(snap.Refunds, r)
		}
	}
	return snap, nil
}

func day(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func pay(id, date, class, teacher, campus, course string, count int, amount int64) model.PaymentEvent {
	return model.PaymentEvent{
		ID: id, PayDate: day(date), ClassID: class, TeacherID: teacher,
		CampusID: campus, CourseType: course, PayCount: count, PayAmount: amount,
	}
}

func refund(id, date, class, teacher, campus, course string, count int, amount int64) model.RefundEvent {
	return model.RefundEvent{
		ID: id, RefundDate: day(date), ClassID: class, TeacherID: teacher,
		CampusID: campus, CourseType: course, RefundCount: count, RefundAmount: amount,
	}
}

func testStore() *fakeLedgerStore {
	return &fakeLedgerStore{
		payments: []model.PaymentEvent{
			pay("P001", "2025-03-15", "C001", "T001", "bj01", "KET", 5, 13600),
			pay("P002", "2025-03-18", "C002", "T002", "sh01", "PET", 3, 9000),
			pay("P003", "2025-05-02", "C001", "T001", "bj01", "KET", 2, 5000),
			pay("P004", "2025-05-02", "C003", "T002", "sh01", "KET", 4, 12000),
		},
		refunds: []model.RefundEvent{
			refund("R001", "2025-03-20", "C001", "T001", "bj01", "KET", 1, 2720),
			refund("R002", "2025-05-10", "C003", "T002", "sh01", "KET", 1, 3000),
		},
		classes: map[string]model.Class{
			"C001": {ID: "C001", DisplayName: "25KET001", TeacherID: "T001", CampusID: "bj01", CourseType: "KET", Classification: model.ClassificationNew},
			"C002": {ID: "C002", DisplayName: "25PET002", TeacherID: "T002", CampusID: "sh01", CourseType: "PET", Classification: model.ClassificationRenewal},
			"C003": {ID: "C003", DisplayName: "25KET003", TeacherID: "T002", CampusID: "sh01", CourseType: "KET", Classification: model.ClassificationNew},
		},
		teachers:    map[string]string{"T001": "Zhang Wei", "T002": "Li Na"},
		campuses:    map[string]string{"bj01": "Beijing Campus", "sh01": "Shanghai Campus"},
		courseTypes: map[string]string{"KET": "KET Course", "PET": "PET Course"},
	}
}

func query(start, end string) model.DashboardQuery {
	return model.DashboardQuery{StartDate: start, EndDate: end}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestGetSummary(t *testing.T) {
	svc := NewDashboardService(testStore())

	d, err := svc.GetSummary(context.Background(), query("2025-03-01", "2025-03-31"))
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	if d.PayCount != 8 || d.PayAmount != 22600 {
		t.Errorf("payments = (%d, %d), want (8, 22600)", d.PayCount, d.PayAmount)
	}
	if d.RefundCount != 1 || d.RefundAmount != 2720 {
		t.Errorf("refunds = (%d, %d), want (1, 2720)", d.RefundCount, d.RefundAmount)
	}
	if d.NetAmount != d.PayAmount-d.RefundAmount {
		t.Errorf("netAmount = %d, want payAmount-refundAmount = %d", d.NetAmount, d.PayAmount-d.RefundAmount)
	}
	if !almostEqual(d.RefundRateByCount, 1.0/8.0) {
		t.Errorf("refundRateByCount = %v, want %v", d.RefundRateByCount, 1.0/8.0)
	}
	if !almostEqual(d.RefundRateByAmount, 2720.0/22600.0) {
		t.Errorf("refundRateByAmount = %v, want %v", d.RefundRateByAmount, 2720.0/22600.0)
	}
}

func TestGetSummarySingleClass(t *testing.T) {
	// One payment and one refund against the same class: the refund rates
	// fall out as exact fifths.
	store := &fakeLedgerStore{
		payments: []model.PaymentEvent{pay("P001", "2025-03-15", "C001", "T001", "bj01", "KET", 5, 13600)},
		refunds:  []model.RefundEvent{refund("R001", "2025-03-20", "C001", "T001", "bj01", "KET", 1, 2720)},
	}
	svc := NewDashboardService(store)

	d, err := svc.GetSummary(context.Background(), query("2025-03-01", "2025-03-31"))
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}

	want := model.SummaryData{
		PayCount: 5, PayAmount: 13600,
		RefundCount: 1, RefundAmount: 2720,
		NetAmount:         10880,
		RefundRateByCount: 0.2, RefundRateByAmount: 0.2,
	}
	if *d != want {
		t.Errorf("summary = %+v, want %+v", *d, want)
	}
}

func TestGetSummaryEmptyRange(t *testing.T) {
	svc := NewDashboardService(testStore())

	d, err := svc.GetSummary(context.Background(), query("2024-01-01", "2024-01-31"))
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if d.PayCount != 0 || d.PayAmount != 0 || d.NetAmount != 0 {
		t.Errorf("expected zero summary, got %+v", *d)
	}
	if d.RefundRateByCount != 0 || d.RefundRateByAmount != 0 {
		t.Errorf("rates with zero denominators must be exactly 0, got %v / %v",
			d.RefundRateByCount, d.RefundRateByAmount)
	}
}

func TestGetSummaryInvalidRange(t *testing.T) {
	svc := NewDashboardService(testStore())

	_, err := svc.GetSummary(context.Background(), query("2025-03-31", "2025-03-01"))
	if err != model.ErrInvalidDateRange {
		t.Errorf("err = %v, want ErrInvalidDateRange", err)
	}
}

func TestGetSummaryUnknownCampusFilter(t *testing.T) {
	svc := NewDashboardService(testStore())

	q := query("2025-01-01", "2025-12-31")
	q.CampusID = "nowhere"
	d, err := svc.GetSummary(context.Background(), q)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if d.PayCount != 0 || d.RefundCount != 0 {
		t.Errorf("unknown campus should match nothing, got %+v", *d)
	}
}

func TestGetClassType(t *testing.T) {
	svc := NewDashboardService(testStore())

	d, err := svc.GetClassType(context.Background(), query("2025-01-01", "2025-12-31"))
	if err != nil {
		t.Fatalf("GetClassType: %v", err)
	}

	// C001 and C003 are new, C002 is renewal.
	if d.NewCount != 2 || d.RenewCount != 1 {
		t.Errorf("class counts = (%d, %d), want (2, 1)", d.NewCount, d.RenewCount)
	}
	if d.NewPayAmount != 13600+5000+12000 {
		t.Errorf("newPayAmount = %d, want %d", d.NewPayAmount, 13600+5000+12000)
	}
	if d.RenewPayAmount != 9000 {
		t.Errorf("renewPayAmount = %d, want 9000", d.RenewPayAmount)
	}
	if d.NewStudentCount != 5+2+4 || d.RenewStudentCount != 3 {
		t.Errorf("student counts = (%d, %d), want (11, 3)", d.NewStudentCount, d.RenewStudentCount)
	}
}

func TestGetClassTypeUnknownClassCountsAsNew(t *testing.T) {
	store := testStore()
	store.payments = append(store.payments,
		pay("P099", "2025-03-01", "C999", "T001", "bj01", "KET", 1, 1000))
	svc := NewDashboardService(store)

	d, err := svc.GetClassType(context.Background(), query("2025-03-01", "2025-03-31"))
	if err != nil {
		t.Fatalf("GetClassType: %v", err)
	}
	// C001 (new), C002 (renewal), C999 (absent from dictionary -> new).
	if d.NewCount != 2 || d.RenewCount != 1 {
		t.Errorf("class counts = (%d, %d), want (2, 1)", d.NewCount, d.RenewCount)
	}
}

func TestGetMonthlyTrend(t *testing.T) {
	svc := NewDashboardService(testStore())

	d, err := svc.GetMonthlyTrend(context.Background(), query("2025-03-01", "2025-06-30"))
	if err != nil {
		t.Fatalf("GetMonthlyTrend: %v", err)
	}

	months := []string{"2025-03", "2025-04", "2025-05", "2025-06"}
	if len(d.Items) != len(months) {
		t.Fatalf("got %d months, want %d", len(d.Items), len(months))
	}
	for i, m := range months {
		if d.Items[i].Month != m {
			t.Errorf("month[%d] = %s, want %s", i, d.Items[i].Month, m)
		}
	}

	// April and June have no activity but are still present, zero-valued.
	for _, i := range []int{1, 3} {
		if d.Items[i].PayAmount != 0 || d.Items[i].RefundAmount != 0 || d.Items[i].NetAmount != 0 {
			t.Errorf("month %s should be zero, got %+v", d.Items[i].Month, d.Items[i])
		}
	}

	if d.Items[0].NetAmount != 22600-2720 {
		t.Errorf("2025-03 net = %d, want %d", d.Items[0].NetAmount, 22600-2720)
	}

	// The trend series must reconcile with the summary over the same range.
	sum, err := svc.GetSummary(context.Background(), query("2025-03-01", "2025-06-30"))
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	var trendNet int64
	for _, it := range d.Items {
		trendNet += it.NetAmount
	}
	if trendNet != sum.NetAmount {
		t.Errorf("sum of monthly net = %d, summary net = %d", trendNet, sum.NetAmount)
	}
}

func TestGetCampusIncome(t *testing.T) {
	svc := NewDashboardService(testStore())

	d, err := svc.GetCampusIncome(context.Background(), query("2025-01-01", "2025-12-31"))
	if err != nil {
		t.Fatalf("GetCampusIncome: %v", err)
	}
	if len(d.Items) != 2 {
		t.Fatalf("got %d campuses, want 2", len(d.Items))
	}

	// sh01 nets 18000, bj01 nets 15880; descending amount.
	if d.Items[0].CampusID != "sh01" || d.Items[0].Amount != 18000 {
		t.Errorf("items[0] = %+v, want sh01/18000", d.Items[0])
	}
	if d.Items[1].CampusID != "bj01" || d.Items[1].Amount != 15880 {
		t.Errorf("items[1] = %+v, want bj01/15880", d.Items[1])
	}
	if d.Items[0].CampusName != "Shanghai Campus" {
		t.Errorf("campusName = %s, want Shanghai Campus", d.Items[0].CampusName)
	}

	var total int64
	var ratioSum float64
	for _, it := range d.Items {
		total += it.Amount
		ratioSum += it.Ratio
	}
	for _, it := range d.Items {
		if !almostEqual(it.Ratio, float64(it.Amount)/float64(total)) {
			t.Errorf("ratio of %s = %v, want amount/total", it.CampusID, it.Ratio)
		}
	}
	if !almostEqual(ratioSum, 1.0) {
		t.Errorf("ratios sum to %v, want 1.0", ratioSum)
	}
}

func TestGetCourseTypeIncome(t *testing.T) {
	svc := NewDashboardService(testStore())

	d, err := svc.GetCourseTypeIncome(context.Background(), query("2025-01-01", "2025-12-31"))
	if err != nil {
		t.Fatalf("GetCourseTypeIncome: %v", err)
	}
	if len(d.Items) != 2 {
		t.Fatalf("got %d course types, want 2", len(d.Items))
	}
	// KET nets 13600+5000+12000-2720-3000 = 24880, PET nets 9000.
	if d.Items[0].CourseType != "KET" || d.Items[0].Amount != 24880 {
		t.Errorf("items[0] = %+v, want KET/24880", d.Items[0])
	}
	if d.Items[1].CourseType != "PET" || d.Items[1].Amount != 9000 {
		t.Errorf("items[1] = %+v, want PET/9000", d.Items[1])
	}
}

func TestGetTeacherRank(t *testing.T) {
	svc := NewDashboardService(testStore())

	d, err := svc.GetTeacherRank(context.Background(), query("2025-01-01", "2025-12-31"))
	if err != nil {
		t.Fatalf("GetTeacherRank: %v", err)
	}
	if len(d.Items) != 2 {
		t.Fatalf("got %d teachers, want 2", len(d.Items))
	}

	// T002 nets 18000 across C002+C003; T001 nets 15880 on C001.
	top := d.Items[0]
	if top.TeacherID != "T002" || top.ClassCount != 2 {
		t.Errorf("items[0] = %+v, want T002 with 2 classes", top)
	}
	if top.PayAmount != 21000 || top.RefundAmount != 3000 {
		t.Errorf("T002 amounts = (%d, %d), want (21000, 3000)", top.PayAmount, top.RefundAmount)
	}
	if d.Items[1].TeacherID != "T001" {
		t.Errorf("items[1] = %+v, want T001", d.Items[1])
	}
	if d.Items[1].TeacherName != "Zhang Wei" {
		t.Errorf("teacherName = %s, want Zhang Wei", d.Items[1].TeacherName)
	}
}

func TestGetTeacherRankTieBreak(t *testing.T) {
	// Equal net amounts must order by ascending teacher id so pagination of
	// rankings stays stable between requests.
	store := &fakeLedgerStore{
		payments: []model.PaymentEvent{
			pay("P001", "2025-03-01", "C001", "T002", "bj01", "KET", 1, 5000),
			pay("P002", "2025-03-01", "C002", "T001", "bj01", "KET", 1, 5000),
		},
	}
	svc := NewDashboardService(store)

	d, err := svc.GetTeacherRank(context.Background(), query("2025-03-01", "2025-03-31"))
	if err != nil {
		t.Fatalf("GetTeacherRank: %v", err)
	}
	if d.Items[0].TeacherID != "T001" || d.Items[1].TeacherID != "T002" {
		t.Errorf("tie order = [%s, %s], want [T001, T002]", d.Items[0].TeacherID, d.Items[1].TeacherID)
	}
}

func TestGetClassRank(t *testing.T) {
	svc := NewDashboardService(testStore())

	d, err := svc.GetClassRank(context.Background(), query("2025-01-01", "2025-12-31"))
	if err != nil {
		t.Fatalf("GetClassRank: %v", err)
	}
	if len(d.Items) != 3 {
		t.Fatalf("got %d classes, want 3", len(d.Items))
	}

	// Nets: C001 15880, C002 9000, C003 9000. Tie broken by class id.
	wantOrder := []string{"C001", "C002", "C003"}
	for i, want := range wantOrder {
		if d.Items[i].ClassID != want {
			t.Errorf("items[%d] = %s, want %s", i, d.Items[i].ClassID, want)
		}
	}
	if d.Items[0].NetAmount != 15880 {
		t.Errorf("C001 net = %d, want 15880", d.Items[0].NetAmount)
	}
	if d.Items[0].ClassDisplay != "25KET001" || d.Items[0].TeacherName != "Zhang Wei" {
		t.Errorf("C001 display = (%s, %s)", d.Items[0].ClassDisplay, d.Items[0].TeacherName)
	}
}

func TestGetPaymentDetailsPagination(t *testing.T) {
	store := &fakeLedgerStore{}
	for i := 1; i <= 25; i++ {
		store.payments = append(store.payments,
			pay(fmt.Sprintf("P%03d", i), "2025-03-15", "C001", "T001", "bj01", "KET", 1, 100))
	}
	svc := NewDashboardService(store)

	q := model.DetailQuery{DashboardQuery: query("2025-03-01", "2025-03-31")}
	d, err := svc.GetPaymentDetails(context.Background(), q)
	if err != nil {
		t.Fatalf("GetPaymentDetails: %v", err)
	}
	if d.Page != 1 || d.PageSize != model.DefaultPageSize {
		t.Errorf("defaults = (page %d, size %d), want (1, %d)", d.Page, d.PageSize, model.DefaultPageSize)
	}
	if len(d.Items) != 10 {
		t.Errorf("page length = %d, want 10", len(d.Items))
	}
	if d.Total != 25 {
		t.Errorf("total = %d, want 25 (full filtered count)", d.Total)
	}

	q.Page, q.PageSize = 3, 10
	d, err = svc.GetPaymentDetails(context.Background(), q)
	if err != nil {
		t.Fatalf("GetPaymentDetails page 3: %v", err)
	}
	if len(d.Items) != 5 || d.Total != 25 {
		t.Errorf("page 3 = (%d items, total %d), want (5, 25)", len(d.Items), d.Total)
	}

	q.Page = 9
	d, err = svc.GetPaymentDetails(context.Background(), q)
	if err != nil {
		t.Fatalf("GetPaymentDetails page 9: %v", err)
	}
	if len(d.Items) != 0 || d.Total != 25 {
		t.Errorf("past-the-end page = (%d items, total %d), want (0, 25)", len(d.Items), d.Total)
	}
}

func TestGetPaymentDetailsOrderAndNames(t *testing.T) {
	svc := NewDashboardService(testStore())

	q := model.DetailQuery{DashboardQuery: query("2025-01-01", "2025-12-31")}
	d, err := svc.GetPaymentDetails(context.Background(), q)
	if err != nil {
		t.Fatalf("GetPaymentDetails: %v", err)
	}

	wantOrder := []string{"P001", "P002", "P003", "P004"}
	for i, want := range wantOrder {
		if d.Items[i].ID != want {
			t.Errorf("items[%d] = %s, want %s (date then id order)", i, d.Items[i].ID, want)
		}
	}
	if d.Items[0].PayDate != "2025-03-15" {
		t.Errorf("payDate = %s, want 2025-03-15", d.Items[0].PayDate)
	}
	if d.Items[0].ClassName != "25KET001" || d.Items[0].CampusName != "Beijing Campus" {
		t.Errorf("resolved names = (%s, %s)", d.Items[0].ClassName, d.Items[0].CampusName)
	}
}

func TestGetPaymentDetailsClassFilter(t *testing.T) {
	svc := NewDashboardService(testStore())

	q := model.DetailQuery{DashboardQuery: query("2025-01-01", "2025-12-31"), ClassID: "C001"}
	d, err := svc.GetPaymentDetails(context.Background(), q)
	if err != nil {
		t.Fatalf("GetPaymentDetails: %v", err)
	}
	if d.Total != 2 {
		t.Fatalf("total = %d, want 2", d.Total)
	}
	for _, it := range d.Items {
		if it.ClassID != "C001" {
			t.Errorf("leaked event for class %s", it.ClassID)
		}
	}
}

func TestGetRefundDetails(t *testing.T) {
	svc := NewDashboardService(testStore())

	q := model.DetailQuery{DashboardQuery: query("2025-01-01", "2025-12-31")}
	d, err := svc.GetRefundDetails(context.Background(), q)
	if err != nil {
		t.Fatalf("GetRefundDetails: %v", err)
	}
	if d.Total != 2 || len(d.Items) != 2 {
		t.Fatalf("got (%d items, total %d), want (2, 2)", len(d.Items), d.Total)
	}
	if d.Items[0].ID != "R001" || d.Items[1].ID != "R002" {
		t.Errorf("order = [%s, %s], want [R001, R002]", d.Items[0].ID, d.Items[1].ID)
	}
	if d.Items[0].RefundAmount != 2720 || d.Items[0].TeacherName != "Zhang Wei" {
		t.Errorf("items[0] = %+v", d.Items[0])
	}
}

func TestGetPivotNetAmount(t *testing.T) {
	svc := NewDashboardService(testStore())

	q := model.PivotQuery{DashboardQuery: query("2025-01-01", "2025-12-31")}
	d, err := svc.GetPivot(context.Background(), q)
	if err != nil {
		t.Fatalf("GetPivot: %v", err)
	}

	// Columns: classes ascending plus the totals column last.
	wantCols := []string{"C001", "C002", "C003", model.PivotTotalColumn}
	if len(d.Columns) != len(wantCols) {
		t.Fatalf("got %d columns, want %d", len(d.Columns), len(wantCols))
	}
	for i, want := range wantCols {
		if d.Columns[i].ClassID != want {
			t.Errorf("columns[%d] = %s, want %s", i, d.Columns[i].ClassID, want)
		}
	}
	if last := d.Columns[len(d.Columns)-1]; last.ClassDisplay != "Total" {
		t.Errorf("totals column display = %s, want Total", last.ClassDisplay)
	}

	// Rows: only dates with activity, ascending.
	wantDates := []string{"2025-03-15", "2025-03-18", "2025-03-20", "2025-05-02", "2025-05-10"}
	if len(d.Rows) != len(wantDates) {
		t.Fatalf("got %d rows, want %d", len(d.Rows), len(wantDates))
	}
	for i, want := range wantDates {
		if d.Rows[i].Date != want {
			t.Errorf("rows[%d] = %s, want %s", i, d.Rows[i].Date, want)
		}
	}

	// Refunds subtract under the net metric.
	if v := d.Rows[2].Values["C001"]; v != -2720 {
		t.Errorf("2025-03-20 C001 = %d, want -2720", v)
	}

	// Every row total equals the sum of its cells.
	for _, row := range d.Rows {
		var sum int64
		for id, v := range row.Values {
			if id != model.PivotTotalColumn {
				sum += v
			}
		}
		if row.Values[model.PivotTotalColumn] != sum {
			t.Errorf("row %s total = %d, want %d", row.Date, row.Values[model.PivotTotalColumn], sum)
		}
	}

	// Column totals equal the column-wise sums, and the grand total matches
	// the summary net for the same range.
	var grand int64
	for _, col := range d.Columns {
		if col.ClassID == model.PivotTotalColumn {
			continue
		}
		var sum int64
		for _, row := range d.Rows {
			sum += row.Values[col.ClassID]
		}
		if d.Totals[col.ClassID] != sum {
			t.Errorf("totals[%s] = %d, want %d", col.ClassID, d.Totals[col.ClassID], sum)
		}
		grand += sum
	}
	if d.Totals[model.PivotTotalColumn] != grand {
		t.Errorf("grand total = %d, want %d", d.Totals[model.PivotTotalColumn], grand)
	}

	sum, err := svc.GetSummary(context.Background(), query("2025-01-01", "2025-12-31"))
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if d.Totals[model.PivotTotalColumn] != sum.NetAmount {
		t.Errorf("pivot grand total = %d, summary net = %d", d.Totals[model.PivotTotalColumn], sum.NetAmount)
	}
}

func TestGetPivotMetrics(t *testing.T) {
	svc := NewDashboardService(testStore())
	base := query("2025-03-01", "2025-03-31")

	tests := []struct {
		metric     model.Metric
		wantGrand  int64
		wantC001   int64
		wantRowLen int
	}{
		{model.MetricPayAmount, 22600, 13600, 2},    // refunds contribute nothing
		{model.MetricRefundAmount, 2720, 2720, 1},   // payments contribute nothing
		{model.MetricPayCount, 8, 5, 2},
		{model.MetricRefundCount, 1, 1, 1},
	}
	for _, tc := range tests {
		q := model.PivotQuery{DashboardQuery: base, Metric: tc.metric}
		d, err := svc.GetPivot(context.Background(), q)
		if err != nil {
			t.Fatalf("GetPivot(%s): %v", tc.metric, err)
		}
		if d.Totals[model.PivotTotalColumn] != tc.wantGrand {
			t.Errorf("%s grand total = %d, want %d", tc.metric, d.Totals[model.PivotTotalColumn], tc.wantGrand)
		}
		if d.Totals["C001"] != tc.wantC001 {
			t.Errorf("%s totals[C001] = %d, want %d", tc.metric, d.Totals["C001"], tc.wantC001)
		}
		if len(d.Rows) != tc.wantRowLen {
			t.Errorf("%s rows = %d, want %d", tc.metric, len(d.Rows), tc.wantRowLen)
		}
	}
}

func TestGetPivotOneSidedMetricSkipsOtherSide(t *testing.T) {
	// A refund-only class and date must not surface as zero-valued columns
	// and rows when the metric counts payments only, and vice versa.
	store := &fakeLedgerStore{
		payments: []model.PaymentEvent{pay("P001", "2025-03-15", "C001", "T001", "bj01", "KET", 5, 13600)},
		refunds:  []model.RefundEvent{refund("R001", "2025-03-20", "C777", "T002", "bj01", "KET", 1, 2720)},
	}
	svc := NewDashboardService(store)
	base := query("2025-03-01", "2025-03-31")

	d, err := svc.GetPivot(context.Background(), model.PivotQuery{DashboardQuery: base, Metric: model.MetricPayAmount})
	if err != nil {
		t.Fatalf("GetPivot(payAmount): %v", err)
	}
	if len(d.Columns) != 2 || d.Columns[0].ClassID != "C001" {
		t.Errorf("payAmount columns = %+v, want [C001, _total]", d.Columns)
	}
	if len(d.Rows) != 1 || d.Rows[0].Date != "2025-03-15" {
		t.Errorf("payAmount rows = %+v, want only 2025-03-15", d.Rows)
	}
	if _, ok := d.Totals["C777"]; ok {
		t.Error("refund-only class leaked into payAmount totals")
	}

	d, err = svc.GetPivot(context.Background(), model.PivotQuery{DashboardQuery: base, Metric: model.MetricRefundCount})
	if err != nil {
		t.Fatalf("GetPivot(refundCount): %v", err)
	}
	if len(d.Columns) != 2 || d.Columns[0].ClassID != "C777" {
		t.Errorf("refundCount columns = %+v, want [C777, _total]", d.Columns)
	}
	if len(d.Rows) != 1 || d.Rows[0].Date != "2025-03-20" {
		t.Errorf("refundCount rows = %+v, want only 2025-03-20", d.Rows)
	}
}

func TestGetPivotRequestedClassWithoutActivity(t *testing.T) {
	svc := NewDashboardService(testStore())

	q := model.PivotQuery{
		DashboardQuery: query("2025-03-01", "2025-03-31"),
		ClassIDs:       []string{"C001", "C009"},
	}
	d, err := svc.GetPivot(context.Background(), q)
	if err != nil {
		t.Fatalf("GetPivot: %v", err)
	}

	// An explicitly requested class stays a column even with no activity in
	// range, with a zero total.
	wantCols := []string{"C001", "C009", model.PivotTotalColumn}
	if len(d.Columns) != len(wantCols) {
		t.Fatalf("columns = %+v, want %v", d.Columns, wantCols)
	}
	for i, want := range wantCols {
		if d.Columns[i].ClassID != want {
			t.Errorf("columns[%d] = %s, want %s", i, d.Columns[i].ClassID, want)
		}
	}
	if total, ok := d.Totals["C009"]; !ok || total != 0 {
		t.Errorf("totals[C009] = %d (present %v), want explicit 0", total, ok)
	}
}

func TestGetPivotClassScope(t *testing.T) {
	svc := NewDashboardService(testStore())

	q := model.PivotQuery{
		DashboardQuery: query("2025-01-01", "2025-12-31"),
		ClassIDs:       []string{"C002"},
	}
	d, err := svc.GetPivot(context.Background(), q)
	if err != nil {
		t.Fatalf("GetPivot: %v", err)
	}
	if len(d.Columns) != 2 || d.Columns[0].ClassID != "C002" {
		t.Fatalf("columns = %+v, want [C002, _total]", d.Columns)
	}
	if d.Totals["C002"] != 9000 || d.Totals[model.PivotTotalColumn] != 9000 {
		t.Errorf("totals = %+v, want C002 and grand both 9000", d.Totals)
	}
}

func TestGetPivotEmptyScope(t *testing.T) {
	svc := NewDashboardService(testStore())

	q := model.PivotQuery{DashboardQuery: query("2024-01-01", "2024-01-31")}
	d, err := svc.GetPivot(context.Background(), q)
	if err != nil {
		t.Fatalf("GetPivot: %v", err)
	}
	if len(d.Rows) != 0 {
		t.Errorf("rows = %d, want 0", len(d.Rows))
	}
	if len(d.Columns) != 1 || d.Columns[0].ClassID != model.PivotTotalColumn {
		t.Errorf("columns = %+v, want only the totals column", d.Columns)
	}
	if d.Totals[model.PivotTotalColumn] != 0 {
		t.Errorf("grand total = %d, want 0", d.Totals[model.PivotTotalColumn])
	}
}
