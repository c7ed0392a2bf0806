package service

import (
	"context"
	"sort"
	"time"

	"github.com/edufin/finboard-backend/internal/model"
)

// LedgerStore provides one consistent filtered snapshot of the event ledger
// per call. Implemented by repository.LedgerRepository.
type LedgerStore interface {
	Snapshot(ctx context.Context, f model.LedgerFilter) (*model.LedgerSnapshot, error)
}

// DashboardService computes the analytical views of the payment/refund
// ledger. Every operation is a pure read: it takes a single snapshot and
// derives the view from it, so the summary, trend, breakdowns, rankings and
// pivot agree with each other for the same filter.
type DashboardService struct {
	ledger LedgerStore
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(ledger LedgerStore) *DashboardService {
	return &DashboardService{ledger: ledger}
}

// snapshot validates the query window, merges it into the base filter and
// takes one ledger snapshot.
func (s *DashboardService) snapshot(ctx context.Context, q model.DashboardQuery, f model.LedgerFilter) (*model.LedgerSnapshot, error) {
	start, end, err := q.Window()
	if err != nil {
		return nil, err
	}
	f.Start, f.End = start, end
	f.CampusID = q.CampusID
	f.CourseType = q.CourseType
	return s.ledger.Snapshot(ctx, f)
}

// rate divides count-like numerators, returning 0 for a zero denominator.
func rate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}

// amountRate divides amount-like numerators, returning 0 for a zero denominator.
func amountRate(numerator, denominator int64) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}

// GetSummary aggregates the whole filtered set into the KPI card values.
func (s *DashboardService) GetSummary(ctx context.Context, q model.DashboardQuery) (*model.SummaryData, error) {
	snap, err := s.snapshot(ctx, q, model.LedgerFilter{})
	if err != nil {
		return nil, err
	}

	d := &model.SummaryData{}
	for _, p := range snap.Payments {
		d.PayCount += p.PayCount
		d.PayAmount += p.PayAmount
	}
	for _, r := range snap.Refunds {
		d.RefundCount += r.RefundCount
		d.RefundAmount += r.RefundAmount
	}
	d.NetAmount = d.PayAmount - d.RefundAmount
	d.RefundRateByCount = rate(d.RefundCount, d.PayCount)
	d.RefundRateByAmount = amountRate(d.RefundAmount, d.PayAmount)
	return d, nil
}

// GetClassType partitions payment activity between newly opened and renewal
// classes. Classes absent from the dictionary count as new.
func (s *DashboardService) GetClassType(ctx context.Context, q model.DashboardQuery) (*model.ClassTypeData, error) {
	snap, err := s.snapshot(ctx, q, model.LedgerFilter{})
	if err != nil {
		return nil, err
	}

	d := &model.ClassTypeData{}
	newClasses := map[string]struct{}{}
	renewClasses := map[string]struct{}{}

	for _, p := range snap.Payments {
		if snap.Classes[p.ClassID].Classification == model.ClassificationRenewal {
			renewClasses[p.ClassID] = struct{}{}
			d.RenewStudentCount += p.PayCount
			d.RenewPayAmount += p.PayAmount
		} else {
			newClasses[p.ClassID] = struct{}{}
			d.NewStudentCount += p.PayCount
			d.NewPayAmount += p.PayAmount
		}
	}
	d.NewCount = len(newClasses)
	d.RenewCount = len(renewClasses)
	return d, nil
}

// GetMonthlyTrend buckets the ledger by calendar month. Every month
// intersecting the range is emitted in chronological order, including months
// with zero activity.
func (s *DashboardService) GetMonthlyTrend(ctx context.Context, q model.DashboardQuery) (*model.MonthlyTrendData, error) {
	snap, err := s.snapshot(ctx, q, model.LedgerFilter{})
	if err != nil {
		return nil, err
	}
	start, end, _ := q.Window()

	const monthLayout = "2006-01"
	payByMonth := map[string]int64{}
	refundByMonth := map[string]int64{}
	for _, p := range snap.Payments {
		payByMonth[p.PayDate.Format(monthLayout)] += p.PayAmount
	}
	for _, r := range snap.Refunds {
		refundByMonth[r.RefundDate.Format(monthLayout)] += r.RefundAmount
	}

	d := &model.MonthlyTrendData{Items: []model.MonthlyTrendItem{}}
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		month := cur.Format(monthLayout)
		pay := payByMonth[month]
		refund := refundByMonth[month]
		d.Items = append(d.Items, model.MonthlyTrendItem{
			Month:        month,
			NetAmount:    pay - refund,
			PayAmount:    pay,
			RefundAmount: refund,
		})
		cur = cur.AddDate(0, 1, 0)
	}
	return d, nil
}

// incomeShare holds a grouped net amount while shares are computed.
type incomeShare struct {
	id     string
	amount int64
}

// shares groups net amounts by key and computes each group's ratio of the
// total. Groups are ordered by descending amount, ties by ascending id.
func shares(snap *model.LedgerSnapshot, keyOfPayment func(model.PaymentEvent) string, keyOfRefund func(model.RefundEvent) string) []incomeShare {
	net := map[string]int64{}
	for _, p := range snap.Payments {
		net[keyOfPayment(p)] += p.PayAmount
	}
	for _, r := range snap.Refunds {
		net[keyOfRefund(r)] -= r.RefundAmount
	}

	out := make([]incomeShare, 0, len(net))
	for id, amount := range net {
		out = append(out, incomeShare{id: id, amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].amount != out[j].amount {
			return out[i].amount > out[j].amount
		}
		return out[i].id < out[j].id
	})
	return out
}

// GetCampusIncome breaks net income down by campus. Each ratio is the campus
// amount over the total across all campuses in range.
func (s *DashboardService) GetCampusIncome(ctx context.Context, q model.DashboardQuery) (*model.CampusIncomeData, error) {
	snap, err := s.snapshot(ctx, q, model.LedgerFilter{})
	if err != nil {
		return nil, err
	}

	grouped := shares(snap,
		func(p model.PaymentEvent) string { return p.CampusID },
		func(r model.RefundEvent) string { return r.CampusID })

	var total int64
	for _, g := range grouped {
		total += g.amount
	}

	d := &model.CampusIncomeData{Items: []model.CampusIncomeItem{}}
	for _, g := range grouped {
		d.Items = append(d.Items, model.CampusIncomeItem{
			CampusID:   g.id,
			CampusName: snap.CampusName(g.id),
			Amount:     g.amount,
			Ratio:      amountRate(g.amount, total),
		})
	}
	return d, nil
}

// GetCourseTypeIncome breaks net income down by course type.
func (s *DashboardService) GetCourseTypeIncome(ctx context.Context, q model.DashboardQuery) (*model.CourseTypeIncomeData, error) {
	snap, err := s.snapshot(ctx, q, model.LedgerFilter{})
	if err != nil {
		return nil, err
	}

	grouped := shares(snap,
		func(p model.PaymentEvent) string { return p.CourseType },
		func(r model.RefundEvent) string { return r.CourseType })

	var total int64
	for _, g := range grouped {
		total += g.amount
	}

	d := &model.CourseTypeIncomeData{Items: []model.CourseTypeIncomeItem{}}
	for _, g := range grouped {
		d.Items = append(d.Items, model.CourseTypeIncomeItem{
			CourseType:     g.id,
			CourseTypeName: snap.CourseTypeName(g.id),
			Amount:         g.amount,
			Ratio:          amountRate(g.amount, total),
		})
	}
	return d, nil
}

// GetTeacherRank aggregates per homeroom teacher, ordered by descending net
// amount with ties broken by ascending teacher id.
func (s *DashboardService) GetTeacherRank(ctx context.Context, q model.DashboardQuery) (*model.TeacherRankData, error) {
	snap, err := s.snapshot(ctx, q, model.LedgerFilter{})
	if err != nil {
		return nil, err
	}

	type teacherAgg struct {
		classes      map[string]struct{}
		payCount     int
		payAmount    int64
		refundCount  int
		refundAmount int64
	}
	aggs := map[string]*teacherAgg{}
	get := func(id string) *teacherAgg {
		a, ok := aggs[id]
		if !ok {
			a = &teacherAgg{classes: map[string]struct{}{}}
			aggs[id] = a
		}
		return a
	}

	for _, p := range snap.Payments {
		a := get(p.TeacherID)
		a.classes[p.ClassID] = struct{}{}
		a.payCount += p.PayCount
		a.payAmount += p.PayAmount
	}
	for _, r := range snap.Refunds {
		a := get(r.TeacherID)
		a.classes[r.ClassID] = struct{}{}
		a.refundCount += r.RefundCount
		a.refundAmount += r.RefundAmount
	}

	d := &model.TeacherRankData{Items: []model.TeacherRankItem{}}
	for id, a := range aggs {
		d.Items = append(d.Items, model.TeacherRankItem{
			TeacherID:          id,
			TeacherName:        snap.TeacherName(id),
			ClassCount:         len(a.classes),
			PayCount:           a.payCount,
			PayAmount:          a.payAmount,
			RefundCount:        a.refundCount,
			RefundAmount:       a.refundAmount,
			RefundRateByCount:  rate(a.refundCount, a.payCount),
			RefundRateByAmount: amountRate(a.refundAmount, a.payAmount),
		})
	}
	sort.Slice(d.Items, func(i, j int) bool {
		ni := d.Items[i].PayAmount - d.Items[i].RefundAmount
		nj := d.Items[j].PayAmount - d.Items[j].RefundAmount
		if ni != nj {
			return ni > nj
		}
		return d.Items[i].TeacherID < d.Items[j].TeacherID
	})
	return d, nil
}

// GetClassRank aggregates per class, same ordering rule as teachers.
func (s *DashboardService) GetClassRank(ctx context.Context, q model.DashboardQuery) (*model.ClassRankData, error) {
	snap, err := s.snapshot(ctx, q, model.LedgerFilter{})
	if err != nil {
		return nil, err
	}

	type classAgg struct {
		payCount     int
		payAmount    int64
		refundCount  int
		refundAmount int64
	}
	aggs := map[string]*classAgg{}
	get := func(id string) *classAgg {
		a, ok := aggs[id]
		if !ok {
			a = &classAgg{}
			aggs[id] = a
		}
		return a
	}

	for _, p := range snap.Payments {
		a := get(p.ClassID)
		a.payCount += p.PayCount
		a.payAmount += p.PayAmount
	}
	for _, r := range snap.Refunds {
		a := get(r.ClassID)
		a.refundCount += r.RefundCount
		a.refundAmount += r.RefundAmount
	}

	d := &model.ClassRankData{Items: []model.ClassRankItem{}}
	for id, a := range aggs {
		cls := snap.Classes[id]
		d.Items = append(d.Items, model.ClassRankItem{
			ClassID:      id,
			ClassDisplay: snap.ClassDisplay(id),
			TeacherName:  snap.TeacherName(cls.TeacherID),
			PayCount:     a.payCount,
			PayAmount:    a.payAmount,
			RefundCount:  a.refundCount,
			RefundAmount: a.refundAmount,
			NetAmount:    a.payAmount - a.refundAmount,
		})
	}
	sort.Slice(d.Items, func(i, j int) bool {
		if d.Items[i].NetAmount != d.Items[j].NetAmount {
			return d.Items[i].NetAmount > d.Items[j].NetAmount
		}
		return d.Items[i].ClassID < d.Items[j].ClassID
	})
	return d, nil
}

// GetPaymentDetails returns one page of payment events, ordered by date then
// id. Total always reflects the full filtered count.
func (s *DashboardService) GetPaymentDetails(ctx context.Context, q model.DetailQuery) (*model.PaymentDetailsData, error) {
	q.Normalize()
	snap, err := s.snapshot(ctx, q.DashboardQuery, model.LedgerFilter{
		ClassID:   q.ClassID,
		TeacherID: q.TeacherID,
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(snap.Payments, func(i, j int) bool {
		if !snap.Payments[i].PayDate.Equal(snap.Payments[j].PayDate) {
			return snap.Payments[i].PayDate.Before(snap.Payments[j].PayDate)
		}
		return snap.Payments[i].ID < snap.Payments[j].ID
	})

	d := &model.PaymentDetailsData{
		Items:    []model.PaymentDetailItem{},
		Total:    len(snap.Payments),
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	for _, p := range pageSlice(snap.Payments, q.Page, q.PageSize) {
		d.Items = append(d.Items, model.PaymentDetailItem{
			ID:          p.ID,
			PayDate:     p.PayDate.Format(model.DateLayout),
			ClassID:     p.ClassID,
			ClassName:   snap.ClassDisplay(p.ClassID),
			TeacherID:   p.TeacherID,
			TeacherName: snap.TeacherName(p.TeacherID),
			PayCount:    p.PayCount,
			PayAmount:   p.PayAmount,
			CampusName:  snap.CampusName(p.CampusID),
			CourseType:  p.CourseType,
		})
	}
	return d, nil
}

// GetRefundDetails returns one page of refund events, ordered by date then id.
func (s *DashboardService) GetRefundDetails(ctx context.Context, q model.DetailQuery) (*model.RefundDetailsData, error) {
	q.Normalize()
	snap, err := s.snapshot(ctx, q.DashboardQuery, model.LedgerFilter{
		ClassID:   q.ClassID,
		TeacherID: q.TeacherID,
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(snap.Refunds, func(i, j int) bool {
		if !snap.Refunds[i].RefundDate.Equal(snap.Refunds[j].RefundDate) {
			return snap.Refunds[i].RefundDate.Before(snap.Refunds[j].RefundDate)
		}
		return snap.Refunds[i].ID < snap.Refunds[j].ID
	})

	d := &model.RefundDetailsData{
		Items:    []model.RefundDetailItem{},
		Total:    len(snap.Refunds),
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	for _, r := range pageSlice(snap.Refunds, q.Page, q.PageSize) {
		d.Items = append(d.Items, model.RefundDetailItem{
			ID:           r.ID,
			RefundDate:   r.RefundDate.Format(model.DateLayout),
			ClassID:      r.ClassID,
			ClassName:    snap.ClassDisplay(r.ClassID),
			TeacherID:    r.TeacherID,
			TeacherName:  snap.TeacherName(r.TeacherID),
			RefundCount:  r.RefundCount,
			RefundAmount: r.RefundAmount,
			RefundReason: r.Reason,
			CampusName:   snap.CampusName(r.CampusID),
			CourseType:   r.CourseType,
		})
	}
	return d, nil
}

// pageSlice returns the 1-indexed page of items.
func pageSlice[T any](items []T, page, pageSize int) []T {
	offset := (page - 1) * pageSize
	if offset >= len(items) {
		return nil
	}
	end := offset + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// GetPivot builds the date×class pivot for the selected metric. Columns are
// the requested classes, or the classes with metric activity when no explicit
// selection was made, ascending by id, plus the synthetic totals column which
// is always last. Rows cover only dates with activity on the selected metric;
// the totals row is the column-wise sum over all rows.
func (s *DashboardService) GetPivot(ctx context.Context, q model.PivotQuery) (*model.PivotData, error) {
	q.Normalize()
	snap, err := s.snapshot(ctx, q.DashboardQuery, model.LedgerFilter{ClassIDs: q.ClassIDs})
	if err != nil {
		return nil, err
	}

	// cells[date][classID] accumulates the metric; classSet collects columns.
	// Explicitly requested classes are always columns, even with no activity.
	cells := map[string]map[string]int64{}
	classSet := map[string]struct{}{}
	for _, id := range q.ClassIDs {
		classSet[id] = struct{}{}
	}
	touch := func(date, classID string, delta int64) {
		classSet[classID] = struct{}{}
		row, ok := cells[date]
		if !ok {
			row = map[string]int64{}
			cells[date] = row
		}
		row[classID] += delta
	}

	// Events on the wrong side of a one-sided metric are skipped entirely, so
	// they register neither rows nor columns.
	for _, p := range snap.Payments {
		var v int64
		switch q.Metric {
		case model.MetricNetAmount, model.MetricPayAmount:
			v = p.PayAmount
		case model.MetricPayCount:
			v = int64(p.PayCount)
		default:
			continue
		}
		touch(p.PayDate.Format(model.DateLayout), p.ClassID, v)
	}
	for _, r := range snap.Refunds {
		var v int64
		switch q.Metric {
		case model.MetricNetAmount:
			v = -r.RefundAmount
		case model.MetricRefundAmount:
			v = r.RefundAmount
		case model.MetricRefundCount:
			v = int64(r.RefundCount)
		default:
			continue
		}
		touch(r.RefundDate.Format(model.DateLayout), r.ClassID, v)
	}

	classIDs := make([]string, 0, len(classSet))
	for id := range classSet {
		classIDs = append(classIDs, id)
	}
	sort.Strings(classIDs)

	d := &model.PivotData{
		Columns: make([]model.PivotColumn, 0, len(classIDs)+1),
		Rows:    []model.PivotRow{},
		Totals:  map[string]int64{model.PivotTotalColumn: 0},
	}
	for _, id := range classIDs {
		d.Columns = append(d.Columns, model.PivotColumn{ClassID: id, ClassDisplay: snap.ClassDisplay(id)})
		d.Totals[id] = 0
	}
	d.Columns = append(d.Columns, model.PivotColumn{ClassID: model.PivotTotalColumn, ClassDisplay: "Total"})

	dates := make([]string, 0, len(cells))
	for date := range cells {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		values := map[string]int64{}
		var rowTotal int64
		for classID, v := range cells[date] {
			values[classID] = v
			rowTotal += v
			d.Totals[classID] += v
		}
		values[model.PivotTotalColumn] = rowTotal
		d.Totals[model.PivotTotalColumn] += rowTotal
		d.Rows = append(d.Rows, model.PivotRow{Date: date, Values: values})
	}
	return d, nil
}
