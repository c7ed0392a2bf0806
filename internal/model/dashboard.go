package model

// PivotTotalColumn is the synthetic totals column id. It is always emitted
// as the last pivot column.
const PivotTotalColumn = "_total"

// SummaryData is the whole-period KPI aggregate.
type SummaryData struct {
	PayCount           int     `json:"payCount"`
	PayAmount          int64   `json:"payAmount"`
	RefundCount        int     `json:"refundCount"`
	RefundAmount       int64   `json:"refundAmount"`
	NetAmount          int64   `json:"netAmount"`
	RefundRateByCount  float64 `json:"refundRateByCount"`
	RefundRateByAmount float64 `json:"refundRateByAmount"`
}

// ClassTypeData splits activity between newly opened and renewal classes.
// Counts are distinct classes with payment activity in the period.
type ClassTypeData struct {
	NewCount          int   `json:"newCount"`
	RenewCount        int   `json:"renewCount"`
	NewPayAmount      int64 `json:"newPayAmount"`
	RenewPayAmount    int64 `json:"renewPayAmount"`
	NewStudentCount   int   `json:"newStudentCount"`
	RenewStudentCount int   `json:"renewStudentCount"`
}

// MonthlyTrendItem is one calendar month of the trend series.
type MonthlyTrendItem struct {
	Month        string `json:"month"`
	NetAmount    int64  `json:"netAmount"`
	PayAmount    int64  `json:"payAmount"`
	RefundAmount int64  `json:"refundAmount"`
}

// MonthlyTrendData is the chronological month-bucketed trend series. Months
// with zero activity are still present with zero values.
type MonthlyTrendData struct {
	Items []MonthlyTrendItem `json:"items"`
}

// CampusIncomeItem is one campus's share of net income.
type CampusIncomeItem struct {
	CampusID   string  `json:"campusId"`
	CampusName string  `json:"campusName"`
	Amount     int64   `json:"amount"`
	Ratio      float64 `json:"ratio"`
}

// CampusIncomeData is the per-campus income breakdown; ratios sum to 1.0
// whenever the total amount is positive.
type CampusIncomeData struct {
	Items []CampusIncomeItem `json:"items"`
}

// CourseTypeIncomeItem is one course type's share of net income.
type CourseTypeIncomeItem struct {
	CourseType     string  `json:"courseType"`
	CourseTypeName string  `json:"courseTypeName"`
	Amount         int64   `json:"amount"`
	Ratio          float64 `json:"ratio"`
}

// CourseTypeIncomeData is the per-course-type income breakdown.
type CourseTypeIncomeData struct {
	Items []CourseTypeIncomeItem `json:"items"`
}

// TeacherRankItem is one homeroom teacher's aggregate performance row.
type TeacherRankItem struct {
	TeacherID          string  `json:"teacherId"`
	TeacherName        string  `json:"teacherName"`
	ClassCount         int     `json:"classCount"`
	PayCount           int     `json:"payCount"`
	PayAmount          int64   `json:"payAmount"`
	RefundCount        int     `json:"refundCount"`
	RefundAmount       int64   `json:"refundAmount"`
	RefundRateByCount  float64 `json:"refundRateByCount"`
	RefundRateByAmount float64 `json:"refundRateByAmount"`
}

// TeacherRankData is the teacher leaderboard, descending by net amount with
// ties broken by ascending teacher id.
type TeacherRankData struct {
	Items []TeacherRankItem `json:"items"`
}

// ClassRankItem is one class's aggregate row.
type ClassRankItem struct {
	ClassID      string `json:"classId"`
	ClassDisplay string `json:"classDisplay"`
	TeacherName  string `json:"teacherName"`
	PayCount     int    `json:"payCount"`
	PayAmount    int64  `json:"payAmount"`
	RefundCount  int    `json:"refundCount"`
	RefundAmount int64  `json:"refundAmount"`
	NetAmount    int64  `json:"netAmount"`
}

// ClassRankData is the class leaderboard, same ordering rule as teachers.
type ClassRankData struct {
	Items []ClassRankItem `json:"items"`
}

// PaymentDetailItem is one payment event with display names resolved.
type PaymentDetailItem struct {
	ID          string `json:"id"`
	PayDate     string `json:"payDate"`
	ClassID     string `json:"classId"`
	ClassName   string `json:"className"`
	TeacherID   string `json:"teacherId"`
	TeacherName string `json:"teacherName"`
	PayCount    int    `json:"payCount"`
	PayAmount   int64  `json:"payAmount"`
	CampusName  string `json:"campusName,omitempty"`
	CourseType  string `json:"courseType,omitempty"`
}

// PaymentDetailsData is one page of payment events. Total is the full
// filtered count, not the page length.
type PaymentDetailsData struct {
	Items    []PaymentDetailItem `json:"items"`
	Total    int                 `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
}

// RefundDetailItem is one refund event with display names resolved.
type RefundDetailItem struct {
	ID           string `json:"id"`
	RefundDate   string `json:"refundDate"`
	ClassID      string `json:"classId"`
	ClassName    string `json:"className"`
	TeacherID    string `json:"teacherId"`
	TeacherName  string `json:"teacherName"`
	RefundCount  int    `json:"refundCount"`
	RefundAmount int64  `json:"refundAmount"`
	RefundReason string `json:"refundReason,omitempty"`
	CampusName   string `json:"campusName,omitempty"`
	CourseType   string `json:"courseType,omitempty"`
}

// RefundDetailsData is one page of refund events.
type RefundDetailsData struct {
	Items    []RefundDetailItem `json:"items"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

// PivotColumn describes one pivot column (a class, or the totals column).
type PivotColumn struct {
	ClassID      string `json:"classId"`
	ClassDisplay string `json:"classDisplay"`
}

// PivotRow is one date's metric values keyed by class id. Cells absent from
// the map are implicitly zero.
type PivotRow struct {
	Date   string           `json:"date"`
	Values map[string]int64 `json:"values"`
}

// PivotData is the date×class pivot table. The totals map covers every real
// column plus the synthetic totals column.
type PivotData struct {
	Columns []PivotColumn    `json:"columns"`
	Rows    []PivotRow       `json:"rows"`
	Totals  map[string]int64 `json:"totals"`
}
