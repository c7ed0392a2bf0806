package model

import "time"

// DateLayout is the wire format for ledger dates (ISO calendar date).
const DateLayout = "2006-01-02"

// PaymentEvent is one append-only payment fact in the ledger.
// Amounts are integer minor units. Events are never mutated after recording;
// corrections are modeled as compensating events.
type PaymentEvent struct {
	ID         string    `json:"id"`
	PayDate    time.Time `json:"payDate"`
	ClassID    string    `json:"classId"`
	TeacherID  string    `json:"teacherId"`
	CampusID   string    `json:"campusId"`
	CourseType string    `json:"courseType"`
	PayCount   int       `json:"payCount"`
	PayAmount  int64     `json:"payAmount"`
}

// RefundEvent is one append-only refund fact in the ledger. A refund carries
// the class/teacher/campus context of the original enrollment but does not
// net against one specific payment row.
type RefundEvent struct {
	ID           string    `json:"id"`
	RefundDate   time.Time `json:"refundDate"`
	ClassID      string    `json:"classId"`
	TeacherID    string    `json:"teacherId"`
	CampusID     string    `json:"campusId"`
	CourseType   string    `json:"courseType"`
	RefundCount  int       `json:"refundCount"`
	RefundAmount int64     `json:"refundAmount"`
	Reason       string    `json:"reason,omitempty"`
}

// LedgerFilter scopes a ledger scan. Start and End form a closed date
// interval; the remaining fields are optional equality filters.
type LedgerFilter struct {
	Start      time.Time
	End        time.Time
	CampusID   string
	CourseType string
	ClassID    string
	TeacherID  string
	// ClassIDs restricts the scan to a set of classes (pivot columns,
	// homeroom-teacher scoping). Ignored when empty.
	ClassIDs []string
}

// LedgerSnapshot is one consistent view of the filtered ledger plus the
// dictionaries needed for display-name resolution. All view operations for a
// single query are computed from the same snapshot so their sums agree.
type LedgerSnapshot struct {
	Payments []PaymentEvent
	Refunds  []RefundEvent

	Classes     map[string]Class
	Teachers    map[string]string
	Campuses    map[string]string
	CourseTypes map[string]string
}

// ClassDisplay resolves a class id to its display name, falling back to the
// raw id when the dictionary has no entry.
func (s *LedgerSnapshot) ClassDisplay(classID string) string {
	if c, ok := s.Classes[classID]; ok && c.DisplayName != "" {
		return c.DisplayName
	}
	return classID
}

// TeacherName resolves a teacher id to its display name.
func (s *LedgerSnapshot) TeacherName(teacherID string) string {
	if name, ok := s.Teachers[teacherID]; ok && name != "" {
		return name
	}
	return teacherID
}

// CampusName resolves a campus id to its display name.
func (s *LedgerSnapshot) CampusName(campusID string) string {
	if name, ok := s.Campuses[campusID]; ok && name != "" {
		return name
	}
	return campusID
}

// CourseTypeName resolves a course-type code to its display name.
func (s *LedgerSnapshot) CourseTypeName(code string) string {
	if name, ok := s.CourseTypes[code]; ok && name != "" {
		return name
	}
	return code
}
