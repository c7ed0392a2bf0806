package model

// Classification distinguishes newly opened classes from renewal classes.
type Classification string

const (
	ClassificationNew     Classification = "new"
	ClassificationRenewal Classification = "renewal"
)

// Class represents a course class group.
type Class struct {
	ID             string         `json:"id"`
	DisplayName    string         `json:"displayName"`
	TeacherID      string         `json:"teacherId"`
	CampusID       string         `json:"campusId"`
	CourseType     string         `json:"courseType"`
	Classification Classification `json:"classification"`
}
