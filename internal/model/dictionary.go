package model

// Campus is a reference entity used for display-name resolution and grouping.
type Campus struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CourseType is a reference entity (code/name pair), e.g. PS, KET, PET.
type CourseType struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Teacher is a reference entity used for display-name resolution.
type Teacher struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MetaData is the dictionary payload backing the dashboard's filter dropdowns.
type MetaData struct {
	Campuses    []Campus `json:"campuses"`
	CourseTypes []string `json:"courseTypes"`
}
