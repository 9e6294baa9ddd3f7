package entity

// Course is catalog data, read-only to the conversion core.
type Course struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}

// Batch is a scheduled offering of a course.
type Batch struct {
	ID          int64  `json:"id"`
	CourseID    int64  `json:"course_id"`
	StartDate   string `json:"start_date"`
	Timings     string `json:"timings"`
	MeetingLink string `json:"meeting_link,omitempty"`
}
