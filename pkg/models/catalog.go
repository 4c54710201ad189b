package models

// Student is a row in the student table.
type Student struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	DeptName string `json:"dept_name"`
	TotCred  int    `json:"tot_cred"`
}

// Instructor is a row in the instructor table.
type Instructor struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	DeptName string  `json:"dept_name"`
	Salary   float64 `json:"salary"`
}

// Course is a row in the course table.
type Course struct {
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	DeptName string `json:"dept_name"`
	Credits  int    `json:"credits"`
}

// Section identifies one offering of a course in a given term.
type Section struct {
	CourseID   string  `json:"course_id"`
	SecID      string  `json:"sec_id"`
	Semester   string  `json:"semester"`
	Year       int     `json:"year"`
	Building   string  `json:"building"`
	RoomNumber string  `json:"room_number"`
	Capacity   int     `json:"capacity"`
	TimeSlotID *string `json:"time_slot_id,omitempty"`
	TeacherID  *string `json:"teacher_id,omitempty"`
}

// Enrollment is a row in the takes table.
type Enrollment struct {
	StudentID string  `json:"student_id"`
	CourseID  string  `json:"course_id"`
	SecID     string  `json:"sec_id"`
	Semester  string  `json:"semester"`
	Year      int     `json:"year"`
	Grade     *string `json:"grade,omitempty"`
}

// Department is a row in the department table.
type Department struct {
	DeptName string  `json:"dept_name"`
	Building string  `json:"building"`
	Budget   float64 `json:"budget"`
}

// TimeSlot is a row in the time_slot table.
type TimeSlot struct {
	TimeSlotID string `json:"time_slot_id"`
	Day        string `json:"day"`
	StartHr    int    `json:"start_hr"`
	StartMin   int    `json:"start_min"`
	EndHr      int    `json:"end_hr"`
	EndMin     int    `json:"end_min"`
}

// ValidSemesters matches the CHECK constraint on section.semester.
var ValidSemesters = []string{"Fall", "Winter", "Spring", "Summer"}

// IsValidSemester reports whether s is an accepted semester name.
func IsValidSemester(s string) bool {
	for _, v := range ValidSemesters {
		if v == s {
			return true
		}
	}
	return false
}
