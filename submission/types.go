package submission

// SchemaVersion is the request schema served at /v2/generate: split
// student/faculty branch and a free-form submission type.
const SchemaVersion = 2

// Submission is the metadata of one title page request.
type Submission struct {
	SubmissionType       string `json:"submission_type"`
	SubjectName          string `json:"subject_name"`
	SubjectCode          string `json:"subject_code"`
	TopicName            string `json:"topic_name"`
	SemesterNumber       int    `json:"semester_number"`
	StudentBranch        string `json:"student_branch"`
	FacultyBranch        string `json:"faculty_branch"`
	Submitters           Roster `json:"submitters"`
	FacultyNameWithTitle string `json:"faculty_name_with_title"`
	Designation          string `json:"designation"`
	FromAY               int    `json:"from_ay"`
	ToAY                 int    `json:"to_ay"`
}

// Submitter is one roster entry: a student name and their registration
// number (USN).
type Submitter struct {
	Name string
	ID   string
}

const (
	TypeAssignment = "assignment"
	TypeReport     = "report"
)
