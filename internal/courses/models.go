package courses

import (
	"time"

	"github.com/eduplus/eduplus-backend/internal/auth"
)

type Course struct {
	ID           string       `gorm:"primaryKey" json:"id"`
	Title        string       `gorm:"not null" json:"title"`
	Code         string       `gorm:"uniqueIndex;not null" json:"code"`
	Description  string       `json:"description"`
	InstructorID string       `gorm:"not null" json:"instructor_id"`
	Instructor   *auth.User   `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Assignments  []Assignment `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type Enrollment struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	CourseID  string    `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Assignment struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	CourseID    string     `gorm:"not null" json:"course_id"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type SubmissionStatus string

const (
	StatusPending   SubmissionStatus = "PENDING"
	StatusSubmitted SubmissionStatus = "SUBMITTED"
	StatusGraded    SubmissionStatus = "GRADED"
)

type Submission struct {
	ID           string           `gorm:"primaryKey" json:"id"`
	AssignmentID string           `gorm:"not null;uniqueIndex:idx_submission_assignment_student" json:"assignment_id"`
	StudentID    string           `gorm:"not null;uniqueIndex:idx_submission_assignment_student" json:"student_id"`
	Content      string           `json:"content"`
	FileURL      string           `json:"file_url"`
	Status       SubmissionStatus `gorm:"type:varchar(16);default:'PENDING'" json:"status"`
	Grade        *float64         `json:"grade"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	GradedAt     *time.Time       `json:"graded_at"`
	Assignment   *Assignment      `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
	Student      *auth.User       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

// ApplyGrade records a grade. The status transition is one way: a submission
// that is already GRADED stays GRADED, only grade and graded_at change on a
// re-grade.
func (s *Submission) ApplyGrade(grade float64, now time.Time) {
	s.Grade = &grade
	s.GradedAt = &now
	s.Status = StatusGraded
}

func (Course) TableName() string     { return "app_lms.courses" }
func (Enrollment) TableName() string { return "app_lms.enrollments" }
func (Assignment) TableName() string { return "app_lms.assignments" }
func (Submission) TableName() string { return "app_lms.submissions" }
