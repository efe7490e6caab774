package dashboard

import (
	"net/http"
	"time"

	"github.com/eduplus/eduplus-backend/internal/announcements"
	"github.com/eduplus/eduplus-backend/internal/auth"
	"github.com/eduplus/eduplus-backend/internal/courses"
	"github.com/eduplus/eduplus-backend/internal/db"
	"github.com/eduplus/eduplus-backend/internal/messages"
	"github.com/eduplus/eduplus-backend/internal/token"
	"github.com/eduplus/eduplus-backend/internal/utils"
)

const recentLimit = 5

// Handler dispatches to the role-specific aggregation. Query failures
// propagate as a 500 for this request; only session resolution soft-degrades.
func Handler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}

	switch identity.RoleCode {
	case token.RoleCodeAdmin:
		adminDashboard(w)
	case token.RoleCodeInstructor:
		instructorDashboard(w, identity.ID)
	default:
		studentDashboard(w, identity.ID)
	}
}

type studentData struct {
	EnrollmentCount    int64                       `json:"enrollment_count"`
	PendingAssignments []courses.Assignment        `json:"pending_assignments"`
	RecentSubmissions  []courses.Submission        `json:"recent_submissions"`
	Announcements      []announcements.Announcement `json:"announcements"`
	AverageGrade       *float64                    `json:"average_grade"`
	UnreadMessages     int64                       `json:"unread_messages"`
}

func studentDashboard(w http.ResponseWriter, userID string) {
	var data studentData

	if err := db.DB.Model(&courses.Enrollment{}).
		Where("user_id = ?", userID).
		Count(&data.EnrollmentCount).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Upcoming assignments in enrolled courses the student has not yet
	// submitted, soonest due first.
	err := db.DB.Model(&courses.Assignment{}).
		Joins("JOIN app_lms.enrollments e ON e.course_id = assignments.course_id AND e.user_id = ?", userID).
		Where("NOT EXISTS (SELECT 1 FROM app_lms.submissions s WHERE s.assignment_id = assignments.id AND s.student_id = ?)", userID).
		Where("assignments.due_date IS NULL OR assignments.due_date >= ?", time.Now()).
		Order("assignments.due_date ASC NULLS LAST").
		Limit(recentLimit).
		Find(&data.PendingAssignments).Error
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	err = db.DB.Preload("Assignment").
		Where("student_id = ?", userID).
		Order("submitted_at DESC").
		Limit(recentLimit).
		Find(&data.RecentSubmissions).Error
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	err = db.DB.Preload("Course").
		Joins("JOIN app_lms.enrollments e ON e.course_id = announcements.course_id AND e.user_id = ?", userID).
		Order("announcements.created_at DESC").
		Limit(recentLimit).
		Find(&data.Announcements).Error
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// AVG over zero graded rows yields NULL, which scans into a nil pointer.
	err = db.DB.Model(&courses.Submission{}).
		Where("student_id = ? AND grade IS NOT NULL", userID).
		Select("AVG(grade)").
		Scan(&data.AverageGrade).Error
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := db.DB.Model(&messages.Message{}).
		Where("receiver_id = ? AND read = ?", userID, false).
		Count(&data.UnreadMessages).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, data)
}

type instructorData struct {
	CourseCount       int64                `json:"course_count"`
	ToGradeCount      int64                `json:"to_grade_count"`
	AnnouncementCount int64                `json:"announcement_count"`
	RecentSubmissions []courses.Submission `json:"recent_submissions"`
}

func instructorDashboard(w http.ResponseWriter, userID string) {
	var data instructorData

	if err := db.DB.Model(&courses.Course{}).
		Where("instructor_id = ?", userID).
		Count(&data.CourseCount).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	toGrade := db.DB.Model(&courses.Submission{}).
		Joins("JOIN app_lms.assignments a ON a.id = submissions.assignment_id").
		Joins("JOIN app_lms.courses c ON c.id = a.course_id AND c.instructor_id = ?", userID).
		Where("submissions.status = ?", courses.StatusSubmitted)
	if err := toGrade.Count(&data.ToGradeCount).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	err := db.DB.Model(&announcements.Announcement{}).
		Joins("JOIN app_lms.courses c ON c.id = announcements.course_id AND c.instructor_id = ?", userID).
		Count(&data.AnnouncementCount).Error
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	err = db.DB.Preload("Assignment").Preload("Student").
		Joins("JOIN app_lms.assignments a ON a.id = submissions.assignment_id").
		Joins("JOIN app_lms.courses c ON c.id = a.course_id AND c.instructor_id = ?", userID).
		Where("submissions.status = ?", courses.StatusSubmitted).
		Order("submissions.submitted_at DESC").
		Limit(recentLimit).
		Find(&data.RecentSubmissions).Error
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, data)
}

type adminData struct {
	UserCount       int64       `json:"user_count"`
	InstructorCount int64       `json:"instructor_count"`
	CourseCount     int64       `json:"course_count"`
	AssignmentCount int64       `json:"assignment_count"`
	RecentUsers     []auth.User `json:"recent_users"`
}

func adminDashboard(w http.ResponseWriter) {
	var data adminData

	counts := []struct {
		model interface{}
		dest  *int64
		where []interface{}
	}{
		{&auth.User{}, &data.UserCount, nil},
		{&auth.User{}, &data.InstructorCount, []interface{}{"role = ?", auth.RoleInstructor}},
		{&courses.Course{}, &data.CourseCount, nil},
		{&courses.Assignment{}, &data.AssignmentCount, nil},
	}
	for _, c := range counts {
		query := db.DB.Model(c.model)
		if c.where != nil {
			query = query.Where(c.where[0], c.where[1:]...)
		}
		if err := query.Count(c.dest).Error; err != nil {
			http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	if err := db.DB.Order("created_at DESC").Limit(recentLimit).Find(&data.RecentUsers).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, data)
}
