package courses

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eduplus/eduplus-backend/internal/db"
	"github.com/eduplus/eduplus-backend/internal/token"
	"github.com/eduplus/eduplus-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmitAssignmentHandler records a student's submission for an assignment in
// a course they are enrolled in.
func SubmitAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}
	assignmentID := chi.URLParam(r, "id")

	var input struct {
		Content string `json:"content"`
		FileURL string `json:"file_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}

	var assignment Assignment
	if err := db.DB.First(&assignment, "id = ?", assignmentID).Error; err != nil {
		http.Error(w, "Assignment not found", http.StatusNotFound)
		return
	}

	var enrollment Enrollment
	if err := db.DB.Where("user_id = ? AND course_id = ?", identity.ID, assignment.CourseID).
		First(&enrollment).Error; err != nil {
		http.Error(w, "Forbidden: not enrolled in this course", http.StatusForbidden)
		return
	}

	var existing Submission
	err := db.DB.Where("assignment_id = ? AND student_id = ?", assignmentID, identity.ID).
		First(&existing).Error
	if err == nil {
		http.Error(w, "Already submitted", http.StatusConflict)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	submission := Submission{
		ID:           uuid.NewString(),
		AssignmentID: assignmentID,
		StudentID:    identity.ID,
		Content:      input.Content,
		FileURL:      input.FileURL,
		Status:       StatusSubmitted,
		SubmittedAt:  time.Now(),
	}
	if err := db.DB.Create(&submission).Error; err != nil {
		http.Error(w, "Failed to submit assignment", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, submission)
}

// ListSubmissionsHandler returns every submission for an assignment, for the
// owning instructor's grading view.
func ListSubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	assignment, ok := loadOwnedAssignment(w, r)
	if !ok {
		return
	}

	var submissions []Submission
	err := db.DB.Preload("Student").
		Where("assignment_id = ?", assignment.ID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, submissions)
}

// ListOwnSubmissionsHandler returns the calling student's submissions.
func ListOwnSubmissionsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}

	var submissions []Submission
	err := db.DB.Preload("Assignment").
		Where("student_id = ?", identity.ID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, submissions)
}

// GradeSubmissionHandler sets the grade and stamps graded_at. Re-grading an
// already GRADED submission updates grade and graded_at but the status never
// regresses; there is no optimistic-locking version check, so concurrent
// grades resolve last-write-wins at the store.
func GradeSubmissionHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}
	submissionID := chi.URLParam(r, "id")

	var input struct {
		Grade *float64 `json:"grade"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Grade == nil {
		http.Error(w, "Grade is required", http.StatusBadRequest)
		return
	}
	if *input.Grade < 0 || *input.Grade > 100 {
		http.Error(w, "Grade must be between 0 and 100", http.StatusBadRequest)
		return
	}

	var submission Submission
	if err := db.DB.First(&submission, "id = ?", submissionID).Error; err != nil {
		http.Error(w, "Submission not found", http.StatusNotFound)
		return
	}

	var course Course
	err := db.DB.
		Joins("JOIN app_lms.assignments a ON a.course_id = courses.id").
		Where("a.id = ?", submission.AssignmentID).
		First(&course).Error
	if err != nil {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}
	if identity.RoleCode != token.RoleCodeAdmin &&
		(identity.RoleCode != token.RoleCodeInstructor || course.InstructorID != identity.ID) {
		http.Error(w, "Forbidden: not your course", http.StatusForbidden)
		return
	}

	submission.ApplyGrade(*input.Grade, time.Now())
	updates := map[string]interface{}{
		"grade":     submission.Grade,
		"graded_at": submission.GradedAt,
		"status":    submission.Status,
	}
	if err := db.DB.Model(&submission).Updates(updates).Error; err != nil {
		http.Error(w, "Failed to grade submission", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, submission)
}
