package courses

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/eduplus/eduplus-backend/internal/db"
	"github.com/eduplus/eduplus-backend/internal/token"
	"github.com/eduplus/eduplus-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ownsCourse reports whether the identity may manage the course's content.
// Admins manage everything; instructors only their own courses.
func ownsCourse(identity utils.Identity, course Course) bool {
	if identity.RoleCode == token.RoleCodeAdmin {
		return true
	}
	return identity.RoleCode == token.RoleCodeInstructor && course.InstructorID == identity.ID
}

type assignmentInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

func CreateAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}
	courseID := chi.URLParam(r, "id")

	var input assignmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}
	if input.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	var course Course
	if err := db.DB.First(&course, "id = ?", courseID).Error; err != nil {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}
	if !ownsCourse(identity, course) {
		http.Error(w, "Forbidden: not your course", http.StatusForbidden)
		return
	}

	assignment := Assignment{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		CourseID:    courseID,
		DueDate:     input.DueDate,
	}
	if err := db.DB.Create(&assignment).Error; err != nil {
		http.Error(w, "Failed to create assignment", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, assignment)
}

// loadOwnedAssignment fetches the assignment and verifies course ownership,
// writing the error response itself when it returns false.
func loadOwnedAssignment(w http.ResponseWriter, r *http.Request) (Assignment, bool) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return Assignment{}, false
	}
	assignmentID := chi.URLParam(r, "id")

	var assignment Assignment
	if err := db.DB.First(&assignment, "id = ?", assignmentID).Error; err != nil {
		http.Error(w, "Assignment not found", http.StatusNotFound)
		return Assignment{}, false
	}

	var course Course
	if err := db.DB.First(&course, "id = ?", assignment.CourseID).Error; err != nil {
		http.Error(w, "Course not found", http.StatusNotFound)
		return Assignment{}, false
	}
	if !ownsCourse(identity, course) {
		http.Error(w, "Forbidden: not your course", http.StatusForbidden)
		return Assignment{}, false
	}
	return assignment, true
}

func UpdateAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	assignment, ok := loadOwnedAssignment(w, r)
	if !ok {
		return
	}

	var input assignmentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}

	updates := map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
		"due_date":    input.DueDate,
	}
	if err := db.DB.Model(&assignment).Updates(updates).Error; err != nil {
		http.Error(w, "Failed to update assignment", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, assignment)
}

func DeleteAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	assignment, ok := loadOwnedAssignment(w, r)
	if !ok {
		return
	}

	if err := db.DB.Delete(&assignment).Error; err != nil {
		http.Error(w, "Failed to delete assignment", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Assignment deleted")
}

func GetAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "id")

	var assignment Assignment
	if err := db.DB.First(&assignment, "id = ?", assignmentID).Error; err != nil {
		http.Error(w, "Assignment not found", http.StatusNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, assignment)
}
