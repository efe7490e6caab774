package announcements

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/eduplus/eduplus-backend/internal/courses"
	"github.com/eduplus/eduplus-backend/internal/db"
	"github.com/eduplus/eduplus-backend/internal/token"
	"github.com/eduplus/eduplus-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ListHandler scopes announcements to the caller: students see announcements
// for courses they are enrolled in, instructors for courses they teach,
// admins everything.
func ListHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}

	var anns []Announcement
	query := db.DB.Preload("Course").Order("created_at DESC")

	switch identity.RoleCode {
	case token.RoleCodeAdmin:
		// no scoping
	case token.RoleCodeInstructor:
		query = query.
			Joins("JOIN app_lms.courses c ON c.id = announcements.course_id").
			Where("c.instructor_id = ?", identity.ID)
	default:
		query = query.
			Joins("JOIN app_lms.enrollments e ON e.course_id = announcements.course_id").
			Where("e.user_id = ?", identity.ID)
	}

	if err := query.Find(&anns).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, anns)
}

func CreateHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}

	var input struct {
		Title       string   `json:"title"`
		Content     string   `json:"content"`
		CourseID    string   `json:"course_id"`
		Attachments []string `json:"attachments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}
	if input.Title == "" || input.Content == "" || input.CourseID == "" {
		http.Error(w, "Title, content and course are required", http.StatusBadRequest)
		return
	}

	var course courses.Course
	if err := db.DB.First(&course, "id = ?", input.CourseID).Error; err != nil {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}
	if identity.RoleCode == token.RoleCodeInstructor && course.InstructorID != identity.ID {
		http.Error(w, "Forbidden: not your course", http.StatusForbidden)
		return
	}

	ann := Announcement{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Content:     input.Content,
		CourseID:    input.CourseID,
		Attachments: input.Attachments,
	}
	if err := db.DB.Create(&ann).Error; err != nil {
		http.Error(w, "Failed to create announcement", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, ann)
}

func DeleteHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}
	annID := chi.URLParam(r, "id")

	var ann Announcement
	if err := db.DB.Preload("Course").First(&ann, "id = ?", annID).Error; err != nil {
		http.Error(w, "Announcement not found", http.StatusNotFound)
		return
	}
	if identity.RoleCode == token.RoleCodeInstructor &&
		(ann.Course == nil || ann.Course.InstructorID != identity.ID) {
		http.Error(w, "Forbidden: not your course", http.StatusForbidden)
		return
	}

	if err := db.DB.Delete(&ann).Error; err != nil {
		http.Error(w, "Failed to delete announcement", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Announcement deleted")
}
