package courses

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/eduplus/eduplus-backend/internal/auth"
	"github.com/eduplus/eduplus-backend/internal/db"
	"github.com/eduplus/eduplus-backend/internal/token"
	"github.com/eduplus/eduplus-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListCoursesHandler scopes the course list to the caller: admins see all,
// instructors their own, students the ones they are enrolled in.
func ListCoursesHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}

	var courses []Course
	query := db.DB.Preload("Instructor").Order("code ASC")

	switch identity.RoleCode {
	case token.RoleCodeAdmin:
		// no scoping
	case token.RoleCodeInstructor:
		query = query.Where("instructor_id = ?", identity.ID)
	default:
		query = query.
			Joins("JOIN app_lms.enrollments e ON e.course_id = courses.id").
			Where("e.user_id = ?", identity.ID)
	}

	if err := query.Find(&courses).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, courses)
}

// BrowseCoursesHandler lists every course for the public catalog view.
func BrowseCoursesHandler(w http.ResponseWriter, r *http.Request) {
	var courses []Course
	if err := db.DB.Preload("Instructor").Order("code ASC").Find(&courses).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, courses)
}

func GetCourseHandler(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")

	var course Course
	err := db.DB.Preload("Instructor").Preload("Assignments").First(&course, "id = ?", courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Course not found", http.StatusNotFound)
			return
		}
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, course)
}

type courseInput struct {
	Title        string `json:"title"`
	Code         string `json:"code"`
	Description  string `json:"description"`
	InstructorID string `json:"instructor_id"`
}

func CreateCourseHandler(w http.ResponseWriter, r *http.Request) {
	var input courseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}
	if input.Title == "" || input.Code == "" || input.InstructorID == "" {
		http.Error(w, "Title, code and instructor are required", http.StatusBadRequest)
		return
	}

	var instructor auth.User
	if err := db.DB.First(&instructor, "id = ? AND role = ?", input.InstructorID, auth.RoleInstructor).Error; err != nil {
		http.Error(w, "Instructor not found", http.StatusBadRequest)
		return
	}

	course := Course{
		ID:           uuid.NewString(),
		Title:        input.Title,
		Code:         input.Code,
		Description:  input.Description,
		InstructorID: input.InstructorID,
	}
	if err := db.DB.Create(&course).Error; err != nil {
		http.Error(w, "Failed to create course", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, course)
}

func UpdateCourseHandler(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")

	var input courseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}

	var course Course
	if err := db.DB.First(&course, "id = ?", courseID).Error; err != nil {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}

	updates := map[string]interface{}{
		"title":       input.Title,
		"code":        input.Code,
		"description": input.Description,
	}
	if input.InstructorID != "" {
		updates["instructor_id"] = input.InstructorID
	}
	if err := db.DB.Model(&course).Updates(updates).Error; err != nil {
		http.Error(w, "Failed to update course", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, course)
}

// DeleteCourseHandler removes the course row; enrollments, assignments and
// their submissions go with it via FK cascade.
func DeleteCourseHandler(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")

	var course Course
	if err := db.DB.First(&course, "id = ?", courseID).Error; err != nil {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}
	if err := db.DB.Delete(&course).Error; err != nil {
		http.Error(w, "Failed to delete course", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Course deleted")
}

func AssignInstructorHandler(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")

	var input struct {
		InstructorID string `json:"instructor_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.InstructorID == "" {
		http.Error(w, "Instructor id is required", http.StatusBadRequest)
		return
	}

	var instructor auth.User
	if err := db.DB.First(&instructor, "id = ? AND role = ?", input.InstructorID, auth.RoleInstructor).Error; err != nil {
		http.Error(w, "Instructor not found", http.StatusBadRequest)
		return
	}

	var course Course
	if err := db.DB.First(&course, "id = ?", courseID).Error; err != nil {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}
	if err := db.DB.Model(&course).Update("instructor_id", input.InstructorID).Error; err != nil {
		http.Error(w, "Failed to assign instructor", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, course)
}

func EnrollHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}
	courseID := chi.URLParam(r, "id")

	var course Course
	if err := db.DB.First(&course, "id = ?", courseID).Error; err != nil {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}

	var existing Enrollment
	err := db.DB.Where("user_id = ? AND course_id = ?", identity.ID, courseID).First(&existing).Error
	if err == nil {
		http.Error(w, "Already enrolled", http.StatusConflict)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	enrollment := Enrollment{
		ID:       uuid.NewString(),
		UserID:   identity.ID,
		CourseID: courseID,
	}
	if err := db.DB.Create(&enrollment).Error; err != nil {
		http.Error(w, "Failed to enroll", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, enrollment)
}
