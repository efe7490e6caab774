package auth

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/eduplus/eduplus-backend/internal/db"
	"github.com/eduplus/eduplus-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Admin-only user management. Route-level RequireRole gates access; handlers
// here trust the middleware.

// defaultPassword is assigned to admin-created accounts until the user is
// invited to set their own.
const defaultPassword = "password123"

func (api *API) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	var users []User
	if err := db.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, users)
}

func (api *API) ListInstructorsHandler(w http.ResponseWriter, r *http.Request) {
	var users []User
	if err := db.DB.Where("role = ?", RoleInstructor).Order("name ASC").Find(&users).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, users)
}

func (api *API) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  Role   `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}
	if input.Name == "" || input.Email == "" || !input.Role.Valid() {
		http.Error(w, "Name, email and a valid role are required", http.StatusBadRequest)
		return
	}

	var existing User
	if err := db.DB.First(&existing, "email = ?", input.Email).Error; err == nil {
		utils.WriteFieldErrors(w, http.StatusConflict, FieldErrors{
			"email": {"Email is already registered."},
		})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}

	user := User{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Email:          input.Email,
		HashedPassword: string(hashed),
		Role:           input.Role,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, user)
}

func (api *API) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var input struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  Role   `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}
	if !input.Role.Valid() {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}

	var user User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}

	updates := map[string]interface{}{
		"name":  input.Name,
		"email": input.Email,
		"role":  input.Role,
	}
	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

func (api *API) UpdateUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var input struct {
		Role Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || !input.Role.Valid() {
		http.Error(w, "A valid role is required", http.StatusBadRequest)
		return
	}

	var user User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}
	if err := db.DB.Model(&user).Update("role", input.Role).Error; err != nil {
		http.Error(w, "Failed to update role", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

func (api *API) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var user User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}
	// Child rows (enrollments, submissions, messages) are cleaned up by
	// store-level FK constraints.
	if err := db.DB.Delete(&user).Error; err != nil {
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "User deleted")
}
