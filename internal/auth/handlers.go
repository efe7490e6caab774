package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/eduplus/eduplus-backend/internal/db"
	"github.com/eduplus/eduplus-backend/internal/session"
	"github.com/eduplus/eduplus-backend/internal/token"
	"github.com/eduplus/eduplus-backend/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// invalidCredentials is returned for unknown email and wrong password alike,
// so login responses never reveal whether an account exists.
const invalidCredentials = "Invalid email or password"

type API struct {
	Tokens *token.Service
	Store  *session.Store
}

func (api *API) issueSession(w http.ResponseWriter, user User) error {
	code := RoleCode(user.Role)
	pair, err := api.Tokens.Issue(user.ID, code, user.Email)
	if err != nil {
		return err
	}
	api.Store.Save(w, session.Record{
		ID:      user.ID,
		Role:    code,
		Email:   user.Email,
		Name:    user.Name,
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
	return nil
}

func (api *API) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}

	if fe := validateRegister(input); fe != nil {
		utils.WriteFieldErrors(w, http.StatusUnprocessableEntity, fe)
		return
	}

	var existing User
	if err := db.DB.First(&existing, "email = ?", input.Email).Error; err == nil {
		utils.WriteFieldErrors(w, http.StatusConflict, FieldErrors{
			"email": {"Email is already registered."},
		})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}

	user := User{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Email:          input.Email,
		HashedPassword: string(hashed),
		Role:           RoleStudent,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	if err := api.issueSession(w, user); err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, user)
}

func (api *API) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}

	if fe := validateLogin(input); fe != nil {
		utils.WriteFieldErrors(w, http.StatusUnprocessableEntity, fe)
		return
	}

	var user User
	err := db.DB.First(&user, "email = ?", input.Email).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "DB error", http.StatusInternalServerError)
			return
		}
		utils.WriteFieldErrors(w, http.StatusUnauthorized, FieldErrors{
			"global": {invalidCredentials},
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
		utils.WriteFieldErrors(w, http.StatusUnauthorized, FieldErrors{
			"global": {invalidCredentials},
		})
		return
	}

	if err := api.issueSession(w, user); err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

func (api *API) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	api.Store.Clear(w)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Logout successful")
}

// MeHandler returns the caller's current profile row. If the account was
// deleted out from under a live session, the cookie is cleared so the client
// falls back to login.
func (api *API) MeHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}

	var user User
	if err := db.DB.First(&user, "id = ?", identity.ID).Error; err != nil {
		api.Store.Clear(w)
		http.Error(w, "Couldn't find user", http.StatusUnauthorized)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

func (api *API) UpdatePasswordHandler(w http.ResponseWriter, r *http.Request) {
	type UpdatePassword struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}

	var input UpdatePassword
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Current and new password are required", http.StatusBadRequest)
		return
	}
	if msgs := passwordErrors(input.NewPassword); msgs != nil {
		utils.WriteFieldErrors(w, http.StatusUnprocessableEntity, FieldErrors{"new_password": msgs})
		return
	}

	var user User
	if err := db.DB.First(&user, "id = ?", identity.ID).Error; err != nil {
		http.Error(w, "Couldn't find user", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.CurrentPassword)); err != nil {
		http.Error(w, "Invalid current password", http.StatusUnauthorized)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}

	if err := db.DB.Model(&user).Update("hashed_password", string(hashed)).Error; err != nil {
		http.Error(w, "Failed to update password", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Password updated")
}

func (api *API) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}
	if input.Name == "" {
		utils.WriteFieldErrors(w, http.StatusUnprocessableEntity, FieldErrors{"name": {"Is required"}})
		return
	}

	var user User
	if err := db.DB.First(&user, "id = ?", identity.ID).Error; err != nil {
		http.Error(w, "Couldn't find user", http.StatusUnauthorized)
		return
	}
	if err := db.DB.Model(&user).Update("name", input.Name).Error; err != nil {
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}
