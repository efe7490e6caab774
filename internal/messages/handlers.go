package messages

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/eduplus/eduplus-backend/internal/auth"
	"github.com/eduplus/eduplus-backend/internal/db"
	"github.com/eduplus/eduplus-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ConversationsHandler recomputes the caller's conversation list on every
// read; there is no persisted materialized view.
func ConversationsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}

	var msgs []Message
	err := db.DB.
		Where("sender_id = ? OR receiver_id = ?", identity.ID, identity.ID).
		Order("created_at DESC, id DESC").
		Find(&msgs).Error
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	otherIDs := make([]string, 0, len(msgs))
	seen := map[string]struct{}{}
	for _, msg := range msgs {
		otherID := msg.SenderID
		if msg.SenderID == identity.ID {
			otherID = msg.ReceiverID
		}
		if _, dup := seen[otherID]; !dup {
			seen[otherID] = struct{}{}
			otherIDs = append(otherIDs, otherID)
		}
	}

	participants := map[string]Participant{}
	if len(otherIDs) > 0 {
		var users []auth.User
		if err := db.DB.Where("id IN ?", otherIDs).Find(&users).Error; err != nil {
			http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		for _, u := range users {
			participants[u.ID] = Participant{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
		}
	}

	utils.WriteJSON(w, http.StatusOK, BuildConversations(identity.ID, msgs, participants))
}

// ThreadHandler returns the full exchange with one user, oldest first.
func ThreadHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}
	otherID := chi.URLParam(r, "userID")

	var msgs []Message
	err := db.DB.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			identity.ID, otherID, otherID, identity.ID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, msgs)
}

func SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}

	var input struct {
		ReceiverID string `json:"receiver_id"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}
	if input.ReceiverID == "" || input.Content == "" {
		http.Error(w, "Receiver and content are required", http.StatusBadRequest)
		return
	}
	if input.ReceiverID == identity.ID {
		http.Error(w, "Cannot message yourself", http.StatusBadRequest)
		return
	}

	var receiver auth.User
	if err := db.DB.First(&receiver, "id = ?", input.ReceiverID).Error; err != nil {
		http.Error(w, "Receiver not found", http.StatusNotFound)
		return
	}

	msg := Message{
		ID:         uuid.NewString(),
		SenderID:   identity.ID,
		ReceiverID: input.ReceiverID,
		Content:    input.Content,
	}
	if err := db.DB.Create(&msg).Error; err != nil {
		http.Error(w, "Failed to send message", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, msg)
}

// MarkReadHandler flips one message addressed to the caller to read.
func MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}
	msgID := chi.URLParam(r, "id")

	var msg Message
	if err := db.DB.First(&msg, "id = ? AND receiver_id = ?", msgID, identity.ID).Error; err != nil {
		http.Error(w, "Message not found", http.StatusNotFound)
		return
	}
	if err := db.DB.Model(&msg).Update("read", true).Error; err != nil {
		http.Error(w, "Failed to mark message as read", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, msg)
}

// MarkThreadReadHandler flips every unread message from one sender to the
// caller.
func MarkThreadReadHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}
	senderID := chi.URLParam(r, "userID")

	err := db.DB.Model(&Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", senderID, identity.ID, false).
		Update("read", true).Error
	if err != nil {
		http.Error(w, "Failed to mark messages as read", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Messages marked as read")
}

// ContactsHandler lists who the caller may start a conversation with,
// role-gated: students never see other students.
func ContactsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing identity in context", http.StatusUnauthorized)
		return
	}

	roles := contactRoles(auth.RoleFromCode(identity.RoleCode))

	var users []auth.User
	err := db.DB.Where("id <> ? AND role IN ?", identity.ID, roles).Find(&users).Error
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	contacts := make([]Participant, 0, len(users))
	for _, u := range users {
		contacts = append(contacts, Participant{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	sortByName(contacts)
	utils.WriteJSON(w, http.StatusOK, contacts)
}
