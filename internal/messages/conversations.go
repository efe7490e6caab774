package messages

import (
	"sort"

	"github.com/eduplus/eduplus-backend/internal/auth"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// BuildConversations groups a newest-first message slice by the non-self
// participant. The first message seen per counterpart is that conversation's
// preview; every unread message addressed to self increments the counter.
// Counterparts missing from the participant map are skipped, which covers
// messages whose other account has since been deleted.
func BuildConversations(selfID string, msgs []Message, participants map[string]Participant) []Conversation {
	var order []string
	byOther := make(map[string]*Conversation)

	for _, msg := range msgs {
		otherID := msg.SenderID
		if msg.SenderID == selfID {
			otherID = msg.ReceiverID
		}

		conv, seen := byOther[otherID]
		if !seen {
			other, known := participants[otherID]
			if !known {
				continue
			}
			conv = &Conversation{Other: other, LastMessage: msg}
			byOther[otherID] = conv
			order = append(order, otherID)
		}
		if msg.ReceiverID == selfID && !msg.Read {
			conv.UnreadCount++
		}
	}

	out := make([]Conversation, 0, len(order))
	for _, id := range order {
		out = append(out, *byOther[id])
	}
	return out
}

// contactRoles returns which roles the given role may see in its contact
// list. Staff may message anyone; students only staff, never other students.
func contactRoles(role auth.Role) []auth.Role {
	if role == auth.RoleAdmin || role == auth.RoleInstructor {
		return []auth.Role{auth.RoleStudent, auth.RoleInstructor, auth.RoleAdmin}
	}
	return []auth.Role{auth.RoleInstructor, auth.RoleAdmin}
}

// sortByName orders participants by display name using English collation, so
// the contact list is stable regardless of database collation settings.
func sortByName(contacts []Participant) {
	c := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(contacts, func(i, j int) bool {
		return c.CompareString(contacts[i].Name, contacts[j].Name) < 0
	})
}
