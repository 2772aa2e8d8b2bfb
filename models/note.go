package models

import (
	"encoding/json"
	"sort"
	"time"
)

// Owner is the note owner as transferred by the API, which emits either a
// full user object or a bare identifier depending on the endpoint.
type Owner struct {
	ID   string
	User *User
}

// UnmarshalJSON accepts both `"owner": "id"` and `"owner": {...user...}`.
func (o *Owner) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		o.ID = id
		o.User = nil
		return nil
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return err
	}
	o.ID = u.ID
	o.User = &u
	return nil
}

// MarshalJSON writes the embedded user when present, the bare ID otherwise.
func (o Owner) MarshalJSON() ([]byte, error) {
	if o.User != nil {
		return json.Marshal(o.User)
	}
	return json.Marshal(o.ID)
}

// DisplayName returns a label for the owner, falling back to the raw ID.
func (o Owner) DisplayName() string {
	if o.User != nil {
		return o.User.DisplayName()
	}
	return o.ID
}

// Note is a note record as held in memory. Ownership never changes after
// creation; the server enforces that, the client only hides affordances.
type Note struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Owner      Owner       `json:"owner"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
	SharedWith []NoteShare `json:"sharedWith"`
	IsPrivate  bool        `json:"isPrivate"`
}

// IsShared reports whether any share grant exists. The share list is the
// single authoritative signal; there is no separate stored flag. Value
// receiver so templates can call it on ranged list elements.
func (n Note) IsShared() bool {
	return len(n.SharedWith) > 0
}

// OwnedBy reports whether the given user owns the note.
func (n *Note) OwnedBy(userID string) bool {
	return n != nil && userID != "" && n.Owner.ID == userID
}

// NoteShare is a grant of read access to a note.
type NoteShare struct {
	ID        string    `json:"id"`
	Note      *Note     `json:"note,omitempty"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateNoteInput is the payload for creating a note.
type CreateNoteInput struct {
	Title     string `json:"title" form:"title" validate:"required,max=200"`
	Content   string `json:"content" form:"content" validate:"required"`
	IsPrivate bool   `json:"isPrivate,omitempty" form:"isPrivate"`
}

// UpdateNoteInput is the payload for updating a note. Nil fields are
// omitted so the server keeps their current values.
type UpdateNoteInput struct {
	Title     *string `json:"title,omitempty" form:"title" validate:"omitempty,max=200"`
	Content   *string `json:"content,omitempty" form:"content"`
	IsPrivate *bool   `json:"isPrivate,omitempty" form:"isPrivate"`
}

// ShareNoteInput names the user receiving a share grant.
type ShareNoteInput struct {
	UserID string `json:"userId" form:"userId" validate:"required"`
}

// RecentNotes returns up to n notes ordered by last update, newest first.
// The input slice keeps its server-given order.
func RecentNotes(notes []Note, n int) []Note {
	recent := make([]Note, len(notes))
	copy(recent, notes)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].UpdatedAt.After(recent[j].UpdatedAt)
	})
	if n >= 0 && len(recent) > n {
		recent = recent[:n]
	}
	return recent
}
