package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerUnmarshal(t *testing.T) {
	t.Run("bare identifier", func(t *testing.T) {
		var note Note
		err := json.Unmarshal([]byte(`{"id":"n1","title":"T","owner":"u42"}`), &note)
		require.NoError(t, err)
		assert.Equal(t, "u42", note.Owner.ID)
		assert.Nil(t, note.Owner.User)
		assert.Equal(t, "u42", note.Owner.DisplayName())
	})

	t.Run("embedded user", func(t *testing.T) {
		var note Note
		err := json.Unmarshal([]byte(`{"id":"n1","owner":{"id":"u42","username":"ada","role":"user"}}`), &note)
		require.NoError(t, err)
		assert.Equal(t, "u42", note.Owner.ID)
		require.NotNil(t, note.Owner.User)
		assert.Equal(t, "ada", note.Owner.User.Username)
		assert.Equal(t, "ada", note.Owner.DisplayName())
	})

	t.Run("round trip keeps the embedded user", func(t *testing.T) {
		note := Note{ID: "n1", Owner: Owner{ID: "u1", User: &User{ID: "u1", Username: "ada"}}}
		data, err := json.Marshal(note)
		require.NoError(t, err)

		var back Note
		require.NoError(t, json.Unmarshal(data, &back))
		require.NotNil(t, back.Owner.User)
		assert.Equal(t, "ada", back.Owner.User.Username)
	})
}

func TestNoteIsShared(t *testing.T) {
	note := Note{ID: "n1"}
	assert.False(t, note.IsShared())

	note.SharedWith = []NoteShare{{ID: "s1", CreatedAt: time.Now()}}
	assert.True(t, note.IsShared())
}

func TestNoteOwnedBy(t *testing.T) {
	note := &Note{ID: "n1", Owner: Owner{ID: "u1"}}
	assert.True(t, note.OwnedBy("u1"))
	assert.False(t, note.OwnedBy("u2"))
	assert.False(t, note.OwnedBy(""))
}

func TestRecentNotes(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	notes := []Note{
		{ID: "a", UpdatedAt: base},
		{ID: "b", UpdatedAt: base.Add(2 * time.Hour)},
		{ID: "c", UpdatedAt: base.Add(time.Hour)},
		{ID: "d", UpdatedAt: base.Add(3 * time.Hour)},
	}

	recent := RecentNotes(notes, 3)
	require.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].ID)
	assert.Equal(t, "b", recent[1].ID)
	assert.Equal(t, "c", recent[2].ID)

	// The input keeps its server-given order.
	assert.Equal(t, "a", notes[0].ID)

	t.Run("fewer notes than requested", func(t *testing.T) {
		assert.Len(t, RecentNotes(notes[:2], 3), 2)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, RecentNotes(nil, 3))
	})
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())

	var nilUser *User
	assert.False(t, nilUser.IsAdmin())
}
