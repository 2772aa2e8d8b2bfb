package api

import (
	"notesweb/models"
)

// Notes returns the notes owned by the token's user, in server order.
func (c *Client) Notes() ([]models.Note, error) {
	var out []models.Note
	if err := c.get("/notes", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SharedNotes returns the notes shared with the token's user.
func (c *Client) SharedNotes() ([]models.Note, error) {
	var out []models.Note
	if err := c.get("/notes/shared", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Note fetches a single note by id.
func (c *Client) Note(id string) (*models.Note, error) {
	var out models.Note
	if err := c.get("/notes/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateNote creates a note and returns the server-assigned record.
func (c *Client) CreateNote(in models.CreateNoteInput) (*models.Note, error) {
	var out models.Note
	if err := c.post("/notes", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateNote updates a note and returns the record the server now holds.
func (c *Client) UpdateNote(id string, in models.UpdateNoteInput) (*models.Note, error) {
	var out models.Note
	if err := c.put("/notes/"+id, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(id string) error {
	return c.delete("/notes/" + id)
}

// ShareNote grants another user read access to a note.
func (c *Client) ShareNote(noteID string, in models.ShareNoteInput) (*models.NoteShare, error) {
	var out models.NoteShare
	if err := c.post("/notes/"+noteID+"/share", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
