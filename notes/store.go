// Package notes caches the current user's visible notes for the lifetime
// of a page render and applies local patches after each mutating call.
package notes

import (
	"notesweb/handlers/api"
	"notesweb/models"
)

// Fallback messages when the API error body carries none.
const (
	msgFetchFailed       = "Failed to fetch notes"
	msgFetchSharedFailed = "Failed to fetch shared notes"
	msgFetchOneFailed    = "Failed to fetch note"
	msgCreateFailed      = "Failed to create note"
	msgUpdateFailed      = "Failed to update note"
	msgDeleteFailed      = "Failed to delete note"
	msgShareFailed       = "Failed to share note"
)

// Service is what the store needs from the remote seam. A token-bound
// *api.Client satisfies it.
type Service interface {
	Notes() ([]models.Note, error)
	SharedNotes() ([]models.Note, error)
	Note(id string) (*models.Note, error)
	CreateNote(in models.CreateNoteInput) (*models.Note, error)
	UpdateNote(id string, in models.UpdateNoteInput) (*models.Note, error)
	DeleteNote(id string) error
	ShareNote(noteID string, in models.ShareNoteInput) (*models.NoteShare, error)
}

var _ Service = (*api.Client)(nil)

// Store holds the owned and shared collections, the current note slot and
// one loading flag and error string shared by every operation. A store
// serves a single request; it is not safe for concurrent use.
type Store struct {
	svc Service

	notes       []models.Note
	sharedNotes []models.Note
	currentNote *models.Note
	loading     bool
	errMsg      string
}

// NewStore creates a store over the given service.
func NewStore(svc Service) *Store {
	return &Store{svc: svc}
}

// Notes returns the owned collection in server order.
func (s *Store) Notes() []models.Note { return s.notes }

// SharedNotes returns the notes shared with the user.
func (s *Store) SharedNotes() []models.Note { return s.sharedNotes }

// CurrentNote returns the single detail slot, nil when unset.
func (s *Store) CurrentNote() *models.Note { return s.currentNote }

// Loading reports whether any operation is in flight.
func (s *Store) Loading() bool { return s.loading }

// Err returns the last operation's error message, "" when the last
// operation succeeded.
func (s *Store) Err() string { return s.errMsg }

// ClearError resets the error without touching the collections.
func (s *Store) ClearError() { s.errMsg = "" }

// Recent returns up to n owned notes, most recently updated first.
func (s *Store) Recent(n int) []models.Note {
	return models.RecentNotes(s.notes, n)
}

// RecentShared returns up to n shared notes, most recently updated first.
func (s *Store) RecentShared(n int) []models.Note {
	return models.RecentNotes(s.sharedNotes, n)
}

// FetchNotes replaces the owned collection with the server's current view.
func (s *Store) FetchNotes() error {
	s.begin()
	fetched, err := s.svc.Notes()
	if err != nil {
		return s.fail(err, msgFetchFailed)
	}
	s.notes = fetched
	s.done()
	return nil
}

// FetchSharedNotes replaces the shared collection.
func (s *Store) FetchSharedNotes() error {
	s.begin()
	fetched, err := s.svc.SharedNotes()
	if err != nil {
		return s.fail(err, msgFetchSharedFailed)
	}
	s.sharedNotes = fetched
	s.done()
	return nil
}

// FetchNote loads a single note into the current slot. On failure the
// slot keeps its previous value and the error is surfaced and returned so
// a detail page can react.
func (s *Store) FetchNote(id string) (*models.Note, error) {
	s.begin()
	note, err := s.svc.Note(id)
	if err != nil {
		return nil, s.fail(err, msgFetchOneFailed)
	}
	s.currentNote = note
	s.done()
	return note, nil
}

// Add creates a note remotely and appends the result to the owned
// collection.
func (s *Store) Add(in models.CreateNoteInput) (*models.Note, error) {
	s.begin()
	created, err := s.svc.CreateNote(in)
	if err != nil {
		return nil, s.fail(err, msgCreateFailed)
	}
	s.notes = append(s.notes, *created)
	s.done()
	return created, nil
}

// Edit updates a note remotely and patches the owned collection and the
// current slot where the id matches.
func (s *Store) Edit(id string, in models.UpdateNoteInput) (*models.Note, error) {
	s.begin()
	updated, err := s.svc.UpdateNote(id, in)
	if err != nil {
		return nil, s.fail(err, msgUpdateFailed)
	}
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes[i] = *updated
		}
	}
	if s.currentNote != nil && s.currentNote.ID == id {
		s.currentNote = updated
	}
	s.done()
	return updated, nil
}

// Remove deletes a note remotely, drops it from the owned collection and
// clears a matching current slot.
func (s *Store) Remove(id string) error {
	s.begin()
	if err := s.svc.DeleteNote(id); err != nil {
		return s.fail(err, msgDeleteFailed)
	}
	kept := s.notes[:0]
	for _, note := range s.notes {
		if note.ID != id {
			kept = append(kept, note)
		}
	}
	s.notes = kept
	if s.currentNote != nil && s.currentNote.ID == id {
		s.currentNote = nil
	}
	s.done()
	return nil
}

// Share grants a user read access. Local collections are left alone; a
// caller that needs the share reflected refetches.
func (s *Store) Share(noteID string, in models.ShareNoteInput) (*models.NoteShare, error) {
	s.begin()
	share, err := s.svc.ShareNote(noteID, in)
	if err != nil {
		return nil, s.fail(err, msgShareFailed)
	}
	s.done()
	return share, nil
}

func (s *Store) begin() {
	s.loading = true
}

func (s *Store) done() {
	s.loading = false
	s.errMsg = ""
}

// fail records the user-facing message and hands the error back so the
// caller can run its own side effect without duplicating display logic.
func (s *Store) fail(err error, fallback string) error {
	s.loading = false
	s.errMsg = api.Message(err, fallback)
	return err
}
