// handlers/web/notes.go
package web

import (
	"html/template"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"notesweb/auth"
	"notesweb/handlers/api"
	"notesweb/middleware"
	"notesweb/models"
	"notesweb/notes"
	"notesweb/utils"
)

// dashboardRecent is how many notes each dashboard panel shows.
const dashboardRecent = 3

type NotesHandler struct {
	client   *api.Client
	validate *validator.Validate
}

// NewNotesHandler creates a new instance of NotesHandler
func NewNotesHandler(client *api.Client, validate *validator.Validate) *NotesHandler {
	return &NotesHandler{
		client:   client,
		validate: validate,
	}
}

// newStore builds a per-request note store bound to the session's token.
func (h *NotesHandler) newStore(sess auth.Session) *notes.Store {
	return notes.NewStore(h.client.WithToken(sess.Token))
}

// HandleDashboard renders the landing page with the most recently updated
// owned and shared notes.
func (h *NotesHandler) HandleDashboard(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	store := h.newStore(sess)

	// Either fetch may fail independently; the page renders what it got
	// with the store's error in the banner.
	_ = store.FetchNotes()
	_ = store.FetchSharedNotes()

	return c.Render("dashboard", fiber.Map{
		"User":         sess.User,
		"RecentNotes":  store.Recent(dashboardRecent),
		"RecentShared": store.RecentShared(dashboardRecent),
		"NoteCount":    len(store.Notes()),
		"SharedCount":  len(store.SharedNotes()),
		"Error":        store.Err(),
		"CSRFToken":    c.Locals("csrf"),
	})
}

// HandleNotes renders the owned-notes list in server order.
func (h *NotesHandler) HandleNotes(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	store := h.newStore(sess)

	_ = store.FetchNotes()

	return c.Render("notes", fiber.Map{
		"User":      sess.User,
		"Notes":     store.Notes(),
		"Error":     store.Err(),
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleSharedNotes renders the notes other users shared with the caller.
func (h *NotesHandler) HandleSharedNotes(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	store := h.newStore(sess)

	_ = store.FetchSharedNotes()

	return c.Render("shared", fiber.Map{
		"User":      sess.User,
		"Notes":     store.SharedNotes(),
		"Error":     store.Err(),
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleNoteView renders a single note. Content is sanitized before it
// reaches the template.
func (h *NotesHandler) HandleNoteView(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	store := h.newStore(sess)

	note, err := store.FetchNote(c.Params("id"))
	if err != nil {
		if api.KindOf(err) == api.KindNotFound {
			return utils.NotFoundError("Note not found", err)
		}
		return utils.InternalServerError(store.Err(), err)
	}

	return c.Render("note", fiber.Map{
		"User":      sess.User,
		"Note":      note,
		"Content":   template.HTML(utils.SanitizeNoteContent(note.Content)),
		"CanEdit":   note.OwnedBy(sess.User.ID),
		"CSRFToken": c.Locals("csrf"),
	})
}

// ShowNoteForm renders the create form, or the edit form when an id is
// present. Editing someone else's note is not offered; the service would
// reject the write anyway.
func (h *NotesHandler) ShowNoteForm(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	id := c.Params("id")
	if id == "" {
		return c.Render("note_form", fiber.Map{
			"User":      sess.User,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	store := h.newStore(sess)
	note, err := store.FetchNote(id)
	if err != nil {
		if api.KindOf(err) == api.KindNotFound {
			return utils.NotFoundError("Note not found", err)
		}
		return utils.InternalServerError(store.Err(), err)
	}
	if !note.OwnedBy(sess.User.ID) {
		return c.Redirect("/notes/" + note.ID)
	}

	return c.Render("note_form", fiber.Map{
		"User":      sess.User,
		"Note":      note,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleCreateNote processes the create form.
func (h *NotesHandler) HandleCreateNote(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)

	in := models.CreateNoteInput{
		Title:     strings.TrimSpace(c.FormValue("title")),
		Content:   c.FormValue("content"),
		IsPrivate: c.FormValue("isPrivate") == "on",
	}

	if err := h.validate.Struct(in); err != nil {
		return c.Status(400).Render("note_form", fiber.Map{
			"User":      sess.User,
			"Error":     "Title and content are required",
			"Form":      in,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	store := h.newStore(sess)
	created, err := store.Add(in)
	if err != nil {
		// Keep the form open with what the user typed.
		return c.Status(400).Render("note_form", fiber.Map{
			"User":      sess.User,
			"Error":     store.Err(),
			"Form":      in,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	return c.Redirect("/notes/" + created.ID)
}

// HandleUpdateNote processes the edit form.
func (h *NotesHandler) HandleUpdateNote(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	id := c.Params("id")

	title := strings.TrimSpace(c.FormValue("title"))
	content := c.FormValue("content")
	isPrivate := c.FormValue("isPrivate") == "on"
	in := models.UpdateNoteInput{
		Title:     &title,
		Content:   &content,
		IsPrivate: &isPrivate,
	}

	if title == "" || content == "" {
		return c.Status(400).Render("note_form", fiber.Map{
			"User":      sess.User,
			"Error":     "Title and content are required",
			"Note":      &models.Note{ID: id, Title: title, Content: content, IsPrivate: isPrivate},
			"CSRFToken": c.Locals("csrf"),
		})
	}

	store := h.newStore(sess)
	updated, err := store.Edit(id, in)
	if err != nil {
		return c.Status(400).Render("note_form", fiber.Map{
			"User":      sess.User,
			"Error":     store.Err(),
			"Note":      &models.Note{ID: id, Title: title, Content: content, IsPrivate: isPrivate},
			"CSRFToken": c.Locals("csrf"),
		})
	}

	return c.Redirect("/notes/" + updated.ID)
}

// HandleDeleteNote removes a note. Used by both the form post and the
// JSON endpoint.
func (h *NotesHandler) HandleDeleteNote(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	store := h.newStore(sess)

	if err := store.Remove(c.Params("id")); err != nil {
		if isAPIRequest(c) {
			return utils.InternalServerError(store.Err(), err)
		}
		// Show the list again with the failure in the banner.
		msg := store.Err()
		_ = store.FetchNotes()
		return c.Status(400).Render("notes", fiber.Map{
			"User":      sess.User,
			"Notes":     store.Notes(),
			"Error":     msg,
			"CSRFToken": c.Locals("csrf"),
		})
	}

	if isAPIRequest(c) {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Note deleted successfully",
		})
	}
	return c.Redirect("/notes")
}

// ShowShareNote renders the share dialog. The user select is populated
// from the roster when the service allows it; otherwise the form falls
// back to a plain user-id field.
func (h *NotesHandler) ShowShareNote(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	store := h.newStore(sess)

	note, err := store.FetchNote(c.Params("id"))
	if err != nil {
		if api.KindOf(err) == api.KindNotFound {
			return utils.NotFoundError("Note not found", err)
		}
		return utils.InternalServerError(store.Err(), err)
	}
	if !note.OwnedBy(sess.User.ID) {
		return c.Redirect("/notes/" + note.ID)
	}

	users, uerr := h.client.WithToken(sess.Token).Users()
	if uerr != nil {
		users = nil
	}

	candidates := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.ID != sess.User.ID {
			candidates = append(candidates, u)
		}
	}

	return c.Render("share", fiber.Map{
		"User":      sess.User,
		"Note":      note,
		"Users":     candidates,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleShareNote grants another user read access to a note.
func (h *NotesHandler) HandleShareNote(c *fiber.Ctx) error {
	sess := middleware.SessionFromCtx(c)
	id := c.Params("id")

	in := models.ShareNoteInput{
		UserID: strings.TrimSpace(c.FormValue("userId")),
	}
	if in.UserID == "" {
		// JSON callers put the target user in the body instead.
		var body models.ShareNoteInput
		if err := c.BodyParser(&body); err == nil {
			in = body
		}
	}

	if err := h.validate.Struct(in); err != nil {
		return utils.BadRequestError("Please select a user to share with", err)
	}

	store := h.newStore(sess)
	share, err := store.Share(id, in)
	if err != nil {
		return utils.BadRequestError(store.Err(), err)
	}

	if isAPIRequest(c) {
		return c.Status(201).JSON(fiber.Map{
			"success": true,
			"share":   share,
		})
	}
	return c.Redirect("/notes/" + id)
}
