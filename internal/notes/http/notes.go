package http

import (
	"encoding/json"
	"net/http"

	"github.com/quillhq/quill/internal/notes/domain"
	"github.com/quillhq/quill/internal/notes/service"
	"github.com/quillhq/quill/pkg/httpx"
	"github.com/quillhq/quill/pkg/idx"
)

type NotesHandler struct {
	NotesService *service.NotesService
}

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (h *NotesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.NotesService.ListNotes(r.Context(), userFromCtx(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toNoteListResponse(list))
}

func (h *NotesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	note, err := h.NotesService.CreateNote(r.Context(), userFromCtx(r.Context()), req.Title, req.Content)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toNoteResponse(note))
}

func (h *NotesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	noteID, ok := notePathID(w, r)
	if !ok {
		return
	}

	note, err := h.NotesService.GetNote(r.Context(), userFromCtx(r.Context()), noteID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toNoteResponse(note))
}

func (h *NotesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	noteID, ok := notePathID(w, r)
	if !ok {
		return
	}

	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	note, err := h.NotesService.UpdateNote(r.Context(), userFromCtx(r.Context()), noteID, domain.NoteUpdate{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toNoteResponse(note))
}

func (h *NotesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	noteID, ok := notePathID(w, r)
	if !ok {
		return
	}

	if err := h.NotesService.DeleteNote(r.Context(), userFromCtx(r.Context()), noteID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Note deleted"})
}

// notePathID validates the {id} path parameter. A malformed id can never
// name a note, so it gets the same 404 body as a missing one rather than
// leaking id-format hints.
func notePathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := r.PathValue("id")
	if _, err := idx.Parse(raw); err != nil {
		writeNoteNotFound(w)
		return "", false
	}
	return raw, true
}
