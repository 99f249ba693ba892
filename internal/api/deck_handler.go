package api

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cramhq/cram-api/internal/api/middleware"
	"github.com/cramhq/cram-api/internal/api/shared"
	"github.com/cramhq/cram-api/internal/service"
)

// maxImportBodyBytes bounds the size of an uploaded CSV file.
const maxImportBodyBytes = 4 << 20

// DeckHandler handles deck and card management API requests.
type DeckHandler struct {
	decks service.DeckService
}

// NewDeckHandler creates a new DeckHandler with the given dependencies.
func NewDeckHandler(decks service.DeckService) *DeckHandler {
	return &DeckHandler{decks: decks}
}

// requireUser extracts the authenticated user ID set by the auth
// middleware. A missing ID means the route was wired without it.
func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses a UUID path parameter.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// CreateDeck handles POST /decks.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	deck, err := h.decks.CreateDeck(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, deck)
}

// ListDecks handles GET /decks.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	decks, err := h.decks.ListDecks(r.Context(), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, decks)
}

// GetDeck handles GET /decks/{deckID}.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	deck, err := h.decks.GetDeck(r.Context(), userID, deckID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// UpdateDeck handles PUT /decks/{deckID}.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	var req UpdateDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	deck, err := h.decks.RenameDeck(r.Context(), userID, deckID, req.Name, req.Description)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deck)
}

// DeleteDeck handles DELETE /decks/{deckID}.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	if err := h.decks.DeleteDeck(r.Context(), userID, deckID); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateCard handles POST /decks/{deckID}/cards.
func (h *DeckHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	var req CardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	card, err := h.decks.CreateCard(r.Context(), userID, deckID, req.Front, req.Back)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// ListCards handles GET /decks/{deckID}/cards.
func (h *DeckHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	cards, err := h.decks.ListCards(r.Context(), userID, deckID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// UpdateCard handles PUT /cards/{cardID}.
func (h *DeckHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	cardID, ok := pathID(w, r, "cardID")
	if !ok {
		return
	}

	var req CardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	card, err := h.decks.UpdateCard(r.Context(), userID, cardID, req.Front, req.Back)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /cards/{cardID}.
func (h *DeckHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	cardID, ok := pathID(w, r, "cardID")
	if !ok {
		return
	}

	if err := h.decks.DeleteCard(r.Context(), userID, cardID); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportDeck handles GET /decks/{deckID}/export: it streams the deck's
// cards as a CSV attachment.
func (h *DeckHandler) ExportDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	// Buffer the export so an ownership or lookup failure can still
	// produce a JSON error response instead of a truncated file.
	var buf bytes.Buffer
	if err := h.decks.ExportCSV(r.Context(), userID, deckID, &buf); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="deck.csv"`)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("failed to write CSV export", "error", err)
	}
}

// ImportDeck handles POST /decks/{deckID}/import: it accepts a CSV body
// and queues a background import.
func (h *DeckHandler) ImportDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, ok := pathID(w, r, "deckID")
	if !ok {
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxImportBodyBytes)
	count, err := h.decks.ImportCSV(r.Context(), userID, deckID, body)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, ImportResponse{RowsQueued: count})
}
