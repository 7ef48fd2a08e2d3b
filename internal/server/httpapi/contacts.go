package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/contactkeeper/contactkeeper/internal/common"
	"github.com/contactkeeper/contactkeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
)

// contactFromRequest validates the payload and builds the model. A nil
// result means the response was already written.
func contactFromRequest(w http.ResponseWriter, req *ContactRequest, userID string) *models.Contact {
	if req.FirstName == "" || req.LastName == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("first_name and last_name are required"))
		return nil
	}
	if !validEmail(req.Email) {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid email"))
		return nil
	}

	birthday, err := time.Parse(birthdayLayout, req.Birthday)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("birthday must be formatted as YYYY-MM-DD"))
		return nil
	}

	return &models.Contact{
		UserID:    userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Birthday:  birthday,
		Notes:     req.Notes,
	}
}

// handleCreateContact handles POST /api/contacts requests.
func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req ContactRequest
	if !decodeBody(w, r, &req) {
		return
	}

	contact := contactFromRequest(w, &req, user.ID)
	if contact == nil {
		return
	}

	created, err := s.contacts.Create(r.Context(), contact)
	if err != nil {
		s.logger.Error("contact creation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, newContactResponse(created))
}

// handleListContacts handles GET /api/contacts requests with limit/offset
// paging.
func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := s.contacts.GetAll(r.Context(), user.ID, limit, offset)
	if err != nil {
		s.logger.Error("contact listing failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, newContactListResponse(list))
}

// handleGetContact handles GET /api/contacts/{id} requests.
func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	contact, err := s.contacts.GetByID(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse("contact not found"))
			return
		}
		s.logger.Error("contact lookup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, newContactResponse(contact))
}

// handleUpdateContact handles PUT /api/contacts/{id} requests.
func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req ContactRequest
	if !decodeBody(w, r, &req) {
		return
	}

	contact := contactFromRequest(w, &req, user.ID)
	if contact == nil {
		return
	}
	contact.ID = chi.URLParam(r, "id")

	updated, err := s.contacts.Update(r.Context(), contact)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse("contact not found"))
			return
		}
		s.logger.Error("contact update failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, newContactResponse(updated))
}

// handleDeleteContact handles DELETE /api/contacts/{id} requests.
func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	err := s.contacts.Delete(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse("contact not found"))
			return
		}
		s.logger.Error("contact deletion failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSearchContacts handles GET /api/contacts/search?q= requests.
func (s *Server) handleSearchContacts(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("q is required"))
		return
	}

	list, err := s.contacts.Search(r.Context(), user.ID, query)
	if err != nil {
		s.logger.Error("contact search failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, newContactListResponse(list))
}

// handleUpcomingBirthdays handles GET /api/contacts/birthdays requests.
func (s *Server) handleUpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	list, err := s.contacts.UpcomingBirthdays(r.Context(), user.ID)
	if err != nil {
		s.logger.Error("birthday listing failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, newContactListResponse(list))
}
