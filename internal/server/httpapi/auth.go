package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/contactkeeper/contactkeeper/internal/common"
	"github.com/go-chi/chi/v5"
)

const maxBodySize = 1 << 20 // 1MB

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

func validEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

// handleSignup handles POST /api/auth/signup requests.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if !validEmail(req.Email) {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid email"))
		return
	}
	if req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("password is required"))
		return
	}

	user, err := s.users.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeJSON(w, http.StatusConflict, errorResponse("account already exists"))
			return
		}
		s.logger.Error("signup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":   newUserResponse(user),
		"detail": "User successfully created. Check your email for confirmation.",
	})
}

// handleLogin handles POST /api/auth/login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrInvalidCredentials):
			// Unknown email and wrong password are kept distinct internally
			// but answered identically to prevent account enumeration.
			s.logger.Debug("login rejected", "error", err)
			writeJSON(w, http.StatusUnauthorized, errorResponse("Invalid credentials"))
		case errors.Is(err, common.ErrEmailNotConfirmed):
			writeJSON(w, http.StatusUnauthorized, errorResponse("Email not confirmed"))
		default:
			s.logger.Error("login failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(pair))
}

// handleRefresh handles GET /api/auth/refresh_token requests. The refresh
// token is presented as a bearer token.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("missing or malformed authorization header"))
		return
	}

	pair, err := s.users.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, common.ErrInvalidRefreshToken) {
			writeJSON(w, http.StatusUnauthorized, errorResponse("invalid refresh token"))
			return
		}
		s.logger.Error("token refresh failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(pair))
}

// handleConfirmEmail handles GET /api/auth/confirmed_email/{token} requests.
func (s *Server) handleConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	already, err := s.users.ConfirmEmail(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidToken),
			errors.Is(err, common.ErrTokenExpired),
			errors.Is(err, common.ErrWrongScope):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse("Invalid token for email verification"))
		case errors.Is(err, common.ErrVerification):
			writeJSON(w, http.StatusBadRequest, errorResponse("Verification error"))
		default:
			s.logger.Error("email confirmation failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	if already {
		writeJSON(w, http.StatusOK, messageResponse("Your email is already confirmed"))
		return
	}

	writeJSON(w, http.StatusOK, messageResponse("Email confirmed"))
}

// handleRequestEmail handles POST /api/auth/request_email requests. The
// response does not reveal whether the address is registered.
func (s *Server) handleRequestEmail(w http.ResponseWriter, r *http.Request) {
	var req RequestEmailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	already, err := s.users.RequestEmailConfirmation(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error("confirmation request failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
			return
		}
	}

	if already {
		writeJSON(w, http.StatusOK, messageResponse("Your email is already confirmed"))
		return
	}

	writeJSON(w, http.StatusOK, messageResponse("Check your email for confirmation."))
}
