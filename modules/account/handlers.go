package account

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router mounts the account endpoints:
//
//	POST /register
//	POST /login
//	POST /forgot-password
//	POST /reset-password
//	GET  /oauth/{provider}
//	GET  /oauth/{provider}/callback
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", s.register)
	r.Post("/login", s.login)
	r.Post("/forgot-password", s.forgotPassword)
	r.Post("/reset-password", s.resetPassword)

	r.Get("/oauth/{provider}", s.oauthStart)
	r.Get("/oauth/{provider}/callback", s.oauthCallback)

	return r
}

func (s *Service) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeErrorCode(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return false
	}
	return true
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (s *Service) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}

	identity, err := s.authn.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"identity": toIdentityPayload(identity),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.authn.AuthenticatePassword(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeResult(w, result)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// forgotPassword answers identically for known and unknown emails; only
// malformed input is distinguishable.
func (s *Service) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !s.decode(w, r, &req) {
		return
	}

	if _, err := s.resets.RequestReset(r.Context(), req.Email); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusAccepted, messagePayload{
		Message: "If that email is registered, a reset link has been sent.",
	})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (s *Service) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !s.decode(w, r, &req) {
		return
	}

	identity, err := s.resets.ConfirmReset(r.Context(), req.Token, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Password updated.",
		"identity": toIdentityPayload(identity),
	})
}
