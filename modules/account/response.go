package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hyphalab/authkit/pkg/auth"
	"github.com/hyphalab/authkit/pkg/validator"
)

// identityPayload is the JSON shape of an identity in responses. The
// password hash never leaves the server.
type identityPayload struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name,omitempty"`
	Avatar        string    `json:"avatar,omitempty"`
	LinkedMethods []string  `json:"linked_methods"`
	CreatedAt     time.Time `json:"created_at"`
}

func toIdentityPayload(i *auth.Identity) identityPayload {
	return identityPayload{
		ID:            i.ID.String(),
		Email:         i.Email,
		Name:          i.Name,
		Avatar:        i.Avatar,
		LinkedMethods: i.LinkedMethods,
		CreatedAt:     i.CreatedAt,
	}
}

type sessionPayload struct {
	SessionToken string          `json:"session_token"`
	Identity     identityPayload `json:"identity"`
}

type messagePayload struct {
	Message string `json:"message"`
}

type errorDetail struct {
	Code          string            `json:"code"`
	Message       string            `json:"message,omitempty"`
	OwningMethods []string          `json:"owning_methods,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

type errorPayload struct {
	Error errorDetail `json:"error"`
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Service) writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, errorPayload{Error: errorDetail{Code: code, Message: message}})
}

// writeError maps domain errors onto HTTP statuses. Validation failures
// become 422 with per-field details; anything unrecognized is a 500 with
// no internals leaked.
func (s *Service) writeError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, ve := range verrs {
			if _, ok := details[ve.Field]; !ok {
				details[ve.Field] = ve.Message
			}
		}
		s.writeJSON(w, http.StatusUnprocessableEntity, errorPayload{Error: errorDetail{
			Code:    "validation_error",
			Details: details,
		}})
		return
	}

	switch {
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		s.writeErrorCode(w, http.StatusConflict, "email_taken", "an account with this email already exists")
	case errors.Is(err, auth.ErrTokenInvalid):
		s.writeErrorCode(w, http.StatusBadRequest, "invalid_token", "the reset token is invalid or already used")
	case errors.Is(err, auth.ErrTokenExpired):
		s.writeErrorCode(w, http.StatusBadRequest, "token_expired", "the reset token has expired")
	case errors.Is(err, auth.ErrUnknownProvider):
		s.writeErrorCode(w, http.StatusNotFound, "unknown_provider", "unknown oauth provider")
	case errors.Is(err, auth.ErrInvalidCode):
		s.writeErrorCode(w, http.StatusBadRequest, "invalid_code", "the authorization code was rejected")
	case errors.Is(err, auth.ErrNoPrimaryEmail), errors.Is(err, auth.ErrUnverifiedEmail):
		s.writeErrorCode(w, http.StatusBadRequest, "unusable_email", "the provider did not supply a verified email")
	default:
		s.logger.Error("request failed", "error", err)
		s.writeErrorCode(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}

// writeResult renders an AuthResult: Allow becomes a session, Deny a
// generic 401, Conflict a 409 naming the owning methods so the client can
// point the user at the right sign-in path.
func (s *Service) writeResult(w http.ResponseWriter, result auth.AuthResult) {
	switch {
	case result.Allowed():
		token, err := s.sessions.Issue(result)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, sessionPayload{
			SessionToken: token,
			Identity:     toIdentityPayload(result.Identity()),
		})
	case result.Conflicted():
		s.writeJSON(w, http.StatusConflict, errorPayload{Error: errorDetail{
			Code:          "method_conflict",
			Message:       "this email is registered with a different sign-in method",
			OwningMethods: result.OwningMethods(),
		}})
	default:
		s.writeErrorCode(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	}
}
