package account

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyphalab/authkit/pkg/auth"
)

const stateCookieName = "oauth_state"

// oauthStart redirects to the provider's authorization page. The CSRF
// state travels in a short-lived HttpOnly cookie and is checked on the
// callback.
func (s *Service) oauthStart(w http.ResponseWriter, r *http.Request) {
	adapter, ok := s.providers[chi.URLParam(r, "provider")]
	if !ok {
		s.writeError(w, auth.ErrUnknownProvider)
		return
	}

	state, err := auth.GenerateState()
	if err != nil {
		s.writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(s.cfg.StateTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.SecureStateCookie,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, adapter.AuthURL(state), http.StatusFound)
}

func (s *Service) oauthCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	adapter, ok := s.providers[provider]
	if !ok {
		s.writeError(w, auth.ErrUnknownProvider)
		return
	}

	if errCode := r.URL.Query().Get("error"); errCode != "" {
		s.writeErrorCode(w, http.StatusBadRequest, "provider_error", errCode)
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookieName)
	if err != nil || state == "" ||
		subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		s.writeErrorCode(w, http.StatusBadRequest, "invalid_state", "oauth state mismatch")
		return
	}

	// The state is single-use; drop the cookie before anything can fail.
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.SecureStateCookie,
		SameSite: http.SameSiteLaxMode,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		s.writeError(w, auth.ErrInvalidCode)
		return
	}

	profile, err := adapter.ResolveProfile(r.Context(), code)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.authn.AuthenticateOAuth(r.Context(), provider, profile)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeResult(w, result)
}
