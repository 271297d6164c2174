package controllers

import (
	"net/http"
	"time"

	"github.com/tourhub-io/tourhub-backend/api/responses"
	"github.com/tourhub-io/tourhub-backend/api/validators"
	authsvc "github.com/tourhub-io/tourhub-backend/internal/auth"
	resetsvc "github.com/tourhub-io/tourhub-backend/internal/passwordreset"
	"github.com/tourhub-io/tourhub-backend/pkg/config"
	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
)

const tokenCookieName = "jwt"

// setTokenCookie mirrors the bearer token into an httpOnly cookie so browser
// clients stay authenticated without storing the token in script-readable state.
func setTokenCookie(w http.ResponseWriter, cfg config.JWTConfig, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(cfg.CookieExpiry()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Signup registers a new account and logs it in immediately.
func Signup(svc authsvc.Service, jwtCfg config.JWTConfig, secureCookies bool, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload authsvc.SignupRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		resp, err := svc.Signup(r.Context(), payload)
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		setTokenCookie(w, jwtCfg, resp.Token, secureCookies)
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

// Login authenticates a credential pair and issues a token.
func Login(svc authsvc.Service, jwtCfg config.JWTConfig, secureCookies bool, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload authsvc.LoginRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		resp, err := svc.Login(r.Context(), payload)
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		setTokenCookie(w, jwtCfg, resp.Token, secureCookies)
		responses.WriteSuccess(w, resp)
	}
}

// Logout clears the token cookie. Stateless tokens stay valid until expiry,
// so this only signs out cookie-based browser sessions.
func Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     tokenCookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			HttpOnly: true,
		})
		responses.WriteSuccess(w, map[string]string{"status": "logged out"})
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword issues a reset token and emails it to the account owner.
func ForgotPassword(svc resetsvc.Service, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload forgotPasswordRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		if err := svc.Issue(r.Context(), payload.Email); err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "token sent to email"})
	}
}

// ResetPassword redeems a reset token, rotates the credential, and logs the
// account in with a fresh token.
func ResetPassword(svc resetsvc.Service, jwtCfg config.JWTConfig, secureCookies bool, wr responses.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawToken := chi.URLParam(r, "token")
		if rawToken == "" {
			wr.WriteError(r.Context(), w, pkgerrors.New(pkgerrors.CodeValidation, "token is invalid or has expired"))
			return
		}

		var payload resetsvc.RedeemRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		resp, err := svc.Redeem(r.Context(), rawToken, payload)
		if err != nil {
			wr.WriteError(r.Context(), w, err)
			return
		}

		setTokenCookie(w, jwtCfg, resp.Token, secureCookies)
		responses.WriteSuccess(w, resp)
	}
}
