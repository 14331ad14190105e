package accounts

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"vet-hospital/internal/middleware"
	"vet-hospital/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", signUpHandler(svc))
		ar.Post("/signin", signInHandler(svc))
		ar.Post("/signout", signOutHandler(svc))
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresAt   time.Time       `json:"expires_at"`
	User        accountResponse `json:"user"`
}

// signUpHandler godoc
// @Summary Crear cuenta
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body credentialsRequest true "Email y password (8 a 72 caracteres)"
// @Success 201 {object} accountResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "email ya registrado"
// @Router /auth/signup [post]
func signUpHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		a, err := svc.SignUp(r.Context(), SignUpInput{Email: req.Email, Password: req.Password})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toAccountResponse(a))
	}
}

// signInHandler godoc
// @Summary Iniciar sesión
// @Description Devuelve un bearer token. El primer usuario que inicia sesión queda como superadmin.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body credentialsRequest true "Credenciales"
// @Success 200 {object} sessionResponse
// @Failure 401 {object} map[string]string
// @Router /auth/signin [post]
func signInHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		sess, err := svc.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				httpx.WriteMessage(w, http.StatusUnauthorized, err.Error())
				return
			}
			httpx.WriteError(w, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, sessionResponse{
			AccessToken: sess.Token,
			TokenType:   "Bearer",
			ExpiresAt:   sess.ExpiresAt,
			User:        toAccountResponse(sess.Account),
		})
	}
}

func signOutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if err := svc.SignOut(r.Context(), claims); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toAccountResponse(a Account) accountResponse {
	return accountResponse{ID: a.ID, Email: a.Email, CreatedAt: a.CreatedAt}
}
