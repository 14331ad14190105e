package rbac

import (
	"net/http"
	"strings"

	"vet-hospital/internal/middleware"
	"vet-hospital/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/me", meHandler(svc))
	r.Get("/me/menu", menuHandler(svc))
	r.Post("/bootstrap/superadmin", bootstrapHandler(svc))

	r.Route("/roles", func(rr chi.Router) {
		rr.With(svc.Require(ModuleRoles, PermView)).Get("/", matrixHandler(svc))
		rr.With(svc.Require(ModuleRoles, PermEdit)).Put("/{role}/permissions", setRoleGrantsHandler(svc))
		rr.With(svc.Require(ModuleRoles, PermView)).Get("/{role}/users", usersWithRoleHandler(svc))
	})

	r.Route("/users/{userID}/roles", func(ur chi.Router) {
		ur.With(svc.Require(ModuleRoles, PermView)).Get("/", userRolesHandler(svc))
		ur.With(svc.Require(ModuleRoles, PermEdit)).Post("/", assignRoleHandler(svc))
		ur.With(svc.Require(ModuleRoles, PermEdit)).Delete("/{role}", removeRoleHandler(svc))
	})
}

type meResponse struct {
	UserID      string             `json:"user_id"`
	Email       string             `json:"email,omitempty"`
	Roles       []Role             `json:"roles"`
	All         bool               `json:"all"`
	Permissions []ModulePermission `json:"permissions"`
}

type setRoleGrantsRequest struct {
	Permissions []ModulePermission `json:"permissions"`
}

type assignRoleRequest struct {
	Role Role `json:"role"`
}

type userRolesResponse struct {
	UserID string `json:"user_id"`
	Roles  []Role `json:"roles"`
}

// meHandler godoc
// @Summary Usuario actual y sus permisos
// @Tags rbac
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Param Authorization header string false "Bearer token"
// @Success 200 {object} meResponse
// @Failure 401 {object} map[string]string
// @Router /me [get]
func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		set, err := svc.Resolve(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		roles := set.Roles
		if roles == nil {
			roles = []Role{}
		}
		httpx.WriteJSON(w, http.StatusOK, meResponse{
			UserID:      claims.UserID,
			Email:       claims.Email,
			Roles:       roles,
			All:         set.All,
			Permissions: set.Granted(),
		})
	}
}

// menuHandler godoc
// @Summary Menú de navegación visible para el usuario
// @Tags rbac
// @Produce json
// @Success 200 {array} MenuItem
// @Router /me/menu [get]
func menuHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		// Sin permisos resueltos el menú queda vacío.
		set, _ := svc.Resolve(r.Context(), claims.UserID)
		httpx.WriteJSON(w, http.StatusOK, Menu(set))
	}
}

func bootstrapHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		assigned, err := svc.EnsureFirstSuperadmin(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"assigned": assigned})
	}
}

// matrixHandler godoc
// @Summary Matriz de permisos por rol
// @Tags rbac
// @Produce json
// @Success 200 {array} RoleGrants
// @Failure 403 {object} map[string]string
// @Router /roles [get]
func matrixHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := svc.Matrix(r.Context())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func setRoleGrantsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setRoleGrantsRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		role := Role(chi.URLParam(r, "role"))
		out, err := svc.SetRoleGrants(r.Context(), role, req.Permissions)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, RoleGrants{Role: role, Grants: out})
	}
}

func usersWithRoleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := svc.UsersWithRole(r.Context(), Role(chi.URLParam(r, "role")))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ids)
	}
}

func userRolesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		set, err := svc.Resolve(r.Context(), userID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		roles := set.Roles
		if roles == nil {
			roles = []Role{}
		}
		httpx.WriteJSON(w, http.StatusOK, userRolesResponse{UserID: userID, Roles: roles})
	}
}

// assignRoleHandler godoc
// @Summary Asignar rol a un usuario
// @Description Solo admin/superadmin asignan admin; solo superadmin asigna superadmin.
// @Tags rbac
// @Accept json
// @Produce json
// @Param userID path string true "ID del usuario"
// @Param payload body assignRoleRequest true "Rol"
// @Success 200 {object} userRolesResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /users/{userID}/roles [post]
func assignRoleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assignRoleRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, err)
			return
		}

		caller, _ := FromContext(r.Context())
		userID := chi.URLParam(r, "userID")
		if err := svc.AssignRole(r.Context(), caller, userID, req.Role); err != nil {
			httpx.WriteError(w, err)
			return
		}
		userRolesHandler(svc)(w, r)
	}
}

func removeRoleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := FromContext(r.Context())
		err := svc.RemoveRole(r.Context(), caller, chi.URLParam(r, "userID"), Role(chi.URLParam(r, "role")))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
