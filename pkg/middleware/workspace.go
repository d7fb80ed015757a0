package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/folioworks/vitae/pkg/composables"
	"github.com/folioworks/vitae/pkg/httpapi"
)

// ResolveWorkspace reads the workspace id from the given header and scopes the
// request context to it. Authentication happens upstream; this is the seam
// where the resolved workspace enters the application.
func ResolveWorkspace(header string) mux.MiddlewareFunc {
	if header == "" {
		header = "X-Workspace-ID"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(header))
			if raw == "" {
				_ = httpapi.WriteError(w, r, http.StatusBadRequest, "WORKSPACE_REQUIRED", "missing "+header+" header")
				return
			}
			workspaceID, err := uuid.Parse(raw)
			if err != nil {
				_ = httpapi.WriteError(w, r, http.StatusBadRequest, "WORKSPACE_INVALID", "invalid workspace id")
				return
			}
			ctx := composables.WithWorkspaceID(r.Context(), workspaceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
