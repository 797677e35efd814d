package handler

import (
	"fmt"
	"net/http"

	"authgate/internal/api/middleware"
	"authgate/internal/common"
)

// Home is the protected probe route. It must sit behind middleware.Authenticator.
func Home(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, common.MsgNoToken)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{
		Message: fmt.Sprintf("Welcome %s! This is the protected home route.", identity.Username),
	})
}
