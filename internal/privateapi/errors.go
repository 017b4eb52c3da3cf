package privateapi

import (
	"encoding/json"
	"net/http"
)

// Client-facing messages. Unknown client and wrong secret share msgInvalidCredentials
// on purpose: the login response must not reveal which half failed.
const (
	msgBodyNotJSON         = "Request body must be JSON"
	msgMissingCredentials  = "client_id and client_secret are required"
	msgInvalidCredentials  = "Invalid credentials"
	msgClientInactive      = "Client is inactive"
	msgMissingAuthHeader   = "Authorization header missing or invalid"
	msgTokenExpired        = "Token has expired"
	msgTokenInvalid        = "Invalid token"
	msgUnauthorized        = "Unauthorized"
	msgMissingConfigID     = "config_id is required"
	msgConfigIDNotInteger  = "config_id must be an integer"
	msgConfigNotFound      = "Configuration not found"
	msgConfigNotPrivate    = "Configuration is not private"
	msgConfigNotAssociated = "Configuration is not associated with this empresa"
	msgEmbedFailed         = "Error generating report embed token"
	msgInternal            = "Internal server error"
	msgTooManyAttempts     = "Too many login attempts, try again later"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, map[string]string{"error": msg}, status)
}
