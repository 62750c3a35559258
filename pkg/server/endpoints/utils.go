package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// ErrorsResponse carries user-facing failure messages
type ErrorsResponse struct {
	Errors []string `json:"errors"`
}

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithErrors(w http.ResponseWriter, code int, messages ...string) {
	respondWithJSON(w, code, ErrorsResponse{Errors: messages})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}

// faultMessages returns the messages of a validation failure, or the error
// text for anything else
func faultMessages(err error) []string {
	if verr, ok := store.AsValidation(err); ok {
		return verr.Messages
	}
	return []string{err.Error()}
}
