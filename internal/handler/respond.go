package handler

import (
	"encoding/json"
	"net/http"

	"github.com/postdeck/postdeck-go/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) model.AuthResponse {
	return model.AuthResponse{Success: false, Message: msg}
}
