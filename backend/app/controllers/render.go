package controllers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"postboard/backend/app/services"
	"postboard/backend/app/view"
	"postboard/backend/global"
	"strings"
)

const defaultMaxUpload = 10 << 20

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func render(v *view.Renderer, w http.ResponseWriter, status int, page string, data any) {
	if err := v.Render(w, status, page, data); err != nil {
		global.Logger.Error().Err(err).Str("page", page).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// statusFor maps a service error to the status code of the re-rendered form.
func statusFor(err error) int {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

var errTooLarge = errors.New("Upload is too large")

// parseForm accepts both urlencoded and multipart bodies no larger than maxBytes.
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUpload
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		return r.ParseMultipartForm(maxBytes)
	}
	return r.ParseForm()
}

// formError turns a parseForm failure into the status and message of the re-rendered form.
func formError(err error) (int, []string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, []string{errTooLarge.Error()}
	}
	return http.StatusBadRequest, []string{errBadForm.Error()}
}

func cleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
