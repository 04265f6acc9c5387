package httphandler

import (
	"mime"
	"net/http"
	"slices"
)

// AllowMediaTypes rejects requests with a body of any other media type.
func AllowMediaTypes(next http.Handler, mediaTypes ...string) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || !slices.Contains(mediaTypes, mediaType) {
			http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

// AllowJSONAndForms accepts JSON bodies and urlencoded forms.
func AllowJSONAndForms(next http.Handler) http.Handler {
	return AllowMediaTypes(
		next, "application/json", "application/x-www-form-urlencoded",
	)
}
