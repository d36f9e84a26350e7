package templates

import (
	_ "embed"
	"net/http"
	"strings"
)

//go:embed home.html
var homeHTML string

// WriteHomeHTML serves the caller/viewer page with the build commit substituted
func WriteHomeHTML(w http.ResponseWriter, commit string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(strings.ReplaceAll(homeHTML, "{{COMMIT}}", commit)))
}
