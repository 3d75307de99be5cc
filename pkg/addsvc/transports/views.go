package transports

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

//go:embed templates
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type indexView struct {
	Title  string
	Action string
}

// IndexHandler renders the add form, which posts num1 and num2 to /add.
func IndexHandler(logger log.Logger) http.Handler {
	view := indexView{Title: "Number Adder", Action: "add"}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := indexTemplate.Execute(&buf, view); err != nil {
			level.Error(logger).Log("view", "index", "err", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		buf.WriteTo(w)
	})
}
