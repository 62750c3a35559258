package endpoints

import (
	"bytes"
	_ "embed"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/idm-admin/pkg/server"
)

//go:embed docs/api.md
var apiReference []byte

const docsTemplate = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Identity Admin API</title></head>
<body>
`

// RegisterDocsEndpoint serves the API reference as HTML
func RegisterDocsEndpoint(s *server.Server) {
	s.Router.HandleFunc("/docs", handleDocs(s.Logger)).Methods("GET")
}

var renderDocs = sync.OnceValues(func() ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var buf bytes.Buffer
	buf.WriteString(docsTemplate)
	if err := md.Convert(apiReference, &buf); err != nil {
		return nil, err
	}
	buf.WriteString("</body></html>\n")
	return buf.Bytes(), nil
})

func handleDocs(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := renderDocs()
		if err != nil {
			logger.Error("failed to render API reference", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "failed to render API reference")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(page)
	}
}
