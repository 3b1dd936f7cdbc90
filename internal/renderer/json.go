package renderer

import (
	"encoding/json"
	"io"

	"trustcheck/pkg/models"
)

type JSONRenderer struct {
	Indent bool
}

func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{Indent: true}
}

func NewJSONRendererCompact() *JSONRenderer {
	return &JSONRenderer{Indent: false}
}

func (j *JSONRenderer) RenderDNSSEC(w io.Writer, result *models.DnssecResult) error {
	if result == nil {
		return j.encode(w, map[string]string{"error": "result cannot be nil"})
	}
	return j.encode(w, result)
}

func (j *JSONRenderer) RenderSSL(w io.Writer, result *models.SslCheckResult) error {
	if result == nil {
		return j.encode(w, map[string]string{"error": "result cannot be nil"})
	}
	return j.encode(w, result)
}

func (j *JSONRenderer) encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	if j.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
