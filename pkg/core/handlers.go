// pkg/core/handlers.go
package core

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	httpx "github.com/joeydtaylor/steeze-fn/pkg/transport/httpx"
	"github.com/joeydtaylor/steeze-fn/pkg/unit"
)

func runHandler(d BuildDeps, maxBody int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := httpx.URLParam(r, "name")

		var src io.Reader = r.Body
		if maxBody > 0 {
			src = http.MaxBytesReader(w, r.Body, maxBody)
		}
		body, err := io.ReadAll(src)
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				writeDetail(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("payload exceeds %d bytes", maxBody))
				return
			}
			writeDetail(w, http.StatusBadRequest, "read payload: "+err.Error())
			return
		}

		var payload any
		if err := d.Codec.Unmarshal(body, &payload); err != nil {
			writeDetail(w, http.StatusBadRequest, "invalid JSON payload: "+err.Error())
			return
		}

		out, err := d.Dispatcher.Invoke(r.Context(), name, payload)
		if err != nil {
			status, msg := errorDetail(name, err)
			writeDetail(w, status, msg)
			return
		}

		raw, err := d.Codec.Marshal(out)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "encode result: "+err.Error())
			return
		}
		writeJSON(w, d.Codec.ContentType(), raw, http.StatusOK)
	}
}

func listHandler(d BuildDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := d.Dispatcher.List(r.Context())
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		raw, err := d.Codec.Marshal(struct {
			Functions []string `json:"functions"`
		}{names})
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, d.Codec.ContentType(), raw, http.StatusOK)
	}
}

// errorDetail maps a dispatch error to its status code and detail message.
func errorDetail(name string, err error) (int, string) {
	switch {
	case errors.Is(err, unit.ErrNotFound):
		return http.StatusNotFound, fmt.Sprintf("Function '%s' not found", name)
	case errors.Is(err, unit.ErrContractViolation):
		return http.StatusInternalServerError, fmt.Sprintf("Function '%s' must define a 'run(data)' method", name)
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
