package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"
	"github.com/tourhub-io/tourhub-backend/pkg/logger"
	"github.com/tourhub-io/tourhub-backend/pkg/types"
)

// Writer renders envelopes and translates errors. DevMode controls whether
// unclassified errors leak their chain to the client.
type Writer struct {
	Logger  *logger.Logger
	DevMode bool
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// WriteList wraps a page of results with its row count.
func WriteList(w http.ResponseWriter, results int, data any) {
	writeJSON(w, http.StatusOK, types.ListEnvelope{Results: results, Data: data})
}

// WriteError funnels every handler error through one translator. Operational
// errors surface their message; unclassified ones return a generic message in
// production and the full chain in dev.
func (wr Writer) WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	if pkgerrors.Operational(typed) && typed.Message() != "" {
		msg = typed.Message()
	}

	payload := types.ErrorEnvelope{
		Error: types.APIError{
			Code:    string(typed.Code()),
			Message: msg,
		},
	}

	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Error.Details = details
		}
	}

	dump := pkgerrors.Dump(err)
	if wr.DevMode {
		payload.Error.Message = typed.Message()
		payload.Error.Details = dump
	}

	if wr.Logger != nil {
		fields := map[string]any{
			"error":         dump.TopMessage,
			"error_code":    dump.Code,
			"operational":   dump.Operational,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
		}
		ctx = wr.Logger.WithFields(ctx, fields)
		wr.Logger.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
