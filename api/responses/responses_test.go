package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"
	"github.com/tourhub-io/tourhub-backend/pkg/types"
)

func TestWriteErrorOperationalMessageSurfaces(t *testing.T) {
	rec := httptest.NewRecorder()
	wr := Writer{}

	wr.WriteError(context.Background(), rec, pkgerrors.New(pkgerrors.CodeNotFound, "no tour found with that id"))

	assert.Equal(t, 404, rec.Code)
	var body types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "no tour found with that id", body.Error.Message)
}

func TestWriteErrorInternalHidesDetailInProd(t *testing.T) {
	rec := httptest.NewRecorder()
	wr := Writer{}

	cause := errors.New("pq: connection refused")
	wr.WriteError(context.Background(), rec, pkgerrors.Wrap(pkgerrors.CodeInternal, cause, "load tour"))

	assert.Equal(t, 500, rec.Code)
	var body types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "something went wrong", body.Error.Message)
	assert.Nil(t, body.Error.Details)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestWriteErrorDevModeExposesChain(t *testing.T) {
	rec := httptest.NewRecorder()
	wr := Writer{DevMode: true}

	cause := errors.New("pq: connection refused")
	wr.WriteError(context.Background(), rec, pkgerrors.Wrap(pkgerrors.CodeInternal, cause, "load tour"))

	assert.Equal(t, 500, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestWriteErrorUnclassified(t *testing.T) {
	rec := httptest.NewRecorder()
	wr := Writer{}

	wr.WriteError(context.Background(), rec, errors.New("boom"))

	assert.Equal(t, 500, rec.Code)
	var body types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, "something went wrong", body.Error.Message)
}

func TestWriteErrorBlockedDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	wr := Writer{}

	err := pkgerrors.New(pkgerrors.CodeAccountBlocked, "account temporarily blocked after too many failed login attempts, try again in an hour").
		WithDetails(map[string]any{"blocked_until": "2026-03-01T13:00:00Z"})
	wr.WriteError(context.Background(), rec, err)

	assert.Equal(t, 401, rec.Code)
	assert.Contains(t, rec.Body.String(), "blocked_until")
	assert.Contains(t, rec.Body.String(), "try again in an hour")
}

func TestWriteList(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteList(rec, 2, []string{"a", "b"})

	var body types.ListEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Results)
}
