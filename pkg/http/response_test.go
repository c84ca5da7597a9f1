package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.JSONSerializer = NewSonicSerializer()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPartialStatus(t *testing.T) {
	assert.Equal(t, http.StatusMultiStatus, PartialStatus(true))
	assert.Equal(t, http.StatusOK, PartialStatus(false))

	c, rec := newContext("/")
	require.NoError(t, DataResponse(c, PartialStatus(true), map[string]string{"status": "partial"}))
	assert.Equal(t, http.StatusMultiStatus, rec.Code)

	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusMultiStatus, body.Status)
	assert.Equal(t, "Multi-Status", body.Message)
}

func TestAppErrorResponse(t *testing.T) {
	c, rec := newContext("/")
	require.NoError(t, AppErrorResponse(c, NotFoundErrorf("unsupported news source: %s", "foo")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeNotFound)

	c, rec = newContext("/")
	require.NoError(t, AppErrorResponse(c, errors.New("plain")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestEncodeEnvelopeMatchesDataResponse(t *testing.T) {
	body, err := EncodeEnvelope(http.StatusOK, map[string]int{"n": 1})
	require.NoError(t, err)

	c, rec := newContext("/")
	require.NoError(t, DataResponse(c, http.StatusOK, map[string]int{"n": 1}))
	assert.JSONEq(t, rec.Body.String(), string(body))
}

type sampleRequest struct {
	Symbol string `query:"symbol" validate:"required,alphanum"`
	Limit  int    `query:"limit" default:"200" validate:"gte=1,lte=1000"`
	Mode   string `query:"mode" default:"aggregate" validate:"oneof=aggregate single"`
}

func TestReadAndValidateRequest(t *testing.T) {
	c, _ := newContext("/?symbol=BTCUSDT")
	req := &sampleRequest{}
	assert.Nil(t, ReadAndValidateRequest(c, req))
	assert.Equal(t, 200, req.Limit)
	assert.Equal(t, "aggregate", req.Mode)

	c, _ = newContext("/?limit=5000&mode=bulk")
	verr := ReadAndValidateRequest(c, &sampleRequest{})
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 3)
	assert.Equal(t, "symbol", errs[0].Field)
	assert.Equal(t, "symbol is required", errs[0].Message)
	assert.Equal(t, "limit", errs[1].Field)
	assert.Equal(t, "mode must be one of: aggregate, single", errs[2].Message)

	c, _ = newContext("/?symbol=BTC&limit=abc")
	errs, ok = ReadAndValidateRequest(c, &sampleRequest{}).([]ValidationError)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidParameter, errs[0].Code)
}
