package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, res *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &env))
	return env
}

func TestSuccessEnvelope(t *testing.T) {
	res := httptest.NewRecorder()
	Success(res, http.StatusCreated, "created", map[string]string{"id": "42"})

	assert.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "application/json", res.Header().Get("Content-Type"))

	env := decode(t, res)
	assert.True(t, env.Success)
	assert.Equal(t, "created", env.Message)
	assert.Nil(t, env.Error)
	require.NotNil(t, env.Data)
}

func TestFailEnvelope(t *testing.T) {
	res := httptest.NewRecorder()
	Fail(res, http.StatusBadRequest, "nope", nil)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	env := decode(t, res)
	assert.False(t, env.Success)
	assert.Equal(t, "nope", env.Message)
	assert.Nil(t, env.Data)
}

func TestBadRequestCarriesReasonInDetails(t *testing.T) {
	res := httptest.NewRecorder()
	BadRequest(res, "user already exists")

	assert.Equal(t, http.StatusBadRequest, res.Code)
	env := decode(t, res)
	assert.False(t, env.Success)
	assert.Equal(t, "Bad Request", env.Message)
	details, ok := env.Error.([]any)
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "user already exists", details[0])
}

func TestInternalHidesCause(t *testing.T) {
	res := httptest.NewRecorder()
	Internal(res)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "Internal server error", decode(t, res).Message)
}

func TestValidationFailedListsFields(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required"`
	}
	err := validator.New().Struct(form{Email: "not-an-email"})
	require.Error(t, err)

	res := httptest.NewRecorder()
	ValidationFailed(res, err)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	env := decode(t, res)
	assert.False(t, env.Success)
	details, ok := env.Error.([]any)
	require.True(t, ok)
	assert.Len(t, details, 2)
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ada"}`))
	var body struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeJSON(req, &body))
	assert.Equal(t, "ada", body.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{broken`))
	assert.Error(t, DecodeJSON(req, &body))
}
