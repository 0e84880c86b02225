package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func loginWith(t *testing.T, service Service, body string) *http.Response {
	t.Helper()

	handler := NewHandler(service)
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.HandleLogin(w, req)
	return w.Result()
}

func TestHandleLogin_Success(t *testing.T) {
	service := NewAuthService(newTestStore(t, "secret123"), newTestJWTManager(time.Hour))

	res := loginWith(t, service, `{"email":"john@example.com","password":"secret123"}`)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var response map[string]string
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.NotEmpty(t, response["token"])
}

func TestHandleLogin_BadCredentials(t *testing.T) {
	service := NewAuthService(newTestStore(t, "secret123"), newTestJWTManager(time.Hour))

	res := loginWith(t, service, `{"email":"john@example.com","password":"wrong"}`)
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "bad credentials", response["message"])
}

func TestHandleLogin_EmptyFieldsAggregated(t *testing.T) {
	service := NewAuthService(newTestStore(t, "secret123"), newTestJWTManager(time.Hour))

	res := loginWith(t, service, `{}`)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var response struct {
		Messages []string `json:"messages"`
	}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Len(t, response.Messages, 2)
}

func TestHandleLogin_MalformedBody(t *testing.T) {
	service := NewAuthService(newTestStore(t, "secret123"), newTestJWTManager(time.Hour))

	res := loginWith(t, service, `{not json`)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
