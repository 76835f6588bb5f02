package x

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = Credentials{
	APIKey:       "key",
	APISecret:    "key-secret",
	AccessToken:  "token",
	AccessSecret: "token-secret",
}

func TestCredentials_Complete(t *testing.T) {
	assert.True(t, testCreds.Complete())

	partial := testCreds
	partial.AccessSecret = ""
	assert.False(t, partial.Complete())
}

func TestCreateTweet_Success(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/2/tweets", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"id": "1790000000000000001", "text": "hello"},
		})
	}))
	defer srv.Close()

	client := New(testCreds).WithBaseURL(srv.URL)
	tweet, err := client.CreateTweet(t.Context(), "hello")
	require.NoError(t, err)

	assert.Equal(t, "1790000000000000001", tweet.ID)
	assert.Equal(t, "https://x.com/i/status/1790000000000000001", tweet.URL())
	assert.Contains(t, gotAuth, `OAuth oauth_consumer_key="key"`)
	assert.JSONEq(t, `{"text":"hello"}`, gotBody)
}

func TestCreateTweet_Forbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"title":  "Forbidden",
			"detail": "Your client app is not configured with the appropriate permissions",
		})
	}))
	defer srv.Close()

	client := New(testCreds).WithBaseURL(srv.URL)
	_, err := client.CreateTweet(t.Context(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "appropriate permissions")
}

func TestCreateTweet_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	client := New(testCreds).WithBaseURL(srv.URL)
	_, err := client.CreateTweet(t.Context(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing tweet id")
}

func TestVerify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/2/users/me", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"id": "42", "name": "Slangcast", "username": "slangcast"},
		})
	}))
	defer srv.Close()

	client := New(testCreds).WithBaseURL(srv.URL)
	user, err := client.Verify(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "slangcast", user.Username)
}

func TestVerify_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"title": "Unauthorized", "detail": "Unauthorized",
		})
	}))
	defer srv.Close()

	client := New(testCreds).WithBaseURL(srv.URL)
	_, err := client.Verify(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestVerify_Unreachable(t *testing.T) {
	client := New(testCreds).WithBaseURL("http://127.0.0.1:1")
	_, err := client.Verify(t.Context())
	assert.Error(t, err)
}
