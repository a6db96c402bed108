package leadform

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silentequity/lead-intake/internal/leads"
)

func TestClientSubmit_EndToEnd(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/save-lead", leads.NewHandler(repo, nil).SaveLead)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	form, err := FormFor("coc")
	require.NoError(t, err)

	redirect, err := NewClient(srv.URL, nil).Submit(context.Background(), form, validCommon())
	require.NoError(t, err)

	u, err := url.Parse(redirect)
	require.NoError(t, err)
	assert.Equal(t, "/checkout-razorpay", u.Path)
	assert.Equal(t, "coc", u.Query().Get("service"))
	assert.Equal(t, "$249", u.Query().Get("price"))

	stored := repo.List()
	require.Len(t, stored, 1)
	assert.Equal(t, "coc", stored[0].Service)
	assert.Equal(t, "$249", stored[0].Price)
	assert.Equal(t, "Jane Doe", stored[0].FullName)
	assert.Equal(t, "jane@example.com", stored[0].Email)
}

func TestClientSubmit_SendsJSONPayload(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/save-lead", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	form, err := FormFor("discord")
	require.NoError(t, err)

	redirect, err := NewClient(srv.URL+"/", nil).
		WithCheckoutBase("https://pay.example/checkout?ref=site").
		Submit(context.Background(), form, map[string]string{"discordTag": "jane#1"})
	require.NoError(t, err)

	assert.Equal(t, "jane#1", got["discordTag"])
	assert.Equal(t, "discord", got["service"])

	u, err := url.Parse(redirect)
	require.NoError(t, err)
	assert.Equal(t, "pay.example", u.Host)
	assert.Equal(t, "site", u.Query().Get("ref"))
	assert.Equal(t, "$13", u.Query().Get("price"))
}

func TestClientSubmit_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"ok":false,"error":"Save failed"}`))
	}))
	defer srv.Close()

	form, err := FormFor("edge")
	require.NoError(t, err)

	redirect, err := NewClient(srv.URL, nil).Submit(context.Background(), form, validCommon())
	assert.Empty(t, redirect)
	assert.True(t, errors.Is(err, ErrSubmissionFailed))
	assert.Contains(t, err.Error(), "500")
}

func TestClientSubmit_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	form, err := FormFor("live")
	require.NoError(t, err)

	_, err = NewClient(base, nil).Submit(context.Background(), form, nil)
	assert.True(t, errors.Is(err, ErrSubmissionFailed))
}
