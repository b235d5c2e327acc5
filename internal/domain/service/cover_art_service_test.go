package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverURL(t *testing.T) {
	s := NewCoverArtService("https://covers.openlibrary.org")

	assert.Equal(t,
		"https://covers.openlibrary.org/b/isbn/9780262033848-M.jpg?default=false",
		s.CoverURL("9780262033848"))
}

func TestHasCover(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/b/isbn/9780262033848-M.jpg" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := NewCoverArtService(server.URL)

	ok, err := s.HasCover(context.Background(), "9780262033848")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasCover(context.Background(), "0000000000")
	require.NoError(t, err)
	assert.False(t, ok)
}
