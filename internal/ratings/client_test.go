package ratings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByISBN(t *testing.T) {
	t.Run("successful lookup", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/review_counts.json", r.URL.Path)
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			assert.Equal(t, "9781632168146", r.URL.Query().Get("isbns"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"books": [
					{
						"isbn": "1632168146",
						"ratings_count": 28,
						"average_rating": "4.04"
					}
				]
			}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-key", 5*time.Second)
		result, err := client.ByISBN(context.Background(), "9781632168146")

		require.NoError(t, err)
		assert.Equal(t, 28, result.Count)
		assert.InDelta(t, 4.04, result.Average, 0.0001)
	})

	t.Run("ISBN with hyphens is normalized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "9781632168146", r.URL.Query().Get("isbns"))
			_, _ = w.Write([]byte(`{"books": [{"ratings_count": 3, "average_rating": "3.50"}]}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-key", 5*time.Second)
		result, err := client.ByISBN(context.Background(), "978-1-63216-814-6")

		require.NoError(t, err)
		assert.Equal(t, 3, result.Count)
	})

	t.Run("invalid ISBN", func(t *testing.T) {
		client := NewClient("http://example.invalid", "test-key", 5*time.Second)

		_, err := client.ByISBN(context.Background(), "not-an-isbn")
		assert.Error(t, err)
	})

	t.Run("non-200 response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-key", 5*time.Second)

		_, err := client.ByISBN(context.Background(), "9781632168146")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status")
	})

	t.Run("empty books array", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"books": []}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-key", 5*time.Second)

		_, err := client.ByISBN(context.Background(), "9781632168146")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no rating data")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"books": [`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-key", 5*time.Second)

		_, err := client.ByISBN(context.Background(), "9781632168146")
		assert.Error(t, err)
	})

	t.Run("unparseable average rating", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"books": [{"ratings_count": 5, "average_rating": "n/a"}]}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, "test-key", 5*time.Second)

		_, err := client.ByISBN(context.Background(), "9781632168146")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse average rating")
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"books": []}`))
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		client := NewClient(server.URL, "test-key", 5*time.Second)

		_, err := client.ByISBN(ctx, "9781632168146")
		assert.Error(t, err)
	})
}

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain ISBN-13", "9781632168146", "9781632168146"},
		{"plain ISBN-10", "1632168146", "1632168146"},
		{"hyphenated", "978-1-63216-814-6", "9781632168146"},
		{"with spaces", "978 1632168146", "9781632168146"},
		{"too short", "12345", ""},
		{"too long", "97816321681467890", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeISBN(tt.input))
		})
	}
}
