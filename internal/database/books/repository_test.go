package books

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark/internal/database"
	"github.com/shelfmark/shelfmark/internal/entities"
)

func setupTestRepo(t *testing.T) (*Repository, func()) {
	t.Helper()

	dbPath := "./test_books_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db.DB), cleanup
}

func seedCatalog(t *testing.T, repo *Repository) {
	t.Helper()
	books := []entities.Book{
		{ISBN: "9781632168146", Title: "Krondor: The Betrayal", Author: "Raymond E. Feist", PubYear: 1998},
		{ISBN: "9780441172719", Title: "Dune", Author: "Frank Herbert", PubYear: 1965},
		{ISBN: "9780553213119", Title: "Moby Dick", Author: "Herman Melville", PubYear: 1851},
	}
	require.NoError(t, repo.CreateBatch(books, 100))
}

func TestParseSearchField(t *testing.T) {
	t.Run("accepts whitelisted fields", func(t *testing.T) {
		for _, value := range []string{"isbn", "author", "title", "pub_year"} {
			field, ok := ParseSearchField(value)
			assert.True(t, ok, value)
			assert.Equal(t, SearchField(value), field)
		}
	})

	t.Run("rejects anything else", func(t *testing.T) {
		for _, value := range []string{"", "password_hash", "ISBN", "title; DROP TABLE books"} {
			_, ok := ParseSearchField(value)
			assert.False(t, ok, value)
		}
	})
}

func TestSearch(t *testing.T) {
	t.Run("matches substring case-insensitively", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()
		seedCatalog(t, repo)

		results, err := repo.Search(SearchFieldTitle, "KRONDOR")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Krondor: The Betrayal", results[0].Title)
	})

	t.Run("matches partial author", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()
		seedCatalog(t, repo)

		results, err := repo.Search(SearchFieldAuthor, "herbert")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Dune", results[0].Title)
	})

	t.Run("matches partial year via text cast", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()
		seedCatalog(t, repo)

		results, err := repo.Search(SearchFieldPubYear, "19")
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("results ordered by title", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()
		seedCatalog(t, repo)

		results, err := repo.Search(SearchFieldISBN, "978")
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "Dune", results[0].Title)
		assert.Equal(t, "Krondor: The Betrayal", results[1].Title)
		assert.Equal(t, "Moby Dick", results[2].Title)
	})

	t.Run("no matches yields empty slice", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()
		seedCatalog(t, repo)

		results, err := repo.Search(SearchFieldTitle, "nonexistent")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("invalid field never reaches the database", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		_, err := repo.Search(SearchField("password_hash"), "x")
		assert.ErrorIs(t, err, ErrInvalidSearchField)
	})
}

func TestGetByISBN(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()
		seedCatalog(t, repo)

		book, err := repo.GetByISBN("9780441172719")
		require.NoError(t, err)
		assert.Equal(t, "Dune", book.Title)
	})

	t.Run("surrounding whitespace ignored", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()
		seedCatalog(t, repo)

		book, err := repo.GetByISBN("  9780441172719  ")
		require.NoError(t, err)
		assert.Equal(t, "Dune", book.Title)
	})

	t.Run("unknown isbn yields ErrNotFound", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()
		seedCatalog(t, repo)

		_, err := repo.GetByISBN("9780000000000")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetByID(t *testing.T) {
	t.Run("unknown id yields ErrNotFound", func(t *testing.T) {
		repo, cleanup := setupTestRepo(t)
		defer cleanup()

		_, err := repo.GetByID(404)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestExistsByISBN(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	seedCatalog(t, repo)

	exists, err := repo.ExistsByISBN("9780441172719")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByISBN("9780000000000")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCount(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	seedCatalog(t, repo)

	count, err = repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
