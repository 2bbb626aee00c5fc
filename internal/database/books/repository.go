// Package books provides read access to the book catalog and the batch
// insert path used by the CSV importer.
package books

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/shelfmark/shelfmark/internal/entities"
)

var (
	ErrNotFound           = errors.New("book not found")
	ErrInvalidSearchField = errors.New("invalid search field")
)

// SearchField enumerates the columns a catalog search may target. The column
// reference for each value is hardcoded in Search; raw strings are never
// embedded into query text.
type SearchField string

const (
	SearchFieldISBN    SearchField = "isbn"
	SearchFieldAuthor  SearchField = "author"
	SearchFieldTitle   SearchField = "title"
	SearchFieldPubYear SearchField = "pub_year"
)

// ParseSearchField validates a form value against the fixed whitelist.
func ParseSearchField(s string) (SearchField, bool) {
	switch SearchField(s) {
	case SearchFieldISBN, SearchFieldAuthor, SearchFieldTitle, SearchFieldPubYear:
		return SearchField(s), true
	}
	return "", false
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a book by its ID.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// GetByISBN retrieves a book by exact ISBN match. Surrounding whitespace in
// the input is ignored.
func (r *Repository) GetByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("isbn = ?", strings.TrimSpace(isbn)).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

// Search returns all books whose chosen field contains the term
// (case-insensitive substring match). The publication year column is cast to
// text so a partial year like "199" matches. The term is always a bound
// parameter.
func (r *Repository) Search(field SearchField, term string) ([]entities.Book, error) {
	pattern := "%" + term + "%"

	var books []entities.Book
	q := r.db.Order("title ASC")
	switch field {
	case SearchFieldISBN:
		q = q.Where("LOWER(isbn) LIKE LOWER(?)", pattern)
	case SearchFieldAuthor:
		q = q.Where("LOWER(author) LIKE LOWER(?)", pattern)
	case SearchFieldTitle:
		q = q.Where("LOWER(title) LIKE LOWER(?)", pattern)
	case SearchFieldPubYear:
		q = q.Where("CAST(pub_year AS TEXT) LIKE ?", pattern)
	default:
		return nil, ErrInvalidSearchField
	}

	err := q.Find(&books).Error
	return books, err
}

// Create inserts a single book.
func (r *Repository) Create(book *entities.Book) error {
	return r.db.Create(book).Error
}

// CreateBatch inserts books in chunks. Used by the bulk importer.
func (r *Repository) CreateBatch(books []entities.Book, batchSize int) error {
	if len(books) == 0 {
		return nil
	}
	return r.db.CreateInBatches(books, batchSize).Error
}

// ExistsByISBN reports whether the catalog already has the given ISBN.
func (r *Repository) ExistsByISBN(isbn string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("isbn = ?", strings.TrimSpace(isbn)).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the catalog size.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}
