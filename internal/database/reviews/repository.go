// Package reviews provides database operations for book reviews.
package reviews

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shelfmark/shelfmark/internal/entities"
)

// BookReview is a review of one book joined with the reviewer's username,
// as shown on the book detail page.
type BookReview struct {
	Username  string `json:"username"`
	Rating    int    `json:"rating"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// UserReview is a review joined with the reviewed book's title and author,
// as shown on the "my reviews" page.
type UserReview struct {
	BookID uint   `json:"book_id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Rating int    `json:"rating"`
	Body   string `json:"body"`
}

// Aggregate holds the review count and mean rating for one book. Average is
// only meaningful when Count > 0.
type Aggregate struct {
	Count   int64
	Average float64
}

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a review inside a transaction so the insert either fully
// commits or is reported as failed.
func (r *Repository) Create(review *entities.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(review).Error
	})
}

// ForUserAndBook returns the user's own review of a book, or nil when the
// user has not reviewed it.
func (r *Repository) ForUserAndBook(userID, bookID uint) (*entities.Review, error) {
	var review entities.Review
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Order("created_at DESC").
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// ForBookExcludingUser returns all reviews of a book authored by other
// users, joined with the author's username, newest first.
func (r *Repository) ForBookExcludingUser(bookID, userID uint) ([]BookReview, error) {
	var rows []BookReview
	err := r.db.Model(&entities.Review{}).
		Select("users.username AS username, reviews.rating AS rating, reviews.body AS body, reviews.created_at AS created_at").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.book_id = ? AND reviews.user_id <> ?", bookID, userID).
		Order("reviews.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// ForUser returns all reviews authored by a user, joined with book title and
// author. Ordered by book title so repeated reads are deterministic.
func (r *Repository) ForUser(userID uint) ([]UserReview, error) {
	var rows []UserReview
	err := r.db.Model(&entities.Review{}).
		Select("reviews.book_id AS book_id, books.title AS title, books.author AS author, reviews.rating AS rating, reviews.body AS body").
		Joins("JOIN books ON books.id = reviews.book_id").
		Where("reviews.user_id = ?", userID).
		Order("books.title ASC, reviews.id ASC").
		Scan(&rows).Error
	return rows, err
}

// AggregateForBook returns the review count and average rating for a book.
// AVG over zero rows is NULL, coalesced to 0; callers must check Count
// before treating Average as real data.
func (r *Repository) AggregateForBook(bookID uint) (*Aggregate, error) {
	var agg Aggregate
	err := r.db.Model(&entities.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("book_id = ?", bookID).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}
