package http

import (
	"context"

	"github.com/shelfmark/shelfmark/internal/database/books"
	"github.com/shelfmark/shelfmark/internal/database/reviews"
	"github.com/shelfmark/shelfmark/internal/entities"
	"github.com/shelfmark/shelfmark/internal/ratings"
)

// This file consolidates the store interface definitions used by HTTP
// controllers. Each controller depends only on the methods it actually uses;
// the concrete repositories in internal/database satisfy them.

// BookStore provides read access to the book catalog.
type BookStore interface {
	GetByID(id uint) (*entities.Book, error)
	GetByISBN(isbn string) (*entities.Book, error)
	Search(field books.SearchField, term string) ([]entities.Book, error)
}

// ReviewStore provides review persistence and the joined read shapes used
// by the book detail and reviews pages.
type ReviewStore interface {
	Create(review *entities.Review) error
	ForUserAndBook(userID, bookID uint) (*entities.Review, error)
	ForBookExcludingUser(bookID, userID uint) ([]reviews.BookReview, error)
	ForUser(userID uint) ([]reviews.UserReview, error)
	AggregateForBook(bookID uint) (*reviews.Aggregate, error)
}

// RatingsLookup fetches aggregate rating data from the external ratings
// service. Implemented by ratings.Client.
type RatingsLookup interface {
	ByISBN(ctx context.Context, isbn string) (*ratings.BookRatings, error)
}
