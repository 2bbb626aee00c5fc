package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfmark/shelfmark/internal/auth"
	"github.com/shelfmark/shelfmark/internal/database/books"
)

// BooksController serves the book detail page.
type BooksController struct {
	books    BookStore
	reviews  ReviewStore
	ratings  RatingsLookup
	sessions *auth.SessionManager
	renderer *Renderer
}

// NewBooksController creates a new books controller.
func NewBooksController(bookStore BookStore, reviewStore ReviewStore, ratingsLookup RatingsLookup, sessions *auth.SessionManager, renderer *Renderer) *BooksController {
	return &BooksController{
		books:    bookStore,
		reviews:  reviewStore,
		ratings:  ratingsLookup,
		sessions: sessions,
		renderer: renderer,
	}
}

// BookPage renders a book's detail page: catalog data, external rating
// aggregates, the current user's own review and everyone else's.
func (bc *BooksController) BookPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.books.GetByID(id)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	userID := bc.sessions.GetUserID(c.Request)

	ownReview, err := bc.reviews.ForUserAndBook(userID, book.ID)
	if err != nil {
		respondInternalError(c, err, "get own review")
		return
	}

	otherReviews, err := bc.reviews.ForBookExcludingUser(book.ID, userID)
	if err != nil {
		respondInternalError(c, err, "get book reviews")
		return
	}

	data := gin.H{
		"Title":        book.Title,
		"Username":     bc.sessions.GetUsername(c.Request),
		"CSRFToken":    auth.GetCSRFToken(c),
		"Book":         book,
		"OwnReview":    ownReview,
		"OtherReviews": otherReviews,
	}

	// The ratings service is best effort: the page renders without rating
	// data when the lookup fails.
	if bc.ratings != nil {
		rating, err := bc.ratings.ByISBN(c.Request.Context(), book.ISBN)
		if err != nil {
			log.Printf("Ratings lookup failed for ISBN %s: %v", book.ISBN, err)
		} else {
			data["RatingsCount"] = rating.Count
			data["AverageRating"] = rating.Average
		}
	}

	bc.renderer.Render(c, http.StatusOK, "book.html", data)
}
