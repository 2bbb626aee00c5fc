package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfmark/shelfmark/internal/database/books"
)

// APIBookResponse is the public JSON representation of a catalog book with
// its locally-computed review aggregates. AverageScore is either a float or
// the string "NA" when the book has no reviews, so consumers can tell
// "unrated" apart from a genuine zero.
type APIBookResponse struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Year         int    `json:"year"`
	ISBN         string `json:"isbn"`
	ReviewCount  int64  `json:"review_count"`
	AverageScore any    `json:"average_score"`
}

// APIErrorResponse is the error shape of the public API.
type APIErrorResponse struct {
	Error string `json:"Error"`
}

// APIController serves the public, unauthenticated JSON API.
type APIController struct {
	books   BookStore
	reviews ReviewStore
}

// NewAPIController creates a new API controller.
func NewAPIController(bookStore BookStore, reviewStore ReviewStore) *APIController {
	return &APIController{
		books:   bookStore,
		reviews: reviewStore,
	}
}

// BookByISBN returns the catalog entry and review aggregates for an ISBN.
func (ac *APIController) BookByISBN(c *gin.Context) {
	isbn := c.Param("isbn")

	book, err := ac.books.GetByISBN(isbn)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			c.JSON(http.StatusNotFound, APIErrorResponse{Error: "No book with that isbn found"})
			return
		}
		respondInternalError(c, err, "get book by isbn")
		return
	}

	agg, err := ac.reviews.AggregateForBook(book.ID)
	if err != nil {
		respondInternalError(c, err, "aggregate reviews")
		return
	}

	var averageScore any = "NA"
	if agg.Count > 0 {
		averageScore = agg.Average
	}

	c.JSON(http.StatusOK, APIBookResponse{
		Title:        book.Title,
		Author:       book.Author,
		Year:         book.PubYear,
		ISBN:         book.ISBN,
		ReviewCount:  agg.Count,
		AverageScore: averageScore,
	})
}
