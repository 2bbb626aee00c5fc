package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shelfmark/shelfmark/internal/auth"
	"github.com/shelfmark/shelfmark/internal/database/books"
	"github.com/shelfmark/shelfmark/internal/entities"
)

// ReviewsController lists the current user's reviews and accepts new review
// submissions.
type ReviewsController struct {
	books    BookStore
	reviews  ReviewStore
	sessions *auth.SessionManager
	renderer *Renderer
}

// NewReviewsController creates a new reviews controller.
func NewReviewsController(bookStore BookStore, reviewStore ReviewStore, sessions *auth.SessionManager, renderer *Renderer) *ReviewsController {
	return &ReviewsController{
		books:    bookStore,
		reviews:  reviewStore,
		sessions: sessions,
		renderer: renderer,
	}
}

// ReviewsPage renders all reviews written by the current user, ordered by
// book title. Pure read: refreshing the page never changes state.
func (rc *ReviewsController) ReviewsPage(c *gin.Context) {
	userID := rc.sessions.GetUserID(c.Request)

	userReviews, err := rc.reviews.ForUser(userID)
	if err != nil {
		respondInternalError(c, err, "list user reviews")
		return
	}

	rc.renderer.Render(c, http.StatusOK, "reviews.html", gin.H{
		"Title":     "My Reviews",
		"Username":  rc.sessions.GetUsername(c.Request),
		"CSRFToken": auth.GetCSRFToken(c),
		"Reviews":   userReviews,
		"Count":     len(userReviews),
	})
}

// SubmitReview handles the review form submission. On success it redirects
// to the reviews page with 303 See Other so a browser refresh re-issues a
// GET, not the POST.
func (rc *ReviewsController) SubmitReview(c *gin.Context) {
	userID := rc.sessions.GetUserID(c.Request)

	bookIDValue := c.PostForm("book_id")
	bookID, err := strconv.ParseUint(bookIDValue, 10, 32)
	if err != nil || bookID == 0 {
		respondBadRequest(c, "invalid book_id")
		return
	}

	rating, err := strconv.Atoi(c.PostForm("rating"))
	if err != nil || rating < 1 || rating > 5 {
		respondBadRequest(c, "rating must be an integer between 1 and 5")
		return
	}

	body := c.PostForm("review")
	if body == "" {
		respondBadRequest(c, "must provide review text")
		return
	}

	book, err := rc.books.GetByID(uint(bookID))
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book for review")
		return
	}

	review := &entities.Review{
		UserID: userID,
		BookID: book.ID,
		Rating: rating,
		Body:   body,
	}
	if err := rc.reviews.Create(review); err != nil {
		respondInternalError(c, err, "create review")
		return
	}

	c.Redirect(http.StatusSeeOther, "/reviews")
}
