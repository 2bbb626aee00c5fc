package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfmark/shelfmark/internal/auth"
	"github.com/shelfmark/shelfmark/internal/database/books"
)

// SearchController serves the catalog search page and handles search form
// submissions.
type SearchController struct {
	books    BookStore
	sessions *auth.SessionManager
	renderer *Renderer
}

// NewSearchController creates a new search controller.
func NewSearchController(store BookStore, sessions *auth.SessionManager, renderer *Renderer) *SearchController {
	return &SearchController{
		books:    store,
		sessions: sessions,
		renderer: renderer,
	}
}

// SearchPage renders the empty search form.
func (sc *SearchController) SearchPage(c *gin.Context) {
	sc.renderer.Render(c, http.StatusOK, "search.html", gin.H{
		"Title":        "Search",
		"Username":     sc.sessions.GetUsername(c.Request),
		"CSRFToken":    auth.GetCSRFToken(c),
		"SelectField":  "",
		"SearchString": "",
	})
}

// Search handles the search form submission. The field must be one of the
// whitelisted catalog columns; no query runs otherwise.
func (sc *SearchController) Search(c *gin.Context) {
	fieldValue := c.PostForm("select_field")
	term := c.PostForm("search_string")

	field, ok := books.ParseSearchField(fieldValue)
	if !ok {
		sc.renderer.Render(c, http.StatusBadRequest, "search.html", gin.H{
			"Title":        "Search",
			"Username":     sc.sessions.GetUsername(c.Request),
			"CSRFToken":    auth.GetCSRFToken(c),
			"SelectField":  "",
			"SearchString": term,
			"Error":        "invalid search field",
		})
		return
	}

	if term == "" {
		sc.renderer.Render(c, http.StatusBadRequest, "search.html", gin.H{
			"Title":        "Search",
			"Username":     sc.sessions.GetUsername(c.Request),
			"CSRFToken":    auth.GetCSRFToken(c),
			"SelectField":  fieldValue,
			"SearchString": "",
			"Error":        "must provide a search term",
		})
		return
	}

	results, err := sc.books.Search(field, term)
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}

	sc.renderer.Render(c, http.StatusOK, "search.html", gin.H{
		"Title":        "Search",
		"Username":     sc.sessions.GetUsername(c.Request),
		"CSRFToken":    auth.GetCSRFToken(c),
		"SelectField":  fieldValue,
		"SearchString": term,
		"Books":        results,
		"Count":        len(results),
		"Searched":     true,
	})
}
