package entities

import (
	"time"
)

// User is a registered account. The unique index on Username is the
// authoritative guard against duplicate registrations; application-level
// checks are advisory only.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100" json:"username"`
	PasswordHash string    `gorm:"size:100" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Book is a catalog entry. Books are created only by the bulk importer and
// are read-only to the web handlers.
type Book struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	ISBN    string `gorm:"uniqueIndex;size:20" json:"isbn"`
	Title   string `gorm:"index;size:512" json:"title"`
	Author  string `gorm:"index;size:256" json:"author"`
	PubYear int    `json:"pub_year"`
}

// Review ties a rating and free-text body to one user and one book.
// Nothing prevents a user from reviewing the same book twice; see DESIGN.md.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_reviews_user_book" json:"user_id"`
	BookID    uint      `gorm:"index:idx_reviews_user_book;index" json:"book_id"`
	Rating    int       `json:"rating"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Book Book `gorm:"foreignKey:BookID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (Book) TableName() string {
	return "books"
}

func (Review) TableName() string {
	return "reviews"
}
