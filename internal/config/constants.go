package config

// DefaultDatabasePath is the SQLite file used when DATABASE_PATH is not set.
const DefaultDatabasePath = "./shelfmark.db"

// DefaultRatingsBaseURL is the aggregate-ratings service queried on book pages.
const DefaultRatingsBaseURL = "https://www.goodreads.com/book"
