// Package cli implements the command-line subcommands.
package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shelfmark/shelfmark/internal/config"
	"github.com/shelfmark/shelfmark/internal/database"
	"github.com/shelfmark/shelfmark/internal/database/books"
	"github.com/shelfmark/shelfmark/internal/importer"
)

// ImportBooksCommand loads a catalog CSV file into the database.
type ImportBooksCommand struct {
	CSVPath      string
	DatabasePath string
	BatchSize    int
	Verbose      bool
	DryRun       bool
}

// NewImportBooksCommand creates a new ImportBooksCommand
func NewImportBooksCommand() *ImportBooksCommand {
	return &ImportBooksCommand{}
}

// ParseFlags parses command line flags
func (cmd *ImportBooksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-books", flag.ExitOnError)

	fs.StringVar(&cmd.CSVPath, "csv", "", "Path to the catalog CSV file (columns: isbn,title,author,year)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.IntVar(&cmd.BatchSize, "batch-size", 100, "Number of books per insert batch")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Parse the file and report what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-books -csv <file> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a book catalog from a CSV file into the database.\n")
		fmt.Fprintf(os.Stderr, "Books whose ISBN is already present are skipped, so the command\n")
		fmt.Fprintf(os.Stderr, "can be re-run safely.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Import the catalog:\n")
		fmt.Fprintf(os.Stderr, "  %s import-books -csv books.csv\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Preview what would be imported:\n")
		fmt.Fprintf(os.Stderr, "  %s import-books -csv books.csv -dry-run -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.CSVPath == "" {
		fs.Usage()
		return fmt.Errorf("-csv is required")
	}

	return nil
}

// Run executes the import command
func (cmd *ImportBooksCommand) Run() error {
	file, err := os.Open(cmd.CSVPath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, parseErrors, err := importer.ParseCatalogCSV(file)
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}

	fmt.Printf("Parsed %d catalog rows from %s\n", len(rows), cmd.CSVPath)

	if len(parseErrors) > 0 {
		fmt.Printf("%d rows could not be parsed:\n", len(parseErrors))
		for _, msg := range parseErrors {
			fmt.Printf("  %s\n", msg)
		}
	}

	if cmd.Verbose {
		for i, row := range rows {
			fmt.Printf("%d. %s - %q by %s (%d)\n", i+1, row.ISBN, row.Title, row.Author, row.Year)
		}
	}

	if cmd.DryRun {
		fmt.Println("Dry run complete. Use without -dry-run to import.")
		return nil
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	bookRepo := books.NewRepository(db.DB)
	imp := importer.NewImporter(bookRepo, cmd.BatchSize)

	result, err := imp.Import(rows)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %d books, skipped %d already present\n", result.Imported, result.Skipped)

	total, err := bookRepo.Count()
	if err == nil {
		fmt.Printf("Catalog now holds %d books\n", total)
	}

	return nil
}
