package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/pkg/models"
	"github.com/lib/pq"
)

// Book is one row of the Alexandria books table
type Book struct {
	BookKey         string
	DisplayName     string
	BookType        string // "sharp", "soft", "exchange"
	PropWeight      float64
	SupportedSports []string
}

// GetBooks returns the active books that list sportKey among their supported sports
func (c *Client) GetBooks(ctx context.Context, sportKey string) ([]Book, error) {
	query := `
		SELECT book_key, display_name, book_type, prop_weight, supported_sports
		FROM books
		WHERE active = true
		  AND $1 = ANY(supported_sports)
		ORDER BY book_key
	`

	rows, err := c.db.QueryContext(ctx, query, sportKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var (
			b          Book
			name       sql.NullString
			propWeight sql.NullFloat64
		)
		if err := rows.Scan(&b.BookKey, &name, &b.BookType, &propWeight, pq.Array(&b.SupportedSports)); err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}
		b.DisplayName = name.String
		b.PropWeight = propWeight.Float64
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating book rows: %w", err)
	}

	return books, nil
}

// GetClassification implements contracts.ClassificationProvider
func (c *Client) GetClassification(ctx context.Context, sportKey string) (models.BookmakerClassification, error) {
	books, err := c.GetBooks(ctx, sportKey)
	if err != nil {
		return models.BookmakerClassification{}, err
	}

	classification := ClassificationFromBooks(books)
	if len(classification.Sharp) == 0 {
		fmt.Printf("⚠️  No sharp books in database for %s\n", sportKey)
	}
	return classification, nil
}

// ClassificationFromBooks derives a classification from book rows. Sharp books are
// those typed "sharp"; any book with a positive prop weight joins the prop consensus.
// The database carries no reference-book preference.
func ClassificationFromBooks(books []Book) models.BookmakerClassification {
	classification := models.BookmakerClassification{
		PropWeights:  make(map[string]float64),
		DisplayNames: make(map[string]string),
	}

	for _, b := range books {
		if b.BookType == "sharp" {
			classification.Sharp = append(classification.Sharp, b.BookKey)
		}
		if b.PropWeight > 0 && b.PropWeight <= 1 {
			classification.PropWeights[b.BookKey] = b.PropWeight
		}
		if b.DisplayName != "" {
			classification.DisplayNames[b.BookKey] = b.DisplayName
		}
	}

	sort.Strings(classification.Sharp)
	return classification
}
