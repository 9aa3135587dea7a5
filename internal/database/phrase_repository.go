package database

import (
	"fmt"
	"strings"

	"github.com/example/phrasebot/pkg/models"
)

// PhraseRepository handles database operations for the phrase catalog
type PhraseRepository struct{}

// NewPhraseRepository creates a new repository instance
func NewPhraseRepository() *PhraseRepository {
	return &PhraseRepository{}
}

// Catalog returns the full catalog in a stable order. Mission selection
// depends on this ordering never changing between calls for the same data:
// the deterministic shuffle is only as stable as its input.
func (r *PhraseRepository) Catalog() ([]models.Phrase, error) {
	var phrases []models.Phrase
	err := DB.Select(&phrases, "SELECT * FROM phrases ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get phrases: %v", err)
	}
	return phrases, nil
}

// GetByID returns a phrase by ID
func (r *PhraseRepository) GetByID(id int) (*models.Phrase, error) {
	query := "SELECT * FROM phrases WHERE id = ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var phrase models.Phrase
	if err := DB.Get(&phrase, query, id); err != nil {
		return nil, fmt.Errorf("failed to get phrase by ID: %v", err)
	}
	return &phrase, nil
}

// GetByCategory returns phrases for a specific category, in catalog order
func (r *PhraseRepository) GetByCategory(category string) ([]models.Phrase, error) {
	query := "SELECT * FROM phrases WHERE category = ? ORDER BY id"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var phrases []models.Phrase
	if err := DB.Select(&phrases, query, category); err != nil {
		return nil, fmt.Errorf("failed to get phrases by category: %v", err)
	}
	return phrases, nil
}

// Categories returns the distinct category names in the catalog
func (r *PhraseRepository) Categories() ([]string, error) {
	var categories []string
	err := DB.Select(&categories, "SELECT DISTINCT category FROM phrases ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %v", err)
	}
	return categories, nil
}

// Create inserts a new phrase
func (r *PhraseRepository) Create(phrase *models.Phrase) error {
	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO phrases (category, situation, korean, pronunciation, meaning)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`
		return DB.QueryRow(
			query,
			phrase.Category,
			phrase.Situation,
			phrase.Korean,
			phrase.Pronunciation,
			phrase.Meaning,
		).Scan(&phrase.ID, &phrase.CreatedAt, &phrase.UpdatedAt)
	}

	query := `
		INSERT INTO phrases (category, situation, korean, pronunciation, meaning, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`
	result, err := DB.Exec(
		query,
		phrase.Category,
		phrase.Situation,
		phrase.Korean,
		phrase.Pronunciation,
		phrase.Meaning,
	)
	if err != nil {
		return fmt.Errorf("failed to create phrase: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	phrase.ID = int(id)
	return nil
}

// Update modifies an existing phrase
func (r *PhraseRepository) Update(phrase *models.Phrase) error {
	if DB.DriverName() == "postgres" {
		query := `
			UPDATE phrases SET
				category = $1,
				situation = $2,
				korean = $3,
				pronunciation = $4,
				meaning = $5,
				updated_at = NOW()
			WHERE id = $6
			RETURNING updated_at
		`
		return DB.QueryRow(
			query,
			phrase.Category,
			phrase.Situation,
			phrase.Korean,
			phrase.Pronunciation,
			phrase.Meaning,
			phrase.ID,
		).Scan(&phrase.UpdatedAt)
	}

	query := `
		UPDATE phrases SET
			category = ?,
			situation = ?,
			korean = ?,
			pronunciation = ?,
			meaning = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := DB.Exec(
		query,
		phrase.Category,
		phrase.Situation,
		phrase.Korean,
		phrase.Pronunciation,
		phrase.Meaning,
		phrase.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update phrase: %v", err)
	}
	return nil
}

// FindByText looks up phrases matching the exact Korean text. Used as the
// backward-compatible fallback when tracking data predates synthetic IDs.
func (r *PhraseRepository) FindByText(korean string) ([]models.Phrase, error) {
	query := "SELECT * FROM phrases WHERE korean = ? ORDER BY id"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var phrases []models.Phrase
	if err := DB.Select(&phrases, query, korean); err != nil {
		return nil, fmt.Errorf("failed to find phrases by text: %v", err)
	}
	return phrases, nil
}

// Delete removes a phrase
func (r *PhraseRepository) Delete(id int) error {
	query := "DELETE FROM phrases WHERE id = ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	_, err := DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete phrase: %v", err)
	}
	return nil
}
