package catalog

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

// PostgresStore reads emotions and meme templates from the template database.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to the template database and verifies the
// connection. A failure here is fatal for the pipeline.
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to template store: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping template store: %v", err)
	}

	log.Println("Template store connected successfully")
	return &PostgresStore{db: db}, nil
}

// ListEmotions returns the full emotion vocabulary.
func (s *PostgresStore) ListEmotions() ([]Emotion, error) {
	rows, err := s.db.Query(`SELECT emotion_id, emotion_label, description FROM emotions`)
	if err != nil {
		return nil, fmt.Errorf("failed to list emotions: %v", err)
	}
	defer rows.Close()

	var emotions []Emotion
	for rows.Next() {
		var e Emotion
		if err := rows.Scan(&e.ID, &e.Label, &e.Description); err != nil {
			log.Printf("Error scanning emotion row: %v", err)
			continue
		}
		emotions = append(emotions, e)
	}

	return emotions, rows.Err()
}

// TemplatesByEmotion returns every template tagged with the given emotion.
func (s *PostgresStore) TemplatesByEmotion(emotionID int64) ([]Template, error) {
	rows, err := s.db.Query(
		`SELECT meme_id, emotion_id, image_path FROM memes WHERE emotion_id = $1`, emotionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %v", err)
	}
	defer rows.Close()

	return scanTemplates(rows)
}

// SampleTemplates returns up to limit templates irrespective of emotion.
func (s *PostgresStore) SampleTemplates(limit int) ([]Template, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT meme_id, emotion_id, image_path FROM memes LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sample templates: %v", err)
	}
	defer rows.Close()

	return scanTemplates(rows)
}

func scanTemplates(rows *sql.Rows) ([]Template, error) {
	var templates []Template
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.ID, &t.Emotion, &t.ImageRef); err != nil {
			log.Printf("Error scanning template row: %v", err)
			continue
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
