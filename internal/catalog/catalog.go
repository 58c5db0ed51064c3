// Package catalog reads the emotion vocabulary and meme template records
// from the remote template store.
package catalog

// Emotion is one entry of the emotion vocabulary. Loaded once per process,
// read-only during processing.
type Emotion struct {
	ID          int64
	Label       string
	Description string
}

// Template is a meme template image associated with one emotion. Many
// templates may share an emotion.
type Template struct {
	ID       int64
	Emotion  int64
	ImageRef string // URL or storage path, passed through unchanged
}

// Store is the read contract against the template database.
type Store interface {
	ListEmotions() ([]Emotion, error)
	TemplatesByEmotion(emotionID int64) ([]Template, error)
	SampleTemplates(limit int) ([]Template, error)
}
