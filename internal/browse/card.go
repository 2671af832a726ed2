package browse

import "github.com/desertthunder/dsx/internal/models"

const (
	// NoDatasets replaces the card list when the listing is empty.
	NoDatasets = "No datasets available"
	// NoDescription is shown for records without a description.
	NoDescription = "No description"
)

// Card is the rendered form of a [models.DatasetRecord].
type Card struct {
	FileID      string   `json:"file_id" yaml:"file_id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
	DownloadURL string   `json:"download_url" yaml:"download_url"`
}

// NewCard falls back to the file ID for a missing title and to [NoDescription] for a missing description.
func NewCard(r models.DatasetRecord, link func(string) string) Card {
	c := Card{
		FileID:      r.FileID,
		Title:       r.Title,
		Description: r.Description,
		Tags:        append([]string{}, r.Tags...),
	}
	if c.Title == "" {
		c.Title = r.FileID
	}
	if c.Description == "" {
		c.Description = NoDescription
	}
	if link != nil {
		c.DownloadURL = link(r.FileID)
	}
	return c
}

// BuildCards keeps the listing order.
func BuildCards(records []models.DatasetRecord, link func(string) string) []Card {
	cards := make([]Card, 0, len(records))
	for _, r := range records {
		cards = append(cards, NewCard(r, link))
	}
	return cards
}
