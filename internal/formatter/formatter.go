// package formatter renders dataset listings and download manifests (text, Markdown, CSV, JSON, YAML)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/dsx/internal/browse"
	"github.com/desertthunder/dsx/internal/models"
	"github.com/desertthunder/dsx/internal/shared"
	"gopkg.in/yaml.v3"
)

// Format names accepted by [Render].
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

var Formats = []string{FormatText, FormatMarkdown, FormatCSV, FormatJSON, FormatYAML}

// Supported checks format without rendering anything.
func Supported(format string) error {
	switch format {
	case "", FormatText, FormatMarkdown, "md", FormatCSV, FormatJSON, FormatYAML, "yml":
		return nil
	}
	return fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidFlag, format, strings.Join(Formats, ", "))
}

// Render dispatches on format. An unknown format is an [shared.ErrInvalidFlag].
func Render(cards []browse.Card, format string) ([]byte, error) {
	switch format {
	case "", FormatText:
		return ListingToText(cards)
	case FormatMarkdown, "md":
		return ListingToMarkdown(cards)
	case FormatCSV:
		return ListingToCSV(cards)
	case FormatJSON:
		return shared.MarshalJSON(cards, true)
	case FormatYAML, "yml":
		return ListingToYAML(cards)
	default:
		return nil, Supported(format)
	}
}

// ListingToText renders one block per card, or the empty-listing placeholder
func ListingToText(cards []browse.Card) ([]byte, error) {
	var buf bytes.Buffer

	if len(cards) == 0 {
		buf.WriteString(browse.NoDatasets + "\n")
		return buf.Bytes(), nil
	}

	for i, c := range cards {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(fmt.Sprintf("%s\n", c.Title))
		buf.WriteString(fmt.Sprintf("  %s\n", c.Description))
		if len(c.Tags) > 0 {
			buf.WriteString(fmt.Sprintf("  Tags: %s\n", strings.Join(c.Tags, ", ")))
		}
		buf.WriteString(fmt.Sprintf("  Download: %s\n", c.DownloadURL))
	}

	return buf.Bytes(), nil
}

// ListingToMarkdown converts cards to a Markdown document with a section per dataset
func ListingToMarkdown(cards []browse.Card) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Datasets\n\n")
	if len(cards) == 0 {
		buf.WriteString(fmt.Sprintf("_%s_\n", browse.NoDatasets))
		return buf.Bytes(), nil
	}

	buf.WriteString(fmt.Sprintf("**Count**: %d\n\n", len(cards)))
	for _, c := range cards {
		buf.WriteString(fmt.Sprintf("## %s\n\n", c.Title))
		buf.WriteString(fmt.Sprintf("%s\n\n", c.Description))
		if len(c.Tags) > 0 {
			tags := make([]string, len(c.Tags))
			for i, t := range c.Tags {
				tags[i] = "`" + t + "`"
			}
			buf.WriteString(fmt.Sprintf("**Tags**: %s\n\n", strings.Join(tags, " ")))
		}
		buf.WriteString(fmt.Sprintf("[Download](%s)\n\n", c.DownloadURL))
	}

	return buf.Bytes(), nil
}

// ListingToCSV converts cards to CSV with columns: FileID, Title, Description, Tags, DownloadURL
//
// Tags are joined with semicolons.
func ListingToCSV(cards []browse.Card) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"FileID", "Title", "Description", "Tags", "DownloadURL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, c := range cards {
		record := []string{c.FileID, c.Title, c.Description, strings.Join(c.Tags, ";"), c.DownloadURL}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ListingToYAML encodes cards as a YAML sequence with two-space indentation
func ListingToYAML(cards []browse.Card) ([]byte, error) {
	return marshalYAML(cards)
}

func marshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("YAML encode failed: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("YAML encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteManifest writes a bulk download summary to path as JSON or YAML.
func WriteManifest(m *models.DownloadManifest, format, path string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatYAML:
		data, err = marshalYAML(m)
	default:
		data, err = shared.MarshalJSON(m, true)
	}
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
