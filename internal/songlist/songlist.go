// package songlist reads user-supplied song lists from .txt and .csv files
// into SongRequest values for the import pipeline.
package songlist

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/spotimport/internal/shared"
)

// Format identifies how an input file is parsed and which matching policy
// the pipeline applies to its rows.
type Format int

const (
	FormatText Format = iota // one free-text descriptor per line
	FormatCSV                // header row with title/artist and optional album
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatCSV:
		return "csv"
	default:
		return ""
	}
}

// SongRequest is one input unit to be matched against the remote service.
// Plain-text rows carry only Title; CSV rows carry Title and Artist, with an
// optional Album.
type SongRequest struct {
	Title  string
	Artist string
	Album  string
}

// Query builds the raw (un-normalized) search query: the non-empty of
// artist, title, album joined by " - ". Plain-text rows reduce to the title.
func (s SongRequest) Query() string {
	parts := make([]string, 0, 3)
	if s.Artist != "" {
		parts = append(parts, s.Artist)
	}
	if s.Title != "" {
		parts = append(parts, s.Title)
	}
	if s.Album != "" {
		parts = append(parts, s.Album)
	}
	return strings.Join(parts, " - ")
}

// Source is a fully read input file: its detected format and its rows,
// in file order.
type Source struct {
	Path     string
	Format   Format
	Requests []SongRequest
}

// DetectFormat maps a file extension to its Format. Any extension other
// than .txt or .csv is a configuration error, raised before any remote call.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return FormatText, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return 0, fmt.Errorf("%w: %q must be .txt or .csv", shared.ErrUnsupportedInput, path)
	}
}

// Read opens and fully parses the songs file at path.
func Read(path string) (*Source, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open songs file: %w", err)
	}
	defer f.Close()

	var requests []SongRequest
	switch format {
	case FormatText:
		requests, err = ParseText(f)
	case FormatCSV:
		requests, err = ParseCSV(f)
	}
	if err != nil {
		return nil, err
	}

	return &Source{Path: path, Format: format, Requests: requests}, nil
}

// ParseText reads one SongRequest per line, trimming surrounding whitespace.
// Lines are kept verbatim otherwise; blank-after-normalization handling
// belongs to the pipeline.
func ParseText(r io.Reader) ([]SongRequest, error) {
	var requests []SongRequest

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		requests = append(requests, SongRequest{Title: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read songs file: %w", err)
	}

	return requests, nil
}

// requiredColumns are the CSV header fields every structured input must have.
var requiredColumns = []string{"title", "artist"}

// ParseCSV reads structured rows. The header must contain the title and
// artist columns; a missing column fails before any row is processed, naming
// every missing field.
func ParseCSV(r io.Reader) ([]SongRequest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s (empty file)", shared.ErrMissingColumns, strings.Join(requiredColumns, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrMissingColumns, strings.Join(missing, ", "))
	}

	albumIdx, hasAlbum := index["album"]

	var requests []SongRequest
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		req := SongRequest{
			Title:  field(record, index["title"]),
			Artist: field(record, index["artist"]),
		}
		if hasAlbum {
			req.Album = field(record, albumIdx)
		}
		requests = append(requests, req)
	}

	return requests, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
