package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Record is one processed killfeed row from an export file.
type Record struct {
	Killer     string
	Victim     string
	Distance   string
	Weapon     string
	Timestamp  string
	ExternalID string
	RowNumber  int
}

// Export files carry the killfeed bot's reaction emoji inside actor names;
// strip them so names join against the players table.
var emoticonReplacer = strings.NewReplacer("😎", "", "😭", "")

// StripEmoticons removes the feed's reaction emoji from an actor name.
func StripEmoticons(name string) string {
	return strings.TrimSpace(emoticonReplacer.Replace(name))
}

// Export column order. The first three are bookkeeping from the upstream
// export and are ignored.
var requiredHeaders = []string{"kill", "victim", "distance", "weapon", "timestamp", "idDiscord"}

// ParseCSV reads a killfeed export. The header row is required and must
// contain the killfeed columns; rows with too few fields are skipped
// rather than failing the batch. Row numbers are 1-based over data rows.
func ParseCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, h := range requiredHeaders {
		if _, ok := col[h]; !ok {
			return nil, fmt.Errorf("missing required column %q (expected %s)",
				h, strings.Join(requiredHeaders, ", "))
		}
	}

	field := func(row []string, name string) string {
		i := col[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []Record
	rowNumber := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", rowNumber+1, err)
		}
		rowNumber++
		if len(row) < len(requiredHeaders) {
			continue
		}
		records = append(records, Record{
			Killer:     StripEmoticons(field(row, "kill")),
			Victim:     StripEmoticons(field(row, "victim")),
			Distance:   field(row, "distance"),
			Weapon:     field(row, "weapon"),
			Timestamp:  field(row, "timestamp"),
			ExternalID: field(row, "idDiscord"),
			RowNumber:  rowNumber,
		})
	}
	return records, nil
}

// Open opens a killfeed export file, transparently decompressing .gz
// input. The caller closes the returned reader.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	return &gzipFile{gz: gz, f: f}, nil
}

type gzipFile struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipFile) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipFile) Close() error {
	gzErr := g.gz.Close()
	fErr := g.f.Close()
	if gzErr != nil {
		return gzErr
	}
	return fErr
}
