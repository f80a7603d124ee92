package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finances/internal/encoding"
	"github.com/MrJamesThe3rd/finances/internal/transaction"
)

const (
	colTitle = iota
	colType
	colValue
	colCategory
)

// ErrMalformedCSV is returned when the file cannot be split into records, such
// as an unterminated quoted field. Nothing from such a file is imported.
var ErrMalformedCSV = errors.New("malformed csv")

// Parsed is a batch read from a CSV file plus what was dropped on the way.
type Parsed struct {
	transaction.Batch
	Skipped int
	Charset string
	// Repaired counts rows holding Windows-1252 text past the detection window.
	Repaired int
}

// Parser reads the "title,type,value,category" layout. Lines before FromLine
// are treated as the header.
type Parser struct {
	fromLine int
}

func NewParser(fromLine int) *Parser {
	return &Parser{fromLine: max(fromLine, 1)}
}

// Parse streams r record by record. Rows with a missing field, an unknown
// type or a value that is not a non-negative amount are skipped and counted.
// Broken quoting aborts the whole parse with ErrMalformedCSV.
func (p *Parser) Parse(r io.Reader) (*Parsed, error) {
	utf8r, charset, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	parsed := &Parsed{Charset: charset}
	seen := make(map[string]struct{})

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, fmt.Errorf("%w: %w", ErrMalformedCSV, err)
			}

			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		if line, _ := reader.FieldPos(0); line < p.fromLine {
			continue
		}

		if repairRecord(record) {
			parsed.Repaired++
		}

		row, ok := parseRecord(record)
		if !ok {
			parsed.Skipped++
			continue
		}

		if _, dup := seen[row.Category]; !dup {
			seen[row.Category] = struct{}{}
			parsed.Categories = append(parsed.Categories, row.Category)
		}

		parsed.Rows = append(parsed.Rows, row)
	}

	return parsed, nil
}

func repairRecord(record []string) bool {
	repaired := false

	for i, field := range record {
		if fixed := encoding.RepairUTF8(field); fixed != field {
			record[i] = fixed
			repaired = true
		}
	}

	return repaired
}

func parseRecord(record []string) (transaction.ImportParams, bool) {
	cell := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}

		return ""
	}

	row := transaction.ImportParams{
		Title:    cell(colTitle),
		Type:     transaction.Type(strings.ToLower(cell(colType))),
		Category: cell(colCategory),
	}

	raw := cell(colValue)
	if row.Title == "" || row.Category == "" || raw == "" || !row.Type.Valid() {
		return row, false
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return row, false
	}

	row.Value = value.Round(2)
	if row.Value.IsNegative() || row.Value.GreaterThanOrEqual(transaction.MaxValue) {
		return row, false
	}

	return row, true
}
