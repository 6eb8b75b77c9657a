package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/simaogato/kidbank-backend/internal/domain"
)

// Loader receives a validated batch of historical transactions
type Loader interface {
	Load(ctx context.Context, transactions []domain.Transaction) error
}

// Accepted timestamp layouts, tried in order. Dates without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// CSVImporter reads rows of timestamp,kind,amount,source and hands them to a Loader
type CSVImporter struct {
	loader Loader
}

// NewCSVImporter creates a new CSVImporter instance
func NewCSVImporter(loader Loader) *CSVImporter {
	return &CSVImporter{
		loader: loader,
	}
}

// Import parses every row and loads them as one batch.
// Logic:
//  1. Skip a leading header row if its first cell is "timestamp"
//  2. Parse and validate each row; any bad row aborts the import before loading
//  3. Call Load once with the whole batch
//
// Returns the number of transactions loaded.
func (i *CSVImporter) Import(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var transactions []domain.Transaction
	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return 0, fmt.Errorf("failed to read csv: %w", err)
		}

		if row == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "timestamp") {
			continue
		}

		tx, err := parseRecord(record)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", row, err)
		}
		transactions = append(transactions, tx)
	}

	if len(transactions) == 0 {
		return 0, nil
	}

	if err := i.loader.Load(ctx, transactions); err != nil {
		return 0, err
	}
	return len(transactions), nil
}

func parseRecord(record []string) (domain.Transaction, error) {
	if len(record) < 3 || len(record) > 4 {
		return domain.Transaction{}, fmt.Errorf("%w: expected 3 or 4 fields, got %d", domain.ErrInvalidTransaction, len(record))
	}

	timestamp, err := parseTimestamp(strings.TrimSpace(record[0]))
	if err != nil {
		return domain.Transaction{}, err
	}

	kind, err := domain.ParseTransactionKind(record[1])
	if err != nil {
		return domain.Transaction{}, err
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(record[2]), 10, 64)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: amount %q is not a whole number", domain.ErrInvalidAmount, record[2])
	}

	var source string
	if len(record) == 4 {
		source = strings.TrimSpace(record[3])
	}
	if kind == domain.TransactionKindInterestCredit && source == "" {
		source = domain.InterestCreditSource
	}

	tx := domain.Transaction{
		Timestamp: timestamp,
		Kind:      kind,
		Amount:    amount,
		Source:    source,
	}
	if err := tx.Validate(); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised timestamp %q", domain.ErrInvalidTransaction, raw)
}
