package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cartpricing/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products with
// their per-currency price rows. A row with a sku starts a new product;
// rows with an empty sku are continuation rows carrying additional prices
// for the current product.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

type csvRow struct {
	SKU           string
	Name          string
	Currency      string
	OriginalCents int64
	Prices        []domain.ProductPrice
}

// Run parses CSV rows and upserts products grouped by sku.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *csvRow
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if row.SKU != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows carry additional prices for the current product.
		if current != nil && len(row.Prices) > 0 {
			current.Prices = append(current.Prices, row.Prices...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.SKU == "" || row.Name == "" || row.Currency == "" || len(row.Prices) == 0 {
		return fmt.Errorf("invalid product row (missing required fields) for sku %q", row.SKU)
	}

	p := domain.Product{
		SKU:                row.SKU,
		Name:               row.Name,
		Currency:           row.Currency,
		OriginalPriceCents: row.OriginalCents,
		Prices:             row.Prices,
	}

	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.SKU, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	sku := pick(record, index, "sku")
	name := pick(record, index, "name")
	currency := pick(record, index, "currency")
	originalStr := pick(record, index, "originalCents")

	priceCurrency := pick(record, index, "price.currency")
	priceLocale := pick(record, index, "price.locale")
	priceCentsStr := pick(record, index, "price.cents")

	if sku == "" && priceCurrency == "" {
		return nil
	}

	var original int64
	if originalStr != "" {
		original, _ = strconv.ParseInt(originalStr, 10, 64)
	}

	row := &csvRow{
		SKU:           sku,
		Name:          name,
		Currency:      currency,
		OriginalCents: original,
	}
	if priceCurrency != "" && priceCentsStr != "" {
		cents, err := strconv.ParseInt(priceCentsStr, 10, 64)
		if err == nil {
			row.Prices = append(row.Prices, domain.ProductPrice{
				Currency: priceCurrency,
				Locale:   priceLocale,
				Cents:    cents,
			})
		}
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
