package model

import "strings"

// Format identifies how a raw payment record is encoded.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat normalizes a format name. Returns false for unknown formats.
func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, true
	default:
		return "", false
	}
}

// Payment is a decoded payment record.
type Payment struct {
	Date         string  `json:"date" parquet:"date"`
	Amount       float64 `json:"amount" parquet:"amount"`
	Method       string  `json:"method" parquet:"method"`
	IsSuccessful bool    `json:"is_successful" parquet:"is_successful"`
}
