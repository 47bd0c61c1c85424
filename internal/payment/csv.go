package payment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cleared-dev/payiter/internal/model"
)

// Header is the optional header row of a payments CSV file.
const Header = "date,amount,method,is_successful"

const (
	numFields  = 4
	colDate    = 0
	colAmount  = 1
	colMethod  = 2
	colSuccess = 3
)

// DecodeCSV parses one CSV row of date, amount, method, is_successful.
func DecodeCSV(record string) (model.Payment, error) {
	rec, err := readRow(record)
	if err != nil {
		return model.Payment{}, fmt.Errorf("reading payment CSV: %w", err)
	}
	return UnmarshalPayment(rec)
}

// readRow reads record with lenient quoting. A row whose quotes do not leave
// exactly numFields fields is split on commas as-is.
func readRow(record string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(record))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rec, err := cr.Read()
	if err == nil {
		if _, err := cr.Read(); !errors.Is(err, io.EOF) {
			return nil, errors.New("expected a single row")
		}
		if len(rec) == numFields {
			return rec, nil
		}
	}

	line := strings.TrimRight(record, "\r\n")
	if strings.ContainsAny(line, "\r\n") {
		return nil, errors.New("expected a single row")
	}
	fields := strings.Split(line, ",")
	if len(fields) != numFields {
		return nil, fmt.Errorf("expected %d fields, got %d", numFields, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimLeft(fields[i], " \t")
	}
	return fields, nil
}

// UnmarshalPayment converts a CSV row to a Payment.
func UnmarshalPayment(rec []string) (model.Payment, error) {
	if len(rec) != numFields {
		return model.Payment{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	raw := strings.Trim(rec[colAmount], `"`)
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return model.Payment{}, fmt.Errorf("parsing amount %q: %w", raw, err)
	}

	ok, err := strconv.ParseBool(rec[colSuccess])
	if err != nil {
		return model.Payment{}, fmt.Errorf("parsing is_successful %q: %w", rec[colSuccess], err)
	}

	return model.Payment{
		Date:         rec[colDate],
		Amount:       amount,
		Method:       rec[colMethod],
		IsSuccessful: ok,
	}, nil
}

// MarshalPayment converts a Payment to a CSV row ([]string).
func MarshalPayment(p model.Payment) []string {
	row := make([]string, numFields)
	row[colDate] = p.Date
	row[colAmount] = formatAmount(p.Amount)
	row[colMethod] = p.Method
	row[colSuccess] = strconv.FormatBool(p.IsSuccessful)
	return row
}

// EncodeCSV returns p as a single CSV row without a line terminator.
func EncodeCSV(p model.Payment) (string, error) {
	var sb strings.Builder
	cw := csv.NewWriter(&sb)
	if err := cw.Write(MarshalPayment(p)); err != nil {
		return "", fmt.Errorf("writing payment CSV: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("writing payment CSV: %w", err)
	}
	return strings.TrimRight(sb.String(), "\r\n"), nil
}

// MustDecodeCSV is DecodeCSV for callers that treat malformed input as a bug.
func MustDecodeCSV(record string) model.Payment {
	p, err := DecodeCSV(record)
	if err != nil {
		panic(err)
	}
	return p
}

// formatAmount keeps at least one decimal place: 100 -> "100.0".
func formatAmount(a float64) string {
	s := strconv.FormatFloat(a, 'f', -1, 64)
	if !math.IsNaN(a) && !math.IsInf(a, 0) && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
