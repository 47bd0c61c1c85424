package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/payiter/internal/model"
)

// jsonPayment mirrors model.Payment with pointers so missing keys can be told
// apart from zero values.
type jsonPayment struct {
	Date         *string  `json:"date"`
	Amount       *float64 `json:"amount"`
	Method       *string  `json:"method"`
	IsSuccessful *bool    `json:"is_successful"`
}

// DecodeJSON parses a single JSON payment object. All four keys are required;
// other keys are ignored.
func DecodeJSON(record string) (model.Payment, error) {
	dec := json.NewDecoder(strings.NewReader(record))

	var jp jsonPayment
	if err := dec.Decode(&jp); err != nil {
		return model.Payment{}, fmt.Errorf("decoding payment JSON: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return model.Payment{}, errors.New("decoding payment JSON: trailing data after object")
	}

	switch {
	case jp.Date == nil:
		return model.Payment{}, missingField("date")
	case jp.Amount == nil:
		return model.Payment{}, missingField("amount")
	case jp.Method == nil:
		return model.Payment{}, missingField("method")
	case jp.IsSuccessful == nil:
		return model.Payment{}, missingField("is_successful")
	}

	return model.Payment{
		Date:         *jp.Date,
		Amount:       *jp.Amount,
		Method:       *jp.Method,
		IsSuccessful: *jp.IsSuccessful,
	}, nil
}

// EncodeJSON returns the reference JSON encoding of p.
func EncodeJSON(p model.Payment) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding payment JSON: %w", err)
	}
	return string(data), nil
}

// MustDecodeJSON is DecodeJSON for callers that treat malformed input as a bug.
func MustDecodeJSON(record string) model.Payment {
	p, err := DecodeJSON(record)
	if err != nil {
		panic(err)
	}
	return p
}

func missingField(name string) error {
	return fmt.Errorf("decoding payment JSON: missing field %q", name)
}
