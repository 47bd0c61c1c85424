package payment

import (
	"strconv"
	"strings"

	"github.com/cleared-dev/payiter/internal/model"
)

// Decoder turns one raw record into a Payment.
type Decoder interface {
	Decode(record string) (model.Payment, error)
	Format() model.Format
}

// JSONDecoder decodes records holding one JSON object each.
type JSONDecoder struct{}

// Format returns the decoder's format.
func (JSONDecoder) Format() model.Format { return model.FormatJSON }

// Decode calls DecodeJSON.
func (JSONDecoder) Decode(record string) (model.Payment, error) { return DecodeJSON(record) }

// CSVDecoder decodes records holding one CSV row each.
type CSVDecoder struct{}

// Format returns the decoder's format.
func (CSVDecoder) Format() model.Format { return model.FormatCSV }

// Decode calls DecodeCSV.
func (CSVDecoder) Decode(record string) (model.Payment, error) { return DecodeCSV(record) }

// Registry holds decoders by format.
type Registry struct {
	decoders map[model.Format]Decoder
}

// NewRegistry creates an empty decoder registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[model.Format]Decoder)}
}

// Register adds a decoder. Panics on duplicate format.
func (r *Registry) Register(d Decoder) {
	key := model.Format(strings.ToLower(string(d.Format())))
	if _, ok := r.decoders[key]; ok {
		panic("duplicate decoder format: " + string(key))
	}
	r.decoders[key] = d
}

// Get returns the decoder for format, or nil.
func (r *Registry) Get(format string) Decoder {
	return r.decoders[model.Format(strings.ToLower(strings.TrimSpace(format)))]
}

// DefaultRegistry returns a registry with the JSON and CSV decoders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(JSONDecoder{})
	r.Register(CSVDecoder{})
	return r
}

// Amount returns a transform that decodes a record with d and yields its amount.
func Amount(d Decoder) func(string) (float64, error) {
	return func(record string) (float64, error) {
		p, err := d.Decode(record)
		if err != nil {
			return 0, err
		}
		return p.Amount, nil
	}
}

// Field returns a transform that decodes a record with d and renders one
// field as text. ok is false for unknown field names.
func Field(d Decoder, name string) (f func(string) (string, error), ok bool) {
	var pick func(model.Payment) string
	switch strings.ToLower(name) {
	case "date":
		pick = func(p model.Payment) string { return p.Date }
	case "amount":
		pick = func(p model.Payment) string { return formatAmount(p.Amount) }
	case "method":
		pick = func(p model.Payment) string { return p.Method }
	case "is_successful":
		pick = func(p model.Payment) string { return strconv.FormatBool(p.IsSuccessful) }
	default:
		return nil, false
	}
	return func(record string) (string, error) {
		p, err := d.Decode(record)
		if err != nil {
			return "", err
		}
		return pick(p), nil
	}, true
}
