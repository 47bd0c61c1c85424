package summary

import (
	"fmt"
	"io"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/payiter/internal/lending"
	"github.com/cleared-dev/payiter/internal/model"
	"github.com/cleared-dev/payiter/internal/payment"
)

// MethodTotal is the running total for one payment method.
type MethodTotal struct {
	Method string
	Count  int
	Total  decimal.Decimal
}

// Summary aggregates decoded payments.
type Summary struct {
	Count           int
	Successful      int
	Failed          int
	Total           decimal.Decimal // all payments
	SuccessfulTotal decimal.Decimal // successful payments only
	ByMethod        []MethodTotal   // first-seen order
}

// Add folds one payment into the summary.
func (s *Summary) Add(p model.Payment) {
	amount := decimal.NewFromFloat(p.Amount)

	s.Count++
	s.Total = s.Total.Add(amount)
	if p.IsSuccessful {
		s.Successful++
		s.SuccessfulTotal = s.SuccessfulTotal.Add(amount)
	} else {
		s.Failed++
	}

	i := slices.IndexFunc(s.ByMethod, func(m MethodTotal) bool { return m.Method == p.Method })
	if i < 0 {
		s.ByMethod = append(s.ByMethod, MethodTotal{Method: p.Method})
		i = len(s.ByMethod) - 1
	}
	s.ByMethod[i].Count++
	s.ByMethod[i].Total = s.ByMethod[i].Total.Add(amount)
}

// Summarize drains l, decoding each record with d.
func Summarize(l lending.Lender, d payment.Decoder) (Summary, error) {
	var s Summary
	for {
		p, ok, err := lending.ProcessErr(l, d.Decode)
		if err != nil {
			return s, fmt.Errorf("summarizing: %w", err)
		}
		if !ok {
			return s, nil
		}
		s.Add(p)
	}
}

// Write prints s as plain text.
func (s Summary) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "payments:   %d (%d successful, %d failed)\n", s.Count, s.Successful, s.Failed); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "total:      %s\n", s.Total.StringFixed(2)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "successful: %s\n", s.SuccessfulTotal.StringFixed(2)); err != nil {
		return err
	}
	for _, m := range s.ByMethod {
		if _, err := fmt.Fprintf(w, "  %-10s %4d %s\n", m.Method, m.Count, m.Total.StringFixed(2)); err != nil {
			return err
		}
	}
	return nil
}
