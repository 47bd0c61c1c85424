package summary

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/payiter/internal/lending"
	"github.com/cleared-dev/payiter/internal/payment"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleJSON() []string {
	return []string{
		`{"date":"2025-01-01","amount":100.0,"method":"credit","is_successful":true}`,
		`{"date":"2025-01-02","amount":50.0,"method":"debit","is_successful":true}`,
		`{"date":"2025-01-03","amount":75.0,"method":"credit","is_successful":false}`,
	}
}

func TestSummarize_JSON(t *testing.T) {
	s, err := Summarize(lending.New(sampleJSON()), payment.JSONDecoder{})
	require.NoError(t, err)

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 2, s.Successful)
	assert.Equal(t, 1, s.Failed)
	assert.True(t, s.Total.Equal(dec("225")), "total: got %s", s.Total)
	assert.True(t, s.SuccessfulTotal.Equal(dec("150")), "successful: got %s", s.SuccessfulTotal)

	require.Len(t, s.ByMethod, 2)
	assert.Equal(t, "credit", s.ByMethod[0].Method)
	assert.Equal(t, 2, s.ByMethod[0].Count)
	assert.True(t, s.ByMethod[0].Total.Equal(dec("175")))
	assert.Equal(t, "debit", s.ByMethod[1].Method)
}

func TestSummarize_CSV(t *testing.T) {
	store := lending.New([]string{
		"2025-01-01,100.0,credit,true",
		"2025-01-02,150.0,debit,false",
	})
	s, err := Summarize(store, payment.CSVDecoder{})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
	assert.True(t, s.Total.Equal(dec("250")))
	assert.True(t, store.Exhausted())
}

func TestSummarize_ExactDecimals(t *testing.T) {
	store := lending.New([]string{
		"2025-01-01,0.1,credit,true",
		"2025-01-02,0.2,credit,true",
	})
	s, err := Summarize(store, payment.CSVDecoder{})
	require.NoError(t, err)
	assert.True(t, s.Total.Equal(dec("0.3")), "0.1+0.2 should equal 0.3 exactly, got %s", s.Total)
}

func TestSummarize_Empty(t *testing.T) {
	s, err := Summarize(lending.New(nil), payment.JSONDecoder{})
	require.NoError(t, err)
	assert.Zero(t, s.Count)
	assert.True(t, s.Total.IsZero())
	assert.Empty(t, s.ByMethod)
}

func TestSummarize_Malformed(t *testing.T) {
	records := append(sampleJSON()[:1], "{broken")
	s, err := Summarize(lending.New(records), payment.JSONDecoder{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 1")
	assert.Equal(t, 1, s.Count, "records before the failure are kept")
}

func TestWrite(t *testing.T) {
	s, err := Summarize(lending.New(sampleJSON()), payment.JSONDecoder{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	out := buf.String()
	assert.Contains(t, out, "payments:   3 (2 successful, 1 failed)")
	assert.Contains(t, out, "total:      225.00")
	assert.Contains(t, out, "successful: 150.00")
	assert.Contains(t, out, "credit")
}
