package export

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/payiter/internal/model"
)

func samplePayments() []model.Payment {
	return []model.Payment{
		{Date: "2025-01-01", Amount: 100, Method: "credit", IsSuccessful: true},
		{Date: "2025-01-02", Amount: 50, Method: "debit", IsSuccessful: true},
		{Date: "2025-01-03", Amount: 75.25, Method: "credit", IsSuccessful: false},
	}
}

func TestWriteParquet_RoundTrip(t *testing.T) {
	for _, compression := range []string{"", "snappy", "gzip", "zstd"} {
		t.Run("compression="+compression, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteParquet(context.Background(), &buf, samplePayments(), compression))

			got, err := ReadParquet(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, samplePayments(), got)
		})
	}
}

func TestWriteParquet_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteParquet(context.Background(), &buf, nil, ""))

	got, err := ReadParquet(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteParquet_UnsupportedCompression(t *testing.T) {
	var buf bytes.Buffer
	err := WriteParquet(context.Background(), &buf, samplePayments(), "brotli")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported parquet compression")
}

func TestWriteParquet_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := WriteParquet(ctx, &buf, samplePayments(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, buf.Len())
}
