package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/cleared-dev/payiter/internal/model"
)

// WriteParquet encodes payments as a Parquet file.
// compression is one of "", "snappy", "gzip" or "zstd".
func WriteParquet(ctx context.Context, w io.Writer, payments []model.Payment, compression string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	options := make([]parquet.WriterOption, 0, 1)
	switch compression {
	case "":
		// no compression
	case "snappy":
		options = append(options, parquet.Compression(&parquet.Snappy))
	case "gzip":
		options = append(options, parquet.Compression(&parquet.Gzip))
	case "zstd":
		options = append(options, parquet.Compression(&parquet.Zstd))
	default:
		return fmt.Errorf("unsupported parquet compression: %q", compression)
	}

	pw := parquet.NewGenericWriter[model.Payment](w, options...)
	if _, err := pw.Write(payments); err != nil {
		_ = pw.Close()
		return fmt.Errorf("writing parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return ctx.Err()
}

// ReadParquet decodes a file produced by WriteParquet.
func ReadParquet(data []byte) ([]model.Payment, error) {
	r := parquet.NewGenericReader[model.Payment](bytes.NewReader(data))
	defer r.Close()

	const batchSize = 256
	buf := make([]model.Payment, batchSize)
	out := make([]model.Payment, 0, r.NumRows())
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("reading parquet rows: %w", err)
		}
	}
}
