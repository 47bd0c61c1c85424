package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// maxLine bounds a single record line.
const maxLine = 1 << 20

// ObjectGetter is the subset of the S3 client used to fetch records.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader reads record lists from local files or s3://bucket/key URIs.
type Loader struct {
	// S3 is used for s3:// URIs. When nil, a client is built from the
	// default AWS config on first use.
	S3 ObjectGetter
}

// Load opens uri and returns one record per non-blank line.
func (l *Loader) Load(ctx context.Context, uri string, skipHeader bool) ([]string, error) {
	rc, err := l.Open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, err := ReadLines(rc, skipHeader)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", uri, err)
	}
	return records, nil
}

// Open returns a reader for uri.
func (l *Loader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, errors.New("empty source")
	}
	if !strings.HasPrefix(uri, "s3://") {
		f, err := os.Open(uri)
		if err != nil {
			return nil, fmt.Errorf("opening source: %w", err)
		}
		return f, nil
	}

	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	if l.S3 == nil {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		l.S3 = s3.NewFromConfig(cfg)
	}

	out, err := l.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3 object bucket=%q key=%q: %w", bucket, key, err)
	}
	return out.Body, nil
}

// ParseS3URI splits s3://bucket/key into its parts.
func ParseS3URI(uri string) (bucket, key string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("parsing s3 uri %q: %w", uri, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	key = strings.TrimLeft(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri %q needs a bucket and a key", uri)
	}
	return u.Host, key, nil
}

// ReadLines returns each non-blank line of r as a record. Line endings are
// stripped; with skipHeader the first non-blank line is dropped.
func ReadLines(r io.Reader, skipHeader bool) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	var records []string
	headerSeen := !skipHeader
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}
		records = append(records, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
