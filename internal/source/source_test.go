package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	body   string
	err    error
	lastIn *s3.GetObjectInput
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.lastIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestReadLines(t *testing.T) {
	in := "a\r\n\n  \nb\nc"
	got, err := ReadLines(strings.NewReader(in), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestReadLines_SkipHeader(t *testing.T) {
	in := "\ndate,amount,method,is_successful\n2025-01-01,100.0,credit,true\n"
	got, err := ReadLines(strings.NewReader(in), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-01,100.0,credit,true"}, got)
}

func TestReadLines_Empty(t *testing.T) {
	got, err := ReadLines(strings.NewReader(""), true)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payments.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"a\":1}\n{\"b\":2}\n"), 0o644))

	l := &Loader{}
	got, err := l.Load(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, got)
}

func TestLoad_FileNotFound(t *testing.T) {
	l := &Loader{}
	_, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Empty(t *testing.T) {
	l := &Loader{}
	_, err := l.Load(context.Background(), " ", false)
	assert.Error(t, err)
}

func TestLoad_S3(t *testing.T) {
	fake := &fakeS3{body: "date,amount,method,is_successful\n2025-01-01,100.0,credit,true\n"}
	l := &Loader{S3: fake}

	got, err := l.Load(context.Background(), "s3://payments-bucket/exports/jan.csv", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-01,100.0,credit,true"}, got)

	require.NotNil(t, fake.lastIn)
	assert.Equal(t, "payments-bucket", aws.ToString(fake.lastIn.Bucket))
	assert.Equal(t, "exports/jan.csv", aws.ToString(fake.lastIn.Key))
}

func TestLoad_S3Error(t *testing.T) {
	boom := errors.New("access denied")
	l := &Loader{S3: &fakeS3{err: boom}}

	_, err := l.Load(context.Background(), "s3://b/k", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://bucket/a/b.jsonl")
	require.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "a/b.jsonl", key)

	for _, bad := range []string{"s3://bucket", "s3:///key", "http://bucket/key"} {
		_, _, err := ParseS3URI(bad)
		assert.Error(t, err, "expected error for %s", bad)
	}
}

func TestLoad_Testdata(t *testing.T) {
	l := &Loader{}

	jsonRecords, err := l.Load(context.Background(), "../../testdata/payments.jsonl", false)
	require.NoError(t, err)
	require.Len(t, jsonRecords, 3)
	assert.Equal(t, `{"date":"2025-01-01","amount":100.0,"method":"credit","is_successful":true}`, jsonRecords[0])

	csvRecords, err := l.Load(context.Background(), "../../testdata/payments.csv", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-01,100.0,credit,true", "2025-01-02,150.0,debit,false"}, csvRecords)
}
