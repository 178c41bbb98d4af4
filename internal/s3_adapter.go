package internal

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
)

// S3Store copies backup files to s3://bucket/prefix/.
type S3Store struct {
	Client *s3.Client
	bucket string
	prefix string
}

func (a *S3Store) Init(ctx context.Context, urlStr string) error {
	bucket, prefix, err := parseS3URL(urlStr)
	if err != nil {
		return err
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}

	a.Client = s3.NewFromConfig(cfg)
	a.bucket = bucket
	a.prefix = prefix

	return nil
}

func (a *S3Store) Put(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	contentType, err := detectContentType(f, path)
	if err != nil {
		return err
	}

	_, err = a.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.prefix + filepath.Base(path)),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	return err
}

func parseS3URL(urlStr string) (string, string, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", errors.New("expected s3://bucket/prefix")
	}

	prefix := strings.TrimPrefix(u.Path, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix = prefix + "/"
	}
	return u.Host, prefix, nil
}

func detectContentType(file io.ReadSeeker, filename string) (string, error) {
	// we only have to pass the file header = first 261 bytes
	head := make([]byte, 261)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}

	// rewind
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	kind, _ := filetype.Match(head[:n])
	if kind.MIME.Value != "" {
		return kind.MIME.Value, nil
	}

	switch filepath.Ext(filename) {
	case ".csv":
		return "text/csv; charset=utf-8", nil
	case ".ndjson":
		return "application/x-ndjson", nil
	default:
		return "application/octet-stream", nil
	}
}
