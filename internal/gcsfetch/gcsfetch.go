// Package gcsfetch pulls statement documents from Cloud Storage for jobs
// submitted by URI instead of direct upload. It assumes Application Default
// Credentials are configured.
package gcsfetch

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/mxfin-tools/tpv-analyzer/internal/pipeline"
)

// Fetcher reads statement objects from Cloud Storage. The caller owns the
// client's lifecycle.
type Fetcher struct {
	client *storage.Client
}

// New builds a fetcher over an existing client.
func New(client *storage.Client) *Fetcher {
	return &Fetcher{client: client}
}

// ParseURI splits a gs:// URI into bucket and object path.
func ParseURI(gcsURI string) (bucket, object string, err error) {
	if !strings.HasPrefix(gcsURI, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", gcsURI)
	}
	trimmed := strings.TrimPrefix(gcsURI, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", gcsURI)
	}
	return parts[0], parts[1], nil
}

// FetchDocument downloads one object as a raw document named after the
// object's base name.
func (f *Fetcher) FetchDocument(ctx context.Context, gcsURI string) (pipeline.RawDocument, error) {
	bucket, object, err := ParseURI(gcsURI)
	if err != nil {
		return pipeline.RawDocument{}, err
	}

	data, err := f.read(ctx, bucket, object)
	if err != nil {
		return pipeline.RawDocument{}, err
	}
	return pipeline.RawDocument{Filename: path.Base(object), Content: data}, nil
}

// FetchPrefix downloads every statement object (.pdf or .zip) under a gs://
// prefix, in listing order. An empty prefix is an error, not an empty job.
func (f *Fetcher) FetchPrefix(ctx context.Context, gcsURI string) ([]pipeline.RawDocument, error) {
	bucket, prefix, err := ParseURI(gcsURI)
	if err != nil {
		return nil, err
	}

	it := f.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	var docs []pipeline.RawDocument
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gcsfetch: listing %s: %w", gcsURI, err)
		}
		name := strings.ToLower(attrs.Name)
		if !strings.HasSuffix(name, ".pdf") && !strings.HasSuffix(name, ".zip") {
			continue
		}
		data, err := f.read(ctx, bucket, attrs.Name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, pipeline.RawDocument{Filename: path.Base(attrs.Name), Content: data})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("gcsfetch: no statement objects under %s", gcsURI)
	}
	return docs, nil
}

func (f *Fetcher) read(ctx context.Context, bucket, object string) ([]byte, error) {
	rc, err := f.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcsfetch: reading object %s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("gcsfetch: reading bytes: %w", err)
	}
	return data, nil
}
