package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"

	"itube-transcoder/dto"
)

// ObjectStoreError wraps a failed transfer with enough context to tell which
// object was involved.
type ObjectStoreError struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *ObjectStoreError) Error() string {
	return fmt.Sprintf("%s s3://%s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *ObjectStoreError) Unwrap() error {
	return e.Err
}

// UploadItem is one local artifact scheduled for upload.
type UploadItem struct {
	LocalPath   string
	Key         string
	ContentType string
}

// Gateway moves video objects between the local filesystem and the object store.
type Gateway interface {
	Download(ctx context.Context, source dto.SourceReference, destPath string) error
	UploadDirectory(ctx context.Context, bucket, localDir, remotePrefix string) error
}

type gateway struct {
	client *minio.Client
}

func NewGateway(client *minio.Client) Gateway {
	return &gateway{client: client}
}

func (g *gateway) Download(ctx context.Context, source dto.SourceReference, destPath string) error {
	zerolog.Ctx(ctx).Info().
		Str("bucket", source.Bucket).
		Str("key", source.Key).
		Str("dest", destPath).
		Msg("downloading source object")

	if err := g.client.FGetObject(ctx, source.Bucket, source.Key, destPath, minio.GetObjectOptions{}); err != nil {
		return &ObjectStoreError{Op: "download", Bucket: source.Bucket, Key: source.Key, Err: err}
	}
	return nil
}

// UploadDirectory pushes every regular file under localDir to
// bucket/{remotePrefix}/{relative path}, publicly readable. Uploads stop at
// the first failure; already-uploaded objects are not rolled back.
func (g *gateway) UploadDirectory(ctx context.Context, bucket, localDir, remotePrefix string) error {
	items, err := UploadItems(localDir, remotePrefix)
	if err != nil {
		return &ObjectStoreError{Op: "upload", Bucket: bucket, Key: remotePrefix, Err: err}
	}

	for _, item := range items {
		zerolog.Ctx(ctx).Debug().
			Str("file", item.LocalPath).
			Str("key", item.Key).
			Str("content_type", item.ContentType).
			Msg("uploading artifact")

		opts := minio.PutObjectOptions{
			ContentType:  item.ContentType,
			UserMetadata: map[string]string{"x-amz-acl": "public-read"},
		}
		if _, err := g.client.FPutObject(ctx, bucket, item.Key, item.LocalPath, opts); err != nil {
			return &ObjectStoreError{Op: "upload", Bucket: bucket, Key: item.Key, Err: err}
		}
	}

	zerolog.Ctx(ctx).Info().Int("count", len(items)).Str("prefix", remotePrefix).Msg("upload complete")
	return nil
}

// UploadItems walks localDir and derives the remote key and content type for
// every regular file. The walk order is lexical, so one run always enumerates
// the same tree the same way.
func UploadItems(localDir, remotePrefix string) ([]UploadItem, error) {
	var items []UploadItem
	err := filepath.Walk(localDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relativePath, err := filepath.Rel(localDir, path)
		if err != nil {
			return err
		}

		key := filepath.Join(remotePrefix, relativePath)
		key = strings.ReplaceAll(key, "\\", "/")

		items = append(items, UploadItem{
			LocalPath:   path,
			Key:         key,
			ContentType: ContentTypeFor(path),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ContentTypeFor maps streaming artifact extensions to their media types.
// Unknown extensions return "" and take the store default.
func ContentTypeFor(path string) string {
	switch {
	case strings.HasSuffix(path, ".m3u8"):
		return "application/vnd.apple.mpegurl"
	case strings.HasSuffix(path, ".ts"):
		return "video/MP2T"
	case strings.HasSuffix(path, ".mpd"):
		return "application/dash+xml"
	case strings.HasSuffix(path, ".m4s"):
		return "video/mp4"
	}
	return ""
}
