package contracts

import (
	"context"
	"io"
)

type Storage interface {
	UploadObject(ctx context.Context, bucketName, objectKey string, reader io.Reader, size int64, contentType string) (string, error)
}
