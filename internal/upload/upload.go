// Package upload adapts the external image host. The application never
// stores files itself; it hands the stream to the host and keeps the URL.
package upload

import (
	"context"
	"errors"
	"io"
)

// Uploader sends an image stream to the media host and returns the hosted
// URL. Implementations must be safe for concurrent use by request handlers.
//
// Callers treat failure as "no image": the error is logged and the owning
// record is written with an empty URL. An upload must never fail the write
// it decorates.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (url string, err error)
}

// Disabled is the uploader used when no media host is configured. The server
// still starts; records are simply created without images.
type Disabled struct{}

var _ Uploader = Disabled{}

func (Disabled) Upload(context.Context, io.Reader, string) (string, error) {
	return "", errors.New("upload: no media host configured")
}
