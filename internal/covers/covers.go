// Package covers reads uploaded cover images and encodes them for transport.
//
// Covers are stored as raw bytes. The content type is sniffed from the bytes
// with mimetype; anything that is not recognisably an image is reported as
// image/jpeg so clients always get an image data URI.
package covers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FallbackMIME is used when the bytes are not a known image type.
const FallbackMIME = "image/jpeg"

var ErrCoverTooLarge = errors.New("cover image is too large")

// DetectMIME returns the image content type of data.
func DetectMIME(data []byte) string {
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return FallbackMIME
	}
	return mtype.String()
}

// DataURI encodes data as a base64 data URI, or returns nil for no cover.
func DataURI(data []byte) *string {
	if len(data) == 0 {
		return nil
	}
	uri := "data:" + DetectMIME(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
	return &uri
}

// ReadUpload reads an uploaded cover, refusing anything over maxBytes.
// A maxBytes of zero disables the limit.
func ReadUpload(header *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, ErrCoverTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open cover upload: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if maxBytes > 0 {
		reader = io.LimitReader(file, maxBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read cover upload: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrCoverTooLarge
	}
	return data, nil
}
