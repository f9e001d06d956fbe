package uploads

import (
	"bytes"
	"encoding/base64"
	"strings"

	"github.com/starford/folio/internal/apperr"
)

// DefaultMaxBytes is the upload ceiling for a decoded attachment.
const DefaultMaxBytes = 10 << 20 // 10 MiB

var pdfMagic = []byte("%PDF")

// Line breaks from MIME-style wrapping carry no data.
var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

// Validation failures. All of them are apperr.ErrValidation.
var (
	ErrNoData        = apperr.Invalid("No file provided")
	ErrInvalidData   = apperr.Invalid("Invalid file data")
	ErrInvalidFormat = apperr.Invalid("Invalid file format. Only PDF files are allowed.")
)

// TooLarge returns the size error for a ceiling of maxBytes.
func TooLarge(maxBytes int64) error {
	return apperr.Invalid("File too large. Maximum size is %dMB.", maxBytes>>20)
}

// DecodePDF decodes a base64 payload, optionally prefixed with a data URL
// header, and checks that it is a PDF no larger than maxBytes.
// The size check runs on the encoded length before any decoding happens.
func DecodePDF(payload string, maxBytes int64) ([]byte, error) {
	if payload == "" {
		return nil, ErrNoData
	}
	if i := strings.IndexByte(payload, ','); i >= 0 {
		payload = payload[i+1:]
	}
	payload = lineBreaks.Replace(strings.TrimSpace(payload))
	if payload == "" {
		return nil, ErrInvalidData
	}

	// Padding may shave up to two bytes off DecodedLen.
	if int64(base64.StdEncoding.DecodedLen(len(payload)))-2 > maxBytes {
		return nil, TooLarge(maxBytes)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, ErrInvalidData
		}
	}
	if int64(len(data)) > maxBytes {
		return nil, TooLarge(maxBytes)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, ErrInvalidFormat
	}
	return data, nil
}
