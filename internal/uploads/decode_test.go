package uploads

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/starford/folio/internal/apperr"
)

func pdf(size int) []byte {
	data := bytes.Repeat([]byte{'x'}, size)
	copy(data, "%PDF-1.7\n")
	return data
}

func TestDecodePDF(t *testing.T) {
	small := pdf(64)
	enc := base64.StdEncoding.EncodeToString(small)

	cases := []struct {
		name    string
		payload string
		wantErr error
	}{
		{"plain base64", enc, nil},
		{"data url", "data:application/pdf;base64," + enc, nil},
		{"unpadded", base64.RawStdEncoding.EncodeToString(small), nil},
		{"empty", "", ErrNoData},
		{"only prefix", "data:application/pdf;base64,", ErrInvalidData},
		{"garbage", "!!!not base64!!!", ErrInvalidData},
		{"png disguised as pdf", "data:application/pdf;base64," +
			base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nrest")), ErrInvalidFormat},
		{"too short", base64.StdEncoding.EncodeToString([]byte("%PD")), ErrInvalidFormat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodePDF(tc.payload, DefaultMaxBytes)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				if !errors.Is(err, apperr.ErrValidation) {
					t.Errorf("err %v is not a validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, small) {
				t.Error("decoded bytes differ")
			}
		})
	}
}

func TestDecodePDF_SizeCeiling(t *testing.T) {
	const max = 1 << 10
	exact := base64.StdEncoding.EncodeToString(pdf(max))
	if _, err := DecodePDF(exact, max); err != nil {
		t.Fatalf("payload at the ceiling rejected: %v", err)
	}

	over := base64.StdEncoding.EncodeToString(pdf(max + 1))
	_, err := DecodePDF(over, max)
	if err == nil {
		t.Fatal("payload over the ceiling accepted")
	}
	if msg, _ := apperr.Message(err); msg != TooLarge(max).Error() {
		t.Errorf("err = %v, want size error", err)
	}
}

func TestDecodePDF_OversizedRejectedBeforeDecoding(t *testing.T) {
	// Not valid base64 at all: only the length check can reject it.
	huge := bytes.Repeat([]byte{'#'}, 4*(DefaultMaxBytes/3)+64)
	_, err := DecodePDF(string(huge), DefaultMaxBytes)
	if msg, _ := apperr.Message(err); msg != TooLarge(DefaultMaxBytes).Error() {
		t.Errorf("err = %v, want size error", err)
	}
}

func wrap(s string, width int) string {
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteString("\r\n")
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}

func TestDecodePDF_WrappedPayloadNearCeiling(t *testing.T) {
	const max = 1 << 20
	raw := pdf(max - 1000)
	wrapped := wrap(base64.StdEncoding.EncodeToString(raw), 76)

	got, err := DecodePDF("data:application/pdf;base64,"+wrapped, max)
	if err != nil {
		t.Fatalf("wrapped payload under the ceiling rejected: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Error("decoded bytes differ from the original")
	}

	over := wrap(base64.StdEncoding.EncodeToString(pdf(max+1)), 76)
	if _, err := DecodePDF(over, max); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("wrapped payload over the ceiling = %v, want size error", err)
	}
}
