package log_records_importing

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	log_records_core "logkeeper/internal/features/log_records/core"
	"logkeeper/internal/util/data_uri"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	gzipMagic = []byte{0x1F, 0x8B}
	utf8BOM   = []byte{0xEF, 0xBB, 0xBF}
)

var (
	zstdDecoder     *zstd.Decoder
	zstdDecoderErr  error
	zstdDecoderOnce sync.Once
)

func getZstdDecoder() (*zstd.Decoder, error) {
	zstdDecoderOnce.Do(func() {
		zstdDecoder, zstdDecoderErr = zstd.NewReader(nil)
	})

	return zstdDecoder, zstdDecoderErr
}

// DecodePayload turns the encoded batch payload into raw text: an optional
// data-URI prefix is stripped, the base64 body is decoded and zstd or gzip
// compressed content is inflated.
func DecodePayload(encodedPayload string, maxDecodedBytes int64) ([]byte, error) {
	decoded, _, err := data_uri.Decode(encodedPayload)
	if err != nil {
		return nil, &log_records_core.ValidationError{
			Code:    log_records_core.ErrorInvalidPayload,
			Message: "payload is not valid base64",
		}
	}

	return DecodeContent(decoded, maxDecodedBytes)
}

// DecodeContent inflates compressed content and enforces the size limit.
// Plain text is returned as is.
func DecodeContent(content []byte, maxDecodedBytes int64) ([]byte, error) {
	var err error

	switch {
	case bytes.HasPrefix(content, zstdMagic):
		content, err = decompressZstd(content, maxDecodedBytes)
	case bytes.HasPrefix(content, gzipMagic):
		content, err = decompressGzip(content, maxDecodedBytes)
	}

	if err != nil {
		var validationErr *log_records_core.ValidationError
		if errors.As(err, &validationErr) {
			return nil, err
		}

		return nil, &log_records_core.ValidationError{
			Code:    log_records_core.ErrorInvalidPayload,
			Message: fmt.Sprintf("payload could not be decompressed: %v", err),
		}
	}

	if maxDecodedBytes > 0 && int64(len(content)) > maxDecodedBytes {
		return nil, payloadTooLargeError(maxDecodedBytes)
	}

	return bytes.TrimPrefix(content, utf8BOM), nil
}

func decompressZstd(content []byte, maxDecodedBytes int64) ([]byte, error) {
	decoder, err := getZstdDecoder()
	if err != nil {
		return nil, err
	}

	if maxDecodedBytes <= 0 {
		return decoder.DecodeAll(content, nil)
	}

	stream, err := zstd.NewReader(bytes.NewReader(content), zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	return readLimited(stream, maxDecodedBytes)
}

func decompressGzip(content []byte, maxDecodedBytes int64) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return readLimited(reader, maxDecodedBytes)
}

func readLimited(reader io.Reader, maxDecodedBytes int64) ([]byte, error) {
	if maxDecodedBytes <= 0 {
		return io.ReadAll(reader)
	}

	content, err := io.ReadAll(io.LimitReader(reader, maxDecodedBytes+1))
	if err != nil {
		return nil, err
	}

	if int64(len(content)) > maxDecodedBytes {
		return nil, payloadTooLargeError(maxDecodedBytes)
	}

	return content, nil
}

func payloadTooLargeError(maxDecodedBytes int64) error {
	return &log_records_core.ValidationError{
		Code:    log_records_core.ErrorPayloadTooLarge,
		Message: fmt.Sprintf("decoded payload exceeds %d bytes", maxDecodedBytes),
	}
}
