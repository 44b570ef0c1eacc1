package log_records_importing

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	log_records_core "logkeeper/internal/features/log_records/core"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
)

const sampleBatch = "2024-01-01 10:00:00.000|10.0.0.1|GET /a|200|curl/8.0\n"

func Test_DecodePayload_WithPlainBase64_ReturnsText(t *testing.T) {
	content, err := DecodePayload(base64.StdEncoding.EncodeToString([]byte(sampleBatch)), 0)

	assert.NoError(t, err)
	assert.Equal(t, sampleBatch, string(content))
}

func Test_DecodePayload_WithZstdCompressedContent_Decompresses(t *testing.T) {
	encoder, err := zstd.NewWriter(nil)
	assert.NoError(t, err)
	compressed := encoder.EncodeAll([]byte(sampleBatch), nil)
	assert.NoError(t, encoder.Close())

	content, err := DecodePayload(legacyPrefix+base64.StdEncoding.EncodeToString(compressed), 1024)

	assert.NoError(t, err)
	assert.Equal(t, sampleBatch, string(content))
}

func Test_DecodePayload_WithGzipCompressedContent_Decompresses(t *testing.T) {
	compressed := gzipBytes(t, []byte(sampleBatch))

	content, err := DecodePayload(base64.StdEncoding.EncodeToString(compressed), 0)

	assert.NoError(t, err)
	assert.Equal(t, sampleBatch, string(content))
}

func Test_DecodePayload_WithByteOrderMark_DropsIt(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte(sampleBatch)...)

	content, err := DecodePayload(base64.StdEncoding.EncodeToString(withBOM), 0)

	assert.NoError(t, err)
	assert.Equal(t, sampleBatch, string(content))
}

func Test_DecodePayload_ExceedingLimit_ReturnsPayloadTooLarge(t *testing.T) {
	large := strings.Repeat(sampleBatch, 100)

	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "plain", payload: []byte(large)},
		{name: "gzip", payload: gzipBytes(t, []byte(large))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePayload(base64.StdEncoding.EncodeToString(tt.payload), 1024)

			validationErr, ok := err.(*log_records_core.ValidationError)
			assert.True(t, ok, "expected ValidationError, got %T", err)
			if ok {
				assert.Equal(t, log_records_core.ErrorPayloadTooLarge, validationErr.Code)
			}
		})
	}
}

func Test_DecodeContent_WithCorruptedGzip_ReturnsInvalidPayload(t *testing.T) {
	corrupted := append([]byte{0x1F, 0x8B}, []byte("definitely not gzip")...)

	_, err := DecodeContent(corrupted, 0)

	validationErr, ok := err.(*log_records_core.ValidationError)
	assert.True(t, ok)
	assert.Equal(t, log_records_core.ErrorInvalidPayload, validationErr.Code)
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()

	var buffer bytes.Buffer
	writer := gzip.NewWriter(&buffer)
	_, err := writer.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	return buffer.Bytes()
}
