package data_uri

import (
	"encoding/base64"
	"errors"
	"strings"
)

const (
	DefaultContentType = "application/octet-stream"

	base64Marker = ";base64,"
)

var ErrInvalidBase64 = errors.New("invalid base64 data")

// StripPrefix removes a leading "data:<mime>;base64," prefix and returns the
// remaining data together with the declared content type. Values without
// the prefix are returned unchanged with an empty content type.
func StripPrefix(value string) (data string, contentType string) {
	value = strings.TrimSpace(value)

	if !strings.HasPrefix(strings.ToLower(value), "data:") {
		return value, ""
	}

	markerIndex := strings.Index(strings.ToLower(value), base64Marker)
	if markerIndex == -1 {
		return value, ""
	}

	contentType = value[len("data:"):markerIndex]
	if contentType == "" {
		contentType = DefaultContentType
	}

	return value[markerIndex+len(base64Marker):], contentType
}

// Decode strips an optional data-URI prefix and decodes the base64 body.
// Whitespace and line breaks inside the body are ignored and unpadded
// input is accepted.
func Decode(value string) (decoded []byte, contentType string, err error) {
	data, contentType := StripPrefix(value)
	data = removeWhitespace(data)

	decoded, err = base64.StdEncoding.DecodeString(data)
	if err == nil {
		return decoded, contentType, nil
	}

	decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return nil, "", ErrInvalidBase64
	}

	return decoded, contentType, nil
}

// Encode renders data as a base64 data URI.
func Encode(contentType string, data []byte) string {
	if contentType == "" {
		contentType = DefaultContentType
	}

	return "data:" + contentType + base64Marker + base64.StdEncoding.EncodeToString(data)
}

func removeWhitespace(value string) string {
	if !strings.ContainsAny(value, " \t\r\n") {
		return value
	}

	var builder strings.Builder
	builder.Grow(len(value))

	for _, r := range value {
		switch r {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			builder.WriteRune(r)
		}
	}

	return builder.String()
}
