package test_utils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RequestOptions struct {
	Method         string
	URL            string
	Body           any
	Headers        map[string]string
	AuthToken      string
	ExpectedStatus int
}

type TestResponse struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// MakeRequest runs a request against the router and asserts the status code.
// String and []byte bodies are sent as is, anything else is sent as JSON.
func MakeRequest(t *testing.T, router *gin.Engine, options RequestOptions) *TestResponse {
	t.Helper()

	var body io.Reader
	contentType := ""

	switch value := options.Body.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(value)
		contentType = "text/plain"
	case string:
		body = bytes.NewBufferString(value)
		contentType = "text/plain"
	default:
		data, err := json.Marshal(value)
		require.NoError(t, err, "failed to marshal request body")

		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequest(options.Method, options.URL, body)
	require.NoError(t, err, "failed to create request")

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if options.AuthToken != "" {
		req.Header.Set("Authorization", options.AuthToken)
	}

	for key, value := range options.Headers {
		req.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if options.ExpectedStatus != 0 {
		assert.Equal(
			t,
			options.ExpectedStatus,
			recorder.Code,
			"unexpected status for %s %s, body: %s",
			options.Method,
			options.URL,
			recorder.Body.String(),
		)
	}

	return &TestResponse{
		StatusCode: recorder.Code,
		Body:       recorder.Body.Bytes(),
		Headers:    recorder.Header(),
	}
}

func MakeGetRequest(
	t *testing.T,
	router *gin.Engine,
	url, authToken string,
	expectedStatus int,
) *TestResponse {
	return MakeRequest(t, router, RequestOptions{
		Method:         http.MethodGet,
		URL:            url,
		AuthToken:      authToken,
		ExpectedStatus: expectedStatus,
	})
}

func MakeGetRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url, authToken string,
	expectedStatus int,
	responseStruct any,
) {
	response := MakeGetRequest(t, router, url, authToken, expectedStatus)
	unmarshalResponse(t, response, responseStruct)
}

func MakePostRequest(
	t *testing.T,
	router *gin.Engine,
	url, authToken string,
	body any,
	expectedStatus int,
) *TestResponse {
	return MakeRequest(t, router, RequestOptions{
		Method:         http.MethodPost,
		URL:            url,
		Body:           body,
		AuthToken:      authToken,
		ExpectedStatus: expectedStatus,
	})
}

func MakePostRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url, authToken string,
	body any,
	expectedStatus int,
	responseStruct any,
) {
	response := MakePostRequest(t, router, url, authToken, body, expectedStatus)
	unmarshalResponse(t, response, responseStruct)
}

func MakePutRequest(
	t *testing.T,
	router *gin.Engine,
	url, authToken string,
	body any,
	expectedStatus int,
) *TestResponse {
	return MakeRequest(t, router, RequestOptions{
		Method:         http.MethodPut,
		URL:            url,
		Body:           body,
		AuthToken:      authToken,
		ExpectedStatus: expectedStatus,
	})
}

func MakePutRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url, authToken string,
	body any,
	expectedStatus int,
	responseStruct any,
) {
	response := MakePutRequest(t, router, url, authToken, body, expectedStatus)
	unmarshalResponse(t, response, responseStruct)
}

func MakeDeleteRequest(
	t *testing.T,
	router *gin.Engine,
	url, authToken string,
	expectedStatus int,
) *TestResponse {
	return MakeRequest(t, router, RequestOptions{
		Method:         http.MethodDelete,
		URL:            url,
		AuthToken:      authToken,
		ExpectedStatus: expectedStatus,
	})
}

func unmarshalResponse(t *testing.T, response *TestResponse, responseStruct any) {
	t.Helper()

	err := json.Unmarshal(response.Body, responseStruct)
	require.NoError(t, err, "failed to unmarshal response: %s", string(response.Body))
}
