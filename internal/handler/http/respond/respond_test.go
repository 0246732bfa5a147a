package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name           string
		code           int
		data           any
		expectedCode   int
		expectedBody   string
		expectedHeader string
	}{
		{
			name:           "success with map",
			code:           http.StatusOK,
			data:           map[string]string{"message": "success"},
			expectedCode:   http.StatusOK,
			expectedBody:   `{"message":"success"}`,
			expectedHeader: "application/json",
		},
		{
			name:           "success with struct",
			code:           http.StatusCreated,
			data:           struct{ ID int }{ID: 123},
			expectedCode:   http.StatusCreated,
			expectedBody:   `{"ID":123}`,
			expectedHeader: "application/json",
		},
		{
			name:           "success with nil",
			code:           http.StatusNoContent,
			data:           nil,
			expectedCode:   http.StatusNoContent,
			expectedBody:   "",
			expectedHeader: "application/json",
		},
		{
			name:           "error status",
			code:           http.StatusBadRequest,
			data:           map[string]string{"error": "bad request"},
			expectedCode:   http.StatusBadRequest,
			expectedBody:   `{"error":"bad request"}`,
			expectedHeader: "application/json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.code, tt.data)

			if w.Code != tt.expectedCode {
				t.Errorf("Code = %v, want %v", w.Code, tt.expectedCode)
			}

			if ct := w.Header().Get("Content-Type"); ct != tt.expectedHeader {
				t.Errorf("Content-Type = %v, want %v", ct, tt.expectedHeader)
			}

			body := strings.TrimSpace(w.Body.String())
			if tt.expectedBody != "" && body != tt.expectedBody {
				t.Errorf("Body = %v, want %v", body, tt.expectedBody)
			}
		})
	}
}

func TestJSON_EncodingError(t *testing.T) {
	// Create a value that cannot be JSON-encoded
	invalidData := make(chan int)

	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, invalidData)

	// Should still set headers and status code
	if w.Code != http.StatusOK {
		t.Errorf("Code = %v, want %v", w.Code, http.StatusOK)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %v, want %v", ct, "application/json")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		err          error
		expectedCode int
		expectedBody map[string]string
	}{
		{
			name:         "not found error",
			code:         http.StatusNotFound,
			err:          errors.New("resource not found"),
			expectedCode: http.StatusNotFound,
			expectedBody: map[string]string{"error": "resource not found"},
		},
		{
			name:         "bad request error",
			code:         http.StatusBadRequest,
			err:          errors.New("invalid input"),
			expectedCode: http.StatusBadRequest,
			expectedBody: map[string]string{"error": "invalid input"},
		},
		{
			name:         "internal error",
			code:         http.StatusInternalServerError,
			err:          errors.New("provider connection failed"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: map[string]string{"error": "provider connection failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Error(w, tt.code, tt.err)

			if w.Code != tt.expectedCode {
				t.Errorf("Code = %v, want %v", w.Code, tt.expectedCode)
			}

			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if body["error"] != tt.expectedBody["error"] {
				t.Errorf("Error message = %v, want %v", body["error"], tt.expectedBody["error"])
			}
		})
	}
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		err          error
		expectedCode int
		expectedMsg  string
		isSafe       bool
	}{
		{
			name:         "nil error",
			code:         http.StatusBadRequest,
			err:          nil,
			expectedCode: 0, // httptest.NewRecorder doesn't write anything for nil
			expectedMsg:  "",
			isSafe:       true,
		},
		{
			name:         "validation error - required",
			code:         http.StatusBadRequest,
			err:          errors.New("text or url is required"),
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "text or url is required",
			isSafe:       true,
		},
		{
			name:         "validation error - invalid",
			code:         http.StatusBadRequest,
			err:          errors.New("invalid url format"),
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "invalid url format",
			isSafe:       true,
		},
		{
			name:         "not found error",
			code:         http.StatusNotFound,
			err:          errors.New("file not found"),
			expectedCode: http.StatusNotFound,
			expectedMsg:  "file not found",
			isSafe:       true,
		},
		{
			name:         "constraint error - must be",
			code:         http.StatusBadRequest,
			err:          errors.New("text must be at least 10 characters"),
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "text must be at least 10 characters",
			isSafe:       true,
		},
		{
			name:         "constraint error - cannot be",
			code:         http.StatusBadRequest,
			err:          errors.New("input cannot be empty"),
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "input cannot be empty",
			isSafe:       true,
		},
		{
			name:         "constraint error - too long",
			code:         http.StatusBadRequest,
			err:          errors.New("request path too long"),
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "request path too long",
			isSafe:       true,
		},
		{
			name:         "constraint error - too short",
			code:         http.StatusBadRequest,
			err:          errors.New("text too short"),
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "text too short",
			isSafe:       true,
		},
		{
			name:         "constraint error - too large",
			code:         http.StatusRequestEntityTooLarge,
			err:          errors.New("uploaded file too large"),
			expectedCode: http.StatusRequestEntityTooLarge,
			expectedMsg:  "uploaded file too large",
			isSafe:       true,
		},
		{
			name:         "constraint error - unsupported",
			code:         http.StatusBadRequest,
			err:          errors.New("unsupported content type"),
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "unsupported content type",
			isSafe:       true,
		},
		{
			name:         "internal error - provider",
			code:         http.StatusInternalServerError,
			err:          errors.New("provider connection failed"),
			expectedCode: http.StatusInternalServerError,
			expectedMsg:  "internal server error",
			isSafe:       false,
		},
		{
			name:         "internal error - with secret",
			code:         http.StatusInternalServerError,
			err:          errors.New("failed to authenticate with sk-ant-REDACTED"),
			expectedCode: http.StatusInternalServerError,
			expectedMsg:  "internal server error",
			isSafe:       false,
		},
		{
			name:         "500 status always unsafe",
			code:         http.StatusInternalServerError,
			err:          errors.New("some error with required keyword"),
			expectedCode: http.StatusInternalServerError,
			expectedMsg:  "internal server error",
			isSafe:       false,
		},
		{
			name:         "502 bad gateway",
			code:         http.StatusBadGateway,
			err:          errors.New("upstream service unavailable"),
			expectedCode: http.StatusBadGateway,
			expectedMsg:  "internal server error",
			isSafe:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SafeError(w, tt.code, tt.err)

			// nil errorの場合、何も書き込まれない
			if tt.err == nil {
				if w.Body.Len() != 0 {
					t.Errorf("Expected no body for nil error, but got: %v", w.Body.String())
				}
				return
			}

			if w.Code != tt.expectedCode {
				t.Errorf("Code = %v, want %v", w.Code, tt.expectedCode)
			}

			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if body["error"] != tt.expectedMsg {
				t.Errorf("Error message = %v, want %v", body["error"], tt.expectedMsg)
			}
		})
	}
}
