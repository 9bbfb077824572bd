package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/helixml/newsdesk/infrastructure/api/jsonapi"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestWriteProtect(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		method string
		key    string
		want   int
	}{
		{"GET without key", []string{"secret"}, http.MethodGet, "", http.StatusOK},
		{"HEAD without key", []string{"secret"}, http.MethodHead, "", http.StatusOK},
		{"OPTIONS without key", []string{"secret"}, http.MethodOptions, "", http.StatusOK},
		{"POST without key", []string{"secret"}, http.MethodPost, "", http.StatusUnauthorized},
		{"PUT without key", []string{"secret"}, http.MethodPut, "", http.StatusUnauthorized},
		{"PATCH without key", []string{"secret"}, http.MethodPatch, "", http.StatusUnauthorized},
		{"DELETE without key", []string{"secret"}, http.MethodDelete, "", http.StatusUnauthorized},
		{"POST with key", []string{"secret"}, http.MethodPost, "secret", http.StatusOK},
		{"DELETE with second key", []string{"one", "two"}, http.MethodDelete, "two", http.StatusOK},
		{"POST with wrong key", []string{"secret"}, http.MethodPost, "wrong", http.StatusUnauthorized},
		{"POST with auth disabled", nil, http.MethodPost, "", http.StatusOK},
		{"blank keys disable auth", []string{""}, http.MethodDelete, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := WriteProtect(NewAuthConfigWithKeys(tt.keys))(okHandler())
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestWriteProtect_ErrorDocument(t *testing.T) {
	handler := WriteProtectAuth([]string{"secret"})(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var doc jsonapi.Document
	if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(doc.Errors))
	}
	if doc.Errors[0].Status != "401" {
		t.Errorf("status = %q, want 401", doc.Errors[0].Status)
	}
}
