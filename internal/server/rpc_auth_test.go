package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireToken(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		header string
		query  string
		want   int
	}{
		{"valid bearer", "s3cret", "Bearer s3cret", "", http.StatusOK},
		{"valid query token", "s3cret", "", "s3cret", http.StatusOK},
		{"wrong token", "s3cret", "Bearer nope", "", http.StatusUnauthorized},
		{"missing token", "s3cret", "", "", http.StatusUnauthorized},
		{"no bearer prefix", "s3cret", "s3cret", "", http.StatusUnauthorized},
		{"empty secret rejects all", "", "Bearer ", "", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := requireToken(tc.secret, okHandler())
			url := "/rpc"
			if tc.query != "" {
				url += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodPost, url, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
