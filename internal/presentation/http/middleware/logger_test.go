package middleware

import (
	"bufio"
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"shop-recommend-app/internal/logging"
)

// captureLogs グローバルロガーの出力をバッファに切り替え、1行1エントリで返す関数を返す
func captureLogs(t *testing.T) func() []map[string]interface{} {
	t.Helper()

	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() {
		logging.Init(logging.Config{Level: "error"})
	})

	return func() []map[string]interface{} {
		var entries []map[string]interface{}
		scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			var entry map[string]interface{}
			if err := json.Unmarshal([]byte(line), &entry); err != nil {
				t.Fatalf("ログがJSONではない: %v (%s)", err, line)
			}
			entries = append(entries, entry)
		}
		return entries
	}
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		statusCode int
		body       string
	}{
		{name: "正常系: チャットへのPOSTは200で記録", method: http.MethodPost, path: "/chat_ia/", statusCode: http.StatusOK, body: `{"status":"success"}`},
		{name: "正常系: 商品一覧のGET", method: http.MethodGet, path: "/api/v1/products", statusCode: http.StatusOK, body: "[]"},
		{name: "異常系: 未知のパスは404で記録", method: http.MethodGet, path: "/no-existe", statusCode: http.StatusNotFound, body: "not found"},
		{name: "異常系: 上流障害は502で記録", method: http.MethodPost, path: "/api/v1/chat", statusCode: http.StatusBadGateway, body: "bad gateway"},
		{name: "境界値: 空のレスポンス", method: http.MethodGet, path: "/empty", statusCode: http.StatusOK, body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)

			handler := RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			})))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set(HeaderRequestID, "req-log-1")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.statusCode {
				t.Errorf("status code = %d, want %d", rec.Code, tt.statusCode)
			}

			entries := logs()
			if len(entries) != 1 {
				t.Fatalf("log entries = %d, want 1", len(entries))
			}
			entry := entries[0]

			if entry["message"] != "HTTP request" {
				t.Errorf("message = %v, want HTTP request", entry["message"])
			}
			if entry["request_id"] != "req-log-1" {
				t.Errorf("request_id = %v, want req-log-1", entry["request_id"])
			}
			if entry["method"] != tt.method {
				t.Errorf("method = %v, want %s", entry["method"], tt.method)
			}
			if entry["path"] != tt.path {
				t.Errorf("path = %v, want %s", entry["path"], tt.path)
			}
			if status, _ := entry["status"].(float64); int(status) != tt.statusCode {
				t.Errorf("status = %v, want %d", entry["status"], tt.statusCode)
			}
			if written, _ := entry["bytes"].(float64); int(written) != len(tt.body) {
				t.Errorf("bytes = %v, want %d", entry["bytes"], len(tt.body))
			}
			if _, ok := entry["correlation_id"]; !ok {
				t.Error("correlation_id missing")
			}
		})
	}
}

func TestLoggerWithHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		statusCode int
		wantLogs   int
		wantLevel  string
		wantMsg    string
	}{
		{name: "正常系: 正常な/healthは記録しない", path: "/health", statusCode: http.StatusOK, wantLogs: 0},
		{name: "異常系: 劣化した/healthはerrorで記録", path: "/health", statusCode: http.StatusServiceUnavailable, wantLogs: 1, wantLevel: "error", wantMsg: "Health check failed"},
		{name: "正常系: それ以外のパスは通常のアクセスログ", path: "/chat_ia/", statusCode: http.StatusOK, wantLogs: 1, wantLevel: "info", wantMsg: "HTTP request"},
		{name: "異常系: 404もアクセスログに残る", path: "/api/v1/products/99", statusCode: http.StatusNotFound, wantLogs: 1, wantLevel: "info", wantMsg: "HTTP request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)

			handler := LoggerWithHealthCheck(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.statusCode {
				t.Errorf("status code = %d, want %d", rec.Code, tt.statusCode)
			}

			entries := logs()
			if len(entries) != tt.wantLogs {
				t.Fatalf("log entries = %d, want %d", len(entries), tt.wantLogs)
			}
			if tt.wantLogs == 0 {
				return
			}
			if entries[0]["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", entries[0]["level"], tt.wantLevel)
			}
			if entries[0]["message"] != tt.wantMsg {
				t.Errorf("message = %v, want %s", entries[0]["message"], tt.wantMsg)
			}
			if status, _ := entries[0]["status"].(float64); int(status) != tt.statusCode {
				t.Errorf("status = %v, want %d", entries[0]["status"], tt.statusCode)
			}
		})
	}
}

func TestResponseWriter(t *testing.T) {
	tests := []struct {
		name       string
		writes     []string
		statusCode int
		wantStatus int
		wantBytes  int64
	}{
		{name: "正常系: WriteHeader無しは200扱い", writes: []string{`{"status":"success"}`}, wantStatus: http.StatusOK, wantBytes: 20},
		{name: "正常系: 複数回のWriteを合算", writes: []string{"Hola", " ", "mundo"}, statusCode: http.StatusCreated, wantStatus: http.StatusCreated, wantBytes: 10},
		{name: "異常系: エラーステータスを保持", writes: []string{"error"}, statusCode: http.StatusBadRequest, wantStatus: http.StatusBadRequest, wantBytes: 5},
		{name: "境界値: 書き込み無し", statusCode: http.StatusServiceUnavailable, wantStatus: http.StatusServiceUnavailable, wantBytes: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rw := newResponseWriter(rec)

			if tt.statusCode != 0 {
				rw.WriteHeader(tt.statusCode)
			}
			for _, s := range tt.writes {
				if _, err := rw.Write([]byte(s)); err != nil {
					t.Fatalf("Write() error = %v", err)
				}
			}

			if rw.statusCode != tt.wantStatus {
				t.Errorf("statusCode = %d, want %d", rw.statusCode, tt.wantStatus)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("recorder code = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rw.written != tt.wantBytes {
				t.Errorf("written = %d, want %d", rw.written, tt.wantBytes)
			}
			if rec.Body.String() != strings.Join(tt.writes, "") {
				t.Errorf("body = %q, want %q", rec.Body.String(), strings.Join(tt.writes, ""))
			}
		})
	}
}
