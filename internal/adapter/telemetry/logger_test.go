package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func TestLogger_PushesToLoki(t *testing.T) {
	RegisterTestingT(t)

	received := make(chan LokiLogEntry, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		body, _ := io.ReadAll(r.Body)

		var entry LokiLogEntry
		_ = json.Unmarshal(body, &entry)

		Expect(r.URL.Path).To(Equal("/loki/api/v1/push"))
		received <- entry

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	logger := newLogger(zap.NewNop(), "taskapp-test", server.URL+"/")
	logger.InfoWithTrace(context.Background(), "task created", zap.String("task_id", "abc"), zap.Int("status", 201))

	var entry LokiLogEntry
	Eventually(received, 2*time.Second).Should(Receive(&entry))

	Expect(entry.Streams).To(HaveLen(1))
	Expect(entry.Streams[0].Stream["service"]).To(Equal("taskapp-test"))
	Expect(entry.Streams[0].Stream["level"]).To(Equal("info"))

	var line map[string]any
	Expect(json.Unmarshal([]byte(entry.Streams[0].Values[0][1]), &line)).To(Succeed())
	Expect(line["message"]).To(Equal("task created"))
	Expect(line["task_id"]).To(Equal("abc"))
	Expect(line["status"]).To(BeNumerically("==", 201))
}

func TestLogger_WithoutLokiOnlyLogsLocally(t *testing.T) {
	RegisterTestingT(t)

	logger := NewNopLogger()

	Expect(logger.lokiURL).To(BeEmpty())
	logger.ErrorWithTrace(context.Background(), "boom", zap.Error(io.EOF))
	Expect(logger.Zap()).NotTo(BeNil())
}
