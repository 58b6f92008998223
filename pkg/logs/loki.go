package logs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ceprunsa/consultorio_backend/config"
)

// lokiWriter implements io.Writer that pushes JSON log lines to Loki's push
// API. Each Write() call is one log line, which keeps dependencies minimal.
type lokiWriter struct {
	endpoint string
	client   *http.Client
	labels   string // pre-serialized JSON stream labels
}

func newLokiHandler(cfg *config.Config, level slog.Level) slog.Handler {
	labels := map[string]string{
		"service": cfg.Observability.ServiceName,
		"env":     cfg.Server.Environment,
	}
	for k, v := range cfg.Logging.Output.Loki.Labels {
		labels[k] = v
	}
	raw, _ := json.Marshal(labels)

	lw := &lokiWriter{
		endpoint: strings.TrimSuffix(cfg.Logging.Output.Loki.URL, "/") + "/loki/api/v1/push",
		client:   &http.Client{Timeout: 3 * time.Second},
		labels:   string(raw),
	}
	return slog.NewJSONHandler(lw, &slog.HandlerOptions{Level: level})
}

func (lw *lokiWriter) Write(p []byte) (n int, err error) {
	now := fmt.Sprintf("%d", time.Now().UnixNano())
	line := strings.TrimRight(string(p), "\n")

	payload := fmt.Sprintf(`{"streams":[{"stream":%s,"values":[["%s",%q]]}]}`,
		lw.labels, now, line)

	req, err := http.NewRequest(http.MethodPost, lw.endpoint, strings.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := lw.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return len(p), nil
}
