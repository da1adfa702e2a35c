package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"photowall/internal/config"
)

const userAgent = "photowall/0.1.0"

// Service defines the notification surface exposed to the export commands.
type Service interface {
	NotifyExportCompleted(ctx context.Context, summary ExportSummary) error
	NotifyExportFailed(ctx context.Context, err error) error
	TestNotification(ctx context.Context) error
}

// ExportSummary carries the facts included in a completion message.
type ExportSummary struct {
	Pages       int
	FailedPages []int
	Destination string
	Duration    time.Duration
}

// NewService builds a notification service backed by ntfy when configured.
// When cfg is nil or no ntfy topic is configured, a noop implementation is
// returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: cfg.NotifyTimeout()},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyExportCompleted(ctx context.Context, summary ExportSummary) error {
	duration := summary.Duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	data := payload{
		title: "photowall - Export Complete",
		tags:  []string{"photowall", "export", "completed"},
	}
	if len(summary.FailedPages) == 0 {
		data.message = fmt.Sprintf("🖼️ Exported %d page(s) in %s", summary.Pages, duration)
	} else {
		pages := make([]string, len(summary.FailedPages))
		for i, p := range summary.FailedPages {
			pages[i] = fmt.Sprint(p)
		}
		data.title = "photowall - Export Complete (with errors)"
		data.message = fmt.Sprintf("Exported %d of %d page(s) in %s; failed: %s",
			summary.Pages-len(summary.FailedPages), summary.Pages, duration, strings.Join(pages, ", "))
		data.tags = append(data.tags, "warning")
	}
	if dest := strings.TrimSpace(summary.Destination); dest != "" {
		data.message += "\nSaved to: " + dest
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyExportFailed(ctx context.Context, err error) error {
	detail := "unknown"
	if err != nil {
		detail = strings.TrimSpace(err.Error())
	}
	data := payload{
		title:    "photowall - Export Failed",
		message:  "❌ Export failed: " + detail,
		tags:     []string{"photowall", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "photowall - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"photowall", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyExportCompleted(context.Context, ExportSummary) error { return nil }
func (noopService) NotifyExportFailed(context.Context, error) error            { return nil }
func (noopService) TestNotification(context.Context) error                     { return nil }
