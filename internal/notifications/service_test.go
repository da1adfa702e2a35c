package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"photowall/internal/notifications"
	"photowall/internal/testsupport"
)

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newServer(t *testing.T, status int) (*httptest.Server, <-chan captured) {
	t.Helper()
	ch := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		ch <- captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := notifications.NewService(cfg)
	if err := svc.NotifyExportFailed(context.Background(), errors.New("boom")); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name         string
		send         func(notifications.Service) error
		wantTitle    string
		wantBody     string
		wantTags     string
		wantPriority string
	}{
		{
			name: "export completed",
			send: func(s notifications.Service) error {
				return s.NotifyExportCompleted(context.Background(), notifications.ExportSummary{
					Pages:       3,
					Destination: "/tmp/out/Screenshots_2024-01-01_00-00-00.zip",
					Duration:    2400 * time.Millisecond,
				})
			},
			wantTitle: "photowall - Export Complete",
			wantBody:  "🖼️ Exported 3 page(s) in 2s\nSaved to: /tmp/out/Screenshots_2024-01-01_00-00-00.zip",
			wantTags:  "photowall,export,completed",
		},
		{
			name: "export partially failed",
			send: func(s notifications.Service) error {
				return s.NotifyExportCompleted(context.Background(), notifications.ExportSummary{
					Pages:       5,
					FailedPages: []int{3},
				})
			},
			wantTitle: "photowall - Export Complete (with errors)",
			wantBody:  "Exported 4 of 5 page(s) in 0s; failed: 3",
			wantTags:  "photowall,export,completed,warning",
		},
		{
			name: "export failed",
			send: func(s notifications.Service) error {
				return s.NotifyExportFailed(context.Background(), errors.New("archive failure"))
			},
			wantTitle:    "photowall - Export Failed",
			wantBody:     "❌ Export failed: archive failure",
			wantTags:     "photowall,error,alert",
			wantPriority: "high",
		},
		{
			name:         "test",
			send:         func(s notifications.Service) error { return s.TestNotification(context.Background()) },
			wantTitle:    "photowall - Test",
			wantBody:     "🧪 Notification system test",
			wantTags:     "photowall,test",
			wantPriority: "low",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, ch := newServer(t, http.StatusOK)
			svc := notifications.NewService(testsupport.NewConfig(t, testsupport.WithNtfyTopic(srv.URL)))
			if err := tt.send(svc); err != nil {
				t.Fatalf("send: %v", err)
			}
			got := <-ch
			if got.title != tt.wantTitle || got.body != tt.wantBody || got.tags != tt.wantTags || got.priority != tt.wantPriority {
				t.Fatalf("got %+v", got)
			}
		})
	}
}

func TestNtfyServiceReportsHTTPErrors(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadGateway)
	svc := notifications.NewService(testsupport.NewConfig(t, testsupport.WithNtfyTopic(srv.URL)))
	err := svc.TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("err = %v, want 502 error", err)
	}
}
