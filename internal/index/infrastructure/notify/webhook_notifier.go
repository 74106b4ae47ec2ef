package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wyfcoding/tradingdata/internal/index/domain"
)

// WebhookNotifier 将成分股调整通知推送到 webhook 地址
type WebhookNotifier struct {
	url      string
	receiver string
	client   *http.Client
}

// NewWebhookNotifier 创建 webhook 通知出口
func NewWebhookNotifier(url, receiver string) *WebhookNotifier {
	return &WebhookNotifier{
		url:      url,
		receiver: receiver,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type webhookPayload struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Receiver string `json:"receiver,omitempty"`
}

func (n *WebhookNotifier) Notify(ctx context.Context, title, content string) error {
	body, err := json.Marshal(webhookPayload{
		Title:    title,
		Content:  content,
		Receiver: n.receiver,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

var _ domain.Notifier = (*WebhookNotifier)(nil)
