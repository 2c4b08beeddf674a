package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/leafny/newsharvest/internal/model"
)

// DingTalkNotifier 钉钉群机器人通知器
type DingTalkNotifier struct {
	webhookURL string
	secret     string
	enabled    bool
	hc         *http.Client
	now        func() time.Time
}

func NewDingTalkNotifier(webhookURL, secret string, enabled bool) *DingTalkNotifier {
	return &DingTalkNotifier{
		webhookURL: webhookURL,
		secret:     secret,
		enabled:    enabled,
		hc:         &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

func (d *DingTalkNotifier) Name() string { return "dingtalk" }

func (d *DingTalkNotifier) Enabled() bool { return d.enabled }

// NotifyBatch 把一批新闻整合成一条 Markdown 消息：编号 + 超链接标题
func (d *DingTalkNotifier) NotifyBatch(ctx context.Context, items []model.NewsItem, title string) error {
	if !d.enabled {
		log.Println("钉钉通知未开启，跳过发送消息。")
		return nil
	}
	if len(items) == 0 {
		log.Println("没有可发送的新闻内容。")
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# 🚀 %s\n\n", title)
	for i, it := range items {
		fmt.Fprintf(&b, "%d. [%s](%s)\n\n", i+1, it.Title, it.URL)
	}
	return d.SendMarkdown(ctx, title, b.String())
}

// SendMarkdown 发送 Markdown 格式的消息到钉钉群
func (d *DingTalkNotifier) SendMarkdown(ctx context.Context, title, text string) error {
	if !d.enabled {
		log.Println("钉钉通知未开启，跳过发送消息。")
		return nil
	}

	message := map[string]any{
		"msgtype":  "markdown",
		"markdown": map[string]any{"title": title, "text": text},
	}
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	// 钉钉加签用毫秒级时间戳
	url := SignedURL(d.webhookURL, d.secret, d.now().UnixMilli())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.hc.Do(req)
	if err != nil {
		log.Printf("发送钉钉通知时发生错误: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("钉钉通知发送失败: %s", text)
		return fmt.Errorf("钉钉通知发送失败: status %d", resp.StatusCode)
	}
	log.Printf("钉钉通知发送成功: %s", title)
	return nil
}
