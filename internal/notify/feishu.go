package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/leafny/newsharvest/internal/model"
)

// FeishuNotifier 飞书群机器人通知器。
// 发送失败只记日志，绝不影响采集与入库结果。
type FeishuNotifier struct {
	webhookURL string
	secret     string
	enabled    bool
	hc         *http.Client
	now        func() time.Time
}

func NewFeishuNotifier(webhookURL, secret string, enabled bool) *FeishuNotifier {
	return &FeishuNotifier{
		webhookURL: webhookURL,
		secret:     secret,
		enabled:    enabled,
		hc:         &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

func (f *FeishuNotifier) Name() string { return "feishu" }

func (f *FeishuNotifier) Enabled() bool { return f.enabled }

// NotifyBatch 把一批新闻整合成一条 post 富文本消息：
// 首段是标题 + @所有人，之后每条新闻一段超链接。
func (f *FeishuNotifier) NotifyBatch(ctx context.Context, items []model.NewsItem, title string) error {
	if !f.enabled {
		log.Println("飞书通知未开启，跳过发送消息。")
		return nil
	}
	if len(items) == 0 {
		log.Println("没有可发送的新闻内容。")
		return nil
	}

	blocks := [][]map[string]any{
		{
			{"tag": "text", "text": "🚀 " + title},
			{"tag": "at", "user_id": "all"},
		},
	}
	for i, it := range items {
		blocks = append(blocks, []map[string]any{
			{"tag": "a", "text": fmt.Sprintf("%d. %s", i+1, it.Title), "href": it.URL},
		})
	}

	message := map[string]any{
		"msg_type": "post",
		"content": map[string]any{
			"post": map[string]any{
				"zh_cn": map[string]any{
					"title":   title,
					"content": blocks,
				},
			},
		},
	}
	return f.post(ctx, message, title)
}

// NotifyCard 榜单类来源的卡片推送入口
func (f *FeishuNotifier) NotifyCard(ctx context.Context, items []model.NewsItem, title string) error {
	return f.SendNewsCard(ctx, items, CardOptions{Title: title})
}

// CardOptions 交互式卡片的展示选项
type CardOptions struct {
	Title     string
	Color     string
	AtAll     bool
	GroupSize int
	MoreURL   string
}

// SendNewsCard 发送分组展示的交互式卡片，底部带"查看更多"按钮
func (f *FeishuNotifier) SendNewsCard(ctx context.Context, items []model.NewsItem, opts CardOptions) error {
	if !f.enabled {
		log.Println("飞书通知未开启，跳过发送卡片消息。")
		return nil
	}
	if len(items) == 0 {
		log.Println("没有可发送的新闻内容。")
		return nil
	}

	if opts.Title == "" {
		opts.Title = "📰 每日新闻速递"
	}
	if opts.Color == "" {
		opts.Color = "wathet"
	}
	if opts.GroupSize <= 0 {
		opts.GroupSize = 5
	}

	var elements []map[string]any
	if opts.AtAll {
		elements = append(elements, map[string]any{
			"tag": "markdown", "content": `<at user_id="all">所有人</at>`,
		})
	}
	elements = append(elements, map[string]any{"tag": "hr"})

	for i := 0; i < len(items); i += opts.GroupSize {
		end := i + opts.GroupSize
		if end > len(items) {
			end = len(items)
		}
		for j, it := range items[i:end] {
			content := fmt.Sprintf("%d. [%s](%s)", i+j+1, it.Title, it.URL)
			if it.Description != "" {
				content += fmt.Sprintf("\n   *%s*", it.Description)
			}
			elements = append(elements, map[string]any{
				"tag":  "div",
				"text": map[string]any{"tag": "lark_md", "content": content},
			})
		}
		if end < len(items) {
			elements = append(elements, map[string]any{"tag": "hr"})
		}
	}

	if opts.MoreURL != "" {
		elements = append(elements,
			map[string]any{"tag": "hr"},
			map[string]any{
				"tag": "action",
				"actions": []map[string]any{
					{
						"tag":  "button",
						"text": map[string]any{"tag": "plain_text", "content": "查看更多新闻"},
						"type": "primary",
						"url":  opts.MoreURL,
					},
				},
			},
		)
	}

	message := map[string]any{
		"msg_type": "interactive",
		"card": map[string]any{
			"config": map[string]any{"wide_screen_mode": true, "enable_forward": true},
			"header": map[string]any{
				"title":    map[string]any{"tag": "plain_text", "content": opts.Title},
				"template": opts.Color,
			},
			"elements": elements,
		},
	}
	return f.post(ctx, message, opts.Title)
}

func (f *FeishuNotifier) post(ctx context.Context, message any, title string) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	// 飞书加签用秒级时间戳
	url := SignedURL(f.webhookURL, f.secret, f.now().Unix())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.hc.Do(req)
	if err != nil {
		log.Printf("发送飞书通知时发生错误: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("飞书通知发送失败: %s", text)
		return fmt.Errorf("飞书通知发送失败: status %d", resp.StatusCode)
	}
	log.Printf("飞书通知发送成功: %s", title)
	return nil
}
