package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	defaultTimeout = 30 * time.Second

	// 内容稳定判定：间隔轮询页面文本长度，连续两次不变视为渲染完成
	stabilizePoll = 500 * time.Millisecond
	stabilizeMax  = 8
)

// Browser 复用一个 headless 实例的渲染客户端。
// 用于脚本拼页面的站点，拿到执行后的 DOM 而不是原始响应体。
type Browser struct {
	browserCtx context.Context
	cancels    []context.CancelFunc
	timeout    time.Duration
}

// NewBrowser 创建浏览器执行器与顶层上下文，并预热一次
func NewBrowser(ctx context.Context, timeout time.Duration) (*Browser, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("启动 headless 浏览器失败: %w", err)
	}

	return &Browser{
		browserCtx: browserCtx,
		cancels:    []context.CancelFunc{cancelBrowser, cancelAlloc},
		timeout:    timeout,
	}, nil
}

func (b *Browser) Close() {
	for _, cancel := range b.cancels {
		cancel()
	}
}

// HTML 渲染页面并返回执行脚本后的完整 DOM。
// 就绪判断用 body ready + 文本长度趋稳，而不是盲等固定时长；
// 整个过程受超时上限约束。
func (b *Browser) HTML(ctx context.Context, url string) (string, error) {
	runCtx, cancel := context.WithTimeout(b.browserCtx, b.timeout)
	defer cancel()

	// 外层 ctx 取消时同步终止渲染
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		waitStable(),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("渲染页面失败: %w (url=%s)", err, url)
	}

	if strings.TrimSpace(html) == "" {
		return "", fmt.Errorf("渲染结果为空 (url=%s)", url)
	}
	return html, nil
}

// waitStable 轮询页面文本长度直到稳定或达到轮询上限
func waitStable() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var prev, cur int
		for i := 0; i < stabilizeMax; i++ {
			if err := chromedp.Evaluate(`document.documentElement.innerText.length`, &cur).Do(ctx); err != nil {
				return err
			}
			if i > 0 && cur == prev && cur > 0 {
				return nil
			}
			prev = cur

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(stabilizePoll):
			}
		}
		// 达到上限也放行，渲染慢的页面交给提取器尽力解析
		return nil
	})
}
