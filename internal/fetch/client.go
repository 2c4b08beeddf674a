package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 2 << 20 // 2MB，防止超大响应占满内存
)

// StatusError 非 2xx 响应
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("请求失败，状态码: %d, URL: %s", e.Code, e.URL)
}

// TransportError 网络层失败（超时、连接错误等）
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("请求时发生错误: %v, URL: %s", e.Err, e.URL)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RetryPolicy 按动词配置的重试策略。
// Attempts 是总尝试次数（含首次），Delay 是固定的重试间隔。
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// 源系统里 GET 不重试、POST 重试 3 次间隔 1 秒。
// 这里把这个不对称做成显式配置，而不是装饰器摆放位置的偶然结果。
var (
	DefaultGetPolicy  = RetryPolicy{Attempts: 1}
	DefaultPostPolicy = RetryPolicy{Attempts: 3, Delay: time.Second}
)

// Options 构造 Client 的参数
type Options struct {
	Timeout    time.Duration
	Headers    map[string]string
	Cookies    map[string]string
	GetPolicy  RetryPolicy
	PostPolicy RetryPolicy
}

// Client 出站请求客户端：超时、跟随重定向、错误分类、按动词重试。
// 请求失败返回 error，调用方按"无数据"处理并继续，绝不向上抛崩。
type Client struct {
	hc         *http.Client
	headers    map[string]string
	cookies    map[string]string
	getPolicy  RetryPolicy
	postPolicy RetryPolicy
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.GetPolicy.Attempts <= 0 {
		opts.GetPolicy = DefaultGetPolicy
	}
	if opts.PostPolicy.Attempts <= 0 {
		opts.PostPolicy = DefaultPostPolicy
	}
	return &Client{
		// http.Client 默认跟随重定向
		hc:         &http.Client{Timeout: opts.Timeout},
		headers:    opts.Headers,
		cookies:    opts.Cookies,
		getPolicy:  opts.GetPolicy,
		postPolicy: opts.PostPolicy,
	}
}

// Get 发送 GET 请求并返回响应体
func (c *Client) Get(ctx context.Context, rawURL string, params map[string]string, headers map[string]string) ([]byte, error) {
	if len(params) > 0 {
		vals := url.Values{}
		for k, v := range params {
			vals.Set(k, v)
		}
		sep := "?"
		if u, err := url.Parse(rawURL); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		rawURL = rawURL + sep + vals.Encode()
	}
	return c.do(ctx, http.MethodGet, rawURL, nil, headers, c.getPolicy)
}

// Post 发送 POST 请求并返回响应体
func (c *Client) Post(ctx context.Context, rawURL string, body []byte, headers map[string]string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, rawURL, body, headers, c.postPolicy)
}

func (c *Client) do(ctx context.Context, method, rawURL string, body []byte, headers map[string]string, policy RetryPolicy) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= policy.Attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, &TransportError{URL: rawURL, Err: ctx.Err()}
			case <-time.After(policy.Delay):
			}
			log.Printf("%s 第 %d 次重试: %s", method, attempt-1, rawURL)
		}

		data, err := c.once(ctx, method, rawURL, body, headers)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	log.Printf("%s 请求失败: %v", method, lastErr)
	return nil, lastErr
}

func (c *Client) once(ctx context.Context, method, rawURL string, body []byte, headers map[string]string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for k, v := range c.cookies {
		req.AddCookie(&http.Cookie{Name: k, Value: v})
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 读掉响应体，保证连接可复用
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{Code: resp.StatusCode, URL: rawURL}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	return data, nil
}

// 常见桌面/移动端 UA，随机取一个降低被目标站限流的概率
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0",
	"Mozilla/5.0 (Linux; Android 10; SM-G973F) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.120 Mobile Safari/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 14_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36 Edg/91.0.864.59",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
}

// RandomHeaders 生成带随机 User-Agent 的请求头
func RandomHeaders() map[string]string {
	return map[string]string{
		"User-Agent": userAgents[rand.Intn(len(userAgents))],
	}
}
