package source

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/leafny/newsharvest/internal/harvest"
	"github.com/leafny/newsharvest/internal/model"
)

// Ifeng 凤凰网首页要闻。首页结构松散，用爬虫框架自行采链接，
// 再走通用详情抓取补全正文。
type Ifeng struct {
	timeout time.Duration
}

func NewIfeng() *Ifeng {
	return &Ifeng{timeout: 10 * time.Second}
}

func (s *Ifeng) Name() string        { return model.SourceIfeng }
func (s *Ifeng) DisplayName() string { return "凤凰网" }

func (s *Ifeng) ListRequest(t model.NewsType) (*harvest.Request, error) {
	if t != model.NewsTypeHot {
		return nil, harvest.ErrUnsupported
	}
	return &harvest.Request{Method: "GET", URL: "https://www.ifeng.com/"}, nil
}

// ParseList 不会被调用，列表抓取走 FetchStubs
func (s *Ifeng) ParseList(t model.NewsType, raw []byte) []model.Stub { return nil }

// FetchStubs 爬首页要闻区的文章链接
func (s *Ifeng) FetchStubs(ctx context.Context, t model.NewsType) ([]model.Stub, error) {
	if t != model.NewsTypeHot {
		return nil, harvest.ErrUnsupported
	}

	c := colly.NewCollector(
		colly.AllowedDomains("www.ifeng.com", "ifeng.com"),
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
	)
	c.SetRequestTimeout(s.timeout)

	stubs := make([]model.Stub, 0, 50)
	seen := make(map[string]bool)

	// 页面结构可能调整，此处基于当前的 DOM 结构做"尽力而为"的解析
	c.OnHTML("a[href*='news.ifeng.com/c/']", func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.Text)
		href := e.Request.AbsoluteURL(e.Attr("href"))
		if title == "" || href == "" || seen[href] {
			return
		}
		// 纯图片链接的锚文本是空的或太短，过滤掉
		if len([]rune(title)) < 5 {
			return
		}
		seen[href] = true
		stubs = append(stubs, model.Stub{Title: title, URL: href})
	})

	c.OnError(func(_ *colly.Response, err error) {
		log.Printf("warn: 凤凰网首页抓取失败: %v", err)
	})

	if err := c.Visit("https://www.ifeng.com/"); err != nil {
		return nil, err
	}
	c.Wait()
	return stubs, nil
}

func (s *Ifeng) DetailRequest(stub model.Stub) *harvest.Request {
	return &harvest.Request{Method: "GET", URL: stub.URL}
}

func (s *Ifeng) ParseDetail(raw []byte, pageURL string) model.NewsItem {
	return detailItem(raw, pageURL)
}

func (s *Ifeng) AllowedFields() []string { return detailFieldsFull }
