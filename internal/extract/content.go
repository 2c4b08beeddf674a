package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// Article 从详情页提取出的规范化字段。
// 没提取到的字段保持零值，不算错误。
type Article struct {
	Title       string
	Author      string
	PublishTime string
	Content     string
	Images      []string
	Meta        map[string]any
}

// 发布时间常见的 meta 标签写法，按可信度排列
var publishTimeMetas = []string{
	"meta[property='article:published_time']",
	"meta[name='publishdate']",
	"meta[name='publish_time']",
	"meta[name='weibo: article:create_at']",
	"meta[itemprop='datePublished']",
	"meta[name='apub:time']",
}

var authorMetas = []string{
	"meta[name='author']",
	"meta[property='article:author']",
	"meta[name='mediaid']",
}

// Content 对任意新闻详情页做"尽力而为"的正文提取：
// readability 负责去噪拿正文，goquery 负责 meta 标签与图片。
// 任何一步失败都只是少一个字段，绝不报错。
func Content(rawHTML string, pageURL string) Article {
	art := Article{Meta: map[string]any{}}

	var doc *goquery.Document
	if d, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML)); err == nil {
		doc = d
	}

	u, _ := url.Parse(pageURL)
	if parsed, err := readability.FromReader(strings.NewReader(rawHTML), u); err == nil {
		art.Title = strings.TrimSpace(parsed.Title)
		art.Author = strings.TrimSpace(parsed.Byline)
		art.Content = normalizeWhitespace(parsed.TextContent)
		if parsed.Excerpt != "" {
			art.Meta["description"] = strings.TrimSpace(parsed.Excerpt)
		}
		if parsed.Image != "" {
			art.Images = append(art.Images, parsed.Image)
		}
	}

	if doc == nil {
		return art
	}

	if art.Title == "" {
		art.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if art.Content == "" {
		art.Content = fallbackContent(doc)
	}
	if art.Author == "" {
		art.Author = firstMetaContent(doc, authorMetas)
	}
	art.PublishTime = firstMetaContent(doc, publishTimeMetas)

	if desc, ok := doc.Find("meta[name='description']").First().Attr("content"); ok {
		if _, exists := art.Meta["description"]; !exists && strings.TrimSpace(desc) != "" {
			art.Meta["description"] = strings.TrimSpace(desc)
		}
	}
	if mediaid, ok := doc.Find("meta[name='mediaid']").First().Attr("content"); ok && mediaid != "" {
		art.Meta["mediaid"] = mediaid
	}

	art.Images = append(art.Images, articleImages(doc, pageURL, art.Images)...)
	return art
}

// fallbackContent 在 readability 无产出时兜底：
// 优先常见正文容器，再退回全页较长段落拼接。
func fallbackContent(doc *goquery.Document) string {
	selectors := []string{
		"article",
		"div.article-content",
		"div#article-content",
		"div#content_area",
		"div.main-content",
		"div.content",
		"div.article",
	}
	for _, sel := range selectors {
		if t := normalizeWhitespace(doc.Find(sel).First().Text()); len([]rune(t)) > 100 {
			return t
		}
	}

	var pieces []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if len([]rune(t)) >= 20 {
			pieces = append(pieces, t)
		}
	})
	return strings.Join(pieces, "\n")
}

func firstMetaContent(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if v, ok := doc.Find(sel).First().Attr("content"); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// articleImages 收集正文区图片的绝对地址，保持出现顺序并去重
func articleImages(doc *goquery.Document, pageURL string, seen []string) []string {
	base, _ := url.Parse(pageURL)
	exists := make(map[string]bool, len(seen))
	for _, s := range seen {
		exists[s] = true
	}

	var out []string
	doc.Find("article img, div.content img, div.article img, p img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		if base != nil {
			if ref, err := url.Parse(src); err == nil {
				src = base.ResolveReference(ref).String()
			}
		}
		if exists[src] {
			return
		}
		exists[src] = true
		out = append(out, src)
	})
	return out
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(s)
}
