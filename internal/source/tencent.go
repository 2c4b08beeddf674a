package source

import (
	"encoding/json"
	"log"

	"github.com/leafny/newsharvest/internal/harvest"
	"github.com/leafny/newsharvest/internal/model"
)

// Tencent 腾讯新闻热榜，列表走 POST JSON 接口
type Tencent struct{}

func NewTencent() *Tencent { return &Tencent{} }

func (s *Tencent) Name() string        { return model.SourceTencent }
func (s *Tencent) DisplayName() string { return "腾讯新闻" }

func (s *Tencent) ListRequest(t model.NewsType) (*harvest.Request, error) {
	if t != model.NewsTypeHot {
		return nil, harvest.ErrUnsupported
	}

	body, _ := json.Marshal(map[string]any{
		"base_req":   map[string]string{"from": "pc"},
		"forward":    "2",
		"qimei36":    "0_FpZFnxfEm2k23",
		"device_id":  "0_FpZFnxfEm2k23",
		"flush_num":  1,
		"channel_id": "news_news_top",
		"item_count": 20,
	})
	return &harvest.Request{
		Method: "POST",
		URL:    "https://i.news.qq.com/web_feed/getHotModuleList",
		Body:   body,
		Headers: map[string]string{
			"content-type": "application/json;charset=UTF-8",
			"origin":       "https://news.qq.com",
			"referer":      "https://news.qq.com/",
		},
	}, nil
}

func (s *Tencent) ParseList(t model.NewsType, raw []byte) []model.Stub {
	var body struct {
		Data []struct {
			Title    string `json:"title"`
			Intro    string `json:"intro"`
			LinkInfo struct {
				URL string `json:"url"`
			} `json:"link_info"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		log.Printf("warn: 腾讯热榜列表解析失败: %v", err)
		return nil
	}

	stubs := make([]model.Stub, 0, len(body.Data))
	for _, d := range body.Data {
		if d.Title == "" || d.LinkInfo.URL == "" {
			continue
		}
		stubs = append(stubs, model.Stub{Title: d.Title, URL: d.LinkInfo.URL, Description: d.Intro})
	}
	return stubs
}

func (s *Tencent) DetailRequest(stub model.Stub) *harvest.Request {
	return &harvest.Request{
		Method: "GET",
		URL:    stub.URL,
		Headers: map[string]string{
			"accept": "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		},
	}
}

func (s *Tencent) ParseDetail(raw []byte, pageURL string) model.NewsItem {
	return detailItem(raw, pageURL)
}

func (s *Tencent) AllowedFields() []string { return detailFieldsNoAuthor }
