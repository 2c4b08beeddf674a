package source

import (
	"encoding/json"
	"log"

	"github.com/leafny/newsharvest/internal/harvest"
	"github.com/leafny/newsharvest/internal/model"
)

// Toutiao 今日头条热榜
type Toutiao struct{}

func NewToutiao() *Toutiao { return &Toutiao{} }

func (s *Toutiao) Name() string        { return model.SourceToutiao }
func (s *Toutiao) DisplayName() string { return "今日头条" }

func (s *Toutiao) ListRequest(t model.NewsType) (*harvest.Request, error) {
	if t != model.NewsTypeHot {
		return nil, harvest.ErrUnsupported
	}
	return &harvest.Request{
		Method: "GET",
		URL:    "https://www.toutiao.com/hot-event/hot-board/",
		Params: map[string]string{"origin": "toutiao_pc"},
	}, nil
}

func (s *Toutiao) ParseList(t model.NewsType, raw []byte) []model.Stub {
	var body struct {
		Data []struct {
			Title string `json:"Title"`
			URL   string `json:"Url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		log.Printf("warn: 头条热榜解析失败: %v", err)
		return nil
	}

	stubs := make([]model.Stub, 0, len(body.Data))
	for _, d := range body.Data {
		if d.Title == "" || d.URL == "" {
			continue
		}
		stubs = append(stubs, model.Stub{Title: d.Title, URL: d.URL})
	}
	return stubs
}

func (s *Toutiao) DetailRequest(stub model.Stub) *harvest.Request {
	return &harvest.Request{
		Method: "GET",
		URL:    stub.URL,
		Headers: map[string]string{
			"referer": "https://www.toutiao.com/",
		},
	}
}

func (s *Toutiao) ParseDetail(raw []byte, pageURL string) model.NewsItem {
	return detailItem(raw, pageURL)
}

func (s *Toutiao) AllowedFields() []string { return detailFieldsFull }
