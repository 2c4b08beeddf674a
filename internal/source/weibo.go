package source

import (
	"encoding/json"
	"log"

	"github.com/leafny/newsharvest/internal/harvest"
	"github.com/leafny/newsharvest/internal/model"
)

// Weibo 微博热搜榜，移动端容器接口，不抓详情页
type Weibo struct{}

func NewWeibo() *Weibo { return &Weibo{} }

func (s *Weibo) Name() string        { return model.SourceWeibo }
func (s *Weibo) DisplayName() string { return "微博热搜" }

func (s *Weibo) ListRequest(t model.NewsType) (*harvest.Request, error) {
	if t != model.NewsTypeHot {
		return nil, harvest.ErrUnsupported
	}
	return &harvest.Request{
		Method: "GET",
		URL:    "https://m.weibo.cn/api/container/getIndex",
		Params: map[string]string{
			"containerid": "106003type=25&t=3&disable_hot=1&filter_type=realtimehot",
			"luicode":     "20000061",
			"lfid":        "5070140584495876",
		},
	}, nil
}

func (s *Weibo) ParseList(t model.NewsType, raw []byte) []model.Stub {
	var body struct {
		Data struct {
			Cards []struct {
				CardGroup []struct {
					Desc   string `json:"desc"`
					Scheme string `json:"scheme"`
				} `json:"card_group"`
			} `json:"cards"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		log.Printf("warn: 微博热搜解析失败: %v", err)
		return nil
	}
	if len(body.Data.Cards) == 0 {
		return nil
	}

	group := body.Data.Cards[0].CardGroup
	stubs := make([]model.Stub, 0, len(group))
	for _, g := range group {
		if g.Desc == "" || g.Scheme == "" {
			continue
		}
		stubs = append(stubs, model.Stub{Title: g.Desc, URL: g.Scheme})
	}
	return stubs
}
