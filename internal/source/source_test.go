package source

import (
	"testing"

	"github.com/leafny/newsharvest/internal/harvest"
	"github.com/leafny/newsharvest/internal/model"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	src, err := r.Get("sina")
	if err != nil {
		t.Fatalf("sina 应已注册: %v", err)
	}
	if src.Name() != "sina" {
		t.Fatalf("编码不符: %s", src.Name())
	}

	if _, err := r.Get("unknown"); err == nil {
		t.Fatalf("未知来源应报错")
	}

	if got := len(r.All()); got != 11 {
		t.Fatalf("期望 11 个来源, 实际 %d", got)
	}
}

func TestSinaRollList(t *testing.T) {
	raw := []byte(`try{feedCardJsonpCallback({"result":{"data":[` +
		`{"title":"国内要闻一","url":"https://news.sina.com.cn/c/1.shtml","intro":"简介一"},` +
		`{"title":"","url":"https://news.sina.com.cn/c/2.shtml"},` +
		`{"title":"国内要闻三","url":"https://news.sina.com.cn/c/3.shtml"}]}});}catch(e){};`)

	s := NewSina()
	stubs := s.ParseList(model.NewsTypeLatestChina, raw)
	if len(stubs) != 2 {
		t.Fatalf("缺标题的条目应被丢弃, 实际 %d 条", len(stubs))
	}
	if stubs[0].Title != "国内要闻一" || stubs[0].Description != "简介一" {
		t.Fatalf("解析结果不符: %+v", stubs[0])
	}
}

func TestSinaHotList(t *testing.T) {
	raw := []byte(`var all_1_data01 = {"data":[` +
		`{"title":"热点一","url":"https://news.sina.com.cn/h/1.shtml","top_num":"100"},` +
		`{"title":"热点二","url":"https://news.sina.com.cn/h/2.shtml","top_num":"99"}]};`)

	s := NewSina()
	stubs := s.ParseList(model.NewsTypeHot, raw)
	if len(stubs) != 2 {
		t.Fatalf("期望 2 条, 实际 %d", len(stubs))
	}
	if stubs[0].Title != "热点一" {
		t.Fatalf("解析结果不符: %+v", stubs[0])
	}
}

func TestSinaUnsupportedType(t *testing.T) {
	s := NewSina()
	if _, err := s.ListRequest(model.NewsType("video_news")); err != harvest.ErrUnsupported {
		t.Fatalf("未知类别应返回 ErrUnsupported, 实际 %v", err)
	}
}

func TestTencentHotList(t *testing.T) {
	raw := []byte(`{"data":[` +
		`{"title":"腾讯热点","intro":"简介","link_info":{"url":"https://news.qq.com/rain/a/1"}},` +
		`{"title":"无链接","link_info":{}}]}`)

	s := NewTencent()
	stubs := s.ParseList(model.NewsTypeHot, raw)
	if len(stubs) != 1 {
		t.Fatalf("缺链接的条目应被丢弃, 实际 %d 条", len(stubs))
	}
	if stubs[0].URL != "https://news.qq.com/rain/a/1" || stubs[0].Description != "简介" {
		t.Fatalf("解析结果不符: %+v", stubs[0])
	}
}

func TestTencentListRequestIsPost(t *testing.T) {
	s := NewTencent()
	req, err := s.ListRequest(model.NewsTypeHot)
	if err != nil {
		t.Fatalf("热榜应受支持: %v", err)
	}
	if req.Method != "POST" || len(req.Body) == 0 {
		t.Fatalf("腾讯列表应为 POST JSON: %+v", req)
	}
	if _, err := s.ListRequest(model.NewsTypeLatestChina); err != harvest.ErrUnsupported {
		t.Fatalf("国内最新应返回 ErrUnsupported, 实际 %v", err)
	}
}

func TestNeteaseRollList(t *testing.T) {
	raw := []byte(`data_callback([` +
		`{"title":"网易要闻","docurl":"https://news.163.com/a/1.html"},` +
		`{"title":"第二条","docurl":"https://news.163.com/a/2.html"}])`)

	s := NewNetease()
	stubs := s.ParseList(model.NewsTypeLatestChina, raw)
	if len(stubs) != 2 {
		t.Fatalf("期望 2 条, 实际 %d", len(stubs))
	}
	if stubs[0].URL != "https://news.163.com/a/1.html" {
		t.Fatalf("解析结果不符: %+v", stubs[0])
	}
}

func TestNeteaseHotList(t *testing.T) {
	raw := []byte(`<html><body><div class="mt15 mod_jrtj"><ul>` +
		`<li><a title="推荐一" href="https://news.163.com/b/1.html">推荐一</a></li>` +
		`<li><a title="推荐二" href="https://news.163.com/b/2.html">推荐二</a></li>` +
		`<li><a href="https://news.163.com/b/3.html">无标题</a></li>` +
		`</ul></div></body></html>`)

	s := NewNetease()
	stubs := s.ParseList(model.NewsTypeHot, raw)
	if len(stubs) != 2 {
		t.Fatalf("无 title 属性的条目应被丢弃, 实际 %d 条", len(stubs))
	}
	if stubs[1].Title != "推荐二" {
		t.Fatalf("解析结果不符: %+v", stubs[1])
	}
}

func TestCCTVChinaList(t *testing.T) {
	raw := []byte(`china({"data":{"list":[` +
		`{"title":"央视要闻","url":"https://news.cctv.com/2025/01/24/x.shtml","brief":"摘要"}` +
		`]}})`)

	s := NewCCTV()
	stubs := s.ParseList(model.NewsTypeLatestChina, raw)
	if len(stubs) != 1 {
		t.Fatalf("期望 1 条, 实际 %d", len(stubs))
	}
	if stubs[0].Description != "摘要" {
		t.Fatalf("brief 应映射到简介: %+v", stubs[0])
	}
}

func TestToutiaoHotList(t *testing.T) {
	raw := []byte(`{"data":[{"Title":"头条热点","Url":"https://www.toutiao.com/trending/1/"}]}`)

	s := NewToutiao()
	stubs := s.ParseList(model.NewsTypeHot, raw)
	if len(stubs) != 1 || stubs[0].Title != "头条热点" {
		t.Fatalf("解析结果不符: %+v", stubs)
	}
}

func TestBaiduHotList(t *testing.T) {
	raw := []byte(`<html><body>` +
		`<div class="category-wrap_iQLoo horizontal_1eKyQ">` +
		`<a class="img-wrapper_29V76" href="https://www.baidu.com/s?wd=x"></a>` +
		`<div class="c-single-text-ellipsis"> 百度热搜词 </div>` +
		`<div class="hot-desc_1m_jR large_nSuFU">事件简介查看更多></div>` +
		`</div></body></html>`)

	s := NewBaidu()
	stubs := s.ParseList(model.NewsTypeHot, raw)
	if len(stubs) != 1 {
		t.Fatalf("期望 1 条, 实际 %d", len(stubs))
	}
	if stubs[0].Title != "百度热搜词" {
		t.Fatalf("标题应去除首尾空白: %q", stubs[0].Title)
	}
	if stubs[0].Description != "事件简介" {
		t.Fatalf("简介应去掉尾部跳转文案: %q", stubs[0].Description)
	}
}

func TestWeiboHotList(t *testing.T) {
	raw := []byte(`{"data":{"cards":[{"card_group":[` +
		`{"desc":"热搜一","scheme":"https://m.weibo.cn/search?containerid=1"},` +
		`{"desc":"热搜二","scheme":"https://m.weibo.cn/search?containerid=2"}` +
		`]}]}}`)

	s := NewWeibo()
	stubs := s.ParseList(model.NewsTypeHot, raw)
	if len(stubs) != 2 || stubs[0].Title != "热搜一" {
		t.Fatalf("解析结果不符: %+v", stubs)
	}
}

func TestWeiboEmptyCards(t *testing.T) {
	s := NewWeibo()
	if stubs := s.ParseList(model.NewsTypeHot, []byte(`{"data":{"cards":[]}}`)); stubs != nil {
		t.Fatalf("空榜单应返回 nil: %+v", stubs)
	}
}

func TestThePaperHotList(t *testing.T) {
	raw := []byte(`{"data":{"hotNews":[{"name":"澎湃热点","contId":"123456"}]}}`)

	s := NewThePaper()
	stubs := s.ParseList(model.NewsTypeHot, raw)
	if len(stubs) != 1 {
		t.Fatalf("期望 1 条, 实际 %d", len(stubs))
	}
	if stubs[0].URL != "https://www.thepaper.cn/newsDetail_forward_123456" {
		t.Fatalf("详情链接拼接错误: %s", stubs[0].URL)
	}
}

func TestZhihuHotList(t *testing.T) {
	raw := []byte(`<html><body><div class="HotItem-content">` +
		`<a href="https://www.zhihu.com/question/1"><h2 class="HotItem-title">知乎热榜问题</h2></a>` +
		`<p class="HotItem-excerpt">摘要文字</p>` +
		`</div></body></html>`)

	s := NewZhihu()
	stubs := s.ParseList(model.NewsTypeHot, raw)
	if len(stubs) != 1 {
		t.Fatalf("期望 1 条, 实际 %d", len(stubs))
	}
	if stubs[0].Title != "知乎热榜问题" || stubs[0].Description != "摘要文字" {
		t.Fatalf("解析结果不符: %+v", stubs[0])
	}
}

func TestSZTVList(t *testing.T) {
	raw := []byte(`<html><body><div class="news-list-more-list">` +
		`<div class="item_article"><a href="https://www.sztv.com.cn/ysz/zx/1.shtml"></a>` +
		`<div class="item_text">深圳新闻标题</div></div>` +
		`</div></body></html>`)

	s := NewSZTV()
	stubs := s.ParseList(model.NewsTypeHot, raw)
	if len(stubs) != 1 || stubs[0].Title != "深圳新闻标题" {
		t.Fatalf("解析结果不符: %+v", stubs)
	}
	if !s.Rendered() {
		t.Fatalf("深圳卫视应声明需要渲染")
	}
	if s.Concurrency() != 2 {
		t.Fatalf("渲染来源应压低并发")
	}
}

func TestMalformedPayloadsReturnEmpty(t *testing.T) {
	garbage := []byte(`<<<not json or html>>>`)

	cases := []struct {
		name  string
		stubs []model.Stub
	}{
		{"sina", NewSina().ParseList(model.NewsTypeLatestChina, garbage)},
		{"tencent", NewTencent().ParseList(model.NewsTypeHot, garbage)},
		{"netease", NewNetease().ParseList(model.NewsTypeLatestChina, garbage)},
		{"cctv", NewCCTV().ParseList(model.NewsTypeHot, garbage)},
		{"toutiao", NewToutiao().ParseList(model.NewsTypeHot, garbage)},
		{"weibo", NewWeibo().ParseList(model.NewsTypeHot, garbage)},
		{"thepaper", NewThePaper().ParseList(model.NewsTypeHot, garbage)},
	}
	for _, c := range cases {
		if len(c.stubs) != 0 {
			t.Fatalf("%s 解析垃圾输入应返回空列表: %+v", c.name, c.stubs)
		}
	}
}

func TestDetailItemCarriesPageURL(t *testing.T) {
	html := `<html><head><title>网易文章</title></head><body>` +
		`<article><p>这里是正文第一段，长度足够被当作正文段落保留下来，用于验证详情解析。</p></article>` +
		`</body></html>`

	s := NewNetease()
	item := s.ParseDetail([]byte(html), "https://news.163.com/a/1.html")
	if item.URL != "https://news.163.com/a/1.html" {
		t.Fatalf("URL 应回填: %+v", item)
	}
}
