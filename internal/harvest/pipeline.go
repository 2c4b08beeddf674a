package harvest

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/leafny/newsharvest/internal/model"
)

// ErrUnsupported 表示来源不提供请求的新闻类别
var ErrUnsupported = errors.New("来源不支持该新闻类别")

const defaultConcurrency = 10

// Request 描述一次列表或详情抓取
type Request struct {
	Method  string
	URL     string
	Params  map[string]string
	Body    []byte
	Headers map[string]string
}

// ListSource 所有来源必须实现的最小能力：给定类别返回列表请求并解析出条目桩
type ListSource interface {
	Name() string
	DisplayName() string
	ListRequest(t model.NewsType) (*Request, error)
	ParseList(t model.NewsType, raw []byte) []model.Stub
}

// DetailSource 提供详情页抓取与解析能力的来源。
// AllowedFields 返回落库白名单，空切片表示全部保留。
type DetailSource interface {
	DetailRequest(stub model.Stub) *Request
	ParseDetail(raw []byte, pageURL string) model.NewsItem
	AllowedFields() []string
}

// StubLister 自带抓取逻辑的来源（例如爬虫框架驱动），跳过通用列表请求
type StubLister interface {
	FetchStubs(ctx context.Context, t model.NewsType) ([]model.Stub, error)
}

// RenderedSource 详情页需要浏览器渲染的来源
type RenderedSource interface {
	Rendered() bool
}

// ConcurrencyHinter 来源可自定义详情抓取并发上限
type ConcurrencyHinter interface {
	Concurrency() int
}

// Fetcher 执行 HTTP 抓取
type Fetcher interface {
	Get(ctx context.Context, rawURL string, params map[string]string, headers map[string]string) ([]byte, error)
	Post(ctx context.Context, rawURL string, body []byte, headers map[string]string) ([]byte, error)
}

// Renderer 执行浏览器渲染抓取
type Renderer interface {
	HTML(ctx context.Context, url string) (string, error)
}

// Sink 持久化一批新闻
type Sink interface {
	Name() string
	Persist(ctx context.Context, items []model.NewsItem, category, source string) error
}

// Notifier 推送一批新闻摘要
type Notifier interface {
	Name() string
	Enabled() bool
	NotifyBatch(ctx context.Context, items []model.NewsItem, title string) error
}

// CardNotifier 支持卡片样式的通知端。
// 榜单类来源（不抓详情）走卡片，详情类来源走富文本汇总。
type CardNotifier interface {
	NotifyCard(ctx context.Context, items []model.NewsItem, title string) error
}

// Result 单次采集的汇总
type Result struct {
	Source   string
	NewsType model.NewsType
	Items    []model.NewsItem
	Failed   int
	Skipped  bool
}

// Pipeline 串起列表抓取、详情并发抓取、落库与通知。
// 详情单条失败只丢该条，落库与通知互不影响。
type Pipeline struct {
	fetcher     Fetcher
	renderer    Renderer
	sinks       []Sink
	notifiers   []Notifier
	concurrency int
}

type Option func(*Pipeline)

func WithRenderer(r Renderer) Option {
	return func(p *Pipeline) { p.renderer = r }
}

func WithSinks(sinks ...Sink) Option {
	return func(p *Pipeline) { p.sinks = append(p.sinks, sinks...) }
}

func WithNotifiers(ns ...Notifier) Option {
	return func(p *Pipeline) { p.notifiers = append(p.notifiers, ns...) }
}

func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

func NewPipeline(fetcher Fetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:     fetcher,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run 对单个来源执行一次完整采集。
// 来源声明不支持该类别时返回 Skipped 结果；列表抓取失败返回空结果而不是中断。
func (p *Pipeline) Run(ctx context.Context, src ListSource, t model.NewsType) Result {
	res := Result{Source: src.Name(), NewsType: t}

	stubs, err := p.listStubs(ctx, src, t)
	if errors.Is(err, ErrUnsupported) {
		log.Printf("跳过 %s: 不支持 %s", src.Name(), t)
		res.Skipped = true
		return res
	}
	if err != nil {
		log.Printf("warn: %s 列表抓取失败: %v", src.Name(), err)
		return res
	}
	log.Printf("%s %s 列表获取 %d 条", src.Name(), t, len(stubs))
	if len(stubs) == 0 {
		return res
	}

	items, failed := p.enrich(ctx, src, stubs)
	res.Items = items
	res.Failed = failed
	log.Printf("%s %s 详情完成 成功 %d 失败 %d", src.Name(), t, len(items), failed)

	p.dispatch(ctx, src, t, items)
	return res
}

// RunAll 依次采集多个来源，返回各自结果
func (p *Pipeline) RunAll(ctx context.Context, sources []ListSource, t model.NewsType) []Result {
	results := make([]Result, 0, len(sources))
	for _, src := range sources {
		results = append(results, p.Run(ctx, src, t))
	}
	return results
}

func (p *Pipeline) listStubs(ctx context.Context, src ListSource, t model.NewsType) ([]model.Stub, error) {
	if lister, ok := src.(StubLister); ok {
		return lister.FetchStubs(ctx, t)
	}

	req, err := src.ListRequest(t)
	if err != nil {
		return nil, err
	}

	// 渲染型来源的列表页同样要走浏览器
	if r, ok := src.(RenderedSource); ok && r.Rendered() && p.renderer != nil {
		html, err := p.renderer.HTML(ctx, req.URL)
		if err != nil {
			return nil, err
		}
		return src.ParseList(t, []byte(html)), nil
	}

	raw, err := p.doRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	return src.ParseList(t, raw), nil
}

// enrich 并发抓取详情并合并回条目桩。
// 信号量限制并发上限，单条失败计数后丢弃；
// 结果按榜单原始顺序返回，与完成先后无关。
func (p *Pipeline) enrich(ctx context.Context, src ListSource, stubs []model.Stub) ([]model.NewsItem, int) {
	detail, ok := src.(DetailSource)
	if !ok {
		// 仅列表来源直接升格为新闻条目
		items := make([]model.NewsItem, 0, len(stubs))
		for _, st := range stubs {
			items = append(items, model.FromStub(st))
		}
		return items, 0
	}

	limit := p.concurrency
	if h, ok := src.(ConcurrencyHinter); ok && h.Concurrency() > 0 {
		limit = h.Concurrency()
	}

	rendered := false
	if r, ok := src.(RenderedSource); ok {
		rendered = r.Rendered()
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		sem    = make(chan struct{}, limit)
		slots  = make([]*model.NewsItem, len(stubs))
		failed int
	)

	for i, st := range stubs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, st model.Stub) {
			defer wg.Done()
			defer func() { <-sem }()

			item, err := p.fetchDetail(ctx, detail, st, rendered)
			if err != nil {
				log.Printf("warn: %s 详情抓取失败 url=%s: %v", src.Name(), st.URL, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			slots[i] = &item
		}(i, st)
	}
	wg.Wait()

	// 按槽位压缩，跳过失败条目，保持榜单排名
	items := make([]model.NewsItem, 0, len(stubs))
	for _, it := range slots {
		if it != nil {
			items = append(items, *it)
		}
	}

	projectFields(items, detail.AllowedFields())
	return items, failed
}

func (p *Pipeline) fetchDetail(ctx context.Context, detail DetailSource, st model.Stub, rendered bool) (model.NewsItem, error) {
	req := detail.DetailRequest(st)

	var raw []byte
	if rendered && p.renderer != nil {
		html, err := p.renderer.HTML(ctx, req.URL)
		if err != nil {
			return model.NewsItem{}, err
		}
		raw = []byte(html)
	} else {
		var err error
		raw, err = p.doRequest(ctx, req)
		if err != nil {
			return model.NewsItem{}, err
		}
	}

	item := detail.ParseDetail(raw, req.URL)
	// 条目桩的字段兜底，详情页缺失时保留列表数据
	if item.URL == "" {
		item.URL = st.URL
	}
	if item.Title == "" {
		item.Title = st.Title
	}
	if item.Description == "" {
		item.Description = st.Description
	}
	return item, nil
}

func (p *Pipeline) doRequest(ctx context.Context, req *Request) ([]byte, error) {
	if req.Method == "POST" {
		return p.fetcher.Post(ctx, req.URL, req.Body, req.Headers)
	}
	return p.fetcher.Get(ctx, req.URL, req.Params, req.Headers)
}

// projectFields 按白名单清空不保留的字段，白名单为空表示全部保留
func projectFields(items []model.NewsItem, allowed []string) {
	if len(allowed) == 0 {
		return
	}
	keep := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		keep[f] = true
	}
	for i := range items {
		if !keep["title"] {
			items[i].Title = ""
		}
		if !keep["description"] {
			items[i].Description = ""
		}
		if !keep["author"] {
			items[i].Author = ""
		}
		if !keep["publish_time"] {
			items[i].PublishTime = ""
		}
		if !keep["content"] {
			items[i].Content = ""
		}
		if !keep["images"] {
			items[i].Images = nil
		}
		if !keep["meta"] {
			items[i].Meta = nil
		}
	}
}

// dispatch 并行执行落库与通知，彼此失败互不影响
func (p *Pipeline) dispatch(ctx context.Context, src ListSource, t model.NewsType, items []model.NewsItem) {
	if len(items) == 0 {
		return
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, sink := range p.sinks {
			if err := sink.Persist(ctx, items, string(t.Category()), src.Name()); err != nil {
				log.Printf("warn: %s 落库失败 sink=%s: %v", src.Name(), sink.Name(), err)
			}
		}
	}()

	_, hasDetail := src.(DetailSource)

	wg.Add(1)
	go func() {
		defer wg.Done()
		title := src.DisplayName() + t.Label() + "汇总"
		for _, n := range p.notifiers {
			if !n.Enabled() {
				continue
			}
			var err error
			if cn, ok := n.(CardNotifier); ok && !hasDetail {
				err = cn.NotifyCard(ctx, items, title)
			} else {
				err = n.NotifyBatch(ctx, items, title)
			}
			if err != nil {
				log.Printf("warn: %s 通知失败 notifier=%s: %v", src.Name(), n.Name(), err)
			}
		}
	}()

	wg.Wait()
}
