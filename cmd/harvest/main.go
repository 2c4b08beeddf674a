package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/leafny/newsharvest/internal/config"
	"github.com/leafny/newsharvest/internal/fetch"
	"github.com/leafny/newsharvest/internal/harvest"
	"github.com/leafny/newsharvest/internal/model"
	"github.com/leafny/newsharvest/internal/notify"
	"github.com/leafny/newsharvest/internal/render"
	"github.com/leafny/newsharvest/internal/scheduler"
	"github.com/leafny/newsharvest/internal/source"
	"github.com/leafny/newsharvest/internal/storage"
)

func main() {
	var (
		sourceName = flag.String("source", "", "只采集指定来源，空表示全部")
		newsType   = flag.String("news-type", "hot_news", "新闻类别: hot_news 或 latest_china_news")
		interval   = flag.String("interval", "", "cron 表达式，例如 \"@every 30m\"；空表示只跑一轮")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	t := model.NewsType(*newsType)
	if t != model.NewsTypeHot && t != model.NewsTypeLatestChina {
		log.Fatalf("未知的新闻类别: %s", *newsType)
	}

	registry := source.NewRegistry()
	var sources []harvest.ListSource
	if *sourceName != "" {
		src, err := registry.Get(*sourceName)
		if err != nil {
			log.Fatalf("%v (可选: %v)", err, registry.Names())
		}
		sources = []harvest.ListSource{src}
	} else {
		sources = registry.All()
	}

	client := fetch.NewClient(fetch.Options{
		Timeout: cfg.Fetch.Timeout(),
		Headers: fetch.RandomHeaders(),
		GetPolicy: fetch.RetryPolicy{
			Attempts: cfg.Fetch.GetAttempts,
			Delay:    cfg.Fetch.RetryDelay(),
		},
		PostPolicy: fetch.RetryPolicy{
			Attempts: cfg.Fetch.PostAttempts,
			Delay:    cfg.Fetch.RetryDelay(),
		},
	})

	opts := []harvest.Option{harvest.WithConcurrency(cfg.Fetch.Concurrency)}

	// 落库与文件快照按配置各自启停
	var sinks []harvest.Sink
	if cfg.Storage.ToDatabase {
		store, err := storage.NewStore(cfg.Postgres.DSN, cfg.Redis.Addr)
		if err != nil {
			log.Fatalf("初始化存储失败: %v", err)
		}
		sinks = append(sinks, storage.NewDatabaseSink(store, true))
	}
	sinks = append(sinks, storage.NewFileSink(cfg.Storage.OutputDir, cfg.Storage.Format, cfg.Storage.Enabled))
	opts = append(opts, harvest.WithSinks(sinks...))

	opts = append(opts, harvest.WithNotifiers(
		notify.NewFeishuNotifier(cfg.Feishu.WebhookURL, cfg.Feishu.Secret, cfg.Feishu.Enabled),
		notify.NewDingTalkNotifier(cfg.DingTalk.WebhookURL, cfg.DingTalk.Secret, cfg.DingTalk.Enabled),
	))

	if cfg.Render.Enabled {
		browser, err := render.NewBrowser(context.Background(), cfg.Render.Timeout())
		if err != nil {
			log.Fatalf("初始化浏览器失败: %v", err)
		}
		defer browser.Close()
		opts = append(opts, harvest.WithRenderer(browser))
	}

	pipeline := harvest.NewPipeline(client, opts...)

	if *interval == "" {
		runOnce(pipeline, sources, t)
		return
	}

	s, err := scheduler.New(*interval, pipeline, sources, []model.NewsType{t})
	if err != nil {
		log.Fatalf("初始化调度器失败: %v", err)
	}
	s.Start()
	log.Printf("调度已启动 interval=%s", *interval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Stop()
	log.Println("调度已退出")
}

func runOnce(p *harvest.Pipeline, sources []harvest.ListSource, t model.NewsType) {
	total, failed := 0, 0
	for _, res := range p.RunAll(context.Background(), sources, t) {
		total += len(res.Items)
		failed += res.Failed
	}
	log.Printf("本轮采集完成 成功 %d 条 失败 %d 条", total, failed)
}
