package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/leafny/newsharvest/internal/harvest"
	"github.com/leafny/newsharvest/internal/model"
)

// Scheduler 周期调度采集任务，启动时先跑一轮
type Scheduler struct {
	cron     *cron.Cron
	pipeline *harvest.Pipeline
	sources  []harvest.ListSource
	types    []model.NewsType
}

func New(spec string, p *harvest.Pipeline, sources []harvest.ListSource, types []model.NewsType) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:     c,
		pipeline: p,
		sources:  sources,
		types:    types,
	}

	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	go s.runOnce()
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runOnce() {
	log.Println("开始采集任务...")

	ctx := context.Background()
	total, failed := 0, 0
	for _, t := range s.types {
		for _, res := range s.pipeline.RunAll(ctx, s.sources, t) {
			total += len(res.Items)
			failed += res.Failed
		}
	}

	log.Printf("采集任务完成 成功 %d 条 失败 %d 条", total, failed)
}
