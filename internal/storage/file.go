package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leafny/newsharvest/internal/model"
)

// csvHeader 固定列顺序，保证快照文件可比对
var csvHeader = []string{"url", "title", "description", "author", "publish_time", "content", "images", "meta"}

// FileSink 把每个来源的最近一批结果落成快照文件，整文件覆盖写。
// 目录结构为 <root>/<source>/<source>.<format>。
type FileSink struct {
	root    string
	format  string
	enabled bool
}

func NewFileSink(root, format string, enabled bool) *FileSink {
	if format == "" {
		format = "json"
	}
	return &FileSink{root: root, format: format, enabled: enabled}
}

func (s *FileSink) Name() string { return "file" }

func (s *FileSink) Persist(ctx context.Context, items []model.NewsItem, category, source string) error {
	if !s.enabled || len(items) == 0 {
		return nil
	}

	dir := filepath.Join(s.root, source)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	path := filepath.Join(dir, source+"."+s.format)
	switch s.format {
	case "json":
		return writeJSON(path, items)
	case "csv":
		return writeCSV(path, items)
	default:
		return fmt.Errorf("不支持的文件格式: %s", s.format)
	}
}

func writeJSON(path string, items []model.NewsItem) error {
	bs, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化新闻列表失败: %w", err)
	}
	if err := os.WriteFile(path, bs, 0o644); err != nil {
		return fmt.Errorf("写入快照文件失败: %w", err)
	}
	return nil
}

func writeCSV(path string, items []model.NewsItem) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("写入快照文件失败: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, it := range items {
		images := ""
		if len(it.Images) > 0 {
			if bs, err := json.Marshal(it.Images); err == nil {
				images = string(bs)
			}
		}
		meta := ""
		if len(it.Meta) > 0 {
			if bs, err := json.Marshal(it.Meta); err == nil {
				meta = string(bs)
			}
		}
		row := []string{it.URL, it.Title, it.Description, it.Author, it.PublishTime, it.Content, images, meta}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
