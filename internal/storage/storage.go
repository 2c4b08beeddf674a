package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/leafny/newsharvest/internal/model"
	"github.com/leafny/newsharvest/internal/timeutil"
)

// News 新闻明细表，URL 唯一索引作为幂等键
type News struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	URL         string     `gorm:"size:255;uniqueIndex;not null" json:"url"`
	Content     string     `gorm:"type:text" json:"content"`
	Author      string     `gorm:"size:100" json:"author"`
	Intro       string     `gorm:"type:text" json:"intro"`
	PublishTime *time.Time `gorm:"index" json:"publishTime"`
	MediaName   string     `gorm:"size:100" json:"mediaName"`
	// 图片地址列表，JSON 编码后存文本列
	Images   string            `gorm:"type:text" json:"images"`
	Category string            `gorm:"size:32;index;not null" json:"category"`
	Source   string            `gorm:"size:32;index;not null" json:"source"`
	Meta     datatypes.JSONMap `gorm:"type:jsonb" json:"meta"`

	CreateTime time.Time `gorm:"autoCreateTime" json:"createTime"`
	UpdateTime time.Time `gorm:"autoUpdateTime" json:"updateTime"`
}

func (News) TableName() string { return "news" }

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&News{}); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping 失败: %v", err)
	}

	return &Store{DB: db, Redis: rdb}, nil
}

// toValidUTF8 将字符串规范为合法 UTF-8，避免 PostgreSQL invalid byte sequence 错误（部分源可能含 GBK/混编）
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}

// truncateRunes 按 rune 数截断，保证不超过 varchar 字段长度
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

// contentHash 用于 Redis 跳写缓存。
// 覆盖全部可变字段，包括分类与来源：同一 URL 换了类别重新抓到时
// 哈希必然不同，不会被缓存拦住而留下旧的 category/source。
func contentHash(it model.NewsItem, category, source string) string {
	h := sha1.New()
	for _, part := range []string{
		it.Title, it.Content, it.PublishTime, it.Author, it.Description, category, source,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	if len(it.Images) > 0 {
		if bs, err := json.Marshal(it.Images); err == nil {
			h.Write(bs)
		}
	}
	h.Write([]byte{0})
	if len(it.Meta) > 0 {
		if bs, err := json.Marshal(it.Meta); err == nil {
			h.Write(bs)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

const hashTTL = 24 * time.Hour

// buildRow 将抓取结果映射为数据库行。
// meta.mediaid 落到 media_name，meta.description 落到 intro；
// 发布时间解析失败只告警，字段留空，不丢整条数据。
func buildRow(it model.NewsItem, category, source string) News {
	row := News{
		Title:    truncateRunes(toValidUTF8(it.Title), 255),
		URL:      truncateRunes(it.URL, 255),
		Content:  toValidUTF8(it.Content),
		Author:   truncateRunes(toValidUTF8(it.Author), 100),
		Intro:    toValidUTF8(it.Description),
		Category: category,
		Source:   source,
	}

	if it.PublishTime != "" {
		if t, err := timeutil.Parse(it.PublishTime); err == nil {
			row.PublishTime = &t
		} else {
			log.Printf("warn: 发布时间解析失败 url=%s value=%q", it.URL, it.PublishTime)
		}
	}

	if len(it.Images) > 0 {
		if bs, err := json.Marshal(it.Images); err == nil {
			row.Images = string(bs)
		}
	}

	if len(it.Meta) > 0 {
		row.Meta = datatypes.JSONMap(it.Meta)
		if v, ok := it.Meta["mediaid"].(string); ok && v != "" {
			row.MediaName = truncateRunes(toValidUTF8(v), 100)
		}
		if row.Intro == "" {
			if v, ok := it.Meta["description"].(string); ok {
				row.Intro = toValidUTF8(v)
			}
		}
	}

	return row
}

// UpsertBatch 在单个事务内按 URL 幂等写入一批新闻。
// 任一条失败则整批回滚；内容哈希命中 Redis 缓存的条目直接跳过。
func (s *Store) UpsertBatch(ctx context.Context, items []model.NewsItem, category, source string) error {
	if len(items) == 0 {
		return nil
	}

	skip := make(map[string]bool, len(items))
	if s.Redis != nil {
		for _, it := range items {
			key := "news:hash:" + it.URL
			if v, err := s.Redis.Get(ctx, key).Result(); err == nil && v == contentHash(it, category, source) {
				skip[it.URL] = true
			}
		}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range items {
			if it.URL == "" || skip[it.URL] {
				continue
			}
			row := buildRow(it, category, source)

			var existing News
			res := tx.Where("url = ?", row.URL).First(&existing)
			switch {
			case res.Error == nil:
				updates := map[string]any{
					"title":        row.Title,
					"content":      row.Content,
					"author":       row.Author,
					"intro":        row.Intro,
					"publish_time": row.PublishTime,
					"media_name":   row.MediaName,
					"images":       row.Images,
					"category":     row.Category,
					"source":       row.Source,
					"meta":         row.Meta,
				}
				if err := tx.Model(&News{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
					return fmt.Errorf("更新新闻失败 url=%s: %w", row.URL, err)
				}
			case errors.Is(res.Error, gorm.ErrRecordNotFound):
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("写入新闻失败 url=%s: %w", row.URL, err)
				}
			default:
				return fmt.Errorf("查询新闻失败 url=%s: %w", row.URL, res.Error)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.Redis != nil {
		for _, it := range items {
			if it.URL == "" || skip[it.URL] {
				continue
			}
			_ = s.Redis.Set(ctx, "news:hash:"+it.URL, contentHash(it, category, source), hashTTL).Err()
		}
	}
	return nil
}

// DatabaseSink 带开关的数据库落库适配
type DatabaseSink struct {
	store   *Store
	enabled bool
}

func NewDatabaseSink(store *Store, enabled bool) *DatabaseSink {
	return &DatabaseSink{store: store, enabled: enabled}
}

func (s *DatabaseSink) Name() string { return "database" }

func (s *DatabaseSink) Persist(ctx context.Context, items []model.NewsItem, category, source string) error {
	if !s.enabled || s.store == nil || len(items) == 0 {
		return nil
	}
	return s.store.UpsertBatch(ctx, items, category, source)
}
