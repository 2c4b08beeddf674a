package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leafny/newsharvest/internal/config"
	"github.com/leafny/newsharvest/internal/extract"
	"github.com/leafny/newsharvest/internal/render"
)

type renderRequest struct {
	URL string `json:"url" binding:"required"`
}

type renderResponse struct {
	OK    bool   `json:"ok"`
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}

type parseResponse struct {
	OK      bool            `json:"ok"`
	Article extract.Article `json:"article,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// 渲染服务：把 headless 浏览器从采集进程里拆出来单独部署，
// 采集端拿到执行脚本后的 DOM 或直接拿解析好的正文。
func main() {
	addr := flag.String("addr", ":8090", "监听地址")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	browser, err := render.NewBrowser(context.Background(), cfg.Render.Timeout())
	if err != nil {
		log.Fatalf("初始化浏览器失败: %v", err)
	}
	defer browser.Close()

	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/render", func(c *gin.Context) {
		var req renderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, renderResponse{OK: false, Error: "url 必填"})
			return
		}

		html, err := browser.HTML(c.Request.Context(), req.URL)
		if err != nil {
			c.JSON(http.StatusBadGateway, renderResponse{OK: false, Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, renderResponse{OK: true, HTML: html})
	})

	// 渲染加正文提取一步到位，调用方不需要自带解析器
	r.POST("/parse", func(c *gin.Context) {
		var req renderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, parseResponse{OK: false, Error: "url 必填"})
			return
		}

		html, err := browser.HTML(c.Request.Context(), req.URL)
		if err != nil {
			c.JSON(http.StatusBadGateway, parseResponse{OK: false, Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, parseResponse{OK: true, Article: extract.Content(html, req.URL)})
	})

	srv := &http.Server{
		Addr:              *addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("渲染服务监听 %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("渲染服务退出: %v", err)
	}
}
