// Package health 依赖健康检查
package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"rentpay/pkg/logger"
)

// Checker 可检查连通性的依赖
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc 函数形式的 Checker
type CheckerFunc func(ctx context.Context) error

// Ping 实现 Checker
func (f CheckerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// DependencyInfo 单个依赖的检查结果
type DependencyInfo struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

// Report 健康检查结果
type Report struct {
	Status       string                    `json:"status"`
	Timestamp    time.Time                 `json:"timestamp"`
	Dependencies map[string]DependencyInfo `json:"dependencies"`
	Stats        any                       `json:"stats,omitempty"`
}

// HealthController 健康检查
type HealthController struct {
	checkers map[string]Checker
	timeout  time.Duration
	stats    func() any
}

// NewHealthController 创建健康检查控制器
func NewHealthController(timeout time.Duration) *HealthController {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthController{checkers: make(map[string]Checker), timeout: timeout}
}

// AddChecker 注册依赖
func (hc *HealthController) AddChecker(name string, checker Checker) {
	hc.checkers[name] = checker
}

// SetStats 在检查结果中附带运行统计
func (hc *HealthController) SetStats(fn func() any) {
	hc.stats = fn
}

// Show 检查全部依赖，任一失败返回 503
// GET /health
func (hc *HealthController) Show(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), hc.timeout)
	defer cancel()

	report := hc.check(ctx)
	status := http.StatusOK
	if report.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

// Live 进程存活
// GET /health/live
func (hc *HealthController) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (hc *HealthController) check(ctx context.Context) Report {
	report := Report{
		Status:       "ok",
		Timestamp:    time.Now(),
		Dependencies: make(map[string]DependencyInfo, len(hc.checkers)),
	}

	names := make([]string, 0, len(hc.checkers))
	for name := range hc.checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		start := time.Now()
		err := hc.checkers[name].Ping(ctx)
		info := DependencyInfo{Status: "ok", Latency: time.Since(start).String()}
		if err != nil {
			logger.WarnString("Health", name, err.Error())
			info.Status = "down"
			info.Error = err.Error()
			report.Status = "degraded"
		}
		report.Dependencies[name] = info
	}
	if hc.stats != nil {
		report.Stats = hc.stats()
	}
	return report
}
