package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"rentpay/bootstrap"
	btsConfig "rentpay/config"
	"rentpay/pkg/app"
	"rentpay/pkg/config"
	"rentpay/routes"
)

// 加载应用程序的基础配置
func init() {
	btsConfig.Initialize()
}

// App 应用程序上下文，用于优雅关闭
type App struct {
	server  *http.Server
	cleanup func()
}

func main() {
	env := parseFlags()

	deps, cleanup, err := setupApplication(env)
	if err != nil {
		if bootstrap.IsMissingCredentials(err) {
			log.Fatalf("初始化应用程序失败: 请配置 GOOGLE_CREDENTIALS_JSON 或 GOOGLE_APPLICATION_CREDENTIALS (%v)", err)
		}
		log.Fatalf("初始化应用程序失败: %v", err)
	}

	a := &App{
		server: &http.Server{
			Addr:              ":" + config.Get("app.port"),
			Handler:           setupServer(deps),
			ReadHeaderTimeout: 10 * time.Second,
		},
		cleanup: cleanup,
	}

	a.start()
}

// parseFlags 解析命令行参数
func parseFlags() string {
	var env string
	flag.StringVar(&env, "env", "", "加载 .env 文件，例如 --env=testing 将加载 .env.testing 文件")
	flag.Parse()
	return env
}

// setupApplication 初始化配置、日志、Redis 以及账本和凭证存储
func setupApplication(env string) (*routes.Dependencies, func(), error) {
	config.InitConfig(env)

	bootstrap.SetupLogger()

	// Redis 可选，不可用时限流退回内存存储，幂等检查关闭
	bootstrap.SetupRedis()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return bootstrap.SetupServices(ctx)
}

// setupServer 配置并返回 Gin 服务器实例
func setupServer(deps *routes.Dependencies) *gin.Engine {
	if !app.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	bootstrap.SetupRoute(router, deps)
	return router
}

// start 启动服务器并处理优雅关闭
func (a *App) start() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("服务器正在启动，监听端口 %s\n", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	<-quit
	log.Println("正在关闭服务器...")

	// 给进行中的提交留出完成上传与写入的时间
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		log.Printf("服务器关闭异常: %v", err)
	}
	if a.cleanup != nil {
		a.cleanup()
	}

	log.Println("服务器已成功关闭")
}
