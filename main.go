// @title SIMCO 后端 API
// @version 1.0
// @description SIMCO认知评估系统的后端服务器：自适应测验生成、会话判分与行为推断。
// @termsOfService http://swagger.io/terms/

// @contact.name API支持
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8000
// @BasePath /

package main

import (
	"flag"
	"log"

	"simco_backend/internal/app"
	"simco_backend/internal/config"
	"simco_backend/pkg/configwatcher"
	"simco_backend/pkg/logger"
)

func main() {
	// 命令行参数
	watch := flag.Bool("watch-config", false, "监听配置文件变更并热更新生成模型配置")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *watch {
		go configwatcher.WatchConfig("configs/config.yaml", application.ReloadConfig)
	}

	application.Run()
}
