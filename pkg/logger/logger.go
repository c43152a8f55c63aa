// Package logger 提供基于zerolog的结构化日志
//
// 设计说明：
// 1. 日志级别、输出格式由配置决定（config.LogConfig）
// 2. console格式用于开发环境（彩色、易读），json格式用于生产环境（便于采集）
// 3. 业务代码通过依赖注入拿到zerolog.Logger,不使用全局变量
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config 日志配置
type Config struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	EnableCaller bool   // 是否记录调用位置
}

// New 根据配置构建Logger
func New(cfg Config) zerolog.Logger {
	// 1. 解析日志级别
	var level zerolog.Level
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	// 2. 配置输出格式
	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	if cfg.EnableCaller {
		logger = logger.With().Caller().Logger()
	}

	return logger
}
