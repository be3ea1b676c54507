package infra

import (
	"gin-bytemarket/logger"

	"github.com/joho/godotenv"
)

// Initialize .envを読み込み、ロガーを初期化する
func Initialize() {
	err := godotenv.Load()
	logger.Setup()
	if err != nil {
		logger.L.Info("No .env file found; using environment variables")
	}
}
