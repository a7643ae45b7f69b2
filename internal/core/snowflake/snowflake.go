package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/kevinluo6191/XDNMB/internal/core/config"
	"github.com/kevinluo6191/XDNMB/internal/core/logger"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// Init Initialize snowflake generator
func Init(cfg *config.SnowflakeConfig) error {
	var initErr error
	nodeOnce.Do(func() {
		var err error
		node, err = snowflake.NewNode(cfg.WorkerID)
		if err != nil {
			logger.Error("failed to initialize snowflake",
				logger.ErrorField(err),
				logger.Int64("worker_id", cfg.WorkerID))
			initErr = err
			return
		}
		logger.Info("snowflake initialized",
			logger.Int64("worker_id", cfg.WorkerID))
	})
	return initErr
}

// RequestID 生成请求 ID，未初始化时返回空串
func RequestID() string {
	if node == nil {
		return ""
	}
	return node.Generate().Base58()
}

// Generate Generate new snowflake ID
func Generate() int64 {
	return node.Generate().Int64()
}
