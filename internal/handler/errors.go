package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"projecttracker/pkg/util"
)

// respondStorageError 把仓储层或存储过程的错误映射为 HTTP 状态码
func respondStorageError(c *gin.Context, log *zap.Logger, op string, err error) {
	status, kind := util.ClassifyDBError(err)
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("error_type", kind),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		log.Error(op+": storage failure", fields...)
	} else {
		log.Warn(op+": rejected by storage", fields...)
	}
	c.JSON(status, gin.H{"error": util.ClientMessage(kind)})
}
