package handler

import "github.com/gin-gonic/gin"

// GetRequestID 读取 RequestID 中间件注入的请求 ID，未注入时返回空串
func GetRequestID(c *gin.Context) string {
	v, exists := c.Get("request_id")
	if !exists {
		return ""
	}
	s, _ := v.(string)
	return s
}
