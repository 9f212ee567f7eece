package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DilipkumarRajan/training-request-portal/internal/dto"
	"github.com/DilipkumarRajan/training-request-portal/internal/model"
	"github.com/DilipkumarRajan/training-request-portal/internal/service"
	"github.com/DilipkumarRajan/training-request-portal/pkg/response"
)

// FormHandler 表单页面与表单辅助接口
type FormHandler struct {
	requestSvc service.TrainingRequestService
}

// NewFormHandler 创建 FormHandler
func NewFormHandler(requestSvc service.TrainingRequestService) *FormHandler {
	return &FormHandler{requestSvc: requestSvc}
}

// Page 渲染申请表单
// GET /
func (h *FormHandler) Page(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", gin.H{
		"Options":     h.requestSvc.Options(),
		"Constraints": h.requestSvc.Constraints(model.CustomTrainingNo),
	})
}

// Options 表单选项
// GET /api/v1/form/options
func (h *FormHandler) Options(c *gin.Context) {
	response.OK(c, h.requestSvc.Options())
}

// Constraints 根据是否定制培训返回日期下限
// GET /api/v1/form/constraints?custom_training=Yes
func (h *FormHandler) Constraints(c *gin.Context) {
	var req dto.FormConstraintsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeBadRequest, "custom_training must be Yes or No")
		return
	}
	response.OK(c, h.requestSvc.Constraints(req.CustomTraining))
}
