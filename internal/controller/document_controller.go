package controller

import (
	"errors"
	"net/http"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// DocumentController 课时附件的限时访问令牌接口
type DocumentController struct {
	DocumentService *service.DocumentService
}

func NewDocumentController(documentService *service.DocumentService) *DocumentController {
	return &DocumentController{DocumentService: documentService}
}

// IssueToken godoc
// @Summary 签发附件访问令牌
// @Description 门禁通过后签发限时令牌，默认2小时有效
// @Tags 附件
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "附件ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 403 {object} util.Response "无访问权限"
// @Failure 404 {object} util.Response "附件不存在"
// @Router /api/documents/{id}/token [get]
func (c *DocumentController) IssueToken(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	token, err := c.DocumentService.IssueToken(claims.UserID, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrDocumentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrCourseAccessDenied):
			util.Forbidden(ctx, "请先报名该课程")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"token": token})
}

// ResolveToken godoc
// @Summary 解析附件令牌
// @Description 验签通过后302跳转到真实下载地址
// @Tags 附件
// @Param   token query string true "附件访问令牌"
// @Success 302 "跳转到下载地址"
// @Failure 400 {object} util.Response "令牌无效或已过期"
// @Router /api/documents/resolve [get]
func (c *DocumentController) ResolveToken(ctx *gin.Context) {
	url, err := c.DocumentService.ResolveToken(ctx.Query("token"))
	if err != nil {
		util.Error(ctx, 400, "令牌无效或已过期")
		return
	}
	ctx.Redirect(http.StatusFound, url)
}
