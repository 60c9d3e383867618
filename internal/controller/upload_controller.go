package controller

import (
	"errors"
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UploadController 课时视频分片上传接口
type UploadController struct {
	UploadService *service.UploadService
}

func NewUploadController(uploadService *service.UploadService) *UploadController {
	return &UploadController{UploadService: uploadService}
}

// UploadVideoChunk godoc
// @Summary 上传视频分片
// @Description 所有分片到齐后自动合并、生成缩略图并转存对象存储
// @Tags 后台
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   chunk formData file true "分片文件"
// @Param   chunkNumber formData int true "分片序号，从1开始"
// @Param   totalChunks formData int true "总分片数"
// @Param   identifier formData string true "上传会话标识"
// @Param   filename formData string true "原始文件名"
// @Success 200 {object} util.Response{data=object} "分片已接收或上传完成"
// @Failure 400 {object} util.Response "参数错误"
// @Router /api/admin/uploads/video/chunk [post]
func (c *UploadController) UploadVideoChunk(ctx *gin.Context) {
	chunkFile, err := ctx.FormFile("chunk")
	if err != nil {
		util.BadRequest(ctx, "缺少分片文件")
		return
	}

	chunkNumber, err := strconv.Atoi(ctx.PostForm("chunkNumber"))
	if err != nil || chunkNumber < 1 {
		util.BadRequest(ctx, "分片序号无效")
		return
	}

	totalChunks, err := strconv.Atoi(ctx.PostForm("totalChunks"))
	if err != nil || totalChunks < 1 {
		util.BadRequest(ctx, "总分片数无效")
		return
	}

	identifier := ctx.PostForm("identifier")
	filename := ctx.PostForm("filename")
	if identifier == "" || filename == "" {
		util.BadRequest(ctx, "缺少上传会话标识或文件名")
		return
	}

	progress, video, err := c.UploadService.UploadVideoChunk(ctx.Request.Context(), chunkFile, chunkNumber, totalChunks, identifier, filename)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if video != nil {
		util.Success(ctx, gin.H{"progress": progress, "video": video})
		return
	}
	util.Success(ctx, gin.H{"progress": progress})
}

// GetUploadProgress godoc
// @Summary 查询上传进度
// @Tags 后台
// @Produce  json
// @Security BearerAuth
// @Param   identifier path string true "上传会话标识"
// @Success 200 {object} util.Response{data=model.UploadProgress} "成功"
// @Failure 404 {object} util.Response "上传会话不存在"
// @Router /api/admin/uploads/video/progress/{identifier} [get]
func (c *UploadController) GetUploadProgress(ctx *gin.Context) {
	progress, err := c.UploadService.GetUploadProgress(ctx.Param("identifier"))
	if err != nil {
		if errors.Is(err, util.ErrUploadSessionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}
