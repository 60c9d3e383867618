package controller

import (
	"errors"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LessonController 课时内容投递与进度接口
type LessonController struct {
	LessonService   *service.LessonService
	ProgressService *service.ProgressService
}

func NewLessonController(lessonService *service.LessonService, progressService *service.ProgressService) *LessonController {
	return &LessonController{
		LessonService:   lessonService,
		ProgressService: progressService,
	}
}

// GetLessonContent godoc
// @Summary 课时内容
// @Description 门禁通过后返回课时内容、附件与完成标记
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课时ID"
// @Success 200 {object} util.Response{data=service.LessonContent} "成功"
// @Failure 403 {object} util.Response "无访问权限"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/lessons/{id} [get]
func (c *LessonController) GetLessonContent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	content, err := c.LessonService.GetContent(claims.UserID, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrCourseAccessDenied):
			util.Forbidden(ctx, "请先报名该课程")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, content)
}

// CompleteLesson godoc
// @Summary 标记课时完成
// @Description 幂等操作，重复标记不会产生新记录
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课时ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无访问权限"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/lessons/{id}/complete [post]
func (c *LessonController) CompleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ProgressService.MarkLessonComplete(claims.UserID, ctx.Param("id")); err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrCourseAccessDenied):
			util.Forbidden(ctx, "请先报名该课程")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// GetCourseProgress godoc
// @Summary 课程进度
// @Description 完成课时数、总课时数与四舍五入的百分比
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=model.CourseProgress} "成功"
// @Router /api/progress/{courseId} [get]
func (c *LessonController) GetCourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ProgressService.CourseProgress(claims.UserID, ctx.Param("courseId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
