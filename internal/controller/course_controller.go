package controller

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CourseController 面向学员的课程目录接口
type CourseController struct {
	CourseService    *service.CourseService
	DashboardService *service.DashboardService
}

func NewCourseController(courseService *service.CourseService, dashboardService *service.DashboardService) *CourseController {
	return &CourseController{
		CourseService:    courseService,
		DashboardService: dashboardService,
	}
}

// ListCourses godoc
// @Summary 公开课程目录
// @Description 已发布课程列表，按创建时间倒序
// @Tags 课程
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Course} "成功"
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.ListPublished()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary 课程详情
// @Description 按slug返回课程及章节大纲，未发布课程仅管理员可见
// @Tags 课程
// @Produce  json
// @Param   slug path string true "课程slug"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{slug} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	onlyPublished := claims == nil || claims.Role != model.Admin

	course, err := c.CourseService.GetBySlug(ctx.Param("slug"), onlyPublished)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

// GetSidebar godoc
// @Summary 学习页侧边栏
// @Description 课程大纲、每课时完成状态与整体进度，要求免费课程或Active报名
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   slug path string true "课程slug"
// @Success 200 {object} util.Response{data=service.SidebarData} "成功"
// @Failure 403 {object} util.Response "无访问权限"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{slug}/sidebar [get]
func (c *CourseController) GetSidebar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	data, err := c.DashboardService.GetSidebar(claims.UserID, ctx.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrCourseAccessDenied):
			util.Forbidden(ctx, "请先报名该课程")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, data)
}
