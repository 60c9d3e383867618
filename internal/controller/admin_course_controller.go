package controller

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminCourseController 后台课程编辑接口，全部要求admin角色
type AdminCourseController struct {
	CourseService  *service.CourseService
	ChapterService *service.ChapterService
	LessonService  *service.LessonService
	StorageService *service.StorageService
}

func NewAdminCourseController(courseService *service.CourseService, chapterService *service.ChapterService, lessonService *service.LessonService, storageService *service.StorageService) *AdminCourseController {
	return &AdminCourseController{
		CourseService:  courseService,
		ChapterService: chapterService,
		LessonService:  lessonService,
		StorageService: storageService,
	}
}

// CourseRequest 课程创建/更新请求
// swagger:model CourseRequest
type CourseRequest struct {
	Title            string `json:"title" binding:"required"`
	Slug             string `json:"slug" binding:"required"`
	SmallDescription string `json:"smallDescription"`
	Description      string `json:"description"`
	FileKey          string `json:"fileKey"`
	Price            int    `json:"price" binding:"min=0"`
	Duration         int    `json:"duration"`
	Level            string `json:"level" binding:"omitempty,oneof=Beginner Intermediate Advanced"`
	Category         string `json:"category"`
	Status           string `json:"status" binding:"omitempty,oneof=Draft Published Archived"`
}

// ListCourses godoc
// @Summary 后台课程列表
// @Tags 后台
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/admin/courses [get]
func (c *AdminCourseController) ListCourses(ctx *gin.Context) {
	page := int(util.MustParseUint(ctx.DefaultQuery("page", "1")))
	limit := int(util.MustParseUint(ctx.DefaultQuery("limit", "20")))

	courses, total, err := c.CourseService.ListAll(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  courses,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// RecentCourses godoc
// @Summary 最近创建的课程
// @Tags 后台
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "数量，默认5"
// @Success 200 {object} util.Response{data=[]model.Course} "成功"
// @Router /api/admin/courses/recent [get]
func (c *AdminCourseController) RecentCourses(ctx *gin.Context) {
	limit := int(util.MustParseUint(ctx.DefaultQuery("limit", "5")))

	courses, err := c.CourseService.ListRecent(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary 后台课程详情
// @Description 含草稿课程，按slug查询
// @Tags 后台
// @Produce  json
// @Security BearerAuth
// @Param   slug path string true "课程slug"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/slug/{slug} [get]
func (c *AdminCourseController) GetCourse(ctx *gin.Context) {
	course, err := c.CourseService.GetBySlug(ctx.Param("slug"), false)
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

// CreateCourse godoc
// @Summary 创建课程
// @Tags 后台
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course} "创建成功"
// @Failure 409 {object} util.Response "slug已被占用"
// @Router /api/admin/courses [post]
func (c *AdminCourseController) CreateCourse(ctx *gin.Context) {
	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course := &model.Course{
		Title:            req.Title,
		Slug:             req.Slug,
		SmallDescription: req.SmallDescription,
		Description:      req.Description,
		FileKey:          req.FileKey,
		Price:            req.Price,
		Duration:         req.Duration,
		Category:         req.Category,
	}
	if req.Level != "" {
		course.Level = model.CourseLevel(req.Level)
	}
	if req.Status != "" {
		course.Status = model.CourseStatus(req.Status)
	}

	if err := c.CourseService.Create(course); err != nil {
		if errors.Is(err, util.ErrSlugTaken) {
			util.Error(ctx, 409, "slug已被占用")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 后台
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课程ID"
// @Param   body body CourseRequest true "课程信息"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 409 {object} util.Response "slug已被占用"
// @Router /api/admin/courses/{id} [put]
func (c *AdminCourseController) UpdateCourse(ctx *gin.Context) {
	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(ctx.Param("id"), func(course *model.Course) {
		course.Title = req.Title
		course.Slug = req.Slug
		course.SmallDescription = req.SmallDescription
		course.Description = req.Description
		course.FileKey = req.FileKey
		course.Price = req.Price
		course.Duration = req.Duration
		course.Category = req.Category
		if req.Level != "" {
			course.Level = model.CourseLevel(req.Level)
		}
		if req.Status != "" {
			course.Status = model.CourseStatus(req.Status)
		}
	})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrSlugTaken):
			util.Error(ctx, 409, "slug已被占用")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Description 级联删除章节、课时、附件与进度记录
// @Tags 后台
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课程ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id} [delete]
func (c *AdminCourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.CourseService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// ChapterRequest 章节请求
type ChapterRequest struct {
	CourseID string `json:"courseId" binding:"required"`
	Title    string `json:"title" binding:"required"`
}

// CreateChapter godoc
// @Summary 创建章节
// @Description 新章节追加到课程末尾
// @Tags 后台
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ChapterRequest true "章节信息"
// @Success 201 {object} util.Response{data=model.Chapter} "创建成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/chapters [post]
func (c *AdminCourseController) CreateChapter(ctx *gin.Context) {
	var req ChapterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chapter := &model.Chapter{
		CourseID: req.CourseID,
		Title:    req.Title,
	}
	if err := c.ChapterService.Create(chapter); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, chapter)
}

// RenameChapterRequest 章节重命名请求
type RenameChapterRequest struct {
	Title string `json:"title" binding:"required"`
}

// RenameChapter godoc
// @Summary 重命名章节
// @Tags 后台
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "章节ID"
// @Param   body body RenameChapterRequest true "新标题"
// @Success 200 {object} util.Response{data=model.Chapter} "成功"
// @Failure 404 {object} util.Response "章节不存在"
// @Router /api/admin/chapters/{id} [put]
func (c *AdminCourseController) RenameChapter(ctx *gin.Context) {
	var req RenameChapterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chapter, err := c.ChapterService.Rename(ctx.Param("id"), req.Title)
	if err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, chapter)
}

// ReorderRequest 排序请求，orderedIds按期望顺序给出全部ID
type ReorderRequest struct {
	OrderedIDs []string `json:"orderedIds" binding:"required,min=1"`
}

// ReorderChapters godoc
// @Summary 调整章节顺序
// @Tags 后台
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课程ID"
// @Param   body body ReorderRequest true "章节ID的期望顺序"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/courses/{id}/chapters/reorder [post]
func (c *AdminCourseController) ReorderChapters(ctx *gin.Context) {
	var req ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ChapterService.Reorder(ctx.Param("id"), req.OrderedIDs); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteChapter godoc
// @Summary 删除章节
// @Description 级联删除章节下的课时、附件与进度记录
// @Tags 后台
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "章节ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "章节不存在"
// @Router /api/admin/chapters/{id} [delete]
func (c *AdminCourseController) DeleteChapter(ctx *gin.Context) {
	if err := c.ChapterService.Delete(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// LessonCreateRequest 课时创建请求
type LessonCreateRequest struct {
	ChapterID   string `json:"chapterId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	VideoKey    string `json:"videoKey"`
}

// CreateLesson godoc
// @Summary 创建课时
// @Tags 后台
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body LessonCreateRequest true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson} "创建成功"
// @Failure 404 {object} util.Response "章节不存在"
// @Router /api/admin/lessons [post]
func (c *AdminCourseController) CreateLesson(ctx *gin.Context) {
	var req LessonCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson := &model.Lesson{
		ChapterID:   req.ChapterID,
		Title:       req.Title,
		Description: req.Description,
		VideoKey:    req.VideoKey,
	}
	if err := c.LessonService.Create(lesson); err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, lesson)
}

// LessonDocumentInput 附件输入项
type LessonDocumentInput struct {
	Name    string `json:"name" binding:"required"`
	FileKey string `json:"fileKey" binding:"required"`
}

// LessonUpdateRequest 课时更新请求，附件列表整体替换
type LessonUpdateRequest struct {
	Title        string                `json:"title" binding:"required"`
	Description  string                `json:"description"`
	VideoKey     string                `json:"videoKey"`
	ThumbnailKey string                `json:"thumbnailKey"`
	Documents    []LessonDocumentInput `json:"documents"`
}

// UpdateLesson godoc
// @Summary 更新课时
// @Description 课时字段与附件列表在同一事务内整体替换，失败则全部回滚
// @Tags 后台
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课时ID"
// @Param   body body LessonUpdateRequest true "课时信息"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/admin/lessons/{id} [put]
func (c *AdminCourseController) UpdateLesson(ctx *gin.Context) {
	var req LessonUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lessonID := ctx.Param("id")
	updates := map[string]interface{}{
		"title":         req.Title,
		"description":   req.Description,
		"video_key":     req.VideoKey,
		"thumbnail_key": req.ThumbnailKey,
	}

	documents := make([]model.LessonDocument, 0, len(req.Documents))
	for i, d := range req.Documents {
		documents = append(documents, model.LessonDocument{
			LessonID: lessonID,
			Name:     d.Name,
			FileKey:  d.FileKey,
			Position: i + 1,
		})
	}

	if err := c.LessonService.UpdateWithDocuments(lessonID, updates, documents); err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// ReorderLessons godoc
// @Summary 调整课时顺序
// @Tags 后台
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "章节ID"
// @Param   body body ReorderRequest true "课时ID的期望顺序"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/chapters/{id}/lessons/reorder [post]
func (c *AdminCourseController) ReorderLessons(ctx *gin.Context) {
	var req ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.LessonService.Reorder(ctx.Param("id"), req.OrderedIDs); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteLesson godoc
// @Summary 删除课时
// @Tags 后台
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课时ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/admin/lessons/{id} [delete]
func (c *AdminCourseController) DeleteLesson(ctx *gin.Context) {
	if err := c.LessonService.Delete(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// PresignRequest 预签名上传请求
type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// PresignUpload godoc
// @Summary 生成预签名上传地址
// @Description 客户端直传对象存储，地址15分钟有效
// @Tags 后台
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body PresignRequest true "文件信息"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/admin/uploads/presign [post]
func (c *AdminCourseController) PresignUpload(ctx *gin.Context) {
	var req PresignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 只接受图片、视频和PDF
	if !util.IsImage(req.ContentType) && !util.IsVideo(req.ContentType) && req.ContentType != util.MimePDF {
		util.BadRequest(ctx, "不支持的文件类型: "+req.ContentType)
		return
	}

	fileKey := util.GenerateRandomString(16) + "-" + req.Filename
	url, err := c.StorageService.PresignUpload(ctx.Request.Context(), fileKey)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"uploadUrl": url, "fileKey": fileKey})
}

// DeleteFileRequest 删除文件请求
type DeleteFileRequest struct {
	FileKey string `json:"fileKey" binding:"required"`
}

// DeleteFile godoc
// @Summary 删除对象存储文件
// @Tags 后台
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body DeleteFileRequest true "文件key"
// @Success 200 {object} util.Response "成功"
// @Router /api/admin/uploads [delete]
func (c *AdminCourseController) DeleteFile(ctx *gin.Context) {
	var req DeleteFileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.StorageService.Delete(ctx.Request.Context(), req.FileKey); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
