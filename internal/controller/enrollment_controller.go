package controller

import (
	"crypto/hmac"
	"errors"

	"lms_backend/internal/config"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// EnrollmentController 报名与支付确认接口
type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
	CaptchaService    *service.CaptchaService
	Cfg               *config.Config
	IsRelease         bool
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService, captchaService *service.CaptchaService, cfg *config.Config, isRelease bool) *EnrollmentController {
	return &EnrollmentController{
		EnrollmentService: enrollmentService,
		CaptchaService:    captchaService,
		Cfg:               cfg,
		IsRelease:         isRelease,
	}
}

// EnrollRequest 报名请求
type EnrollRequest struct {
	CourseID     string `json:"courseId" binding:"required"`
	CaptchaToken string `json:"captchaToken"`
}

// Enroll godoc
// @Summary 报名课程
// @Description 免费课程报名即生效，付费课程进入待支付状态。重复报名返回已有记录
// @Tags 报名
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body EnrollRequest true "课程ID"
// @Success 200 {object} util.Response{data=model.Enrollment} "已有报名记录"
// @Success 201 {object} util.Response{data=model.Enrollment} "报名成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 报名是机器人刷量的重灾区，生产环境要求人机验证
	if c.IsRelease && !c.CaptchaService.ValidateToken(req.CaptchaToken) {
		util.Error(ctx, 400, "人机验证失败")
		return
	}

	enrollment, created, err := c.EnrollmentService.Enroll(claims.UserID, req.CourseID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	if created {
		util.Created(ctx, enrollment)
	} else {
		util.Success(ctx, enrollment)
	}
}

// MyEnrollments godoc
// @Summary 我的报名记录
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment} "成功"
// @Router /api/enrollments [get]
func (c *EnrollmentController) MyEnrollments(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.EnrollmentService.ListByUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// PaymentWebhookRequest 支付回调载荷
type PaymentWebhookRequest struct {
	UserID    uint   `json:"userId" binding:"required"`
	CourseID  string `json:"courseId" binding:"required"`
	Reference string `json:"reference" binding:"required"`
}

// PaymentWebhook godoc
// @Summary 支付回调
// @Description 支付网关确认后将Pending报名转为Active，重复回调幂等
// @Tags 报名
// @Accept  json
// @Produce  json
// @Param   X-Webhook-Secret header string true "回调密钥"
// @Param   body body PaymentWebhookRequest true "支付结果"
// @Success 200 {object} util.Response{data=model.Enrollment} "成功"
// @Failure 401 {object} util.Response "密钥无效"
// @Failure 404 {object} util.Response "报名记录不存在"
// @Router /api/payments/webhook [post]
func (c *EnrollmentController) PaymentWebhook(ctx *gin.Context) {
	secret := ctx.GetHeader("X-Webhook-Secret")
	if !hmac.Equal([]byte(secret), []byte(c.Cfg.Payment.WebhookSecret)) {
		util.Unauthorized(ctx)
		return
	}

	var req PaymentWebhookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.ConfirmPayment(req.UserID, req.CourseID, req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEnrollmentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrEnrollmentNotPending):
			util.Error(ctx, 409, "报名状态不允许支付确认")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, enrollment)
}

// CancelEnrollment godoc
// @Summary 取消报名
// @Description 管理员退款后取消Active报名
// @Tags 报名
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "报名ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "报名记录不存在"
// @Failure 409 {object} util.Response "仅Active报名可取消"
// @Router /api/admin/enrollments/{id} [delete]
func (c *EnrollmentController) CancelEnrollment(ctx *gin.Context) {
	if err := c.EnrollmentService.Cancel(util.MustParseUint(ctx.Param("id"))); err != nil {
		switch {
		case errors.Is(err, util.ErrEnrollmentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrEnrollmentNotActive):
			util.Error(ctx, 409, "仅Active报名可取消")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
