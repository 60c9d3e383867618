package controller

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService    *service.AuthService
	CaptchaService *service.CaptchaService
	IsRelease      bool // 是否为生产环境
}

func NewAuthController(authService *service.AuthService, captchaService *service.CaptchaService, isRelease bool) *AuthController {
	return &AuthController{
		AuthService:    authService,
		CaptchaService: captchaService,
		IsRelease:      isRelease,
	}
}

// RegisterRequest 注册请求
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	CaptchaToken string `json:"captchaToken"`
}

// Register godoc
// @Summary 注册新用户
// @Description 注册学员账号并发送邮箱验证码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 生产环境要求先通过人机验证
	if c.IsRelease && !c.CaptchaService.ValidateToken(req.CaptchaToken) {
		util.Error(ctx, 400, "人机验证失败")
		return
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Student,
	}

	if err := c.AuthService.Register(ctx.Request.Context(), user); err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Error(ctx, 409, "该邮箱已被注册")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": user.ID})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Description 邮箱密码登录，返回JWT
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录凭证"
// @Success 200 {object} util.Response{data=object} "登录成功"
// @Failure 401 {object} util.Response "凭证无效"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		util.Error(ctx, 401, "邮箱或密码错误")
		return
	}

	util.Success(ctx, gin.H{"token": token})
}

// VerifyEmailRequest 邮箱验证请求
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// VerifyEmail godoc
// @Summary 验证邮箱
// @Description 校验邮箱验证码并激活账号
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body VerifyEmailRequest true "邮箱与验证码"
// @Success 200 {object} util.Response "验证成功"
// @Failure 400 {object} util.Response "验证码错误或已过期"
// @Router /api/auth/verify-email [post]
func (c *AuthController) VerifyEmail(ctx *gin.Context) {
	var req VerifyEmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.VerifyEmail(ctx.Request.Context(), req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidOTP):
			util.Error(ctx, 400, "验证码错误或已过期")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// ResendVerificationRequest 重发验证码请求
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResendVerification godoc
// @Summary 重发邮箱验证码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ResendVerificationRequest true "邮箱"
// @Success 200 {object} util.Response "已发送"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/auth/resend-verification [post]
func (c *AuthController) ResendVerification(ctx *gin.Context) {
	var req ResendVerificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ResendVerification(ctx.Request.Context(), req.Email); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// Me godoc
// @Summary 当前用户信息
// @Tags 认证
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 401 {object} util.Response "未登录"
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, user)
}

// CaptchaVerifyRequest 验证码校验请求
type CaptchaVerifyRequest struct {
	Trajectory []service.TrajectoryPoint `json:"trajectory"`
	Duration   int                       `json:"duration"`
}

// VerifyCaptcha godoc
// @Summary 验证码校验
// @Description 后端根据滑动轨迹判断是否为真人
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body CaptchaVerifyRequest true "轨迹数据"
// @Success 200 {object} util.Response{data=object} "验证通过"
// @Failure 400 {object} util.Response "验证失败"
// @Router /api/auth/captcha/verify [post]
func (c *AuthController) VerifyCaptcha(ctx *gin.Context) {
	var req CaptchaVerifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, err := c.CaptchaService.VerifyTrajectory(req.Trajectory, req.Duration)
	if err != nil {
		util.Error(ctx, 400, "人机验证失败: "+err.Error())
		return
	}

	util.Success(ctx, gin.H{"captcha_token": token})
}
