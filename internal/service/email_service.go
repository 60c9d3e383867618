package service

import (
	"context"
	"fmt"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const (
	otpKeyPrefix = "email_otp:"
	otpTTL       = 10 * time.Minute
	otpDigits    = 6
)

// EmailService 通过SendGrid发送事务邮件，验证码存Redis，10分钟有效
type EmailService struct {
	Cfg   *config.Config
	Redis *redis.Client
}

func NewEmailService(cfg *config.Config, rdb *redis.Client) *EmailService {
	return &EmailService{Cfg: cfg, Redis: rdb}
}

// SendVerificationCode 生成并发送邮箱验证码
func (s *EmailService) SendVerificationCode(ctx context.Context, email string) error {
	code := util.GenerateOTP(otpDigits)

	if err := s.Redis.Set(ctx, otpKeyPrefix+email, code, otpTTL).Err(); err != nil {
		return err
	}

	subject := "Verify your email address"
	plain := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
	html := fmt.Sprintf(`<p>Hello,</p>
<p>We received a request to verify your email address. Use the code below to complete your verification.</p>
<p style="font-size:28px;font-weight:bold;letter-spacing:8px;">%s</p>
<p>This code will expire in 10 minutes. If you did not request it, you can safely ignore this email.</p>`, code)

	return s.send(email, subject, plain, html)
}

// VerifyCode 校验验证码，通过后立即删除防止重放
func (s *EmailService) VerifyCode(ctx context.Context, email, code string) bool {
	val, err := s.Redis.Get(ctx, otpKeyPrefix+email).Result()
	if err != nil || val != code {
		return false
	}

	s.Redis.Del(ctx, otpKeyPrefix+email)
	return true
}

func (s *EmailService) send(to, subject, plain, html string) error {
	from := sgmail.NewEmail(s.Cfg.Email.FromName, s.Cfg.Email.FromEmail)
	message := sgmail.NewSingleEmail(from, subject, sgmail.NewEmail("", to), plain, html)

	client := sendgrid.NewSendClient(s.Cfg.Email.SendGridKey)
	resp, err := client.Send(message)
	if err != nil {
		logger.Log.Error("发送邮件失败", zap.String("to", to), zap.Error(err))
		return err
	}

	if resp.StatusCode >= 400 {
		logger.Log.Error("SendGrid返回错误",
			zap.String("to", to),
			zap.Int("status", resp.StatusCode),
			zap.String("body", resp.Body))
		return fmt.Errorf("sendgrid responded with status %d", resp.StatusCode)
	}

	return nil
}
