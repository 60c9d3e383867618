package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"lms_backend/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// CaptchaService 人机校验：滑动轨迹分析通过后签发一次性token，
// 注册与报名接口凭token放行
type CaptchaService struct {
	Redis *redis.Client
	Cfg   *config.Config
}

type TrajectoryPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
	T int `json:"t"`
}

func NewCaptchaService(rdb *redis.Client, cfg *config.Config) *CaptchaService {
	return &CaptchaService{
		Redis: rdb,
		Cfg:   cfg,
	}
}

// VerifyTrajectory 校验滑动轨迹
func (s *CaptchaService) VerifyTrajectory(trajectory []TrajectoryPoint, duration int) (string, error) {
	if len(trajectory) < 10 {
		return "", fmt.Errorf("trajectory too short")
	}

	if !s.analyzeTrajectory(trajectory, duration) {
		return "", fmt.Errorf("human machine verification failed")
	}

	captchaToken := uuid.New().String()
	ctx := context.Background()

	// 有效期2分钟
	err := s.Redis.Set(ctx, "captcha:"+captchaToken, "verified", 2*time.Minute).Err()
	if err != nil {
		return "", err
	}

	return captchaToken, nil
}

// ValidateToken 验证 Captcha Token，一次性使用
func (s *CaptchaService) ValidateToken(token string) bool {
	if token == "" {
		return false
	}

	ctx := context.Background()
	key := "captcha:" + token
	val, err := s.Redis.Get(ctx, key).Result()
	if err != nil || val != "verified" {
		return false
	}

	s.Redis.Del(ctx, key)
	return true
}

// analyzeTrajectory 轨迹分析：真人轨迹有抖动，匀速直线视为机器
func (s *CaptchaService) analyzeTrajectory(trajectory []TrajectoryPoint, duration int) bool {
	if duration < 200 || duration > 10000 {
		return false
	}

	var totalDistance float64
	var totalJitter float64

	for i := 1; i < len(trajectory); i++ {
		dx := float64(trajectory[i].X - trajectory[i-1].X)
		dy := float64(trajectory[i].Y - trajectory[i-1].Y)
		dist := math.Sqrt(dx*dx + dy*dy)
		totalDistance += dist
		totalJitter += math.Abs(dy)
	}

	if totalDistance < 50 {
		return false
	}

	return totalJitter > 0
}
