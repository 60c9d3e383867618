package service

import (
	"math"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/monitoring"
)

// ProgressService 课时完成标记与课程进度聚合。
// 聚合每次读取时从原始记录重新计算，不维护反范式化计数
type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	Access       *AccessService
}

func NewProgressService(progressRepo *repository.ProgressRepository, access *AccessService) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		Access:       access,
	}
}

// MarkLessonComplete 标记课时完成。幂等：重复调用效果等同一次
func (s *ProgressService) MarkLessonComplete(userID uint, lessonID string) error {
	granted, _, err := s.Access.CheckLessonAccess(userID, lessonID)
	if err != nil {
		return err
	}
	if !granted {
		return util.ErrCourseAccessDenied
	}

	if err := s.ProgressRepo.MarkCompleted(userID, lessonID); err != nil {
		return err
	}

	monitoring.LessonCompletionCounter.Inc()
	return nil
}

// CourseProgress 聚合课程进度，totalLessons为0时进度为0，避免除零
func (s *ProgressService) CourseProgress(userID uint, courseID string) (*model.CourseProgress, error) {
	total, err := s.ProgressRepo.TotalLessons(courseID)
	if err != nil {
		return nil, err
	}

	completed, err := s.ProgressRepo.CountCompleted(userID, courseID)
	if err != nil {
		return nil, err
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}

	return &model.CourseProgress{
		CourseID:           courseID,
		TotalLessons:       total,
		CompletedLessons:   completed,
		ProgressPercentage: percentage,
	}, nil
}
