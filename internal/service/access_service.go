package service

import (
	"errors"

	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// AccessService 内容访问门禁：免费课程放行，否则要求Active报名。只读检查
type AccessService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	LessonRepo     *repository.LessonRepository
}

func NewAccessService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, lessonRepo *repository.LessonRepository) *AccessService {
	return &AccessService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		LessonRepo:     lessonRepo,
	}
}

// CheckCourseAccess 判断用户能否查看课程的付费内容
func (s *AccessService) CheckCourseAccess(userID uint, courseID string) (bool, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, util.ErrCourseNotFound
		}
		return false, err
	}

	if course.IsFree() {
		return true, nil
	}

	return s.EnrollmentRepo.HasActive(userID, courseID)
}

// CheckLessonAccess 课时访问检查，返回所属课程ID便于调用方复用
func (s *AccessService) CheckLessonAccess(userID uint, lessonID string) (bool, string, error) {
	courseID, err := s.LessonRepo.CourseIDOf(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "", util.ErrLessonNotFound
		}
		return false, "", err
	}

	granted, err := s.CheckCourseAccess(userID, courseID)
	return granted, courseID, err
}
