package service

import (
	"context"
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseService 课程目录与后台管理
type CourseService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Storage        *StorageService
}

func NewCourseService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, storage *StorageService) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Storage:        storage,
	}
}

// ListPublished 公开课程目录，按创建时间倒序
func (s *CourseService) ListPublished() ([]model.Course, error) {
	return s.CourseRepo.ListPublished()
}

// GetBySlug 课程详情及大纲。onlyPublished控制游客是否可见草稿
func (s *CourseService) GetBySlug(slug string, onlyPublished bool) (*model.Course, error) {
	course, err := s.CourseRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if onlyPublished && course.Status != model.CoursePublished {
		return nil, util.ErrCourseNotFound
	}
	return course, nil
}

func (s *CourseService) Create(course *model.Course) error {
	exists, err := s.CourseRepo.SlugExists(course.Slug)
	if err != nil {
		return err
	}
	if exists {
		return util.ErrSlugTaken
	}

	return s.CourseRepo.Create(course)
}

func (s *CourseService) Update(courseID string, updates func(*model.Course)) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	oldSlug := course.Slug
	updates(course)

	if course.Slug != oldSlug {
		exists, err := s.CourseRepo.SlugExists(course.Slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, util.ErrSlugTaken
		}
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete 级联删除课程，随后清理封面文件。存储清理失败只记日志
func (s *CourseService) Delete(ctx context.Context, courseID string) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}

	if err := s.CourseRepo.DeleteCascade(courseID); err != nil {
		return err
	}

	if course.FileKey != "" {
		if err := s.Storage.Delete(ctx, course.FileKey); err != nil {
			logger.Log.Error("删除课程封面失败",
				zap.String("courseID", courseID),
				zap.String("fileKey", course.FileKey),
				zap.Error(err))
		}
	}
	return nil
}

func (s *CourseService) ListAll(page, limit int) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.CourseRepo.ListAll(page, limit)
}

func (s *CourseService) ListRecent(limit int) ([]model.Course, error) {
	if limit < 1 || limit > 50 {
		limit = 5
	}
	return s.CourseRepo.ListRecent(limit)
}
