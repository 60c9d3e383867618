package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// LessonService 课时内容投递与后台编辑
type LessonService struct {
	LessonRepo   *repository.LessonRepository
	ChapterRepo  *repository.ChapterRepository
	ProgressRepo *repository.ProgressRepository
	Access       *AccessService
}

func NewLessonService(lessonRepo *repository.LessonRepository, chapterRepo *repository.ChapterRepository, progressRepo *repository.ProgressRepository, access *AccessService) *LessonService {
	return &LessonService{
		LessonRepo:   lessonRepo,
		ChapterRepo:  chapterRepo,
		ProgressRepo: progressRepo,
		Access:       access,
	}
}

// LessonContent 课时内容及当前用户的完成状态
type LessonContent struct {
	Lesson    *model.Lesson `json:"lesson"`
	Completed bool          `json:"completed"`
	CourseID  string        `json:"courseId"`
}

// GetContent 门禁通过后返回课时内容（含附件与完成标记）
func (s *LessonService) GetContent(userID uint, lessonID string) (*LessonContent, error) {
	granted, courseID, err := s.Access.CheckLessonAccess(userID, lessonID)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, util.ErrCourseAccessDenied
	}

	lesson, err := s.LessonRepo.FindWithDocuments(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	completed := false
	if progress, err := s.ProgressRepo.Find(userID, lessonID); err == nil {
		completed = progress.Completed
	}

	return &LessonContent{
		Lesson:    lesson,
		Completed: completed,
		CourseID:  courseID,
	}, nil
}

func (s *LessonService) Create(lesson *model.Lesson) error {
	if _, err := s.ChapterRepo.FindByID(lesson.ChapterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}

	if lesson.Position == 0 {
		pos, err := s.LessonRepo.NextPosition(lesson.ChapterID)
		if err != nil {
			return err
		}
		lesson.Position = pos
	}
	return s.LessonRepo.Create(lesson)
}

// UpdateWithDocuments 更新课时并整体替换附件，全有或全无
func (s *LessonService) UpdateWithDocuments(lessonID string, updates map[string]interface{}, documents []model.LessonDocument) error {
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}

	return s.LessonRepo.UpdateWithDocuments(lessonID, updates, documents)
}

func (s *LessonService) Delete(lessonID string) error {
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLessonNotFound
		}
		return err
	}
	return s.LessonRepo.DeleteCascade(lessonID)
}

func (s *LessonService) Reorder(chapterID string, orderedIDs []string) error {
	return s.LessonRepo.Reorder(chapterID, orderedIDs)
}
