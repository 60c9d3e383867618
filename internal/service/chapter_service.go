package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type ChapterService struct {
	ChapterRepo *repository.ChapterRepository
	CourseRepo  *repository.CourseRepository
}

func NewChapterService(chapterRepo *repository.ChapterRepository, courseRepo *repository.CourseRepository) *ChapterService {
	return &ChapterService{
		ChapterRepo: chapterRepo,
		CourseRepo:  courseRepo,
	}
}

// Create 新章节追加到课程末尾
func (s *ChapterService) Create(chapter *model.Chapter) error {
	if _, err := s.CourseRepo.FindByID(chapter.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}

	if chapter.Position == 0 {
		pos, err := s.ChapterRepo.NextPosition(chapter.CourseID)
		if err != nil {
			return err
		}
		chapter.Position = pos
	}
	return s.ChapterRepo.Create(chapter)
}

func (s *ChapterService) Rename(chapterID, title string) (*model.Chapter, error) {
	chapter, err := s.ChapterRepo.FindByID(chapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrChapterNotFound
		}
		return nil, err
	}

	chapter.Title = title
	if err := s.ChapterRepo.Update(chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *ChapterService) Reorder(courseID string, orderedIDs []string) error {
	return s.ChapterRepo.Reorder(courseID, orderedIDs)
}

func (s *ChapterService) Delete(chapterID string) error {
	if _, err := s.ChapterRepo.FindByID(chapterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrChapterNotFound
		}
		return err
	}
	return s.ChapterRepo.DeleteCascade(chapterID)
}
