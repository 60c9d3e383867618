package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) FindByID(id string) (*model.LessonDocument, error) {
	var doc model.LessonDocument
	err := r.DB.First(&doc, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// CourseIDOf 附件所属课程（附件→课时→章节→课程）
func (r *DocumentRepository) CourseIDOf(documentID string) (string, error) {
	var courseID string
	err := r.DB.Model(&model.LessonDocument{}).
		Select("chapters.course_id").
		Joins("JOIN lessons ON lessons.id = lesson_documents.lesson_id").
		Joins("JOIN chapters ON chapters.id = lessons.chapter_id").
		Where("lesson_documents.id = ?", documentID).
		Scan(&courseID).Error
	if err != nil {
		return "", err
	}
	if courseID == "" {
		return "", gorm.ErrRecordNotFound
	}
	return courseID, nil
}

func (r *DocumentRepository) ListByLesson(lessonID string) ([]model.LessonDocument, error) {
	var docs []model.LessonDocument
	err := r.DB.Where("lesson_id = ?", lessonID).
		Order("position ASC").
		Find(&docs).Error
	return docs, err
}
