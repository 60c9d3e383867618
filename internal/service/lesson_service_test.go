package service

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLessonService(db *gorm.DB) *LessonService {
	return NewLessonService(
		repository.NewLessonRepository(db),
		repository.NewChapterRepository(db),
		repository.NewProgressRepository(db),
		newAccessService(db),
	)
}

func TestGetContentRequiresAccess(t *testing.T) {
	db := newTestDB(t)
	svc := newLessonService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "paid-course", 4990)
	chapter := createTestChapter(t, db, course.ID, 1)
	lesson := createTestLesson(t, db, chapter.ID, 1)

	_, err := svc.GetContent(user.ID, lesson.ID)
	assert.ErrorIs(t, err, util.ErrCourseAccessDenied)

	enroll(t, db, user.ID, course.ID, model.EnrollmentActive)

	content, err := svc.GetContent(user.ID, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.ID, content.Lesson.ID)
	assert.Equal(t, course.ID, content.CourseID)
	assert.False(t, content.Completed)
}

func TestGetContentCompletedFlag(t *testing.T) {
	db := newTestDB(t)
	svc := newLessonService(db)
	progressSvc := newProgressService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "free-course", 0)
	chapter := createTestChapter(t, db, course.ID, 1)
	lesson := createTestLesson(t, db, chapter.ID, 1)

	require.NoError(t, progressSvc.MarkLessonComplete(user.ID, lesson.ID))

	content, err := svc.GetContent(user.ID, lesson.ID)
	require.NoError(t, err)
	assert.True(t, content.Completed)
}

func TestGetContentIncludesDocuments(t *testing.T) {
	db := newTestDB(t)
	svc := newLessonService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "free-course", 0)
	chapter := createTestChapter(t, db, course.ID, 1)
	lesson := createTestLesson(t, db, chapter.ID, 1)

	docs := []model.LessonDocument{
		{LessonID: lesson.ID, Name: "b.pdf", FileKey: "files/b.pdf", Position: 2},
		{LessonID: lesson.ID, Name: "a.pdf", FileKey: "files/a.pdf", Position: 1},
	}
	for i := range docs {
		require.NoError(t, db.Create(&docs[i]).Error)
	}

	content, err := svc.GetContent(user.ID, lesson.ID)
	require.NoError(t, err)
	require.Len(t, content.Lesson.Documents, 2)
	// 附件按Position排序
	assert.Equal(t, "a.pdf", content.Lesson.Documents[0].Name)
	assert.Equal(t, "b.pdf", content.Lesson.Documents[1].Name)
}

func TestLessonCreateAppendsPosition(t *testing.T) {
	db := newTestDB(t)
	svc := newLessonService(db)

	course := createTestCourse(t, db, "free-course", 0)
	chapter := createTestChapter(t, db, course.ID, 1)
	createTestLesson(t, db, chapter.ID, 1)

	lesson := &model.Lesson{ChapterID: chapter.ID, Title: "Appended"}
	require.NoError(t, svc.Create(lesson))
	assert.Equal(t, 2, lesson.Position)
}

func TestLessonUpdateMissing(t *testing.T) {
	db := newTestDB(t)
	svc := newLessonService(db)

	err := svc.UpdateWithDocuments("no-such-lesson", map[string]interface{}{"title": "x"}, nil)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}
