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

func newProgressService(db *gorm.DB) *ProgressService {
	return NewProgressService(
		repository.NewProgressRepository(db),
		newAccessService(db),
	)
}

func TestMarkLessonCompleteIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "free-course", 0)
	chapter := createTestChapter(t, db, course.ID, 1)
	lesson := createTestLesson(t, db, chapter.ID, 1)

	require.NoError(t, svc.MarkLessonComplete(user.ID, lesson.ID))
	require.NoError(t, svc.MarkLessonComplete(user.ID, lesson.ID))

	var count int64
	require.NoError(t, db.Model(&model.LessonProgress{}).
		Where("user_id = ? AND lesson_id = ?", user.ID, lesson.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var progress model.LessonProgress
	require.NoError(t, db.Where("user_id = ? AND lesson_id = ?", user.ID, lesson.ID).
		First(&progress).Error)
	assert.True(t, progress.Completed)
	assert.NotNil(t, progress.CompletedAt)
}

func TestMarkLessonCompleteDenied(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "paid-course", 4990)
	chapter := createTestChapter(t, db, course.ID, 1)
	lesson := createTestLesson(t, db, chapter.ID, 1)

	err := svc.MarkLessonComplete(user.ID, lesson.ID)
	assert.ErrorIs(t, err, util.ErrCourseAccessDenied)

	var count int64
	require.NoError(t, db.Model(&model.LessonProgress{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestMarkLessonCompleteMissingLesson(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)
	user := createTestUser(t, db, "student@example.com")

	err := svc.MarkLessonComplete(user.ID, "no-such-lesson")
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestCourseProgress(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "free-course", 0)
	chapter1 := createTestChapter(t, db, course.ID, 1)
	chapter2 := createTestChapter(t, db, course.ID, 2)

	lessons := []*model.Lesson{
		createTestLesson(t, db, chapter1.ID, 1),
		createTestLesson(t, db, chapter1.ID, 2),
		createTestLesson(t, db, chapter2.ID, 1),
		createTestLesson(t, db, chapter2.ID, 2),
	}

	require.NoError(t, svc.MarkLessonComplete(user.ID, lessons[0].ID))
	require.NoError(t, svc.MarkLessonComplete(user.ID, lessons[2].ID))

	progress, err := svc.CourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, progress.TotalLessons)
	assert.EqualValues(t, 2, progress.CompletedLessons)
	assert.Equal(t, 50, progress.ProgressPercentage)
}

func TestCourseProgressRounding(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "free-course", 0)
	chapter := createTestChapter(t, db, course.ID, 1)

	lessons := []*model.Lesson{
		createTestLesson(t, db, chapter.ID, 1),
		createTestLesson(t, db, chapter.ID, 2),
		createTestLesson(t, db, chapter.ID, 3),
	}

	require.NoError(t, svc.MarkLessonComplete(user.ID, lessons[0].ID))

	progress, err := svc.CourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 33, progress.ProgressPercentage)

	require.NoError(t, svc.MarkLessonComplete(user.ID, lessons[1].ID))

	progress, err = svc.CourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 67, progress.ProgressPercentage)
}

func TestCourseProgressEmptyCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "empty-course", 0)

	progress, err := svc.CourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, progress.TotalLessons)
	assert.Equal(t, 0, progress.ProgressPercentage)
}

func TestCourseProgressIgnoresOtherCourses(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "course-a", 0)
	other := createTestCourse(t, db, "course-b", 0)

	chapterA := createTestChapter(t, db, course.ID, 1)
	chapterB := createTestChapter(t, db, other.ID, 1)
	createTestLesson(t, db, chapterA.ID, 1)
	lessonB := createTestLesson(t, db, chapterB.ID, 1)

	require.NoError(t, svc.MarkLessonComplete(user.ID, lessonB.ID))

	progress, err := svc.CourseProgress(user.ID, course.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, progress.TotalLessons)
	assert.EqualValues(t, 0, progress.CompletedLessons)
	assert.Equal(t, 0, progress.ProgressPercentage)
}
