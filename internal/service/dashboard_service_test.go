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

func newDashboardService(db *gorm.DB) *DashboardService {
	access := newAccessService(db)
	progress := NewProgressService(repository.NewProgressRepository(db), access)
	return NewDashboardService(
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewProgressRepository(db),
		progress,
		access,
	)
}

func TestGetDashboard(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)
	progressSvc := newProgressService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "enrolled-course", 0)
	chapter := createTestChapter(t, db, course.ID, 1)
	lesson1 := createTestLesson(t, db, chapter.ID, 1)
	createTestLesson(t, db, chapter.ID, 2)

	enroll(t, db, user.ID, course.ID, model.EnrollmentActive)
	require.NoError(t, progressSvc.MarkLessonComplete(user.ID, lesson1.ID))

	// 未报名课程不应出现在面板里
	createTestCourse(t, db, "other-course", 0)

	courses, err := svc.GetDashboard(user.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.NotNil(t, courses[0].Course)
	assert.Equal(t, "enrolled-course", courses[0].Course.Slug)
	assert.Equal(t, string(model.EnrollmentActive), courses[0].Status)
	assert.Equal(t, 50, courses[0].Progress.ProgressPercentage)
}

func TestGetDashboardEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)
	user := createTestUser(t, db, "student@example.com")

	courses, err := svc.GetDashboard(user.ID)
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestGetSidebar(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)
	progressSvc := newProgressService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "paid-course", 4990)
	chapter := createTestChapter(t, db, course.ID, 1)
	lesson1 := createTestLesson(t, db, chapter.ID, 1)
	lesson2 := createTestLesson(t, db, chapter.ID, 2)

	_, err := svc.GetSidebar(user.ID, "paid-course")
	assert.ErrorIs(t, err, util.ErrCourseAccessDenied)

	enroll(t, db, user.ID, course.ID, model.EnrollmentActive)
	require.NoError(t, progressSvc.MarkLessonComplete(user.ID, lesson1.ID))

	data, err := svc.GetSidebar(user.ID, "paid-course")
	require.NoError(t, err)
	require.Len(t, data.Course.Chapters, 1)
	require.Len(t, data.Course.Chapters[0].Lessons, 2)
	assert.True(t, data.Completed[lesson1.ID])
	assert.False(t, data.Completed[lesson2.ID])
	assert.Equal(t, 50, data.Progress.ProgressPercentage)
}

func TestGetSidebarMissingCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)
	user := createTestUser(t, db, "student@example.com")

	_, err := svc.GetSidebar(user.ID, "no-such-course")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}
