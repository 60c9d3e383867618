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

func newAccessService(db *gorm.DB) *AccessService {
	return NewAccessService(
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewLessonRepository(db),
	)
}

func TestCheckCourseAccess(t *testing.T) {
	db := newTestDB(t)
	svc := newAccessService(db)

	user := createTestUser(t, db, "student@example.com")
	freeCourse := createTestCourse(t, db, "free-course", 0)
	paidCourse := createTestCourse(t, db, "paid-course", 4990)

	tests := []struct {
		name     string
		setup    func()
		courseID string
		want     bool
	}{
		{
			name:     "free course without enrollment",
			courseID: freeCourse.ID,
			want:     true,
		},
		{
			name:     "paid course without enrollment",
			courseID: paidCourse.ID,
			want:     false,
		},
		{
			name: "paid course with pending enrollment",
			setup: func() {
				enroll(t, db, user.ID, paidCourse.ID, model.EnrollmentPending)
			},
			courseID: paidCourse.ID,
			want:     false,
		},
		{
			name: "paid course with active enrollment",
			setup: func() {
				require.NoError(t, db.Model(&model.Enrollment{}).
					Where("user_id = ? AND course_id = ?", user.ID, paidCourse.ID).
					Update("status", model.EnrollmentActive).Error)
			},
			courseID: paidCourse.ID,
			want:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			granted, err := svc.CheckCourseAccess(user.ID, tt.courseID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, granted)
		})
	}
}

func TestCheckCourseAccessMissingCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newAccessService(db)
	user := createTestUser(t, db, "student@example.com")

	_, err := svc.CheckCourseAccess(user.ID, "no-such-course")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestCheckLessonAccess(t *testing.T) {
	db := newTestDB(t)
	svc := newAccessService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "paid-course", 4990)
	chapter := createTestChapter(t, db, course.ID, 1)
	lesson := createTestLesson(t, db, chapter.ID, 1)

	granted, courseID, err := svc.CheckLessonAccess(user.ID, lesson.ID)
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Equal(t, course.ID, courseID)

	enroll(t, db, user.ID, course.ID, model.EnrollmentActive)

	granted, courseID, err = svc.CheckLessonAccess(user.ID, lesson.ID)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, course.ID, courseID)
}

func TestCheckLessonAccessMissingLesson(t *testing.T) {
	db := newTestDB(t)
	svc := newAccessService(db)
	user := createTestUser(t, db, "student@example.com")

	_, _, err := svc.CheckLessonAccess(user.ID, "no-such-lesson")
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}
