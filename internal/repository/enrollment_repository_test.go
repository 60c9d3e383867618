package repository

import (
	"testing"

	"lms_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIfAbsent(t *testing.T) {
	db := newTestDB(t)
	repo := NewEnrollmentRepository(db)
	course, _, _ := seedCourseTree(t, db)

	first := &model.Enrollment{UserID: 1, CourseID: course.ID, Status: model.EnrollmentPending}
	created, err := repo.CreateIfAbsent(first)
	require.NoError(t, err)
	assert.True(t, created)

	// 冲突时不覆盖已有记录，返回库中的行
	second := &model.Enrollment{UserID: 1, CourseID: course.ID, Status: model.EnrollmentActive}
	created, err = repo.CreateIfAbsent(second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.EnrollmentPending, second.Status)

	var count int64
	require.NoError(t, db.Model(&model.Enrollment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateIfAbsentDifferentUsers(t *testing.T) {
	db := newTestDB(t)
	repo := NewEnrollmentRepository(db)
	course, _, _ := seedCourseTree(t, db)

	for userID := uint(1); userID <= 3; userID++ {
		created, err := repo.CreateIfAbsent(&model.Enrollment{
			UserID: userID, CourseID: course.ID, Status: model.EnrollmentActive,
		})
		require.NoError(t, err)
		assert.True(t, created)
	}

	count, err := repo.CountByCourse(course.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestHasActive(t *testing.T) {
	db := newTestDB(t)
	repo := NewEnrollmentRepository(db)
	course, _, _ := seedCourseTree(t, db)

	has, err := repo.HasActive(1, course.ID)
	require.NoError(t, err)
	assert.False(t, has)

	enrollment := &model.Enrollment{UserID: 1, CourseID: course.ID, Status: model.EnrollmentPending}
	require.NoError(t, db.Create(enrollment).Error)

	has, err = repo.HasActive(1, course.ID)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, repo.UpdateStatus(enrollment.ID, model.EnrollmentActive))

	has, err = repo.HasActive(1, course.ID)
	require.NoError(t, err)
	assert.True(t, has)
}
