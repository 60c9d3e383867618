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

func newEnrollmentService(db *gorm.DB) *EnrollmentService {
	return NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
	)
}

func TestEnrollFreeCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "free-course", 0)

	enrollment, created, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)
	assert.Equal(t, 0, enrollment.Amount)
}

func TestEnrollPaidCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "paid-course", 4990)

	enrollment, created, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.EnrollmentPending, enrollment.Status)
	assert.Equal(t, 4990, enrollment.Amount)
}

func TestEnrollDuplicateIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "paid-course", 4990)

	first, created, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Status, second.Status)

	var count int64
	require.NoError(t, db.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnrollDuplicateKeepsActivatedStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "paid-course", 4990)

	_, _, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(user.ID, course.ID, "pay_001")
	require.NoError(t, err)

	// 已激活后再次报名不得把状态打回Pending
	enrollment, created, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)
}

func TestEnrollAfterCancellation(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "paid-course", 4990)
	enroll(t, db, user.ID, course.ID, model.EnrollmentCancelled)

	// 退款取消后允许重新报名，付费课程回到Pending等待支付
	enrollment, created, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, model.EnrollmentPending, enrollment.Status)
	assert.Equal(t, 4990, enrollment.Amount)

	var count int64
	require.NoError(t, db.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err = svc.ConfirmPayment(user.ID, course.ID, "pay_002")
	require.NoError(t, err)
}

func TestEnrollAfterCancellationFreeCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "free-course", 0)
	enroll(t, db, user.ID, course.ID, model.EnrollmentCancelled)

	enrollment, created, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)
}

func TestEnrollMissingCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)
	user := createTestUser(t, db, "student@example.com")

	_, _, err := svc.Enroll(user.ID, "no-such-course")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestConfirmPayment(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "paid-course", 4990)
	_, _, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	enrollment, err := svc.ConfirmPayment(user.ID, course.ID, "pay_001")
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)

	// 重复回调幂等
	enrollment, err = svc.ConfirmPayment(user.ID, course.ID, "pay_001")
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)
}

func TestConfirmPaymentMissingEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)
	user := createTestUser(t, db, "student@example.com")

	_, err := svc.ConfirmPayment(user.ID, "no-such-course", "pay_001")
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestConfirmPaymentCancelledEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "paid-course", 4990)
	enroll(t, db, user.ID, course.ID, model.EnrollmentCancelled)

	_, err := svc.ConfirmPayment(user.ID, course.ID, "pay_001")
	assert.ErrorIs(t, err, util.ErrEnrollmentNotPending)
}

func TestCancel(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "paid-course", 4990)
	enrollment := enroll(t, db, user.ID, course.ID, model.EnrollmentActive)

	require.NoError(t, svc.Cancel(enrollment.ID))

	var reloaded model.Enrollment
	require.NoError(t, db.First(&reloaded, enrollment.ID).Error)
	assert.Equal(t, model.EnrollmentCancelled, reloaded.Status)
}

func TestCancelPendingEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	user := createTestUser(t, db, "student@example.com")
	course := createTestCourse(t, db, "paid-course", 4990)
	enrollment := enroll(t, db, user.ID, course.ID, model.EnrollmentPending)

	assert.ErrorIs(t, svc.Cancel(enrollment.ID), util.ErrEnrollmentNotActive)
}
