package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnrollmentService 报名生命周期：
// 免费课程报名即Active；付费课程先Pending，支付确认后转Active。
// 同一用户对同一课程只允许一条记录，重复报名视为无操作；
// 已取消的记录重新报名时原地复活，不新建行
type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
}

func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
	}
}

// Enroll 创建报名。返回的created=false表示此前已有记录（无操作）
func (s *EnrollmentService) Enroll(userID uint, courseID string) (*model.Enrollment, bool, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, util.ErrCourseNotFound
		}
		return nil, false, err
	}

	status := model.EnrollmentPending
	if course.IsFree() {
		status = model.EnrollmentActive
	}

	enrollment := &model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   status,
		Amount:   course.Price,
	}

	created, err := s.EnrollmentRepo.CreateIfAbsent(enrollment)
	if err != nil {
		monitoring.EnrollmentCounter.WithLabelValues("error").Inc()
		return nil, false, err
	}

	switch {
	case created:
		monitoring.EnrollmentCounter.WithLabelValues("created").Inc()
		logger.Log.Info("enrollment created",
			zap.Uint("userID", userID),
			zap.String("courseID", courseID),
			zap.String("status", string(status)))
	case enrollment.Status == model.EnrollmentCancelled:
		// 取消（退款）后的用户允许重新报名，状态和价格快照按当前课程重置
		if err := s.EnrollmentRepo.Reenroll(enrollment.ID, status, course.Price); err != nil {
			monitoring.EnrollmentCounter.WithLabelValues("error").Inc()
			return nil, false, err
		}
		enrollment.Status = status
		enrollment.Amount = course.Price
		monitoring.EnrollmentCounter.WithLabelValues("reenrolled").Inc()
		logger.Log.Info("enrollment reactivated",
			zap.Uint("userID", userID),
			zap.String("courseID", courseID),
			zap.String("status", string(status)))
	default:
		monitoring.EnrollmentCounter.WithLabelValues("duplicate").Inc()
	}

	return enrollment, created, nil
}

// ConfirmPayment 支付确认，Pending→Active。重复确认为幂等无操作
func (s *EnrollmentService) ConfirmPayment(userID uint, courseID string, reference string) (*model.Enrollment, error) {
	enrollment, err := s.EnrollmentRepo.FindByUserCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	switch enrollment.Status {
	case model.EnrollmentActive:
		// 已激活，重复回调直接返回
		return enrollment, nil
	case model.EnrollmentPending:
		if err := s.EnrollmentRepo.UpdateStatus(enrollment.ID, model.EnrollmentActive); err != nil {
			return nil, err
		}
		enrollment.Status = model.EnrollmentActive
		logger.Log.Info("enrollment activated",
			zap.Uint("enrollmentID", enrollment.ID),
			zap.String("paymentRef", reference))
		return enrollment, nil
	default:
		return nil, util.ErrEnrollmentNotPending
	}
}

// Cancel 管理员取消报名，仅Active可取消（退款路径）
func (s *EnrollmentService) Cancel(enrollmentID uint) error {
	enrollment, err := s.EnrollmentRepo.FindByID(enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEnrollmentNotFound
		}
		return err
	}

	if enrollment.Status != model.EnrollmentActive {
		return util.ErrEnrollmentNotActive
	}

	return s.EnrollmentRepo.UpdateStatus(enrollmentID, model.EnrollmentCancelled)
}

func (s *EnrollmentService) ListByUser(userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByUser(userID)
}
