package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// DashboardService 学员学习面板与课程侧边栏数据
type DashboardService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
	Progress       *ProgressService
	Access         *AccessService
}

func NewDashboardService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, progressRepo *repository.ProgressRepository, progress *ProgressService, access *AccessService) *DashboardService {
	return &DashboardService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		Progress:       progress,
		Access:         access,
	}
}

// EnrolledCourse 面板中一门课程及其进度
type EnrolledCourse struct {
	Course   *model.Course         `json:"course"`
	Status   string                `json:"status"`
	Progress *model.CourseProgress `json:"progress"`
}

// GetDashboard 用户已报名课程列表，每门附带进度聚合
func (s *DashboardService) GetDashboard(userID uint) ([]EnrolledCourse, error) {
	enrollments, err := s.EnrollmentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	result := make([]EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		progress, err := s.Progress.CourseProgress(userID, e.CourseID)
		if err != nil {
			return nil, err
		}
		result = append(result, EnrolledCourse{
			Course:   e.Course,
			Status:   string(e.Status),
			Progress: progress,
		})
	}
	return result, nil
}

// SidebarData 学习页侧边栏：课程大纲、每课时完成标记、整体进度
type SidebarData struct {
	Course    *model.Course         `json:"course"`
	Completed map[string]bool       `json:"completed"`
	Progress  *model.CourseProgress `json:"progress"`
}

// GetSidebar 门禁通过后返回侧边栏数据
func (s *DashboardService) GetSidebar(userID uint, slug string) (*SidebarData, error) {
	course, err := s.CourseRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	granted, err := s.Access.CheckCourseAccess(userID, course.ID)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, util.ErrCourseAccessDenied
	}

	completed, err := s.ProgressRepo.MapByUserCourse(userID, course.ID)
	if err != nil {
		return nil, err
	}

	progress, err := s.Progress.CourseProgress(userID, course.ID)
	if err != nil {
		return nil, err
	}

	return &SidebarData{
		Course:    course,
		Completed: completed,
		Progress:  progress,
	}, nil
}
