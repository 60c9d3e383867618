package util

import "errors"

var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrUserNotFound          = errors.New("用户不存在")
	ErrEmailRegistered       = errors.New("该邮箱已被注册")
	ErrEmailNotVerified      = errors.New("邮箱未验证")
	ErrInvalidOTP            = errors.New("验证码错误或已过期")
	ErrCourseNotFound        = errors.New("course not found")
	ErrChapterNotFound       = errors.New("chapter not found")
	ErrLessonNotFound        = errors.New("lesson not found")
	ErrDocumentNotFound      = errors.New("document not found")
	ErrSlugTaken             = errors.New("course slug already taken")
	ErrCourseAccessDenied    = errors.New("course access denied")
	ErrAlreadyEnrolled       = errors.New("already enrolled in this course")
	ErrEnrollmentNotFound    = errors.New("enrollment not found")
	ErrEnrollmentNotPending  = errors.New("enrollment is not pending")
	ErrEnrollmentNotActive   = errors.New("enrollment is not active")
	ErrInvalidDocToken       = errors.New("invalid or expired document token")
	ErrUploadSessionNotFound = errors.New("upload session not found")
)
