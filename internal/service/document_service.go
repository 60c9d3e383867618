package service

import (
	"errors"

	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

// DocumentService 附件令牌签发：先过课程门禁，再签发限时令牌
type DocumentService struct {
	DocumentRepo *repository.DocumentRepository
	Access       *AccessService
	DocToken     *DocTokenService
}

func NewDocumentService(documentRepo *repository.DocumentRepository, access *AccessService, docToken *DocTokenService) *DocumentService {
	return &DocumentService{
		DocumentRepo: documentRepo,
		Access:       access,
		DocToken:     docToken,
	}
}

// IssueToken 为附件签发访问令牌
func (s *DocumentService) IssueToken(userID uint, documentID string) (string, error) {
	document, err := s.DocumentRepo.FindByID(documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrDocumentNotFound
		}
		return "", err
	}

	courseID, err := s.DocumentRepo.CourseIDOf(documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrDocumentNotFound
		}
		return "", err
	}

	granted, err := s.Access.CheckCourseAccess(userID, courseID)
	if err != nil {
		return "", err
	}
	if !granted {
		return "", util.ErrCourseAccessDenied
	}

	return s.DocToken.Issue(document.FileKey, userID, documentID)
}

// ResolveToken 验签令牌并返回真实下载地址
func (s *DocumentService) ResolveToken(token string) (string, error) {
	payload, err := s.DocToken.Decode(token)
	if err != nil {
		return "", err
	}
	return payload.URL, nil
}
