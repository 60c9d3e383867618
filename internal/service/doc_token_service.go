package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/util"
)

// 测试中可替换以构造过期令牌
var nowFunc = time.Now

// DocTokenPayload 文档访问令牌载荷。uid/did为截断标识，仅作轻量防篡改佐证
type DocTokenPayload struct {
	URL string `json:"url"`
	Exp int64  `json:"exp"`
	UID string `json:"uid"` // 用户ID末6位
	DID string `json:"did"` // 附件ID末8位
	Iat int64  `json:"iat"`
}

// DocTokenService 签发限时文档访问令牌。
// 载荷经HMAC-SHA256签名，解码时校验签名、有效期和存储host白名单，
// 任何一项不通过即判定无效
type DocTokenService struct {
	Cfg *config.Config
}

func NewDocTokenService(cfg *config.Config) *DocTokenService {
	return &DocTokenService{Cfg: cfg}
}

// Issue 为文件key签发令牌，有效期为配置的固定窗口（默认2小时）
func (s *DocTokenService) Issue(fileKey string, userID uint, documentID string) (string, error) {
	now := nowFunc()
	payload := DocTokenPayload{
		URL: s.objectURL(fileKey),
		Exp: now.Add(s.Cfg.DocToken.ExpireTime).Unix(),
		UID: util.TruncateTail(fmt.Sprint(userID), 6),
		DID: util.TruncateTail(documentID, 8),
		Iat: now.Unix(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(data)
	sig := s.sign(data)
	return encoded + "." + sig, nil
}

// Decode 验签并解出真实URL。过期、被篡改或host不在白名单都返回ErrInvalidDocToken
func (s *DocTokenService) Decode(token string) (*DocTokenPayload, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return nil, util.ErrInvalidDocToken
	}

	data, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, util.ErrInvalidDocToken
	}

	if !hmac.Equal([]byte(s.sign(data)), []byte(parts[1])) {
		return nil, util.ErrInvalidDocToken
	}

	var payload DocTokenPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, util.ErrInvalidDocToken
	}

	if nowFunc().Unix() > payload.Exp {
		return nil, util.ErrInvalidDocToken
	}

	if !s.hostAllowed(payload.URL) {
		return nil, util.ErrInvalidDocToken
	}

	return &payload, nil
}

func (s *DocTokenService) sign(data []byte) string {
	mac := hmac.New(sha256.New, []byte(s.Cfg.DocToken.Secret))
	mac.Write(data)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s *DocTokenService) objectURL(fileKey string) string {
	host := s.Cfg.Storage.PublicHost
	if host == "" {
		host = s.Cfg.Storage.MinioEndpoint
	}
	return fmt.Sprintf("https://%s/%s/%s", host, s.Cfg.Storage.MinioBucket, fileKey)
}

func (s *DocTokenService) hostAllowed(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" {
		return false
	}

	allowed := s.Cfg.DocToken.AllowedHost
	if allowed == "" {
		return false
	}
	return u.Host == allowed || strings.HasSuffix(u.Host, "."+allowed)
}
