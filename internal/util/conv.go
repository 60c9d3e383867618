package util

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

const randomChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomString 生成文件名后缀等用途的随机串
func GenerateRandomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		idx, _ := rand.Int(rand.Reader, big.NewInt(int64(len(randomChars))))
		b[i] = randomChars[idx.Int64()]
	}
	return string(b)
}

// GenerateOTP 生成指定位数的数字验证码
func GenerateOTP(digits int) string {
	b := make([]byte, digits)
	for i := range b {
		idx, _ := rand.Int(rand.Reader, big.NewInt(10))
		b[i] = byte('0' + idx.Int64())
	}
	return string(b)
}

// TruncateTail 取字符串末尾n个字符，不足时返回原串
func TruncateTail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
