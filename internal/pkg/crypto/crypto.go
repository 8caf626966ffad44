package crypto

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword 哈希密码 (bcrypt)
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword 验证 bcrypt 密码
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// EqualDigest 比较两个字符串的 SHA-256 摘要, 耗时与输入内容无关
func EqualDigest(a, b string) bool {
	da := sha256.Sum256([]byte(a))
	db := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(da[:], db[:]) == 1
}

// VerifyAdminPassword 校验管理员密码, 配置了 bcrypt 哈希时优先使用哈希
func VerifyAdminPassword(input, plain, hash string) bool {
	if hash != "" {
		return CheckPassword(input, hash)
	}
	if plain == "" {
		return false
	}
	return EqualDigest(input, plain)
}
