// Package password 密码哈希
//
// 封装 bcrypt 哈希与校验，并提供"已哈希检测"：
// 存储层在写入前调用 EnsureHashed，明文被哈希，已是 bcrypt
// 格式的值原样保留（重复保存安全，等价于 mongoose 的 pre-save hook）。
package password

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost 哈希成本，与原系统的 salt rounds 对齐
const bcryptCost = 10

// Hash 使用 bcrypt 哈希明文密码
func Hash(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	return string(bytes), err
}

// Check 校验明文密码与哈希是否匹配
func Check(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IsHashed 判断值是否已经是 bcrypt 哈希
// bcrypt 哈希以 $2a$ / $2b$ / $2y$ 开头
func IsHashed(value string) bool {
	return strings.HasPrefix(value, "$2a$") ||
		strings.HasPrefix(value, "$2b$") ||
		strings.HasPrefix(value, "$2y$")
}

// EnsureHashed 返回值的哈希形式
// 已哈希的值原样返回，保证重复保存不二次哈希
func EnsureHashed(value string) (string, error) {
	if value == "" || IsHashed(value) {
		return value, nil
	}
	return Hash(value)
}
