package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualDigest(t *testing.T) {
	assert.True(t, EqualDigest("s3cret", "s3cret"))
	assert.False(t, EqualDigest("s3cret", "s3cret "))
	assert.False(t, EqualDigest("", "x"))
}

func TestVerifyAdminPassword(t *testing.T) {
	hash, err := HashPassword("hashed-pass")
	require.NoError(t, err)

	assert.True(t, VerifyAdminPassword("plain-pass", "plain-pass", ""))
	assert.False(t, VerifyAdminPassword("wrong", "plain-pass", ""))
	assert.False(t, VerifyAdminPassword("", "", ""), "未配置密码时一律拒绝")

	assert.True(t, VerifyAdminPassword("hashed-pass", "plain-pass", hash))
	assert.False(t, VerifyAdminPassword("plain-pass", "plain-pass", hash), "哈希优先于明文")
}
