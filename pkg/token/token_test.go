package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyReceipt(t *testing.T) {
	GenerateSecretKey()

	payload := ReceiptPayload{DonationID: 42, UserID: "user-a", Points: 600}
	signature, err := SignReceipt(payload)
	require.NoError(t, err)
	require.NotEmpty(t, signature)

	assert.True(t, VerifyReceipt(payload, signature))

	// 任何字段被篡改都会导致验证失败
	tampered := payload
	tampered.Points = 9999
	assert.False(t, VerifyReceipt(tampered, signature))

	tampered = payload
	tampered.UserID = "user-b"
	assert.False(t, VerifyReceipt(tampered, signature))

	assert.False(t, VerifyReceipt(payload, "not-base64!!"))
	assert.False(t, VerifyReceipt(payload, ""))
}

func TestSignaturesDifferAcrossKeys(t *testing.T) {
	payload := ReceiptPayload{DonationID: 1, UserID: "user-a", Points: 100}

	GenerateSecretKey()
	first, err := SignReceipt(payload)
	require.NoError(t, err)

	GenerateSecretKey()
	second, err := SignReceipt(payload)
	require.NoError(t, err)

	// 换了密钥后，旧签名不再有效
	assert.NotEqual(t, first, second)
	assert.False(t, VerifyReceipt(payload, first))
	assert.True(t, VerifyReceipt(payload, second))
}
