package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMFAService_GenerateSetup(t *testing.T) {
	svc := NewMFAService("Carteira Test")

	setup, err := svc.GenerateSetup("test@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, setup.Secret)
	assert.True(t, strings.HasPrefix(setup.ProvisioningURI, "otpauth://totp/"))
	assert.Contains(t, setup.ProvisioningURI, "Carteira")
	assert.True(t, strings.HasPrefix(setup.QRCode, "data:image/png;base64,"))
}

func TestMFAService_VerifyCode(t *testing.T) {
	svc := NewMFAService("Carteira Test")

	setup, err := svc.GenerateSetup("test@example.com")
	require.NoError(t, err)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)

	assert.True(t, svc.VerifyCode(setup.Secret, code))
	assert.False(t, svc.VerifyCode(setup.Secret, "000000"))
	assert.False(t, svc.VerifyCode("", code))
	assert.False(t, svc.VerifyCode(setup.Secret, ""))
}
