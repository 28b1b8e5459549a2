// internal/domain/withdrawal_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithdrawalStatusTerminal(t *testing.T) {
	assert.False(t, WithdrawalStatusPending.Terminal())
	assert.True(t, WithdrawalStatusSuccessful.Terminal())
	assert.True(t, WithdrawalStatusDeclined.Terminal())
	assert.True(t, WithdrawalStatusFailed.Terminal())
}

func TestWithdrawalStatusRequiresRefund(t *testing.T) {
	assert.False(t, WithdrawalStatusPending.RequiresRefund())
	assert.False(t, WithdrawalStatusSuccessful.RequiresRefund())
	assert.True(t, WithdrawalStatusDeclined.RequiresRefund())
	assert.True(t, WithdrawalStatusFailed.RequiresRefund())
}
