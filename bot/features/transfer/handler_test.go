package transfer

import (
	"fmt"
	"testing"

	"casinobot/models"
	"casinobot/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPayErrorMessage(t *testing.T) {
	msg, ok := payErrorMessage(fmt.Errorf("pay: %w", service.ErrInsufficientFunds))
	assert.True(t, ok)
	assert.Contains(t, msg, "enough")

	msg, ok = payErrorMessage(service.ErrSelfTransfer)
	assert.True(t, ok)
	assert.Equal(t, "You cannot pay yourself.", msg)

	_, ok = payErrorMessage(assert.AnError)
	assert.False(t, ok)
}

func TestFormatTransfer(t *testing.T) {
	out := FormatTransfer(&models.TransferResult{
		From:          1,
		To:            2,
		Amount:        decimal.NewFromInt(30),
		SenderBalance: decimal.NewFromInt(470),
	})
	assert.Contains(t, out, "<@1> paid <@2>")
	assert.Contains(t, out, "470")
}
