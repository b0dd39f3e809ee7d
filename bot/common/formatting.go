package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Embed colors
const (
	ColorInfo    = 0x3498db
	ColorWin     = 0x2ecc71
	ColorLoss    = 0xe74c3c
	ColorNeutral = 0x95a5a6
)

// FormatAmount formats a currency amount with thousand separators and at
// most two decimals
func FormatAmount(amount decimal.Decimal) string {
	str := amount.Round(2).StringFixed(2)
	str = strings.TrimSuffix(str, ".00")

	sign := ""
	if strings.HasPrefix(str, "-") {
		sign, str = "-", str[1:]
	}
	whole, frac, hasFrac := strings.Cut(str, ".")

	n := len(whole)
	var result strings.Builder
	result.WriteString(sign)
	for i, digit := range whole {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	if hasFrac {
		result.WriteString(".")
		result.WriteString(frac)
	}
	return result.String()
}

// FormatCoins renders an amount for a chat message
func FormatCoins(amount decimal.Decimal) string {
	return fmt.Sprintf("**%s** :coin:", FormatAmount(amount))
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
