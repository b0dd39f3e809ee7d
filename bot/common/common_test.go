package common

import (
	"testing"

	"casinobot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"500", "500"},
		{"1234", "1,234"},
		{"1234567.5", "1,234,567.50"},
		{"-98765.432", "-98,765.43"},
		{"0.004", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestActor(t *testing.T) {
	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "42"}},
	}}
	id, err := Actor(guild)
	require.NoError(t, err)
	assert.Equal(t, models.AccountID(42), id)

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "43"},
	}}
	id, err = Actor(dm)
	require.NoError(t, err)
	assert.Equal(t, models.AccountID(43), id)

	_, err = Actor(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}})
	assert.ErrorIs(t, err, models.ErrInvalidAccount)
}

func TestOptions(t *testing.T) {
	opts := NewOptions([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "77"},
		{Name: "amount", Type: discordgo.ApplicationCommandOptionNumber, Value: 12.345},
		{Name: "dice", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(3)},
		{Name: "symbol", Type: discordgo.ApplicationCommandOptionString, Value: "aapl"},
	})

	account, err := opts.Account("user")
	require.NoError(t, err)
	assert.Equal(t, models.AccountID(77), account)

	amount, err := opts.Amount("amount")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("12.35")))

	assert.Equal(t, int64(3), opts.Int("dice", 1))
	assert.Equal(t, int64(6), opts.Int("sides", 6))
	assert.Equal(t, "aapl", opts.String("symbol", ""))

	_, err = opts.Account("target")
	assert.ErrorIs(t, err, ErrMissingOption)
}

func TestDisableComponents(t *testing.T) {
	rows := []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{Label: "1", CustomID: "a"},
			discordgo.Button{Label: "2", CustomID: "b"},
		}},
	}
	disabled := DisableComponents(rows)
	for _, c := range disabled[0].(discordgo.ActionsRow).Components {
		assert.True(t, c.(discordgo.Button).Disabled)
	}
	assert.False(t, rows[0].(discordgo.ActionsRow).Components[0].(discordgo.Button).Disabled)
}
