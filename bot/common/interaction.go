package common

import (
	"errors"
	"fmt"

	"casinobot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
)

var ErrMissingOption = errors.New("missing option")

// Actor returns the account of whoever triggered the interaction, in a
// guild or a DM
func Actor(i *discordgo.InteractionCreate) (models.AccountID, error) {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return models.ParseAccountID(i.Member.User.ID)
	case i.User != nil:
		return models.ParseAccountID(i.User.ID)
	}
	return 0, models.ErrInvalidAccount
}

// Options indexes command options by name
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

func NewOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) Options {
	out := make(Options, len(opts))
	for _, opt := range opts {
		out[opt.Name] = opt
	}
	return out
}

// Account reads a user option as an account ID
func (o Options) Account(name string) (models.AccountID, error) {
	opt, ok := o[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingOption, name)
	}
	// The user value is the snowflake string; resolving it would need the session
	raw, ok := opt.Value.(string)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingOption, name)
	}
	return models.ParseAccountID(raw)
}

// Amount reads a number option as a decimal amount
func (o Options) Amount(name string) (decimal.Decimal, error) {
	opt, ok := o[name]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrMissingOption, name)
	}
	switch v := opt.Value.(type) {
	case float64:
		return decimal.NewFromFloat(v).Round(2), nil
	case string:
		return decimal.NewFromString(v)
	}
	return decimal.Zero, fmt.Errorf("%w: %s", ErrMissingOption, name)
}

// Int reads an integer option, falling back to def when it is absent
func (o Options) Int(name string, def int64) int64 {
	if opt, ok := o[name]; ok {
		if v, ok := opt.Value.(float64); ok {
			return int64(v)
		}
	}
	return def
}

// String reads a string option, falling back to def when it is absent
func (o Options) String(name, def string) string {
	if opt, ok := o[name]; ok {
		if v, ok := opt.Value.(string); ok {
			return v
		}
	}
	return def
}
