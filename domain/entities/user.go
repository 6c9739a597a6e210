package entities

import "time"

// User represents a Discord user with a balance ledger account.
// Balance is held in minor units and never goes negative; all mutation goes
// through the ledger's conditional adjust.
type User struct {
	DiscordID int64     `db:"discord_id"`
	Username  string    `db:"username"`
	SteamID   *int64    `db:"steam_id"` // nil until configured via /steamconfig
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// HasSteamConfigured reports whether the user can be bet on as a player subject.
func (u *User) HasSteamConfigured() bool {
	return u.SteamID != nil && *u.SteamID != 0
}

// HasSufficientBalance checks if the user has sufficient balance for an amount.
func (u *User) HasSufficientBalance(amount int64) bool {
	return u.Balance >= amount
}
