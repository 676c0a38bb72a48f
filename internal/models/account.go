package models

// Account represents a row in the account table.
// AccountID is zero until the store assigns one.
type Account struct {
	AccountID int    `json:"accountId"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}
