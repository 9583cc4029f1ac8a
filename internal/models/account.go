package models

// Account is a wallet that has signed in to SplitPay.
//
// Accounts are optional for the calculation itself: group participants are
// plain addresses and do not need an account.
type Account struct {
	// Address is the normalized wallet address, also the primary key.
	Address string

	// DisplayName is the name the account chose at sign-in.
	DisplayName string

	// CreatedAt is the Unix timestamp of the first sign-in.
	CreatedAt int64

	// LastSeenAt is the Unix timestamp of the latest sign-in.
	LastSeenAt int64
}
