// Package models defines the domain models for SplitPay.
//
// # Models
//
//   - Group: a set of wallet-address participants sharing expenses in USDC
//   - Expense: an amount fronted by one participant, split equally
//   - Payment: a transfer between two participants that settles debt
//   - Account: a wallet that has signed in
//
// Balances and debts are never stored. They are derived on demand by the
// calculator package from a GroupSnapshot.
//
// # Conventions
//
//  1. Addresses are stored normalized (lower case), see package wallet.
//  2. Amounts are integer USDC micro-units, see package money.
//  3. Relationships use ID strings, never pointers.
//  4. Timestamps are Unix seconds; zero means unset.
package models
