package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the repository.
// This abstracts away the underlying storage implementation (SQL, NoSQL, etc.)
// from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrInsufficientFunds is returned when a debit would take a pot below zero.
// The surrounding transaction has been rolled back.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrUnknownPot is returned when a ledger mutation names a pot that does not exist.
var ErrUnknownPot = errors.New("unknown pot")

// ErrWagerState is returned when a wager exists but is not in the state a
// transition requires.
var ErrWagerState = errors.New("wager not in required state")
