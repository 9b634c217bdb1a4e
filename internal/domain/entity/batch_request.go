package entity

import "math/big"

// ReadRequestType defines the type of a historical token read.
type ReadRequestType int

const (
	// TotalSupplyRequest requests totalSupply() of a token contract.
	TotalSupplyRequest ReadRequestType = iota
	// BalanceOfRequest requests balanceOf(account) of a token contract.
	BalanceOfRequest
)

// ReadRequestItem represents a single item in a batch of token reads.
type ReadRequestItem struct {
	ID           string
	Type         ReadRequestType
	TokenAddress string
	Account      string
}

// ReadResultItem represents the result of a single read from a batch.
type ReadResultItem struct {
	RequestID    string
	TokenAddress string
	Account      string
	Value        *big.Int
	Error        error
}
