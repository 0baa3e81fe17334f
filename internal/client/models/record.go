package models

import "time"

// FlipRecord is a flip as stored locally. Images and their order are kept
// sealed in Payload; everything needed for listing stays in the clear.
type FlipRecord struct {
	ID        string
	Hash      string
	Type      FlipType
	Pair      *KeywordPair
	Payload   []byte
	Nonce     []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FlipContent is the sealed part of a flip.
type FlipContent struct {
	Images        [][]byte `json:"images"`
	OriginalOrder []int    `json:"originalOrder"`
}
