package model

import (
	"time"

	"github.com/google/uuid"
)

// RechargeCode is a single-use wallet top-up token.
// The used flag transitions false→true exactly once and never reverts.
type RechargeCode struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Value     int        `json:"value"`
	Used      bool       `json:"used"`
	UsedBy    *int       `json:"used_by,omitempty"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// MintCodeRequest is the admin payload for generating a recharge code.
type MintCodeRequest struct {
	Value int `json:"value" binding:"required,min=1,max=100000"`
}

// RedeemRequest is the student payload for redeeming a code.
type RedeemRequest struct {
	Code string `json:"code" binding:"required,min=11,max=11"`
}
