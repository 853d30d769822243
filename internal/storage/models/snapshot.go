// internal/storage/models/snapshot.go
package models

import "time"

// PoolSnapshot is one computed metrics row per pool per tick.
type PoolSnapshot struct {
	BaseModel
	Pool      string    `gorm:"index;not null;type:varchar(44)"`
	Label     string    `gorm:"index;not null;type:varchar(50)"`
	Price     float64   `gorm:"type:decimal(30,18)"`
	RealPrice float64   `gorm:"type:decimal(30,18)"`
	MarketCap float64   `gorm:"type:decimal(24,6)"`
	Liquidity float64   `gorm:"type:decimal(24,6)"`
	SolUsd    float64   `gorm:"type:decimal(16,6)"`
	TakenAt   time.Time `gorm:"index;not null"`
}

// FundingSample records the funding rate at one tick.
type FundingSample struct {
	BaseModel
	Pool          string    `gorm:"index;not null;type:varchar(44)"`
	Label         string    `gorm:"index;not null;type:varchar(50)"`
	PerSecond     float64   `gorm:"type:decimal(30,18)"`
	PerDay        float64   `gorm:"type:decimal(24,12)"`
	PerAnnum      float64   `gorm:"type:decimal(24,8)"`
	DeltaKLongs   uint64    `gorm:"not null"`
	DeltaKShorts  uint64    `gorm:"not null"`
	TakenAt       time.Time `gorm:"index;not null"`
}

// PositionSnapshot records a watched position's mark at one tick.
type PositionSnapshot struct {
	BaseModel
	Pool       string    `gorm:"index;not null;type:varchar(44)"`
	IsLong     bool      `gorm:"not null"`
	Size       uint64    `gorm:"not null"`
	Collateral uint64    `gorm:"not null"`
	Leverage   float64   `gorm:"type:decimal(8,2)"`
	EntryPrice float64   `gorm:"type:decimal(30,18)"`
	PnLPercent float64   `gorm:"type:decimal(16,6)"`
	TakenAt    time.Time `gorm:"index;not null"`
}
