package models

import "time"

const (
	FlashSaleUpcoming = "upcoming"
	FlashSaleActive   = "active"
	FlashSaleExpired  = "expired"
)

// FlashSale is a time-boxed price override on a single product.
type FlashSale struct {
	ID        int64
	ProductID int64
	StartDate time.Time
	EndDate   time.Time
}
