package model

import "time"

// BankAsset is one record of the CSV-backed digital bank
type BankAsset struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Ref   string  `json:"ref"`
	Qty   int     `json:"qty"`
	Value float64 `json:"value"`
}

// Investment is a tracked investment entry, held in memory only
type Investment struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
	Status   string    `json:"status"`
}
