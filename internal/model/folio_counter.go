package model

// FolioCounter holds the last folio sequence issued for a calendar year.
// Created lazily on the first submission of a year, incremented exactly once
// per committed submission transaction, never decremented. Only the folio
// sequencer transaction in the repository reads or writes it.
type FolioCounter struct {
	Anio  int `gorm:"primaryKey;autoIncrement:false"`
	Count int `gorm:"not null;default:0"`
}

func (FolioCounter) TableName() string { return "folio_counters" }
