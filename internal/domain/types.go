// Package domain provides domain models used across the application.
package domain

import "time"

// JST is the fixed time zone for collection timestamps and event dates.
var JST = time.FixedZone("JST", 9*60*60)

// Source identifies where a record was collected from.
type Source string

const (
	// SourceSocial is the official social feed (mirrored RSS).
	SourceSocial Source = "social"
	// SourceStorefront is the merchandise storefront.
	SourceStorefront Source = "storefront"
	// SourceNews is the informational news site.
	SourceNews Source = "news"
)

// Category is the content category assigned during classification.
type Category string

const (
	CategoryMerchandise Category = "merchandise"
	CategoryLottery     Category = "lottery"
	CategoryEvent       Category = "event"
	CategoryComic       Category = "comic"
	CategoryAnimation   Category = "animation"
	CategoryOther       Category = "other"
)

// Status marks whether an item is a first listing or a restock.
type Status string

const (
	StatusNew     Status = "new"
	StatusRestock Status = "restock"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceSocial, SourceStorefront, SourceNews:
		return true
	}
	return false
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryMerchandise, CategoryLottery, CategoryEvent,
		CategoryComic, CategoryAnimation, CategoryOther:
		return true
	}
	return false
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusRestock:
		return true
	}
	return false
}
