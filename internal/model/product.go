// Package model defines the core domain models used throughout the application.
package model

import "time"

// Product is a catalog entry that incoming captions are matched against.
// Products are read-only for the duration of a matching run; the catalog
// importer is the only writer.
type Product struct {
	CreatedAt        time.Time  `json:"createdAt"`
	PurchaseDate     *time.Time `json:"purchaseDate,omitempty"`
	ID               string     `json:"id"`
	ExternalID       string     `json:"externalId,omitempty"`
	Name             string     `json:"name"`
	VendorName       string     `json:"vendorName,omitempty"`
	VendorCode       string     `json:"vendorCode,omitempty"`
	PurchaseOrderRef string     `json:"purchaseOrderRef,omitempty"`
}
