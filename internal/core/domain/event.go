package domain

import "time"

// A BrowseEvent records a criteria change made by the user.
type BrowseEvent struct {
	Criteria   Criteria
	Matched    int
	OccurredAt time.Time
}

type ChangeKind string

const (
	ProductCreated ChangeKind = "product_created"
	ProductUpdated ChangeKind = "product_updated"
	ProductDeleted ChangeKind = "product_deleted"
	ReviewPosted   ChangeKind = "review_posted"
)

// A CatalogChange records a successful mutation against the remote catalog.
type CatalogChange struct {
	Kind       ChangeKind
	ProductID  string
	OccurredAt time.Time
}
