// Package media defines the slim persisted record, the enriched full
// record used for notification rendering, and the projections between
// them.
package media
