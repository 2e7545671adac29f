package webhook

import (
	"errors"
	"strings"

	"jellywatch/internal/jellyfin"
	"jellywatch/internal/media"
)

// Event identifies the inbound webhook event kind.
type Event string

const (
	EventItemAdded   Event = "ItemAdded"
	EventItemUpdated Event = "ItemUpdated"
	EventItemDeleted Event = "ItemDeleted"
)

var errUnknownEvent = errors.New("unknown webhook event")

// ParseEvent normalizes the event name case-insensitively.
func ParseEvent(raw string) (Event, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "itemadded", "library.new":
		return EventItemAdded, nil
	case "itemupdated", "library.update":
		return EventItemUpdated, nil
	case "itemdeleted", "library.deleted":
		return EventItemDeleted, nil
	default:
		return "", errUnknownEvent
	}
}

// Payload is the inbound webhook body. Item detail fields use pointer
// types in the underlying DTO so explicit JSON nulls and absent fields
// both land as nil.
type Payload struct {
	Event  string         `json:"Event"`
	Server ServerInfo     `json:"Server"`
	Item   *jellyfin.Item `json:"Item,omitempty"`
	ItemID string         `json:"ItemId,omitempty"`
}

// ServerInfo carries origin-server identity for embed footers.
type ServerInfo struct {
	Name string `json:"Name,omitempty"`
	URL  string `json:"Url,omitempty"`
}

// itemID resolves the affected item identifier; delete payloads may
// carry only the bare id.
func (p *Payload) itemID() string {
	if p.Item != nil && p.Item.ID != "" {
		return p.Item.ID
	}
	return strings.TrimSpace(p.ItemID)
}

// fullRecord maps the embedded item into the enriched record shape,
// overlaying server identity and a poster URL derived from posterBase.
func (p *Payload) fullRecord(posterBase string) (media.FullRecord, error) {
	if p.Item == nil || strings.TrimSpace(p.Item.ID) == "" {
		return media.FullRecord{}, errors.New("payload missing item")
	}
	full := jellyfin.MapItem(*p.Item)
	full.ServerName = p.Server.Name
	if posterBase != "" {
		full.PosterURL = jellyfin.PrimaryImageURL(posterBase, p.Item.ID)
	}
	return full, nil
}
