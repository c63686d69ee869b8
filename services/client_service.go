package services

import (
	"time"

	"lexdesk_app_go/models"
)

// ClientFilter holds the optional predicates for filtering a client list.
// Filtering happens in memory over the fetched set; an applied filter is the
// conjunction of every active predicate.
type ClientFilter struct {
	ContactMethod string     // exact match on preferred contact method
	PortalEnabled *bool      // nil = any
	CreatedFrom   *time.Time // inclusive
	CreatedTo     *time.Time // inclusive
	HasEmail      *bool      // nil = any
	HasPhone      *bool      // nil = any
}

// Matches reports whether a client satisfies every active predicate
func (f *ClientFilter) Matches(client *models.Client) bool {
	if f.ContactMethod != "" && client.PreferredContactMethod != f.ContactMethod {
		return false
	}
	if f.PortalEnabled != nil && client.PortalEnabled != *f.PortalEnabled {
		return false
	}
	if f.CreatedFrom != nil && client.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && client.CreatedAt.After(f.CreatedTo.Add(24*time.Hour-time.Nanosecond)) {
		return false
	}
	if f.HasEmail != nil && (client.Email != "") != *f.HasEmail {
		return false
	}
	if f.HasPhone != nil && client.HasPhone() != *f.HasPhone {
		return false
	}
	return true
}

// FilterClients returns exactly the subset of clients satisfying the filter
func FilterClients(clients []models.Client, filter *ClientFilter) []models.Client {
	if filter == nil {
		return clients
	}
	filtered := make([]models.Client, 0, len(clients))
	for i := range clients {
		if filter.Matches(&clients[i]) {
			filtered = append(filtered, clients[i])
		}
	}
	return filtered
}
