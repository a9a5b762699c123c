package cleanup

import "time"

// Category identifies one of the fixed cleanup buckets.
type Category string

const (
	CategoryUnread Category = "unread"
	CategorySpam   Category = "spam"
	CategoryTrash  Category = "trash"
	CategoryOld    Category = "old"
)

// DefaultOldMonths is the age threshold used when the request leaves
// OldEmailsMonths unset.
const DefaultOldMonths = 12

// Selector maps a cleanup category to a Gmail search query.
type Selector struct {
	Category Category
	Months   int
}

func (s Selector) Query(now time.Time) string {
	switch s.Category {
	case CategoryUnread:
		return "is:unread"
	case CategorySpam:
		return "in:spam"
	case CategoryTrash:
		return "in:trash"
	case CategoryOld:
		months := s.Months
		if months <= 0 {
			months = DefaultOldMonths
		}
		return "before:" + now.AddDate(0, -months, 0).Format("2006/01/02")
	}
	return ""
}

// CleanupRequest selects which categories to preview or clean.
type CleanupRequest struct {
	CleanUnread     bool `json:"cleanUnread"`
	CleanSpam       bool `json:"cleanSpam"`
	CleanTrash      bool `json:"cleanTrash"`
	CleanOldEmails  bool `json:"cleanOldEmails"`
	OldEmailsMonths int  `json:"oldEmailsMonths"`
}

func (r CleanupRequest) selectors() []Selector {
	var out []Selector
	if r.CleanUnread {
		out = append(out, Selector{Category: CategoryUnread})
	}
	if r.CleanSpam {
		out = append(out, Selector{Category: CategorySpam})
	}
	if r.CleanTrash {
		out = append(out, Selector{Category: CategoryTrash})
	}
	if r.CleanOldEmails {
		out = append(out, Selector{Category: CategoryOld, Months: r.OldEmailsMonths})
	}
	return out
}
