// Package archive scrapes the ECE NTUA announcements archive: page fetching,
// row parsing, and the filtering rules that decide which rows are new,
// relevant announcements.
package archive

import "time"

// Category is the closed set of announcement categories the bot reacts to.
// Anything else parses to CategoryUnknown and is ignored entirely.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryUndergraduate
	CategoryPrograms
	CategoryRegistrations
	CategoryDepartment
)

func ParseCategory(name string) Category {
	switch name {
	case "Προπτυχιακά":
		return CategoryUndergraduate
	case "Προγράμματα":
		return CategoryPrograms
	case "Εγγραφές":
		return CategoryRegistrations
	case "ΣΗΜΜΥ":
		return CategoryDepartment
	default:
		return CategoryUnknown
	}
}

// String returns the source-site label for the category.
func (c Category) String() string {
	switch c {
	case CategoryUndergraduate:
		return "Προπτυχιακά"
	case CategoryPrograms:
		return "Προγράμματα"
	case CategoryRegistrations:
		return "Εγγραφές"
	case CategoryDepartment:
		return "ΣΗΜΜΥ"
	default:
		return "unknown"
	}
}

// Color returns the display color associated with the category.
func (c Category) Color() int {
	switch c {
	case CategoryUndergraduate:
		return 0x5887ba
	case CategoryPrograms:
		return 0xef775e
	case CategoryRegistrations:
		return 0x96aa44
	case CategoryDepartment:
		return 0xFFFFFF
	default:
		return 0
	}
}

func (c Category) Known() bool { return c != CategoryUnknown }

// Row is one announcement entry of the archive table, in source order
// (newest first).
type Row struct {
	Date     time.Time // publication date, midnight local
	DateText string    // original DD/MM/YYYY string, used in footers
	Title    string
	Category Category
	ID       int64 // stable and unique across all rows ever seen
	URL      string
}

// Announcement is an accepted row plus its detail-page description.
type Announcement struct {
	Row
	Description string
}
