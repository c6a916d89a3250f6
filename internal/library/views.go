package library

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FinePerDay is charged for every whole day a checkout is overdue.
const FinePerDay = 0.50

// Catalog lists every book
type Catalog struct {
	TotalBooks  int       `json:"total_books"`
	LastUpdated time.Time `json:"last_updated"`
	Books       []Book    `json:"books"`
}

// Availability lists books with at least one copy on the shelf
type Availability struct {
	AvailableCount   int    `json:"available_count"`
	TotalBooks       int    `json:"total_books"`
	AvailabilityRate string `json:"availability_rate"`
	Books            []Book `json:"books"`
}

// CategoryBooks lists the books of one category
type CategoryBooks struct {
	Category  string `json:"category"`
	BookCount int    `json:"book_count"`
	Books     []Book `json:"books"`
}

// Loan is one active checkout as seen from a member
type Loan struct {
	BookTitle    string    `json:"book_title"`
	CheckoutDate time.Time `json:"checkout_date"`
	DueDate      time.Time `json:"due_date"`
	IsOverdue    bool      `json:"is_overdue"`
}

// MemberDetail is a member with their current loans
type MemberDetail struct {
	Member
	CurrentCheckouts     []Loan `json:"current_checkouts"`
	BooksCheckedOutCount int    `json:"books_checked_out_count"`
}

// MemberDirectory lists every member with their loans
type MemberDirectory struct {
	TotalMembers  int            `json:"total_members"`
	ActiveMembers int            `json:"active_members"`
	Members       []MemberDetail `json:"members"`
}

// OverdueItem is one overdue checkout with its fine
type OverdueItem struct {
	BookTitle    string    `json:"book_title"`
	BookID       string    `json:"book_id"`
	MemberName   string    `json:"member_name"`
	MemberEmail  string    `json:"member_email"`
	CheckoutDate time.Time `json:"checkout_date"`
	DueDate      time.Time `json:"due_date"`
	DaysOverdue  int       `json:"days_overdue"`
	FineAmount   float64   `json:"fine_amount"`
}

// OverdueReport lists overdue checkouts and the sum of their fines
type OverdueReport struct {
	OverdueCount    int           `json:"overdue_count"`
	TotalFineAmount float64       `json:"total_fine_amount"`
	OverdueItems    []OverdueItem `json:"overdue_items"`
}

// CollectionStats summarizes titles and copies
type CollectionStats struct {
	TotalTitles      int    `json:"total_titles"`
	TotalCopies      int    `json:"total_copies"`
	AvailableCopies  int    `json:"available_copies"`
	CheckedOutCopies int    `json:"checked_out_copies"`
	UtilizationRate  string `json:"utilization_rate"`
}

// MemberStats counts members by activity and type
type MemberStats struct {
	TotalMembers  int            `json:"total_members"`
	ActiveMembers int            `json:"active_members"`
	MemberTypes   map[string]int `json:"member_types"`
}

// CirculationStats counts open checkouts and reservations
type CirculationStats struct {
	ActiveCheckouts    int `json:"active_checkouts"`
	ActiveReservations int `json:"active_reservations"`
}

// CategoryCount counts the titles of a category and how many have a copy available
type CategoryCount struct {
	Count     int `json:"count"`
	Available int `json:"available"`
}

// Statistics aggregates the whole dataset
type Statistics struct {
	CollectionStats   CollectionStats          `json:"collection_stats"`
	MemberStats       MemberStats              `json:"member_stats"`
	CirculationStats  CirculationStats         `json:"circulation_stats"`
	CategoryBreakdown map[string]CategoryCount `json:"category_breakdown"`
	GeneratedAt       time.Time                `json:"generated_at"`
}

// Views derives read-only reports from a dataset
type Views struct {
	data Dataset
	now  func() time.Time
}

// NewViews creates views over data. now defaults to time.Now.
func NewViews(data Dataset, now func() time.Time) *Views {
	if now == nil {
		now = time.Now
	}
	return &Views{data: data, now: now}
}

func (v *Views) clock() time.Time {
	return v.now().UTC()
}

// percent formats part/whole with one decimal, 0.0% when whole is zero
func percent(part, whole int) string {
	if whole == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(whole)*100)
}

// Catalog returns every book
func (v *Views) Catalog() Catalog {
	books := cloneBooks(v.data.books)
	return Catalog{
		TotalBooks:  len(books),
		LastUpdated: v.clock(),
		Books:       books,
	}
}

// Available returns the books with copies on the shelf
func (v *Views) Available() Availability {
	books := make([]Book, 0)
	for _, b := range cloneBooks(v.data.books) {
		if b.CopiesAvailable > 0 {
			books = append(books, b)
		}
	}
	return Availability{
		AvailableCount:   len(books),
		TotalBooks:       len(v.data.books),
		AvailabilityRate: percent(len(books), len(v.data.books)),
		Books:            books,
	}
}

// ByCategory returns the books whose category equals category, ignoring case.
// The category is echoed back as given.
func (v *Views) ByCategory(category string) CategoryBooks {
	books := make([]Book, 0)
	for _, b := range cloneBooks(v.data.books) {
		if strings.EqualFold(b.Category, category) {
			books = append(books, b)
		}
	}
	return CategoryBooks{
		Category:  category,
		BookCount: len(books),
		Books:     books,
	}
}

// Members returns every member joined with their active checkouts
func (v *Views) Members() MemberDirectory {
	now := v.clock()

	members := make([]MemberDetail, 0, len(v.data.members))
	for _, m := range cloneMembers(v.data.members) {
		loans := make([]Loan, 0)
		for _, c := range v.data.checkouts {
			if c.MemberID != m.ID || c.Status != StatusActive {
				continue
			}
			book, ok := v.data.book(c.BookID)
			if !ok {
				continue
			}
			loans = append(loans, Loan{
				BookTitle:    book.Title,
				CheckoutDate: c.CheckoutDate,
				DueDate:      c.DueDate,
				IsOverdue:    c.DueDate.Before(now),
			})
		}
		members = append(members, MemberDetail{
			Member:               m,
			CurrentCheckouts:     loans,
			BooksCheckedOutCount: len(loans),
		})
	}

	return MemberDirectory{
		TotalMembers:  len(v.data.members),
		ActiveMembers: v.activeMembers(),
		Members:       members,
	}
}

// Overdue returns every active checkout due strictly before now
func (v *Views) Overdue() OverdueReport {
	now := v.clock()

	items := make([]OverdueItem, 0)
	var total float64
	for _, c := range v.data.checkouts {
		if c.Status != StatusActive || !c.DueDate.Before(now) {
			continue
		}
		book, okBook := v.data.book(c.BookID)
		member, okMember := v.data.member(c.MemberID)
		if !okBook || !okMember {
			continue
		}

		days := int(now.Sub(c.DueDate) / (24 * time.Hour))
		fine := float64(days) * FinePerDay
		total += fine

		items = append(items, OverdueItem{
			BookTitle:    book.Title,
			BookID:       book.ID,
			MemberName:   member.Name,
			MemberEmail:  member.Email,
			CheckoutDate: c.CheckoutDate,
			DueDate:      c.DueDate,
			DaysOverdue:  days,
			FineAmount:   fine,
		})
	}

	return OverdueReport{
		OverdueCount:    len(items),
		TotalFineAmount: total,
		OverdueItems:    items,
	}
}

// Stats aggregates copies, members, circulation and categories
func (v *Views) Stats() Statistics {
	var totalCopies, availableCopies int
	categories := make(map[string]CategoryCount)
	for _, b := range v.data.books {
		totalCopies += b.CopiesTotal
		availableCopies += b.CopiesAvailable

		cc := categories[b.Category]
		cc.Count++
		if b.CopiesAvailable > 0 {
			cc.Available++
		}
		categories[b.Category] = cc
	}
	checkedOut := totalCopies - availableCopies

	memberTypes := make(map[string]int)
	for _, m := range v.data.members {
		memberTypes[m.MemberType]++
	}

	var activeCheckouts, activeReservations int
	for _, c := range v.data.checkouts {
		if c.Status == StatusActive {
			activeCheckouts++
		}
	}
	for _, r := range v.data.reservations {
		if r.Status == StatusActive {
			activeReservations++
		}
	}

	return Statistics{
		CollectionStats: CollectionStats{
			TotalTitles:      len(v.data.books),
			TotalCopies:      totalCopies,
			AvailableCopies:  availableCopies,
			CheckedOutCopies: checkedOut,
			UtilizationRate:  percent(checkedOut, totalCopies),
		},
		MemberStats: MemberStats{
			TotalMembers:  len(v.data.members),
			ActiveMembers: v.activeMembers(),
			MemberTypes:   memberTypes,
		},
		CirculationStats: CirculationStats{
			ActiveCheckouts:    activeCheckouts,
			ActiveReservations: activeReservations,
		},
		CategoryBreakdown: categories,
		GeneratedAt:       v.clock(),
	}
}

// Categories returns the distinct category names, sorted
func (v *Views) Categories() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, b := range v.data.books {
		if _, ok := seen[b.Category]; ok {
			continue
		}
		seen[b.Category] = struct{}{}
		names = append(names, b.Category)
	}
	sort.Strings(names)
	return names
}

func (v *Views) activeMembers() int {
	n := 0
	for _, m := range v.data.members {
		if m.Status == StatusActive {
			n++
		}
	}
	return n
}
