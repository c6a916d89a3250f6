// Package library holds the in-memory library catalog and the read-only
// views derived from it: the full catalog, available books, books by
// category, members with their loans, the overdue report and aggregate
// statistics.
//
// A Dataset is never modified after construction. Views copy what they
// return, so callers may change results freely.
package library

import (
	"slices"
	"time"
)

// Record statuses used by the dataset.
const (
	StatusActive     = "active"
	StatusAvailable  = "available"
	StatusCheckedOut = "checked_out"
)

// Book is one title of the catalog
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Authors         []string  `json:"authors"`
	ISBN            string    `json:"isbn"`
	Category        string    `json:"category"`
	Publisher       string    `json:"publisher"`
	PublicationYear int       `json:"publication_year"`
	CopiesTotal     int       `json:"copies_total"`
	CopiesAvailable int       `json:"copies_available"`
	Location        string    `json:"location"`
	Status          string    `json:"status"`
	LastUpdated     time.Time `json:"last_updated"`
}

// Member is a registered library user
type Member struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	MemberType       string    `json:"member_type"`
	RegistrationDate time.Time `json:"registration_date"`
	BooksCheckedOut  []string  `json:"books_checked_out"`
	MaxBooks         int       `json:"max_books"`
	Status           string    `json:"status"`
}

// Checkout is a loan of one book to one member
type Checkout struct {
	ID           string     `json:"id"`
	BookID       string     `json:"book_id"`
	MemberID     string     `json:"member_id"`
	CheckoutDate time.Time  `json:"checkout_date"`
	DueDate      time.Time  `json:"due_date"`
	ReturnDate   *time.Time `json:"return_date"`
	Status       string     `json:"status"`
	RenewalCount int        `json:"renewal_count"`
}

// Reservation is a hold placed by a member on a book
type Reservation struct {
	ID              string    `json:"id"`
	BookID          string    `json:"book_id"`
	MemberID        string    `json:"member_id"`
	ReservationDate time.Time `json:"reservation_date"`
	Status          string    `json:"status"`
	Priority        int       `json:"priority"`
}

// Dataset is an immutable snapshot of the library
type Dataset struct {
	books        []Book
	members      []Member
	checkouts    []Checkout
	reservations []Reservation
}

// NewDataset copies the given records into a snapshot
func NewDataset(books []Book, members []Member, checkouts []Checkout, reservations []Reservation) Dataset {
	return Dataset{
		books:        cloneBooks(books),
		members:      cloneMembers(members),
		checkouts:    slices.Clone(checkouts),
		reservations: slices.Clone(reservations),
	}
}

func (d Dataset) book(id string) (Book, bool) {
	for _, b := range d.books {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}

func (d Dataset) member(id string) (Member, bool) {
	for _, m := range d.members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

func cloneBooks(books []Book) []Book {
	out := make([]Book, len(books))
	for i, b := range books {
		b.Authors = slices.Clone(b.Authors)
		out[i] = b
	}
	return out
}

func cloneMembers(members []Member) []Member {
	out := make([]Member, len(members))
	for i, m := range members {
		m.BooksCheckedOut = append([]string{}, m.BooksCheckedOut...)
		out[i] = m
	}
	return out
}

func utc(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

// DefaultDataset returns the demo catalog served by the library server
func DefaultDataset() Dataset {
	return NewDataset(
		[]Book{
			{
				ID:              "B001",
				Title:           "Artificial Intelligence: A Modern Approach",
				Authors:         []string{"Stuart Russell", "Peter Norvig"},
				ISBN:            "978-0134610993",
				Category:        "Computer Science",
				Publisher:       "Pearson",
				PublicationYear: 2020,
				CopiesTotal:     5,
				CopiesAvailable: 2,
				Location:        "CS-Section-A-Shelf-12",
				Status:          StatusAvailable,
				LastUpdated:     utc("2024-01-15T10:30:00Z"),
			},
			{
				ID:              "B002",
				Title:           "Clean Code: A Handbook of Agile Software Craftsmanship",
				Authors:         []string{"Robert C. Martin"},
				ISBN:            "978-0132350884",
				Category:        "Software Engineering",
				Publisher:       "Prentice Hall",
				PublicationYear: 2008,
				CopiesTotal:     3,
				CopiesAvailable: 0,
				Location:        "SE-Section-B-Shelf-05",
				Status:          StatusCheckedOut,
				LastUpdated:     utc("2024-01-20T14:15:00Z"),
			},
			{
				ID:              "B003",
				Title:           "The Design of Everyday Things",
				Authors:         []string{"Donald A. Norman"},
				ISBN:            "978-0465050659",
				Category:        "Design",
				Publisher:       "Basic Books",
				PublicationYear: 2013,
				CopiesTotal:     4,
				CopiesAvailable: 4,
				Location:        "DESIGN-Section-C-Shelf-03",
				Status:          StatusAvailable,
				LastUpdated:     utc("2024-01-18T09:45:00Z"),
			},
			{
				ID:              "B004",
				Title:           "Database System Concepts",
				Authors:         []string{"Abraham Silberschatz", "Henry Korth", "S. Sudarshan"},
				ISBN:            "978-0078022159",
				Category:        "Database Systems",
				Publisher:       "McGraw-Hill",
				PublicationYear: 2019,
				CopiesTotal:     6,
				CopiesAvailable: 1,
				Location:        "DB-Section-A-Shelf-18",
				Status:          StatusAvailable,
				LastUpdated:     utc("2024-01-22T16:20:00Z"),
			},
		},
		[]Member{
			{
				ID:               "M001",
				Name:             "Alice Johnson",
				Email:            "alice.johnson@university.edu",
				MemberType:       "faculty",
				RegistrationDate: utc("2023-09-01T00:00:00Z"),
				BooksCheckedOut:  []string{"B002"},
				MaxBooks:         10,
				Status:           StatusActive,
			},
			{
				ID:               "M002",
				Name:             "Bob Smith",
				Email:            "bob.smith@university.edu",
				MemberType:       "student",
				RegistrationDate: utc("2023-09-15T00:00:00Z"),
				BooksCheckedOut:  []string{},
				MaxBooks:         5,
				Status:           StatusActive,
			},
		},
		[]Checkout{
			{
				ID:           "CO001",
				BookID:       "B002",
				MemberID:     "M001",
				CheckoutDate: utc("2024-01-20T14:15:00Z"),
				DueDate:      utc("2024-02-20T14:15:00Z"),
				Status:       StatusActive,
			},
		},
		[]Reservation{
			{
				ID:              "R001",
				BookID:          "B002",
				MemberID:        "M002",
				ReservationDate: utc("2024-01-21T10:00:00Z"),
				Status:          StatusActive,
				Priority:        1,
			},
		},
	)
}
