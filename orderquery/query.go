// Package orderquery narrows and pages the admin order list.
package orderquery

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/imaginarygifts/storefront-backend-go/models"
)

const (
	PageSize = 25

	day = 24 * time.Hour
)

var ErrInvalidRange = errors.New("invalid date range")

// Range limits orders by age. The zero value means no limit.
type Range struct {
	Days int
}

var (
	RangeAll   = Range{}
	RangeToday = Range{Days: 1}
)

// ParseRange accepts "all", "today" or a positive whole number of days.
// An empty string is treated as "all".
func ParseRange(s string) (Range, error) {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "", "all":
		return RangeAll, nil
	case "today":
		return RangeToday, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return Range{Days: n}, nil
}

func (r Range) String() string {
	switch r.Days {
	case 0:
		return "all"
	case 1:
		return "today"
	}
	return strconv.Itoa(r.Days)
}

// Contains reports whether an order created at t falls inside r as seen at now.
func (r Range) Contains(t, now time.Time) bool {
	if r.Days == 0 {
		return true
	}
	return now.Sub(t) < time.Duration(r.Days)*day
}

// Criteria are independent filters; empty fields match everything.
type Criteria struct {
	Range       Range
	ProductID   string
	CategoryID  string
	Status      models.OrderStatus
	Tag         string
	PaymentMode models.PaymentMode
	Search      string
}

// Matches applies every criterion to one normalized order.
func (c Criteria) Matches(o models.Order, now time.Time) bool {
	if !c.Range.Contains(o.CreatedAt, now) {
		return false
	}
	if c.ProductID != "" && o.ProductID != c.ProductID {
		return false
	}
	if c.CategoryID != "" && o.CategoryID != c.CategoryID {
		return false
	}
	if c.Status != "" && o.Status != c.Status {
		return false
	}
	if c.Tag != "" && !o.HasTag(c.Tag) {
		return false
	}
	if c.PaymentMode != "" && !strings.EqualFold(string(o.Payment.Mode), string(c.PaymentMode)) {
		return false
	}
	if q := strings.ToLower(c.Search); q != "" {
		text := o.OrderNumber + o.ProductName + o.Customer.Name + o.Customer.Phone
		if !strings.Contains(strings.ToLower(text), q) {
			return false
		}
	}
	return true
}

// Filter returns the orders matching c, keeping their input order.
func Filter(orders []models.Order, c Criteria, now time.Time) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if c.Matches(o, now) {
			out = append(out, o)
		}
	}
	return out
}

type Page struct {
	Number  int            `json:"page"`
	Total   int            `json:"total"`
	HasPrev bool           `json:"hasPrev"`
	HasNext bool           `json:"hasNext"`
	Orders  []models.Order `json:"orders"`
}

// Paginate cuts orders into pages of PageSize. Pages start at 1; anything
// lower is treated as the first page.
func Paginate(orders []models.Order, page int) Page {
	if page < 1 {
		page = 1
	}
	p := Page{
		Number:  page,
		Total:   len(orders),
		HasPrev: page > 1,
		Orders:  []models.Order{},
	}
	// compare in page units so a huge page number cannot overflow the offset
	if page-1 >= (len(orders)+PageSize-1)/PageSize {
		return p
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(orders) {
		end = len(orders)
	}
	p.Orders = orders[start:end]
	p.HasNext = end < len(orders)
	return p
}
