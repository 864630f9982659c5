package orderquery

import "github.com/imaginarygifts/storefront-backend-go/models"

const UnknownCategory = "Unknown Category"

type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FilterOptions populates the admin dropdowns.
type FilterOptions struct {
	Products   []Option             `json:"products"`
	Categories []Option             `json:"categories"`
	Tags       []string             `json:"tags"`
	Statuses   []models.OrderStatus `json:"statuses"`
	Ranges     []string             `json:"ranges"`
}

// Options collects the distinct products, categories and tags that appear in
// orders, in the order first seen. categoryNames maps category id to name.
func Options(orders []models.Order, categoryNames map[string]string) FilterOptions {
	opts := FilterOptions{
		Products:   []Option{},
		Categories: []Option{},
		Tags:       []string{},
		Statuses:   models.OrderStatuses(),
		Ranges:     []string{RangeToday.String(), "7", "30", RangeAll.String()},
	}

	seenProduct := map[string]bool{}
	seenCategory := map[string]bool{}
	seenTag := map[string]bool{}
	for _, o := range orders {
		if o.ProductID != "" && !seenProduct[o.ProductID] {
			seenProduct[o.ProductID] = true
			opts.Products = append(opts.Products, Option{ID: o.ProductID, Name: o.ProductName})
		}
		if o.CategoryID != "" && !seenCategory[o.CategoryID] {
			seenCategory[o.CategoryID] = true
			name, ok := categoryNames[o.CategoryID]
			if !ok || name == "" {
				name = UnknownCategory
			}
			opts.Categories = append(opts.Categories, Option{ID: o.CategoryID, Name: name})
		}
		for _, t := range o.Tags {
			if !seenTag[t] {
				seenTag[t] = true
				opts.Tags = append(opts.Tags, t)
			}
		}
	}
	return opts
}
