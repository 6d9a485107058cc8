// Package menu provides the fixed menu catalog. Items are read-only; orders
// copy name and price at add time.
package menu

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/subo-hems/api/internal/enum"
)

// Item is a single menu entry.
type Item struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// Categories lists the catalog categories in display order.
var Categories = []string{
	enum.CategoryAppetizers,
	enum.CategoryMains,
	enum.CategorySides,
	enum.CategoryDesserts,
	enum.CategoryDrinks,
}

// Catalog is an immutable menu indexed by item ID.
type Catalog struct {
	items []Item
	byID  map[int]Item
}

// New builds a catalog from the given items. Later duplicates of an ID win.
func New(items []Item) *Catalog {
	c := &Catalog{
		items: append([]Item(nil), items...),
		byID:  make(map[int]Item, len(items)),
	}
	for _, it := range c.items {
		c.byID[it.ID] = it
	}
	return c
}

// Default returns the house menu.
func Default() *Catalog {
	return New(defaultItems)
}

// Lookup returns the item with the given ID.
func (c *Catalog) Lookup(id int) (Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// ByCategory groups items by category, keeping catalog order inside each group.
func (c *Catalog) ByCategory() map[string][]Item {
	out := make(map[string][]Item, len(Categories))
	for _, cat := range Categories {
		out[cat] = []Item{}
	}
	for _, it := range c.items {
		out[it.Category] = append(out[it.Category], it)
	}
	return out
}

// Search filters by category ("all" or empty for every category) and a
// case-insensitive name substring.
func (c *Catalog) Search(category, term string) []Item {
	term = strings.ToLower(strings.TrimSpace(term))
	out := []Item{}
	for _, it := range c.items {
		if category != "" && category != enum.CategoryAll && it.Category != category {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(it.Name), term) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func item(id int, name string, price int64, category string) Item {
	return Item{ID: id, Name: name, Price: decimal.NewFromInt(price), Category: category}
}

var defaultItems = []Item{
	item(1, "Bruschetta", 185, enum.CategoryAppetizers),
	item(2, "Calamari Fritti", 225, enum.CategoryAppetizers),
	item(3, "Garlic Bread", 120, enum.CategoryAppetizers),
	item(4, "Spring Rolls", 155, enum.CategoryAppetizers),
	item(5, "Chicken Wings", 245, enum.CategoryAppetizers),
	item(6, "Lumpia Shanghai", 135, enum.CategoryAppetizers),
	item(7, "Fish Ball Soup", 95, enum.CategoryAppetizers),
	item(8, "Chicken Empanada", 125, enum.CategoryAppetizers),
	item(9, "Tuna Tartare", 265, enum.CategoryAppetizers),
	item(10, "Mushroom Risotto Balls", 195, enum.CategoryAppetizers),

	item(11, "Grilled Salmon", 595, enum.CategoryMains),
	item(12, "Ribeye Steak", 725, enum.CategoryMains),
	item(13, "Pasta Carbonara", 425, enum.CategoryMains),
	item(14, "Chicken Parmesan", 465, enum.CategoryMains),
	item(15, "Vegetable Stir Fry", 350, enum.CategoryMains),
	item(16, "Adobo Chicken", 385, enum.CategoryMains),
	item(17, "Sinigang na Pork", 420, enum.CategoryMains),
	item(18, "Lechon Kawali", 495, enum.CategoryMains),
	item(19, "Tinola na Manok", 365, enum.CategoryMains),
	item(20, "Beef Rendang", 545, enum.CategoryMains),
	item(21, "Grilled Fish (Lapu-Lapu)", 625, enum.CategoryMains),
	item(22, "Pad Thai", 395, enum.CategoryMains),

	item(23, "French Fries", 95, enum.CategorySides),
	item(24, "Sweet Potato Fries", 125, enum.CategorySides),
	item(25, "Caesar Salad", 185, enum.CategorySides),
	item(26, "Roasted Vegetables", 155, enum.CategorySides),
	item(27, "Mashed Potatoes", 135, enum.CategorySides),
	item(28, "Garlic Rice", 75, enum.CategorySides),
	item(29, "Steamed Broccoli", 125, enum.CategorySides),
	item(30, "Mac and Cheese", 165, enum.CategorySides),
	item(31, "Grilled Corn", 95, enum.CategorySides),
	item(32, "Garden Salad", 145, enum.CategorySides),

	item(33, "Chocolate Cake", 165, enum.CategoryDesserts),
	item(34, "Tiramisu", 195, enum.CategoryDesserts),
	item(35, "Crème Brûlée", 215, enum.CategoryDesserts),
	item(36, "Cheesecake", 195, enum.CategoryDesserts),
	item(37, "Ice Cream Sundae", 145, enum.CategoryDesserts),
	item(38, "Ube Cake", 185, enum.CategoryDesserts),
	item(39, "Leche Flan", 125, enum.CategoryDesserts),
	item(40, "Mango Sorbet", 135, enum.CategoryDesserts),
	item(41, "Chocolate Mousse", 175, enum.CategoryDesserts),
	item(42, "Panna Cotta", 205, enum.CategoryDesserts),

	item(43, "Coca Cola", 65, enum.CategoryDrinks),
	item(44, "Fresh Orange Juice", 125, enum.CategoryDrinks),
	item(45, "Iced Tea", 95, enum.CategoryDrinks),
	item(46, "Water", 50, enum.CategoryDrinks),
	item(47, "Espresso", 85, enum.CategoryDrinks),
	item(48, "Cappuccino", 125, enum.CategoryDrinks),
	item(49, "Iced Coffee", 115, enum.CategoryDrinks),
	item(50, "Mango Juice", 105, enum.CategoryDrinks),
	item(51, "Calamansi Juice", 95, enum.CategoryDrinks),
	item(52, "Mineral Water (Large)", 65, enum.CategoryDrinks),
}
