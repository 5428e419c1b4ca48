// Package cart holds the per-session shopping cart aggregate.
//
// A Cart is owned by one caller at a time and is not safe for concurrent
// mutation. Consumers that need to react to changes (badge counts, session
// persistence) register a Listener with Subscribe instead of polling.
package cart

import (
	"time"

	"bakery-service/models"

	"github.com/google/uuid"
)

// ProductSnapshot is the product as it looked when it was added to the cart.
// The snapshot price is the price charged at checkout.
type ProductSnapshot struct {
	ID          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Price       int64                  `json:"price"`
	Category    models.ProductCategory `json:"category"`
	ImageURL    string                 `json:"image_url"`
}

// SnapshotOf captures the fields of p the cart needs.
func SnapshotOf(p models.Product) ProductSnapshot {
	return ProductSnapshot{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
	}
}

// MaxLineQuantity caps the quantity of a single line.
const MaxLineQuantity = 999

// Line is one product and its quantity, between 1 and MaxLineQuantity.
type Line struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal is quantity times the snapshot price. Use CheckedSubtotal where
// the price has not been bounded.
func (l Line) Subtotal() int64 {
	return l.Product.Price * int64(l.Quantity)
}

// CheckedSubtotal is Subtotal with overflow and negative price detection.
func (l Line) CheckedSubtotal() (int64, error) {
	return models.MulAmount(l.Product.Price, l.Quantity)
}

type EventKind string

const (
	EventItemAdded       EventKind = "item_added"
	EventQuantityChanged EventKind = "quantity_changed"
	EventItemRemoved     EventKind = "item_removed"
	EventCleared         EventKind = "cleared"
)

// Event describes a state change and the totals after it.
type Event struct {
	Kind       EventKind
	ProductID  uuid.UUID
	TotalItems int
	TotalPrice int64
}

// Listener is called synchronously after each state change.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Cart is an ordered collection of lines keyed by product id.
type Cart struct {
	lines     []Line
	listeners []subscription
	nextSubID int
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem adds one unit of p, creating the line if needed. A line already at
// MaxLineQuantity is left unchanged.
func (c *Cart) AddItem(p ProductSnapshot) {
	if i := c.indexOf(p.ID); i >= 0 {
		if c.lines[i].Quantity >= MaxLineQuantity {
			return
		}
		c.lines[i].Quantity++
	} else {
		c.lines = append(c.lines, Line{Product: p, Quantity: 1})
	}
	c.notify(EventItemAdded, p.ID)
}

// SetQuantity sets the quantity of an existing line, clamped to
// MaxLineQuantity. A quantity of zero or less removes the line. Unknown
// product ids are ignored.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.removeAt(i)
		c.notify(EventItemRemoved, productID)
		return
	}
	if quantity > MaxLineQuantity {
		quantity = MaxLineQuantity
	}
	if c.lines[i].Quantity == quantity {
		return
	}
	c.lines[i].Quantity = quantity
	c.notify(EventQuantityChanged, productID)
}

// RemoveItem drops the line for productID if present.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.removeAt(i)
	c.notify(EventItemRemoved, productID)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	if len(c.lines) == 0 {
		return
	}
	c.lines = nil
	c.notify(EventCleared, uuid.Nil)
}

// TotalItemCount is the sum of all line quantities.
func (c *Cart) TotalItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// TotalPrice is the sum of line subtotals at snapshot prices.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// CheckedTotal is TotalPrice with overflow detection; checkout charges this.
func (c *Cart) CheckedTotal() (int64, error) {
	var total int64
	for _, l := range c.lines {
		sub, err := l.CheckedSubtotal()
		if err != nil {
			return 0, err
		}
		if total, err = models.AddAmount(total, sub); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len is the number of distinct lines.
func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Subscribe registers fn and returns a function that removes it.
func (c *Cart) Subscribe(fn Listener) func() {
	c.nextSubID++
	id := c.nextSubID
	c.listeners = append(c.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, s := range c.listeners {
			if s.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Snapshot is the serialisable form of a cart kept in the session store.
type Snapshot struct {
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns the cart's current lines for persistence.
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{Lines: c.Lines(), UpdatedAt: time.Now().UTC()}
}

// Restore rebuilds a cart from a stored snapshot. Lines with a non-positive
// quantity or a duplicate product id are dropped; oversized quantities are
// clamped.
func Restore(s Snapshot) *Cart {
	c := New()
	for _, l := range s.Lines {
		if l.Quantity < 1 || c.indexOf(l.Product.ID) >= 0 {
			continue
		}
		if l.Quantity > MaxLineQuantity {
			l.Quantity = MaxLineQuantity
		}
		c.lines = append(c.lines, l)
	}
	return c
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func (c *Cart) notify(kind EventKind, productID uuid.UUID) {
	if len(c.listeners) == 0 {
		return
	}
	evt := Event{
		Kind:       kind,
		ProductID:  productID,
		TotalItems: c.TotalItemCount(),
		TotalPrice: c.TotalPrice(),
	}
	// copy so a listener may unsubscribe itself
	subs := make([]subscription, len(c.listeners))
	copy(subs, c.listeners)
	for _, s := range subs {
		s.fn(evt)
	}
}
