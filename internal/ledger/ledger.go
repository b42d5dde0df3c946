// =============================================================================
// Billing Ledger - Data Model
// =============================================================================
//
// This package holds the in-memory ledger: clients, their bills, and the
// products on each bill. The tree is strictly hierarchical:
//
//   Store
//   └── Client (keyed by name)
//       └── Bill (keyed by local wall-clock time, whole seconds)
//           └── Product (keyed by name)
//
// Every level keeps its children in first-insertion order. Re-inserting an
// existing key replaces the value in place and keeps its position.
//
// The ledger is not safe for concurrent use. Each CLI action loads it, mutates
// it, and saves it before the next action begins.
//
// =============================================================================

package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STORE
// =============================================================================

// Store is the root aggregate of the ledger.
type Store struct {
	clients ordered[string, *Client]
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// GetOrCreateClient returns the client with the given name, creating it at the
// end of the client ordering if it does not exist yet.
func (s *Store) GetOrCreateClient(name string) *Client {
	if c, ok := s.clients.get(name); ok {
		return c
	}
	c := &Client{name: name}
	s.clients.put(name, c)
	return c
}

// Client looks up a client by name.
func (s *Store) Client(name string) (*Client, error) {
	c, ok := s.clients.get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrClientNotFound, name)
	}
	return c, nil
}

// Bill resolves a client name and bill timestamp to a Bill.
func (s *Store) Bill(clientName string, at time.Time) (*Bill, error) {
	c, err := s.Client(clientName)
	if err != nil {
		return nil, err
	}
	return c.Bill(at)
}

// Clients returns the clients in insertion order.
func (s *Store) Clients() []*Client {
	return s.clients.values()
}

// Len returns the number of clients.
func (s *Store) Len() int {
	return s.clients.len()
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a named customer owning a set of bills.
type Client struct {
	name  string
	bills ordered[string, *Bill]
}

// Name returns the client's unique name.
func (c *Client) Name() string {
	return c.name
}

// AddBill creates a bill at the given time truncated to whole seconds. A bill
// already present at the same wall-clock second is replaced by the new, empty
// bill.
func (c *Client) AddBill(at time.Time) *Bill {
	at = at.Truncate(time.Second)
	b := &Bill{at: at}
	c.bills.put(FormatTimestamp(at), b)
	return b
}

// Bill looks up a bill by its wall-clock timestamp at second granularity.
// Bills are keyed the way they are persisted, so two instants that print the
// same (such as either side of a daylight saving fall-back) are one bill.
func (c *Client) Bill(at time.Time) (*Bill, error) {
	b, ok := c.bills.get(FormatTimestamp(at))
	if !ok {
		return nil, fmt.Errorf("%w: %s for client %q", ErrBillNotFound, FormatTimestamp(at), c.name)
	}
	return b, nil
}

// Bills returns the client's bills in insertion order.
func (c *Client) Bills() []*Bill {
	return c.bills.values()
}

func (c *Client) String() string {
	return c.name
}

// =============================================================================
// BILL
// =============================================================================

// Bill is a timestamped group of product line items.
type Bill struct {
	at       time.Time
	products ordered[string, Product]
}

// At returns the bill's timestamp.
func (b *Bill) At() time.Time {
	return b.at
}

// AddProduct inserts the named product, replacing any product of the same
// name on this bill. Names are stored as given; callers taking user input
// check them with ValidateName first.
func (b *Bill) AddProduct(name string, price decimal.Decimal) (Product, error) {
	if price.IsNegative() {
		return Product{}, fmt.Errorf("%w: %s", ErrNegativePrice, price.String())
	}
	p := Product{Name: name, Price: price}
	b.products.put(name, p)
	return p, nil
}

// Product looks up a product by name.
func (b *Bill) Product(name string) (Product, bool) {
	return b.products.get(name)
}

// Products returns the bill's products in insertion order.
func (b *Bill) Products() []Product {
	return b.products.values()
}

func (b *Bill) String() string {
	return FormatTimestamp(b.at)
}

// =============================================================================
// PRODUCT
// =============================================================================

// Product is an immutable name/price line item.
type Product struct {
	Name  string
	Price decimal.Decimal
}

func (p Product) String() string {
	return fmt.Sprintf("%s ($%s)", p.Name, FormatPrice(p.Price))
}
