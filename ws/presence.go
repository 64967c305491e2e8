package ws

import "sync"

// DriverLocation is the latest known coordinate of the driver handling an
// order. It doubles as the payload of driverLocation broadcasts.
type DriverLocation struct {
	OrderID uint    `json:"orderId"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// LocationCache keeps at most one location per order, last write wins.
// No history, no timestamps; it is rebuilt empty on restart.
type LocationCache struct {
	mu        sync.RWMutex
	locations map[uint]DriverLocation
}

func NewLocationCache() *LocationCache {
	return &LocationCache{locations: make(map[uint]DriverLocation)}
}

// Set overwrites any prior value for the order.
func (c *LocationCache) Set(orderID uint, lat, lng float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locations[orderID] = DriverLocation{OrderID: orderID, Lat: lat, Lng: lng}
}

func (c *LocationCache) Get(orderID uint) (DriverLocation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	loc, ok := c.locations[orderID]
	return loc, ok
}

// Evict drops the cached location; called when an order reaches a
// terminal status so finished deliveries do not pile up.
func (c *LocationCache) Evict(orderID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locations, orderID)
}
