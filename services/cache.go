package services

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"mechanicshop-backend/models"
)

// CustomerCache is a best-effort read-through cache for customer
// profile reads. It is a latency hint only: every mutation path
// invalidates, a miss just costs a store round trip, and no
// accept/reject decision is ever made from a cached value. The ticket
// relationship core never consults it.
type CustomerCache struct {
	c *gocache.Cache
}

const customerCacheTTL = 30 * time.Second

func NewCustomerCache() *CustomerCache {
	return &CustomerCache{c: gocache.New(customerCacheTTL, time.Minute)}
}

func (cc *CustomerCache) Get(id string) (models.Customer, bool) {
	if cc == nil {
		return models.Customer{}, false
	}
	v, ok := cc.c.Get(id)
	if !ok {
		return models.Customer{}, false
	}
	customer, ok := v.(models.Customer)
	return customer, ok
}

func (cc *CustomerCache) Set(customer models.Customer) {
	if cc == nil {
		return
	}
	cc.c.SetDefault(customer.ID, customer)
}

func (cc *CustomerCache) Invalidate(id string) {
	if cc == nil {
		return
	}
	cc.c.Delete(id)
}
