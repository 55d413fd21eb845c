// Package di provides a minimal service registry used to wire modules
// together at startup without import cycles between business packages.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container: modules pull their
// dependencies out by key once everything has been registered.
type ServiceRegistry interface {
	Get(key string) (interface{}, bool)
	MustGet(key string) interface{}
}

// Container is the read/write side, used during module registration.
type Container interface {
	ServiceRegistry
	Register(key string, value interface{})
}

type container struct {
	mu       sync.RWMutex
	services map[string]interface{}
}

// NewContainer creates an empty service container.
func NewContainer() Container {
	return &container{
		services: make(map[string]interface{}),
	}
}

func (c *container) Register(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[key] = value
}

func (c *container) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.services[key]
	return v, ok
}

// MustGet panics if the key was never registered; used during startup
// wiring where a missing dependency is a programming error, not a
// runtime condition callers should handle.
func (c *container) MustGet(key string) interface{} {
	v, ok := c.Get(key)
	if !ok {
		panic(fmt.Sprintf("di: service %q not registered", key))
	}
	return v
}
