// Package idmap binds the diffing engine's element ids to host entities.
//
// Ids arrive roughly in increasing order and become dense over time, so the
// map is a plain slice indexed by id. Slots skipped over by a Set hold
// host.Placeholder until assigned.
package idmap

import (
	"errors"
	"fmt"

	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/protocol"
)

// MaxID is the largest id the map will grow to hold
const MaxID protocol.ElementID = 1<<24 - 1

var (
	// ErrUnassigned is returned by Get for ids that were never Set
	ErrUnassigned = errors.New("element id not assigned")
	// ErrOutOfRange is returned by Set for ids above MaxID
	ErrOutOfRange = errors.New("element id out of range")
)

// Map is a dense id to entity table
type Map struct {
	entities []host.Entity
}

// New creates a map with room for capacity ids before growing
func New(capacity int) *Map {
	return &Map{entities: make([]host.Entity, 0, capacity)}
}

// Set binds id to e, growing the table and filling skipped slots with host.Placeholder
func (m *Map) Set(id protocol.ElementID, e host.Entity) error {
	if id > MaxID {
		return fmt.Errorf("%w: %d > %d", ErrOutOfRange, id, MaxID)
	}
	for int(id) >= len(m.entities) {
		m.entities = append(m.entities, host.Placeholder)
	}
	m.entities[id] = e
	return nil
}

// Get returns the entity bound to id
func (m *Map) Get(id protocol.ElementID) (host.Entity, error) {
	if int(id) >= len(m.entities) || m.entities[id] == host.Placeholder {
		return host.Placeholder, fmt.Errorf("%w: %d", ErrUnassigned, id)
	}
	return m.entities[id], nil
}

// Len returns one past the highest id ever set
func (m *Map) Len() int {
	return len(m.entities)
}

// Assigned reports how many slots hold a real entity
func (m *Map) Assigned() int {
	n := 0
	for _, e := range m.entities {
		if e != host.Placeholder {
			n++
		}
	}
	return n
}
