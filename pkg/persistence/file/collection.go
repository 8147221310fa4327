package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"
)

// collection is the shared read/write core for one JSON array file.
// idOf extracts an item's id; touch stamps timestamps on save.
type collection[T any] struct {
	root  string
	name  string
	mu    *sync.Mutex
	idOf  func(*T) string
	touch func(item *T, now time.Time, isNew bool)
}

func (c *collection[T]) filePath() string {
	return filepath.Clean(path.Join(c.root, c.name+".json"))
}

// read loads the full collection snapshot. A missing or unreadable file
// reads as an empty collection, matching the prototype store contract.
func (c *collection[T]) read() ([]*T, error) {
	body, err := os.ReadFile(c.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return []*T{}, nil
		}

		return nil, fmt.Errorf("failed to read collection %s: %w", c.name, err)
	}

	var items []*T
	if err := json.Unmarshal(body, &items); err != nil {
		return []*T{}, nil
	}

	return items, nil
}

// write replaces the full collection snapshot, creating the data directory
// if absent.
func (c *collection[T]) write(items []*T) error {
	if err := os.MkdirAll(c.root, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal collection %s: %w", c.name, err)
	}

	return os.WriteFile(c.filePath(), data, 0600)
}

func (c *collection[T]) getByID(id string) (*T, error) {
	items, err := c.read()
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if c.idOf(item) == id {
			return item, nil
		}
	}

	return nil, nil
}

// save inserts the item, or replaces the stored item with the same id.
func (c *collection[T]) save(item *T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.read()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	replaced := false

	for i, existing := range items {
		if c.idOf(existing) == c.idOf(item) {
			c.touch(item, now, false)
			items[i] = item
			replaced = true

			break
		}
	}

	if !replaced {
		c.touch(item, now, true)
		items = append(items, item)
	}

	return c.write(items)
}

// update applies mutate to the stored item in place. Returns (nil, nil)
// when the id is absent, leaving the collection unchanged.
func (c *collection[T]) update(id string, mutate func(*T)) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.read()
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if c.idOf(item) == id {
			mutate(item)
			c.touch(item, time.Now().UTC(), false)

			return item, c.write(items)
		}
	}

	return nil, nil
}

// delete removes exactly one item. Returns (false, nil) when the id is
// absent, so a second delete of the same id is safe.
func (c *collection[T]) delete(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.read()
	if err != nil {
		return false, err
	}

	filtered := make([]*T, 0, len(items))
	for _, item := range items {
		if c.idOf(item) != id {
			filtered = append(filtered, item)
		}
	}

	if len(filtered) == len(items) {
		return false, nil
	}

	return true, c.write(filtered)
}

func (c *collection[T]) replaceAll(items []*T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.write(items)
}
