// Package store is a small document store on top of Redis. Each collection
// is one hash: field = document id, value = the JSON document. That mirrors
// the get/list/put/delete contract the services were written against — reads
// load whole documents, writes replace them, and concurrent writers resolve
// by last write wins.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("document not found")

const keyPrefix = "consultorio:"

// Collection names, shared between services and seed tooling.
const (
	Appointments  = "appointments"
	Processes     = "processes"
	Reasons       = "consultation_reasons"
	Psychologists = "psychologists"
	Users         = "users"
	Settings      = "settings"
)

// Collection is a typed handle on one document collection. The id accessor
// returns a pointer to the document's ID field so the store can read and
// assign identities without reflection.
type Collection[T any] struct {
	rdb  *redis.Client
	name string
	id   func(*T) *string
}

func NewCollection[T any](rdb *redis.Client, name string, id func(*T) *string) *Collection[T] {
	return &Collection[T]{rdb: rdb, name: name, id: id}
}

func (c *Collection[T]) key() string {
	return keyPrefix + c.name
}

// List returns every document matching the predicate. A nil match returns
// the whole collection. Order is unspecified; callers sort.
func (c *Collection[T]) List(ctx context.Context, match func(T) bool) ([]T, error) {
	raw, err := c.rdb.HVals(ctx, c.key()).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}

	docs := make([]T, 0, len(raw))
	for _, v := range raw {
		var doc T
		if err := json.Unmarshal([]byte(v), &doc); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", c.name, err)
		}
		if match == nil || match(doc) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// Get returns the document with the given id, or ErrNotFound.
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	raw, err := c.rdb.HGet(ctx, c.key(), id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}

	var doc T
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", c.name, id, err)
	}
	return &doc, nil
}

// Create assigns a fresh id to the document and writes it.
func (c *Collection[T]) Create(ctx context.Context, doc T) (*T, error) {
	*c.id(&doc) = uuid.NewString()
	if err := c.write(ctx, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Put writes the document under the id it already carries. It is used for
// documents with well-known ids (the settings singleton) and by Update.
func (c *Collection[T]) Put(ctx context.Context, doc *T) error {
	if *c.id(doc) == "" {
		return fmt.Errorf("put %s: document has no id", c.name)
	}
	return c.write(ctx, doc)
}

// Update applies mutate to the stored document and writes it back. This is
// the delta-update operation: only the fields mutate touches change, but the
// read-modify-write is not guarded, so concurrent updates resolve by last
// write wins.
func (c *Collection[T]) Update(ctx context.Context, id string, mutate func(*T) error) (*T, error) {
	doc, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(doc); err != nil {
		return nil, err
	}
	if err := c.write(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes the document. Deleting an absent id returns ErrNotFound.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	n, err := c.rdb.HDel(ctx, c.key(), id).Result()
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", c.name, id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Collection[T]) write(ctx context.Context, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s document: %w", c.name, err)
	}
	if err := c.rdb.HSet(ctx, c.key(), *c.id(doc), raw).Err(); err != nil {
		return fmt.Errorf("put %s/%s: %w", c.name, *c.id(doc), err)
	}
	return nil
}
