package repository

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Repository is a generic document store. Implementations translate their
// driver errors into ErrNotFound and ErrDuplicateKey.
type Repository[T any] interface {
	Create(ctx context.Context, collectionName string, entity T) (T, error)
	FindOne(ctx context.Context, collectionName string, field string, value string) (T, error)
	Update(ctx context.Context, collectionName string, field string, value string, entity T) (T, error)
	EnsureUniqueIndex(ctx context.Context, collectionName string, field string) error
}
