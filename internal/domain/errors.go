package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrKeyNotFound     = errors.New("key not found")
	ErrInvalidCriteria = errors.New("invalid filter criteria")
)
