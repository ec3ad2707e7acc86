package service

import (
	"github.com/fulldump/dpool/registry"
)

var (
	ErrorPoolNotFound      = registry.ErrorPoolNotFound
	ErrorPoolAlreadyExists = registry.ErrorPoolAlreadyExists
)

type Servicer interface {
	CreatePool(name string, options registry.Options) (*registry.Pool, error)
	GetPool(name string) (*registry.Pool, error)
	ListPools() []*registry.Pool
	DeletePool(name string) error

	// DefaultOptions are used for the fields a create request leaves empty
	DefaultOptions() registry.Options
}
