package service

import (
	"github.com/fulldump/dpool/registry"
)

type Service struct {
	registry *registry.Registry
	defaults registry.Options
}

func NewService(r *registry.Registry, defaults registry.Options) *Service {
	return &Service{
		registry: r,
		defaults: defaults,
	}
}

func (s *Service) CreatePool(name string, options registry.Options) (*registry.Pool, error) {
	return s.registry.CreatePool(name, options)
}

func (s *Service) GetPool(name string) (*registry.Pool, error) {
	return s.registry.GetPool(name)
}

func (s *Service) ListPools() []*registry.Pool {
	return s.registry.ListPools()
}

func (s *Service) DeletePool(name string) error {
	return s.registry.DropPool(name)
}

func (s *Service) DefaultOptions() registry.Options {
	return s.defaults
}
