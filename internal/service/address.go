package service

import (
	"context"
	"log/slog"
	"strings"

	"shoppingCart/internal/apperr"
	"shoppingCart/internal/geo"
	"shoppingCart/internal/session"
	"shoppingCart/internal/validate"
	"shoppingCart/models"
	"shoppingCart/repository"
)

type AddressService struct {
	locations repository.LocationRepositoryI
	state     *session.State
	log       *slog.Logger
}

func NewAddressService(locations repository.LocationRepositoryI, state *session.State, log *slog.Logger) *AddressService {
	return &AddressService{locations: locations, state: state, log: orDefault(log)}
}

// Validate checks the address form and returns a Custom error listing every problem.
func (s *AddressService) Validate(l *models.Location) error {
	if l == nil {
		return apperr.Custom("address is required")
	}
	l.Country = strings.ToUpper(strings.TrimSpace(l.Country))
	if err := validate.Struct(l); err != nil {
		return apperr.Custom(err.Error())
	}
	return nil
}

// Save validates and stores an address for the signed-in user.
func (s *AddressService) Save(ctx context.Context, l *models.Location) (*models.Location, error) {
	u, err := requireUser(s.state)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(l); err != nil {
		return nil, err
	}
	l.UserID = u.ID
	created, err := s.locations.Create(ctx, l)
	if err != nil {
		return nil, fail(s.log, "address.save", err)
	}
	return created, nil
}

func (s *AddressService) List(ctx context.Context) ([]models.Location, error) {
	u, err := requireUser(s.state)
	if err != nil {
		return nil, err
	}
	ls, err := s.locations.ListByUserID(ctx, u.ID)
	if err != nil {
		return nil, fail(s.log, "address.list", err)
	}
	return ls, nil
}

func (s *AddressService) Delete(ctx context.Context, id int64) error {
	u, err := requireUser(s.state)
	if err != nil {
		return err
	}
	ok, err := s.locations.Delete(ctx, u.ID, id)
	if err != nil {
		return fail(s.log, "address.delete", err)
	}
	if !ok {
		return apperr.Empty("address not found")
	}
	return nil
}

// Nearest returns the saved address closest to p. Addresses without coordinates are skipped.
func (s *AddressService) Nearest(ctx context.Context, p geo.Point) (*models.Location, error) {
	ls, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var (
		best   *models.Location
		bestKm float64
	)
	for i := range ls {
		l := &ls[i]
		if l.Lat == nil || l.Lng == nil {
			continue
		}
		km := p.DistanceKm(geo.Point{Lat: *l.Lat, Lng: *l.Lng})
		if best == nil || km < bestKm {
			best, bestKm = l, km
		}
	}
	if best == nil {
		return nil, apperr.Empty("no saved address has coordinates")
	}
	return best, nil
}
