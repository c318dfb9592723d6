package store

import (
	"context"

	"liftoff/pkg/model"
)

// FlightStore handles flight history persistence.
type FlightStore interface {
	SaveFlight(ctx context.Context, rec *model.FlightRecord) error
	GetFlight(ctx context.Context, id string) (*model.FlightRecord, error)
	ListFlights(ctx context.Context, filter FlightFilter) ([]*model.FlightRecord, error)
	BestAltitude(ctx context.Context, mission string) (altKm float64, found bool, err error)
}

// EventStore handles the per-flight event log.
type EventStore interface {
	SaveEvents(ctx context.Context, flightID string, events []model.FlightEvent) error
	GetEvents(ctx context.Context, flightID string) ([]model.FlightEvent, error)
}

// StateStore handles persistent application state.
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
}

// FlightFilter narrows ListFlights. Zero values match everything.
type FlightFilter struct {
	Mission string
	Outcome string
	Limit   int // defaults to 50
}
