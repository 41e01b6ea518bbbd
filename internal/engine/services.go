package engine

import (
	"context"
	"fmt"
	"strings"

	"bookcore/internal/model"
)

// CreateService registers a bookable service for a provider. Duration and
// price are fixed at creation; only name and description may change later.
func (e *Engine) CreateService(ctx context.Context, providerID, name, description string, durationMins int, price string) (model.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Service{}, fmt.Errorf("service name is required: %w", ErrValidation)
	}
	if durationMins <= 0 || durationMins > model.MinutesPerDay {
		return model.Service{}, fmt.Errorf("service duration %d out of range: %w", durationMins, ErrValidation)
	}

	return e.services.Create(ctx, model.Service{
		ProviderID:   providerID,
		Name:         name,
		Description:  strings.TrimSpace(description),
		DurationMins: durationMins,
		Price:        price,
		Active:       true,
	})
}

func (e *Engine) GetService(ctx context.Context, id string) (model.Service, error) {
	return e.services.Get(ctx, id)
}

func (e *Engine) ListProviderServices(ctx context.Context, providerID string) ([]model.Service, error) {
	return e.services.ListByProvider(ctx, providerID)
}

// UpdateServiceMetadata renames or re-describes a service. Only the owning
// provider may call it.
func (e *Engine) UpdateServiceMetadata(ctx context.Context, actorID, serviceID, name, description string) (model.Service, error) {
	svc, err := e.services.Get(ctx, serviceID)
	if err != nil {
		return model.Service{}, err
	}
	if actorID != svc.ProviderID {
		return model.Service{}, fmt.Errorf("only the owning provider may update a service: %w", ErrUnauthorized)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Service{}, fmt.Errorf("service name is required: %w", ErrValidation)
	}
	return e.services.UpdateMetadata(ctx, serviceID, name, strings.TrimSpace(description))
}

// DeactivateService soft-deletes a service. Existing appointments keep their
// reference; the service stops resolving for availability and booking.
func (e *Engine) DeactivateService(ctx context.Context, actorID, serviceID string) error {
	svc, err := e.services.Get(ctx, serviceID)
	if err != nil {
		return err
	}
	if actorID != svc.ProviderID {
		return fmt.Errorf("only the owning provider may deactivate a service: %w", ErrUnauthorized)
	}
	return e.services.Deactivate(ctx, serviceID)
}
