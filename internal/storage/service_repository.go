package storage

import (
	"context"

	"github.com/google/uuid"

	"bookcore/internal/model"
	"bookcore/libs/db"
)

type ServiceRepository struct {
	pool *db.Pool
}

func NewServiceRepository(pool *db.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

const serviceColumns = `id::text, provider_id, name, description, duration_minutes, price::text, active, created_at`

func (r *ServiceRepository) Get(ctx context.Context, id string) (model.Service, error) {
	var s model.Service
	err := r.pool.QueryRow(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE id = $1 AND active
	`, id).Scan(&s.ID, &s.ProviderID, &s.Name, &s.Description, &s.DurationMins, &s.Price, &s.Active, &s.CreatedAt)
	if err != nil {
		return model.Service{}, wrapNotFound(err, "service", id)
	}
	return s, nil
}

func (r *ServiceRepository) Create(ctx context.Context, svc model.Service) (model.Service, error) {
	id := uuid.NewString()
	var out model.Service
	err := r.pool.QueryRow(ctx, `
		INSERT INTO services (id, provider_id, name, description, duration_minutes, price, active)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		RETURNING `+serviceColumns+`
	`, id, svc.ProviderID, svc.Name, svc.Description, svc.DurationMins, svc.Price).Scan(
		&out.ID, &out.ProviderID, &out.Name, &out.Description, &out.DurationMins, &out.Price, &out.Active, &out.CreatedAt)
	if err != nil {
		return model.Service{}, err
	}
	return out, nil
}

func (r *ServiceRepository) ListByProvider(ctx context.Context, providerID string) ([]model.Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE provider_id = $1 AND active
		ORDER BY created_at DESC
	`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.ProviderID, &s.Name, &s.Description, &s.DurationMins, &s.Price, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *ServiceRepository) UpdateMetadata(ctx context.Context, id, name, description string) (model.Service, error) {
	var out model.Service
	err := r.pool.QueryRow(ctx, `
		UPDATE services
		SET name = $2, description = $3
		WHERE id = $1 AND active
		RETURNING `+serviceColumns+`
	`, id, name, description).Scan(
		&out.ID, &out.ProviderID, &out.Name, &out.Description, &out.DurationMins, &out.Price, &out.Active, &out.CreatedAt)
	if err != nil {
		return model.Service{}, wrapNotFound(err, "service", id)
	}
	return out, nil
}

func (r *ServiceRepository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE services
		SET active = false
		WHERE id = $1 AND active
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return wrapNotFound(errNoRows, "service", id)
	}
	return nil
}
