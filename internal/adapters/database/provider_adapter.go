package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/providervault/ai-service/internal/domain/entities"
	"github.com/providervault/ai-service/internal/domain/repositories"
	"github.com/providervault/ai-service/internal/infrastructure/clients/postgres"
	"github.com/providervault/ai-service/internal/infrastructure/observability"
	apperrors "github.com/providervault/ai-service/pkg/errors"
)

const providersTable = "providers"

var providerColumns = []interface{}{"npi", "name", "specialty", "state", "city", "address", "phone"}

// ProviderAdapter implements ProviderRepository over the providers table
type ProviderAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

// NewProviderAdapter creates a new provider adapter. metrics may be nil.
func NewProviderAdapter(client *postgres.Client, metrics *observability.Metrics) repositories.ProviderRepository {
	return &ProviderAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
	}
}

// GetByNPI retrieves a provider by NPI
func (a *ProviderAdapter) GetByNPI(ctx context.Context, npi string) (*entities.ProviderRecord, error) {
	defer a.observe(ctx, "get_provider_by_npi", time.Now())

	query, args, err := a.db.From(providersTable).
		Select(providerColumns...).
		Where(goqu.Ex{"npi": npi}).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	provider, err := scanProvider(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider %s not found", npi))
		}
		return nil, apperrors.NewInternalError("failed to get provider", err)
	}
	return provider, nil
}

// GetByNPIs retrieves the providers matching any of npis, in no particular order
func (a *ProviderAdapter) GetByNPIs(ctx context.Context, npis []string) ([]entities.ProviderRecord, error) {
	if len(npis) == 0 {
		return []entities.ProviderRecord{}, nil
	}
	defer a.observe(ctx, "get_providers_by_npis", time.Now())

	query, args, err := a.db.From(providersTable).
		Select(providerColumns...).
		Where(goqu.Ex{"npi": npis}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.queryProviders(ctx, query, args, "failed to get providers by npi")
}

// ListBySpecialty retrieves up to limit providers with exactly the given specialty
func (a *ProviderAdapter) ListBySpecialty(ctx context.Context, specialty string, limit int) ([]entities.ProviderRecord, error) {
	defer a.observe(ctx, "list_providers_by_specialty", time.Now())

	ds := a.db.From(providersTable).
		Select(providerColumns...).
		Where(goqu.Ex{"specialty": specialty})
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.queryProviders(ctx, query, args, "failed to list providers by specialty")
}

// ListByState retrieves up to limit providers in the given state
func (a *ProviderAdapter) ListByState(ctx context.Context, state string, limit int) ([]entities.ProviderRecord, error) {
	defer a.observe(ctx, "list_providers_by_state", time.Now())

	ds := a.db.From(providersTable).
		Select(providerColumns...).
		Where(goqu.Ex{"state": state})
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	return a.queryProviders(ctx, query, args, "failed to list providers by state")
}

// ListSpecialties returns the distinct specialty names in ascending order
func (a *ProviderAdapter) ListSpecialties(ctx context.Context) ([]string, error) {
	defer a.observe(ctx, "list_specialties", time.Now())

	query, args, err := a.db.From(providersTable).
		Select(goqu.C("specialty")).
		Distinct().
		Where(goqu.C("specialty").IsNotNull()).
		Order(goqu.C("specialty").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list specialties", err)
	}
	defer rows.Close()

	specialties := []string{}
	for rows.Next() {
		var specialty string
		if err := rows.Scan(&specialty); err != nil {
			return nil, apperrors.NewInternalError("failed to scan specialty", err)
		}
		specialties = append(specialties, specialty)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate specialties", err)
	}
	return specialties, nil
}

// SpecialtyDistribution returns provider counts per specialty, most common first
func (a *ProviderAdapter) SpecialtyDistribution(ctx context.Context) ([]entities.SpecialtyCount, error) {
	defer a.observe(ctx, "specialty_distribution", time.Now())

	rows, err := a.groupCount(ctx, "specialty")
	if err != nil {
		return nil, err
	}

	counts := make([]entities.SpecialtyCount, 0, len(rows))
	for _, r := range rows {
		counts = append(counts, entities.SpecialtyCount{Specialty: r.key, ProviderCount: r.count})
	}
	return counts, nil
}

// StateDistribution returns provider counts per state, most common first
func (a *ProviderAdapter) StateDistribution(ctx context.Context) ([]entities.StateCount, error) {
	defer a.observe(ctx, "state_distribution", time.Now())

	rows, err := a.groupCount(ctx, "state")
	if err != nil {
		return nil, err
	}

	counts := make([]entities.StateCount, 0, len(rows))
	for _, r := range rows {
		counts = append(counts, entities.StateCount{State: r.key, ProviderCount: r.count})
	}
	return counts, nil
}

// Stats returns total providers and the number of distinct specialties and states
func (a *ProviderAdapter) Stats(ctx context.Context) (*entities.NetworkStats, error) {
	defer a.observe(ctx, "network_stats", time.Now())

	query, args, err := a.db.From(providersTable).
		Select(
			goqu.COUNT(goqu.Star()).As("total_providers"),
			goqu.COUNT(goqu.DISTINCT("specialty")).As("total_specialties"),
			goqu.COUNT(goqu.DISTINCT("state")).As("total_states"),
		).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	stats := &entities.NetworkStats{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).
		Scan(&stats.TotalProviders, &stats.TotalSpecialties, &stats.TotalStates)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get network stats", err)
	}
	return stats, nil
}

type groupRow struct {
	key   string
	count int
}

// groupCount counts providers per value of column. NULL values are reported
// under an empty key.
func (a *ProviderAdapter) groupCount(ctx context.Context, column string) ([]groupRow, error) {
	query, args, err := a.db.From(providersTable).
		Select(goqu.C(column), goqu.COUNT(goqu.Star()).As("provider_count")).
		GroupBy(goqu.C(column)).
		Order(goqu.I("provider_count").Desc(), goqu.C(column).Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to count providers by %s", column), err)
	}
	defer rows.Close()

	var out []groupRow
	for rows.Next() {
		var key sql.NullString
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, apperrors.NewInternalError("failed to scan distribution row", err)
		}
		out = append(out, groupRow{key: key.String, count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate distribution rows", err)
	}
	return out, nil
}

func (a *ProviderAdapter) queryProviders(ctx context.Context, query string, args []interface{}, failure string) ([]entities.ProviderRecord, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError(failure, err)
	}
	defer rows.Close()

	providers := []entities.ProviderRecord{}
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan provider", err)
		}
		providers = append(providers, *provider)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError(failure, err)
	}
	return providers, nil
}

func (a *ProviderAdapter) observe(ctx context.Context, operation string, start time.Time) {
	observability.RecordDBMetric(ctx, a.metrics, operation, time.Since(start))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProvider(row rowScanner) (*entities.ProviderRecord, error) {
	var name, specialty, state, city, address, phone sql.NullString
	provider := &entities.ProviderRecord{}
	if err := row.Scan(&provider.NPI, &name, &specialty, &state, &city, &address, &phone); err != nil {
		return nil, err
	}
	provider.Name = name.String
	provider.Specialty = specialty.String
	provider.State = state.String
	provider.City = city.String
	provider.Address = address.String
	provider.Phone = phone.String
	return provider, nil
}
