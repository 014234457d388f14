// Package pgstore is the Postgres-backed travel.Store. The demo falls back
// to the static dataset when no DATABASE_URL is configured.
package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bila9630/giraffen-voice/pkg/travel"
)

// Store reads points of interest out of Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to the database at url and runs pending migrations.
func Open(ctx context.Context, url string) (*Store, error) {
	if err := Migrate(ctx, url); err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("pgstore: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgstore: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// TopAttractions returns up to limit attractions ordered by id.
func (s *Store) TopAttractions(ctx context.Context, limit int) ([]travel.POI, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, lat, lon FROM attractions ORDER BY id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("pgstore: query attractions: %w", err)
	}
	defer rows.Close()

	var pois []travel.POI
	for rows.Next() {
		var p travel.POI
		if err := rows.Scan(&p.ID, &p.Name, &p.Lat, &p.Lon); err != nil {
			return nil, fmt.Errorf("pgstore: scan attraction: %w", err)
		}
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore: iterate attractions: %w", err)
	}
	return pois, nil
}

// HiddenGem returns the currently featured hidden gem.
func (s *Store) HiddenGem(ctx context.Context) (travel.POI, error) {
	var p travel.POI
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, lat, lon, rating, image_url, description
		 FROM hidden_gems WHERE featured ORDER BY id LIMIT 1`).
		Scan(&p.ID, &p.Name, &p.Lat, &p.Lon, &p.Rating, &p.ImageURL, &p.Description)
	if err == pgx.ErrNoRows {
		return travel.POI{}, fmt.Errorf("pgstore: no featured hidden gem")
	}
	if err != nil {
		return travel.POI{}, fmt.Errorf("pgstore: query hidden gem: %w", err)
	}
	return p, nil
}
