package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hylla/waypoint/internal/app"
	"github.com/hylla/waypoint/internal/domain"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Repository stores points and the reference catalogue in a sqlite file.
type Repository struct {
	db    *sql.DB
	clock func() time.Time
}

// Open opens the database at path, creating parent dirs and applying migrations.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newRepository(db)
}

// OpenInMemory opens a private in-memory database.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// Each pooled connection would get its own empty memory database.
	db.SetMaxOpenConns(1)
	return newRepository(db)
}

func newRepository(db *sql.DB) (*Repository, error) {
	repo := &Repository{db: db, clock: time.Now}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate applies every embedded goose migration.
func (r *Repository) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, r.db, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// ListPoints lists points in insertion order.
func (r *Repository) ListPoints(ctx context.Context) ([]domain.Point, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, point_type, destination_id, date_from, date_to, base_price, offer_ids_json, is_favorite
		FROM points
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Point{}
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreatePoint creates point.
func (r *Repository) CreatePoint(ctx context.Context, p domain.Point) error {
	offersJSON, err := encodeOfferIDs(p.OfferIDs)
	if err != nil {
		return err
	}
	now := ts(r.clock())
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO points(id, point_type, destination_id, date_from, date_to, base_price, offer_ids_json, is_favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, string(p.Type), p.DestinationID, ts(p.DateFrom), ts(p.DateTo), p.BasePrice, offersJSON, boolToInt(p.IsFavorite), now, now)
	return err
}

// UpdatePoint updates state for the requested operation.
func (r *Repository) UpdatePoint(ctx context.Context, p domain.Point) error {
	offersJSON, err := encodeOfferIDs(p.OfferIDs)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE points
		SET point_type = ?, destination_id = ?, date_from = ?, date_to = ?, base_price = ?, offer_ids_json = ?, is_favorite = ?, updated_at = ?
		WHERE id = ?
	`, string(p.Type), p.DestinationID, ts(p.DateFrom), ts(p.DateTo), p.BasePrice, offersJSON, boolToInt(p.IsFavorite), ts(r.clock()), p.ID)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// DeletePoint deletes point.
func (r *Repository) DeletePoint(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM points WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// ListDestinations lists destinations by name.
func (r *Repository) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, pictures_json
		FROM destinations
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Destination{}
	for rows.Next() {
		var (
			d           domain.Destination
			picturesRaw string
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &picturesRaw); err != nil {
			return nil, err
		}
		if strings.TrimSpace(picturesRaw) == "" {
			picturesRaw = "[]"
		}
		if err := json.Unmarshal([]byte(picturesRaw), &d.Pictures); err != nil {
			return nil, fmt.Errorf("decode destination pictures_json: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListOfferGroups lists offers grouped by point type, in point type order.
func (r *Repository) ListOfferGroups(ctx context.Context) ([]domain.OfferGroup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, point_type, title, price
		FROM offers
		ORDER BY point_type ASC, position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byType := map[domain.PointType][]domain.Offer{}
	for rows.Next() {
		var (
			o         domain.Offer
			pointType string
		)
		if err := rows.Scan(&o.ID, &pointType, &o.Title, &o.Price); err != nil {
			return nil, err
		}
		byType[domain.PointType(pointType)] = append(byType[domain.PointType(pointType)], o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.OfferGroup, 0, len(byType))
	for _, pointType := range domain.PointTypes() {
		out = append(out, domain.OfferGroup{Type: pointType, Offers: byType[pointType]})
	}
	return out, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanPoint decodes a point row.
func scanPoint(s scanner) (domain.Point, error) {
	var (
		p          domain.Point
		pointType  string
		fromRaw    string
		toRaw      string
		offersRaw  string
		isFavorite int
	)
	if err := s.Scan(&p.ID, &pointType, &p.DestinationID, &fromRaw, &toRaw, &p.BasePrice, &offersRaw, &isFavorite); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Point{}, app.ErrNotFound
		}
		return domain.Point{}, err
	}
	if strings.TrimSpace(offersRaw) == "" {
		offersRaw = "[]"
	}
	if err := json.Unmarshal([]byte(offersRaw), &p.OfferIDs); err != nil {
		return domain.Point{}, fmt.Errorf("decode point offer_ids_json: %w", err)
	}
	p.Type = domain.PointType(pointType)
	p.DateFrom = parseTS(fromRaw)
	p.DateTo = parseTS(toRaw)
	p.IsFavorite = isFavorite != 0
	return p, nil
}

func encodeOfferIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode point offers: %w", err)
	}
	return string(raw), nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// translateNoRows handles translate no rows.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
