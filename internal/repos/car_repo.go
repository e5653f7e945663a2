package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"customcars/internal/configurator"
	"customcars/internal/domain"
)

// ErrCarNotFound is returned when a car id does not exist.
var ErrCarNotFound = errors.New("car not found")

// OptionError reports an option id that does not belong to the named feature.
type OptionError struct {
	Feature  string
	OptionID int64
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("Invalid option %d for feature %s", e.OptionID, e.Feature)
}

type CarRepo struct{ db *sqlx.DB }

func NewCarRepo(db *sqlx.DB) *CarRepo { return &CarRepo{db: db} }

const carFeatureColumns = `
	cf.car_id, f.id AS feature_id, f.name AS feature_name, f.display_name AS feature_display_name,
	fo.id AS option_id, fo.name AS option_name, fo.display_name AS option_display_name,
	fo.price AS option_price, COALESCE(fo.image_url, '') AS option_image_url
`

// List returns all cars with their features, newest first.
func (r *CarRepo) List(ctx context.Context) ([]domain.Car, error) {
	cars := []domain.Car{}
	if err := r.db.SelectContext(ctx, &cars, `
		SELECT id, name, total_price, created_at, COALESCE(updated_at, created_at) AS updated_at
		FROM cars
		ORDER BY created_at DESC, id DESC
	`); err != nil {
		return nil, err
	}
	if len(cars) == 0 {
		return cars, nil
	}

	ids := make([]int64, len(cars))
	for i, c := range cars {
		ids[i] = c.ID
	}
	feats, err := r.features(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range cars {
		cars[i].Features = feats[cars[i].ID]
	}
	return cars, nil
}

func (r *CarRepo) Get(ctx context.Context, id int64) (domain.Car, error) {
	var c domain.Car
	if err := r.db.GetContext(ctx, &c, r.db.Rebind(`
		SELECT id, name, total_price, created_at, COALESCE(updated_at, created_at) AS updated_at
		FROM cars
		WHERE id = ?
	`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Car{}, ErrCarNotFound
		}
		return domain.Car{}, err
	}
	feats, err := r.features(ctx, []int64{id})
	if err != nil {
		return domain.Car{}, err
	}
	c.Features = feats[id]
	return c, nil
}

func (r *CarRepo) features(ctx context.Context, carIDs []int64) (map[int64][]domain.CarFeature, error) {
	q, args, err := sqlx.In(`
		SELECT `+carFeatureColumns+`
		FROM car_features cf
		JOIN features f ON f.id = cf.feature_id
		JOIN feature_options fo ON fo.id = cf.option_id
		WHERE cf.car_id IN (?)
		ORDER BY cf.car_id, f.id
	`, carIDs)
	if err != nil {
		return nil, err
	}
	var rows []domain.CarFeature
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	out := make(map[int64][]domain.CarFeature, len(carIDs))
	for _, row := range rows {
		out[row.CarID] = append(out[row.CarID], row)
	}
	return out, nil
}

// Create resolves every option, prices them and writes the car and its four
// feature rows in one transaction.
func (r *CarRepo) Create(ctx context.Context, name string, sel configurator.Selection) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	opts, total, err := resolve(ctx, tx, sel)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := tx.QueryRowxContext(ctx, tx.Rebind(`
		INSERT INTO cars(name, total_price) VALUES(?, ?) RETURNING id
	`), name, total).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert car: %w", err)
	}
	if err := insertFeatures(ctx, tx, id, opts); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// Update replaces the name, total and every feature row of an existing car.
func (r *CarRepo) Update(ctx context.Context, id int64, name string, sel configurator.Selection) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM cars WHERE id = ?`), id); err != nil {
		return err
	}
	if n == 0 {
		return ErrCarNotFound
	}

	opts, total, err := resolve(ctx, tx, sel)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE cars SET name = ?, total_price = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`), name, total, id); err != nil {
		return fmt.Errorf("update car: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM car_features WHERE car_id = ?`), id); err != nil {
		return fmt.Errorf("clear car features: %w", err)
	}
	if err := insertFeatures(ctx, tx, id, opts); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *CarRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM car_features WHERE car_id = ?`), id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM cars WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCarNotFound
	}
	return tx.Commit()
}

// resolve re-reads each selected option inside tx, checking that id and feature
// match, and prices the rows it read.
func resolve(ctx context.Context, tx *sqlx.Tx, sel configurator.Selection) ([]domain.OptionRow, decimal.Decimal, error) {
	var extra []string
	for feature := range sel {
		if !isRequired(feature) {
			extra = append(extra, feature)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		var id int64
		if v := sel[extra[0]]; v != nil {
			id = *v
		}
		return nil, decimal.Zero, &OptionError{Feature: extra[0], OptionID: id}
	}

	opts := make([]domain.OptionRow, 0, len(configurator.RequiredFeatures))
	feats := make([]configurator.Feature, 0, len(configurator.RequiredFeatures))
	for _, feature := range configurator.RequiredFeatures {
		id, ok := sel.Chosen(feature)
		if !ok {
			return nil, decimal.Zero, configurator.Violations(configurator.MissingMessage(feature))
		}
		var o domain.OptionRow
		err := tx.GetContext(ctx, &o, tx.Rebind(`
			SELECT fo.id, fo.feature_id, f.name AS feature_name, f.display_name AS feature_display_name,
			       fo.name, fo.display_name, fo.price, COALESCE(fo.image_url, '') AS image_url
			FROM feature_options fo
			JOIN features f ON f.id = fo.feature_id
			WHERE fo.id = ? AND f.name = ?
		`), id, feature)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, decimal.Zero, &OptionError{Feature: feature, OptionID: id}
		}
		if err != nil {
			return nil, decimal.Zero, err
		}
		opts = append(opts, o)
		feats = append(feats, configurator.Feature{
			ID:          o.FeatureID,
			Name:        o.FeatureName,
			DisplayName: o.FeatureDisplayName,
			Options:     []configurator.Option{o.Option()},
		})
	}

	cat, err := configurator.NewCatalog(feats)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return opts, configurator.Total(cat, sel).Round(2), nil
}

func insertFeatures(ctx context.Context, tx *sqlx.Tx, carID int64, opts []domain.OptionRow) error {
	for _, o := range opts {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO car_features(car_id, feature_id, option_id) VALUES(?, ?, ?)
		`), carID, o.FeatureID, o.ID); err != nil {
			return fmt.Errorf("insert car feature %s: %w", o.FeatureName, err)
		}
	}
	return nil
}

func isRequired(feature string) bool {
	for _, f := range configurator.RequiredFeatures {
		if f == feature {
			return true
		}
	}
	return false
}
