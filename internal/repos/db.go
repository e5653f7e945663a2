package repos

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// OpenDB connects, creates the schema and seeds the catalog when it is empty.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// a second connection to ":memory:" would see an empty database
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Reset drops every table and recreates the seeded catalog.
func Reset(db *sqlx.DB) error {
	for _, t := range []string{"car_features", "cars", "feature_options", "features"} {
		if _, err := db.Exec(`DROP TABLE IF EXISTS ` + t); err != nil {
			return fmt.Errorf("drop %s: %w", t, err)
		}
	}
	if err := ensureSchema(db); err != nil {
		return err
	}
	return seedIfEmpty(db)
}

func ensureSchema(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == DriverPostgres {
		schema = postgresSchema
	}
	_, err := db.Exec(schema)
	return err
}

const sqliteSchema = `
PRAGMA foreign_keys = ON;

-- Features (selection slots)
CREATE TABLE IF NOT EXISTS features(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  display_name TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Options per feature
CREATE TABLE IF NOT EXISTS feature_options(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  feature_id INTEGER NOT NULL REFERENCES features(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  display_name TEXT NOT NULL,
  price NUMERIC NOT NULL DEFAULT 0 CHECK (price >= 0),
  image_url TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(feature_id, name)
);
CREATE INDEX IF NOT EXISTS idx_feature_options_feature ON feature_options(feature_id);

-- Cars
CREATE TABLE IF NOT EXISTS cars(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  total_price NUMERIC NOT NULL CHECK (total_price >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_cars_created_at ON cars(created_at);

-- One option per (car, feature)
CREATE TABLE IF NOT EXISTS car_features(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  car_id INTEGER NOT NULL REFERENCES cars(id) ON DELETE CASCADE,
  feature_id INTEGER NOT NULL REFERENCES features(id) ON DELETE CASCADE,
  option_id INTEGER NOT NULL REFERENCES feature_options(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(car_id, feature_id)
);
CREATE INDEX IF NOT EXISTS idx_car_features_car ON car_features(car_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS features(
  id SERIAL PRIMARY KEY,
  name VARCHAR(50) NOT NULL UNIQUE,
  display_name VARCHAR(100) NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS feature_options(
  id SERIAL PRIMARY KEY,
  feature_id INTEGER NOT NULL REFERENCES features(id) ON DELETE CASCADE,
  name VARCHAR(50) NOT NULL,
  display_name VARCHAR(100) NOT NULL,
  price DECIMAL(10,2) NOT NULL DEFAULT 0.00 CHECK (price >= 0),
  image_url VARCHAR(255),
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(feature_id, name)
);
CREATE INDEX IF NOT EXISTS idx_feature_options_feature ON feature_options(feature_id);

CREATE TABLE IF NOT EXISTS cars(
  id SERIAL PRIMARY KEY,
  name VARCHAR(100) NOT NULL,
  total_price DECIMAL(10,2) NOT NULL CHECK (total_price >= 0),
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_cars_created_at ON cars(created_at);

CREATE TABLE IF NOT EXISTS car_features(
  id SERIAL PRIMARY KEY,
  car_id INTEGER NOT NULL REFERENCES cars(id) ON DELETE CASCADE,
  feature_id INTEGER NOT NULL REFERENCES features(id) ON DELETE CASCADE,
  option_id INTEGER NOT NULL REFERENCES feature_options(id) ON DELETE CASCADE,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(car_id, feature_id)
);
CREATE INDEX IF NOT EXISTS idx_car_features_car ON car_features(car_id);
`

type seedOption struct {
	name, display string
	price         int64
	image         string
}

type seedFeature struct {
	name, display string
	options       []seedOption
}

var seedCatalog = []seedFeature{
	{"exterior", "Exterior Color", []seedOption{
		{"red", "Racing Red", 0, "/assets/cars/red-car.png"},
		{"blue", "Electric Blue", 500, "/assets/cars/blue-car.png"},
		{"black", "Midnight Black", 1000, "/assets/cars/black-car.png"},
		{"white", "Pearl White", 800, "/assets/cars/white-car.png"},
		{"silver", "Metallic Silver", 300, "/assets/cars/silver-car.png"},
	}},
	{"wheels", "Wheel Style", []seedOption{
		{"standard", "Standard Wheels", 0, "/assets/wheels/standard.png"},
		{"sport", "Sport Wheels", 1200, "/assets/wheels/sport.png"},
		{"luxury", "Luxury Wheels", 2000, "/assets/wheels/luxury.png"},
		{"performance", "Performance Wheels", 2500, "/assets/wheels/performance.png"},
	}},
	{"interior", "Interior Color", []seedOption{
		{"black", "Black Leather", 0, "/assets/interior/black.png"},
		{"brown", "Brown Leather", 500, "/assets/interior/brown.png"},
		{"white", "White Leather", 800, "/assets/interior/white.png"},
		{"red", "Red Leather", 1000, "/assets/interior/red.png"},
	}},
	{"engine", "Engine Type", []seedOption{
		{"standard", "Standard Engine", 0, "/assets/engines/standard.png"},
		{"turbo", "Turbo Engine", 5000, "/assets/engines/turbo.png"},
		{"electric", "Electric Motor", 8000, "/assets/engines/electric.png"},
		{"hybrid", "Hybrid Engine", 3000, "/assets/engines/hybrid.png"},
	}},
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM features`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting features/options")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, f := range seedCatalog {
		var featureID int64
		if err := tx.QueryRowx(tx.Rebind(`INSERT INTO features(name, display_name) VALUES(?, ?) RETURNING id`),
			f.name, f.display).Scan(&featureID); err != nil {
			return fmt.Errorf("seed feature %s: %w", f.name, err)
		}
		for _, o := range f.options {
			if _, err := tx.Exec(tx.Rebind(`
				INSERT INTO feature_options(feature_id, name, display_name, price, image_url)
				VALUES(?, ?, ?, ?, ?)
			`), featureID, o.name, o.display, decimal.NewFromInt(o.price), o.image); err != nil {
				return fmt.Errorf("seed option %s/%s: %w", f.name, o.name, err)
			}
		}
	}
	return tx.Commit()
}
