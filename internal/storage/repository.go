// Package storage is the SQLite-backed implementation of the records
// ports. Dates are stored as YYYY-MM-DD text, money as integer cents.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"frota/internal/core"
	"frota/internal/records"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ records.Store = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (creating if needed) the database at dbPath
// and applies migrations before returning.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ListVehicles(ctx context.Context) ([]core.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, brand, model, year, plate FROM vehicles ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var out []core.Vehicle
	for rows.Next() {
		var v core.Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.Brand, &v.Model, &v.Year, &v.Plate); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetVehicle(ctx context.Context, id string) (core.Vehicle, error) {
	var v core.Vehicle
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, brand, model, year, plate FROM vehicles WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &v.Brand, &v.Model, &v.Year, &v.Plate)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Vehicle{}, records.ErrNotFound
	}
	if err != nil {
		return core.Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

func (r *SQLiteRepository) CreateVehicle(ctx context.Context, v core.Vehicle) (core.Vehicle, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicles (id, name, brand, model, year, plate) VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Brand, v.Model, v.Year, v.Plate)
	if err != nil {
		return core.Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}
	return v, nil
}

func (r *SQLiteRepository) UpdateVehicle(ctx context.Context, v core.Vehicle) (core.Vehicle, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET name = ?, brand = ?, model = ?, year = ?, plate = ? WHERE id = ?`,
		v.Name, v.Brand, v.Model, v.Year, v.Plate, v.ID)
	if err != nil {
		return core.Vehicle{}, fmt.Errorf("update vehicle: %w", err)
	}
	if err := requireRow(res); err != nil {
		return core.Vehicle{}, err
	}
	return v, nil
}

func (r *SQLiteRepository) DeleteVehicle(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, kind FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Kind); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, kind FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Kind)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, records.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, kind) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.Kind)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, kind = ? WHERE id = ?`,
		c.Name, c.Kind, c.ID)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	if err := requireRow(res); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, vehicle_id, category_id, kind, amount_cents, description, date, payment_method, status
		 FROM transactions ORDER BY date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, vehicle_id, category_id, kind, amount_cents, description, date, payment_method, status
		 FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, records.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, vehicle_id, category_id, kind, amount_cents, description, date, payment_method, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.VehicleID, t.CategoryID, t.Kind, t.Amount.Cents, t.Description, t.Date.String(), t.PaymentMethod, t.Status)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET vehicle_id = ?, category_id = ?, kind = ?, amount_cents = ?, description = ?, date = ?, payment_method = ?, status = ?
		 WHERE id = ?`,
		t.VehicleID, t.CategoryID, t.Kind, t.Amount.Cents, t.Description, t.Date.String(), t.PaymentMethod, t.Status, t.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if err := requireRow(res); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListFuelings(ctx context.Context) ([]core.Fueling, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, vehicle_id, liters, fuel_type, total_cents, odometer, date
		 FROM fuelings ORDER BY date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list fuelings: %w", err)
	}
	defer rows.Close()

	var out []core.Fueling
	for rows.Next() {
		f, err := scanFueling(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetFueling(ctx context.Context, id string) (core.Fueling, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, vehicle_id, liters, fuel_type, total_cents, odometer, date
		 FROM fuelings WHERE id = ?`, id)
	f, err := scanFueling(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Fueling{}, records.ErrNotFound
	}
	if err != nil {
		return core.Fueling{}, err
	}
	return f, nil
}

func (r *SQLiteRepository) CreateFueling(ctx context.Context, f core.Fueling) (core.Fueling, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO fuelings (id, vehicle_id, liters, fuel_type, total_cents, odometer, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.VehicleID, f.Liters, f.FuelType, f.Total.Cents, f.Odometer, f.Date.String())
	if err != nil {
		return core.Fueling{}, fmt.Errorf("create fueling: %w", err)
	}
	return f, nil
}

func (r *SQLiteRepository) UpdateFueling(ctx context.Context, f core.Fueling) (core.Fueling, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE fuelings
		 SET vehicle_id = ?, liters = ?, fuel_type = ?, total_cents = ?, odometer = ?, date = ?
		 WHERE id = ?`,
		f.VehicleID, f.Liters, f.FuelType, f.Total.Cents, f.Odometer, f.Date.String(), f.ID)
	if err != nil {
		return core.Fueling{}, fmt.Errorf("update fueling: %w", err)
	}
	if err := requireRow(res); err != nil {
		return core.Fueling{}, err
	}
	return f, nil
}

func (r *SQLiteRepository) DeleteFueling(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fuelings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete fueling: %w", err)
	}
	return requireRow(res)
}

// requireRow maps "zero rows affected" to ErrNotFound so callers can
// distinguish missing ids from database failures.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var date string
	err := row.Scan(&t.ID, &t.VehicleID, &t.CategoryID, &t.Kind, &t.Amount.Cents,
		&t.Description, &date, &t.PaymentMethod, &t.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Date, err = core.ParseCalendarDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s has bad date %q: %w", t.ID, date, err)
	}
	return t, nil
}

func scanFueling(row rowScanner) (core.Fueling, error) {
	var f core.Fueling
	var date string
	err := row.Scan(&f.ID, &f.VehicleID, &f.Liters, &f.FuelType, &f.Total.Cents, &f.Odometer, &date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Fueling{}, err
		}
		return core.Fueling{}, fmt.Errorf("scan fueling: %w", err)
	}
	f.Date, err = core.ParseCalendarDate(date)
	if err != nil {
		return core.Fueling{}, fmt.Errorf("fueling %s has bad date %q: %w", f.ID, date, err)
	}
	return f, nil
}
