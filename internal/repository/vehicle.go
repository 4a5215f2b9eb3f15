package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cargram/internal/model"
)

type vehicleRepository struct {
	db *sqlx.DB
}

func NewVehicleRepository(db *sqlx.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

// SaveForUser stamps the owning user and replaces that user's single
// vehicle row. The table is keyed by VIN, so a save under a new VIN must
// also drop the old row — both statements run in one transaction to keep
// the one-record-per-user invariant under failure.
func (r *vehicleRepository) SaveForUser(ctx context.Context, vehicle *model.Vehicle, userID string) error {
	vehicle.UserID = userID

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vehicles WHERE user_id = ? AND vin != ?`, userID, vehicle.VIN); err != nil {
		return fmt.Errorf("drop superseded vehicle: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO vehicles
			(vin, user_id, make, model, year, body, trim, series, cmc, hp, fuel,
			 transmission, country, drive, engine_code, number_of_doors, number_of_seats, color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		vehicle.VIN,
		vehicle.UserID,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.Body,
		vehicle.Trim,
		vehicle.Series,
		vehicle.CMC,
		vehicle.HP,
		vehicle.Fuel,
		vehicle.Transmission,
		vehicle.Country,
		vehicle.Drive,
		vehicle.EngineCode,
		vehicle.NumberOfDoors,
		vehicle.NumberOfSeats,
		vehicle.Color,
	)
	if err != nil {
		return fmt.Errorf("insert vehicle: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetForUser returns the user's current vehicle, or nil when none exists.
func (r *vehicleRepository) GetForUser(ctx context.Context, userID string) (*model.Vehicle, error) {
	query := `
		SELECT vin, user_id, make, model, year, body, trim, series, cmc, hp, fuel,
		       transmission, country, drive, engine_code, number_of_doors, number_of_seats, color
		FROM vehicles
		WHERE user_id = ?
		LIMIT 1
	`

	var vehicle model.Vehicle
	err := r.db.GetContext(ctx, &vehicle, query, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle for user: %w", err)
	}
	return &vehicle, nil
}
