package model

import "errors"

// Vehicle is the decoded or manually entered vehicle profile. All decoded
// attributes are kept as strings exactly as the decode service renders
// them; a label the service did not return stays "".
type Vehicle struct {
	VIN           string `db:"vin" json:"vin"`
	UserID        string `db:"user_id" json:"user_id"`
	Make          string `db:"make" json:"make"`
	Model         string `db:"model" json:"model"`
	Year          string `db:"year" json:"year"`
	Body          string `db:"body" json:"body"`
	Trim          string `db:"trim" json:"trim"`
	Series        string `db:"series" json:"series"`
	CMC           string `db:"cmc" json:"cmc"` // engine displacement (ccm)
	HP            string `db:"hp" json:"hp"`
	Fuel          string `db:"fuel" json:"fuel"`
	Transmission  string `db:"transmission" json:"transmission"`
	Country       string `db:"country" json:"country"` // plant country
	Drive         string `db:"drive" json:"drive"`
	EngineCode    string `db:"engine_code" json:"engine_code"`
	NumberOfDoors string `db:"number_of_doors" json:"number_of_doors"`
	NumberOfSeats string `db:"number_of_seats" json:"number_of_seats"`
	Color         string `db:"color" json:"color"`
}

// VINLength is the canonical VIN length. Longer input is truncated at the
// edge, shorter input is forwarded as-is: the decode service is
// authoritative on validity.
const VINLength = 17

// DecodeVehicleRequest is the request body for POST /vehicles/decode.
type DecodeVehicleRequest struct {
	VIN string `json:"vin"`
}

// VehicleResponse wraps a possibly-absent vehicle. Absence is not an error.
type VehicleResponse struct {
	Vehicle *Vehicle `json:"vehicle"`
}

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
)
