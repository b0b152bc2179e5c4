package model

import (
	"time"

	"github.com/google/uuid"
)

// Fuel type values accepted by the catalog.
const (
	FuelGasoline = "gasoline"
	FuelEthanol  = "ethanol"
	FuelFlex     = "flex"
	FuelDiesel   = "diesel"
	FuelElectric = "electric"
	FuelHybrid   = "hybrid"
)

// Transmission values accepted by the catalog.
const (
	TransmissionManual        = "manual"
	TransmissionAutomatic     = "automatic"
	TransmissionCVT           = "cvt"
	TransmissionSemiAutomatic = "semi_automatic"
	TransmissionDualClutch    = "dual_clutch"
)

// FuelTypes lists the closed fuel type enumeration.
var FuelTypes = []string{FuelGasoline, FuelEthanol, FuelFlex, FuelDiesel, FuelElectric, FuelHybrid}

// Transmissions lists the closed transmission enumeration.
var Transmissions = []string{TransmissionManual, TransmissionAutomatic, TransmissionCVT, TransmissionSemiAutomatic, TransmissionDualClutch}

// Brand is a car manufacturer.
type Brand struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// Color is a catalog color entry.
type Color struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// Engine is an engine specification.
type Engine struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Displacement string    `json:"displacement" db:"displacement"`
	Power        int       `json:"power" db:"power"`
}

// CarModel is a model designation (e.g. sedan trim line).
type CarModel struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// CarName is a commercial car name, owned by a brand.
type CarName struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	Brand Brand     `json:"brand"`
}

// CarDetail is the join-ahead read model for a catalog car: the car row plus
// every related name resolved in the same query, so result formatting never
// needs secondary lookups.
type CarDetail struct {
	ID              uuid.UUID `json:"id"`
	CarName         CarName   `json:"car_name"`
	CarModel        CarModel  `json:"car_model"`
	Color           Color     `json:"color"`
	Engine          Engine    `json:"engine"`
	YearManufacture int       `json:"year_manufacture"`
	YearModel       int       `json:"year_model"`
	FuelType        string    `json:"fuel_type"`
	Transmission    string    `json:"transmission"`
	Mileage         int       `json:"mileage"`
	Doors           int       `json:"doors"`
	Price           float64   `json:"price"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BrandCount is a brand annotated with how many cars reference it.
type BrandCount struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	Count int       `json:"count" db:"count"`
}

// ColorCount is a color annotated with how many cars reference it.
type ColorCount struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	Count int       `json:"count" db:"count"`
}

// EngineCount is an engine annotated with how many cars reference it.
type EngineCount struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Displacement string    `json:"displacement" db:"displacement"`
	Power        int       `json:"power" db:"power"`
	Count        int       `json:"count" db:"count"`
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterOptions aggregates the value space currently present in the catalog,
// used by clients to render filter widgets.
type FilterOptions struct {
	FuelTypes     []string `json:"fuel_types"`
	Transmissions []string `json:"transmissions"`
	YearRange     struct {
		MinManufacture int `json:"min_manufacture"`
		MaxManufacture int `json:"max_manufacture"`
		MinModel       int `json:"min_model"`
		MaxModel       int `json:"max_model"`
	} `json:"year_range"`
	PriceRange   Range `json:"price_range"`
	MileageRange Range `json:"mileage_range"`
	DoorsRange   Range `json:"doors_range"`
}
