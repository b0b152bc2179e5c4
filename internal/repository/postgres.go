package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"carsearch/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an existing connection, used by tests.
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// carColumns is the join-ahead projection: the car row plus every related
// name, resolved in one query.
const carColumns = `
	c.id, c.year_manufacture, c.year_model, c.fuel_type, c.transmission,
	c.mileage, c.doors, c.price, c.created_at, c.updated_at,
	cn.id AS car_name_id, cn.name AS car_name,
	b.id AS brand_id, b.name AS brand_name,
	cm.id AS car_model_id, cm.name AS car_model_name,
	co.id AS color_id, co.name AS color_name,
	e.id AS engine_id, e.name AS engine_name,
	e.displacement AS engine_displacement, e.power AS engine_power`

const carJoins = `
	FROM cars c
	JOIN car_names cn ON cn.id = c.car_name_id
	JOIN brands b ON b.id = cn.brand_id
	JOIN car_models cm ON cm.id = c.car_model_id
	JOIN colors co ON co.id = c.color_id
	JOIN engines e ON e.id = c.engine_id`

// carRow is the flat scan target for the join-ahead projection.
type carRow struct {
	ID              uuid.UUID `db:"id"`
	YearManufacture int       `db:"year_manufacture"`
	YearModel       int       `db:"year_model"`
	FuelType        string    `db:"fuel_type"`
	Transmission    string    `db:"transmission"`
	Mileage         int       `db:"mileage"`
	Doors           int       `db:"doors"`
	Price           float64   `db:"price"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`

	CarNameID          uuid.UUID `db:"car_name_id"`
	CarName            string    `db:"car_name"`
	BrandID            uuid.UUID `db:"brand_id"`
	BrandName          string    `db:"brand_name"`
	CarModelID         uuid.UUID `db:"car_model_id"`
	CarModelName       string    `db:"car_model_name"`
	ColorID            uuid.UUID `db:"color_id"`
	ColorName          string    `db:"color_name"`
	EngineID           uuid.UUID `db:"engine_id"`
	EngineName         string    `db:"engine_name"`
	EngineDisplacement string    `db:"engine_displacement"`
	EnginePower        int       `db:"engine_power"`
}

func (row carRow) toDetail() model.CarDetail {
	return model.CarDetail{
		ID: row.ID,
		CarName: model.CarName{
			ID:   row.CarNameID,
			Name: row.CarName,
			Brand: model.Brand{
				ID:   row.BrandID,
				Name: row.BrandName,
			},
		},
		CarModel: model.CarModel{ID: row.CarModelID, Name: row.CarModelName},
		Color:    model.Color{ID: row.ColorID, Name: row.ColorName},
		Engine: model.Engine{
			ID:           row.EngineID,
			Name:         row.EngineName,
			Displacement: row.EngineDisplacement,
			Power:        row.EnginePower,
		},
		YearManufacture: row.YearManufacture,
		YearModel:       row.YearModel,
		FuelType:        row.FuelType,
		Transmission:    row.Transmission,
		Mileage:         row.Mileage,
		Doors:           row.Doors,
		Price:           row.Price,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

// buildWhere translates typed filters into WHERE clauses with positional
// args. Name filters match case-insensitive substrings; enums match exactly.
func buildWhere(filters *model.CarFilters) ([]string, []interface{}, int) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	addClause := func(clause string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf(clause, argIndex))
		args = append(args, value)
		argIndex++
	}

	if filters == nil {
		return whereClauses, args, argIndex
	}

	if filters.CarID != nil {
		addClause("c.id = $%d", *filters.CarID)
	}
	if filters.BrandID != nil {
		addClause("b.id = $%d", *filters.BrandID)
	}
	if filters.ColorID != nil {
		addClause("co.id = $%d", *filters.ColorID)
	}
	if filters.EngineID != nil {
		addClause("e.id = $%d", *filters.EngineID)
	}
	if filters.CarModelID != nil {
		addClause("cm.id = $%d", *filters.CarModelID)
	}
	if filters.CarNameID != nil {
		addClause("cn.id = $%d", *filters.CarNameID)
	}

	if filters.BrandName != nil {
		addClause("b.name ILIKE $%d", "%"+*filters.BrandName+"%")
	}
	if filters.CarName != nil {
		addClause("cn.name ILIKE $%d", "%"+*filters.CarName+"%")
	}
	if filters.ColorName != nil {
		addClause("co.name ILIKE $%d", "%"+*filters.ColorName+"%")
	}
	if filters.EngineName != nil {
		addClause("e.name ILIKE $%d", "%"+*filters.EngineName+"%")
	}
	if filters.CarModelName != nil {
		addClause("cm.name ILIKE $%d", "%"+*filters.CarModelName+"%")
	}

	if filters.FuelType != nil {
		addClause("c.fuel_type = $%d", strings.ToLower(*filters.FuelType))
	}
	if filters.Transmission != nil {
		addClause("c.transmission = $%d", strings.ToLower(*filters.Transmission))
	}

	if filters.Search != nil {
		pattern := "%" + *filters.Search + "%"
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(b.name ILIKE $%d OR cn.name ILIKE $%d OR cm.name ILIKE $%d OR co.name ILIKE $%d OR e.name ILIKE $%d)",
			argIndex, argIndex, argIndex, argIndex, argIndex))
		args = append(args, pattern)
		argIndex++
	}

	if filters.PriceMin != nil {
		addClause("c.price >= $%d", *filters.PriceMin)
	}
	if filters.PriceMax != nil {
		addClause("c.price <= $%d", *filters.PriceMax)
	}
	if filters.YearManufactureMin != nil {
		addClause("c.year_manufacture >= $%d", *filters.YearManufactureMin)
	}
	if filters.YearManufactureMax != nil {
		addClause("c.year_manufacture <= $%d", *filters.YearManufactureMax)
	}
	if filters.YearModelMin != nil {
		addClause("c.year_model >= $%d", *filters.YearModelMin)
	}
	if filters.YearModelMax != nil {
		addClause("c.year_model <= $%d", *filters.YearModelMax)
	}
	if filters.MileageMin != nil {
		addClause("c.mileage >= $%d", *filters.MileageMin)
	}
	if filters.MileageMax != nil {
		addClause("c.mileage <= $%d", *filters.MileageMax)
	}
	if filters.DoorsMin != nil {
		addClause("c.doors >= $%d", *filters.DoorsMin)
	}
	if filters.DoorsMax != nil {
		addClause("c.doors <= $%d", *filters.DoorsMax)
	}

	return whereClauses, args, argIndex
}

// SearchCars performs a filtered, ordered, paginated catalog read.
func (r *PostgresRepository) SearchCars(ctx context.Context, filters *model.CarFilters, page model.Pagination) (*model.SearchPage, error) {
	page = page.Normalize(model.MaxPageSize)

	whereClauses, args, argIndex := buildWhere(filters)
	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", carJoins, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to count cars: %w", err)
	}

	orderBy, _ := model.OrderingColumn(page.Ordering)
	selectQuery := fmt.Sprintf(
		"SELECT %s %s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		carColumns, carJoins, whereClause, orderBy, argIndex, argIndex+1)
	args = append(args, page.PageSize, (page.Page-1)*page.PageSize)

	var rows []carRow
	if err := r.db.SelectContext(ctx, &rows, selectQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch cars: %w", err)
	}

	results := make([]model.CarDetail, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toDetail())
	}

	return &model.SearchPage{
		Results:    results,
		Total:      total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: model.TotalPagesFor(total, page.PageSize),
	}, nil
}

// GetCarByID retrieves a single car with all relations resolved. Returns
// (nil, nil) when no car matches.
func (r *PostgresRepository) GetCarByID(ctx context.Context, id uuid.UUID) (*model.CarDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE c.id = $1", carColumns, carJoins)

	var row carRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	detail := row.toDetail()
	return &detail, nil
}

// ListBrands returns brands that have at least one car, with counts.
func (r *PostgresRepository) ListBrands(ctx context.Context) ([]model.BrandCount, error) {
	query := `
		SELECT b.id, b.name, COUNT(c.id) AS count
		FROM brands b
		JOIN car_names cn ON cn.brand_id = b.id
		JOIN cars c ON c.car_name_id = cn.id
		GROUP BY b.id, b.name
		HAVING COUNT(c.id) > 0
		ORDER BY b.name
	`
	var brands []model.BrandCount
	if err := r.db.SelectContext(ctx, &brands, query); err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

// ListColors returns colors that have at least one car, with counts.
func (r *PostgresRepository) ListColors(ctx context.Context) ([]model.ColorCount, error) {
	query := `
		SELECT co.id, co.name, COUNT(c.id) AS count
		FROM colors co
		JOIN cars c ON c.color_id = co.id
		GROUP BY co.id, co.name
		HAVING COUNT(c.id) > 0
		ORDER BY co.name
	`
	var colors []model.ColorCount
	if err := r.db.SelectContext(ctx, &colors, query); err != nil {
		return nil, fmt.Errorf("failed to list colors: %w", err)
	}
	return colors, nil
}

// ListEngines returns engines that have at least one car, with counts.
func (r *PostgresRepository) ListEngines(ctx context.Context) ([]model.EngineCount, error) {
	query := `
		SELECT e.id, e.name, e.displacement, e.power, COUNT(c.id) AS count
		FROM engines e
		JOIN cars c ON c.engine_id = e.id
		GROUP BY e.id, e.name, e.displacement, e.power
		HAVING COUNT(c.id) > 0
		ORDER BY e.name
	`
	var engines []model.EngineCount
	if err := r.db.SelectContext(ctx, &engines, query); err != nil {
		return nil, fmt.Errorf("failed to list engines: %w", err)
	}
	return engines, nil
}

// GetFilterOptions aggregates the value space currently present in the
// catalog.
func (r *PostgresRepository) GetFilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	opts := &model.FilterOptions{}

	if err := r.db.SelectContext(ctx, &opts.FuelTypes,
		"SELECT DISTINCT fuel_type FROM cars ORDER BY fuel_type"); err != nil {
		return nil, fmt.Errorf("failed to list fuel types: %w", err)
	}
	if err := r.db.SelectContext(ctx, &opts.Transmissions,
		"SELECT DISTINCT transmission FROM cars ORDER BY transmission"); err != nil {
		return nil, fmt.Errorf("failed to list transmissions: %w", err)
	}

	var agg struct {
		MinYearManufacture int     `db:"min_year_manufacture"`
		MaxYearManufacture int     `db:"max_year_manufacture"`
		MinYearModel       int     `db:"min_year_model"`
		MaxYearModel       int     `db:"max_year_model"`
		MinPrice           float64 `db:"min_price"`
		MaxPrice           float64 `db:"max_price"`
		MinMileage         float64 `db:"min_mileage"`
		MaxMileage         float64 `db:"max_mileage"`
		MinDoors           float64 `db:"min_doors"`
		MaxDoors           float64 `db:"max_doors"`
	}
	aggQuery := `
		SELECT
			COALESCE(MIN(year_manufacture), 0) AS min_year_manufacture,
			COALESCE(MAX(year_manufacture), 0) AS max_year_manufacture,
			COALESCE(MIN(year_model), 0) AS min_year_model,
			COALESCE(MAX(year_model), 0) AS max_year_model,
			COALESCE(MIN(price), 0) AS min_price,
			COALESCE(MAX(price), 0) AS max_price,
			COALESCE(MIN(mileage), 0) AS min_mileage,
			COALESCE(MAX(mileage), 0) AS max_mileage,
			COALESCE(MIN(doors), 0) AS min_doors,
			COALESCE(MAX(doors), 0) AS max_doors
		FROM cars
	`
	if err := r.db.GetContext(ctx, &agg, aggQuery); err != nil {
		return nil, fmt.Errorf("failed to aggregate ranges: %w", err)
	}

	opts.YearRange.MinManufacture = agg.MinYearManufacture
	opts.YearRange.MaxManufacture = agg.MaxYearManufacture
	opts.YearRange.MinModel = agg.MinYearModel
	opts.YearRange.MaxModel = agg.MaxYearModel
	opts.PriceRange = model.Range{Min: agg.MinPrice, Max: agg.MaxPrice}
	opts.MileageRange = model.Range{Min: agg.MinMileage, Max: agg.MaxMileage}
	opts.DoorsRange = model.Range{Min: agg.MinDoors, Max: agg.MaxDoors}

	return opts, nil
}
