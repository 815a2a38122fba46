package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/peter-kozarec/hedgefx/pkg/common"
	"github.com/peter-kozarec/hedgefx/pkg/utility"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id          VARCHAR PRIMARY KEY,
	created_at      TIMESTAMP NOT NULL,
	name            VARCHAR,
	reference_spot  DOUBLE NOT NULL,
	include_premium BOOLEAN NOT NULL
);
CREATE TABLE IF NOT EXISTS premiums (
	run_id   VARCHAR NOT NULL,
	leg      INTEGER NOT NULL,
	type     VARCHAR NOT NULL,
	quantity DOUBLE NOT NULL,
	premium  DOUBLE NOT NULL
);
CREATE TABLE IF NOT EXISTS curve_points (
	run_id        VARCHAR NOT NULL,
	idx           INTEGER NOT NULL,
	spot          DOUBLE NOT NULL,
	unhedged_rate DOUBLE NOT NULL,
	hedged_rate   DOUBLE NOT NULL
);`

// Run is one generated curve together with the premiums it was built from.
type Run struct {
	ID             utility.RunID
	CreatedAt      time.Time
	Name           string
	ReferenceSpot  float64
	IncludePremium bool
	Strategy       common.Strategy
	Premiums       []float64
	Curve          []common.CurvePoint
}

type Store struct {
	logger         *zap.Logger
	dataSourceName string
	db             *sql.DB
}

// NewStore opens nothing until Connect; an empty data source name is an
// in-memory database.
func NewStore(logger *zap.Logger, dataSourceName string) *Store {
	return &Store{
		logger:         logger,
		dataSourceName: dataSourceName,
	}
}

func (s *Store) Connect(ctx context.Context) error {
	db, err := sql.Open("duckdb", s.dataSourceName)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return fmt.Errorf("create schema: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *Store) WriteRun(ctx context.Context, run Run) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	id := run.ID.String()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, created_at, name, reference_spot, include_premium) VALUES (?, ?, ?, ?, ?)`,
		id, run.CreatedAt, run.Name, run.ReferenceSpot, run.IncludePremium); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, leg := range run.Strategy {
		premium := 0.0
		if i < len(run.Premiums) {
			premium = run.Premiums[i]
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO premiums (run_id, leg, type, quantity, premium) VALUES (?, ?, ?, ?, ?)`,
			id, i, string(leg.Type), leg.Quantity, premium); err != nil {
			return fmt.Errorf("insert premium %d: %w", i, err)
		}
	}

	for i, p := range run.Curve {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO curve_points (run_id, idx, spot, unhedged_rate, hedged_rate) VALUES (?, ?, ?, ?, ?)`,
			id, i, p.Spot, p.UnhedgedRate, p.HedgedRate); err != nil {
			return fmt.Errorf("insert curve point %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.logger.Debug("run stored",
		zap.Stringer("run_id", run.ID),
		zap.Int("legs", len(run.Strategy)),
		zap.Int("points", len(run.Curve)))
	return nil
}

func (s *Store) LoadCurve(ctx context.Context, id utility.RunID, handler func(point common.CurvePoint) error) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT spot, unhedged_rate, hedged_rate FROM curve_points WHERE run_id = ? ORDER BY idx`, id.String())
	if err != nil {
		return fmt.Errorf("error preparing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p common.CurvePoint
		if err := rows.Scan(&p.Spot, &p.UnhedgedRate, &p.HedgedRate); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		if err := handler(p); err != nil {
			return fmt.Errorf("error processing curve point: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error scanning rows: %w", err)
	}
	return nil
}

func (s *Store) LoadPremiums(ctx context.Context, id utility.RunID) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT premium FROM premiums WHERE run_id = ? ORDER BY leg`, id.String())
	if err != nil {
		return nil, fmt.Errorf("error preparing query: %w", err)
	}
	defer rows.Close()

	var premiums []float64
	for rows.Next() {
		var premium float64
		if err := rows.Scan(&premium); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		premiums = append(premiums, premium)
	}
	return premiums, rows.Err()
}
