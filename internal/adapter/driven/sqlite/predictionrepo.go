package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/adview/internal/domain/model"
	"github.com/ericfisherdev/adview/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PredictionStore = (*PredictionRepo)(nil)

// PredictionRepo is the SQLite implementation of the PredictionStore port interface.
type PredictionRepo struct {
	db *DB
}

// NewPredictionRepo creates a new PredictionRepo.
func NewPredictionRepo(db *DB) *PredictionRepo {
	return &PredictionRepo{db: db}
}

const predictionColumns = `id, daily_time_spent, age, area_income, daily_internet_use,
	ad_topic_line, city, gender, country, input_timestamp,
	probability, outcome, error_kind, error_message, duration_ms, created_at`

// Save inserts a prediction record. Probability is stored as NULL for failed runs.
func (r *PredictionRepo) Save(ctx context.Context, p model.Prediction) error {
	const query = `INSERT INTO predictions (` + predictionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var probability sql.NullFloat64
	if p.Succeeded() {
		probability = sql.NullFloat64{Float64: p.Probability, Valid: true}
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		p.ID,
		p.Input.DailyTimeSpent,
		p.Input.Age,
		p.Input.AreaIncome,
		p.Input.DailyInternetUse,
		p.Input.AdTopicLine,
		p.Input.City,
		string(p.Input.Gender),
		p.Input.Country,
		p.Input.Timestamp,
		probability,
		string(p.Outcome),
		string(p.ErrorKind),
		p.ErrorMessage,
		p.Duration.Milliseconds(),
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert prediction %s: %w", p.ID, err)
	}
	return nil
}

// GetByID returns the prediction with the given ID, or (nil, nil) if absent.
func (r *PredictionRepo) GetByID(ctx context.Context, id string) (*model.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = ?`

	p, err := scanPrediction(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get prediction %s: %w", id, err)
	}
	return &p, nil
}

// ListRecent returns up to limit predictions ordered by creation time, newest first.
func (r *PredictionRepo) ListRecent(ctx context.Context, limit int) ([]model.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions ORDER BY created_at DESC, rowid DESC LIMIT ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	preds := []model.Prediction{}
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate predictions: %w", err)
	}

	return preds, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row rowScanner) (model.Prediction, error) {
	var (
		p           model.Prediction
		gender      string
		probability sql.NullFloat64
		outcome     string
		errorKind   string
		durationMS  int64
		createdAt   string
	)

	err := row.Scan(
		&p.ID,
		&p.Input.DailyTimeSpent,
		&p.Input.Age,
		&p.Input.AreaIncome,
		&p.Input.DailyInternetUse,
		&p.Input.AdTopicLine,
		&p.Input.City,
		&gender,
		&p.Input.Country,
		&p.Input.Timestamp,
		&probability,
		&outcome,
		&errorKind,
		&p.ErrorMessage,
		&durationMS,
		&createdAt,
	)
	if err != nil {
		return model.Prediction{}, err
	}

	p.Input.Gender = model.Gender(gender)
	p.Probability = probability.Float64
	p.Outcome = model.Outcome(outcome)
	p.ErrorKind = model.ErrorKind(errorKind)
	p.Duration = time.Duration(durationMS) * time.Millisecond

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("parse created_at for prediction %s: %w", p.ID, err)
	}

	return p, nil
}
