package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zombar/realitycheck/internal/models"
)

const analysisColumns = `id, input, result, created_at, updated_at`

// SaveAnalysis inserts an analysis, replacing any existing row with the same id
func (db *DB) SaveAnalysis(ctx context.Context, analysis *models.Analysis) error {
	inputJSON, err := json.Marshal(analysis.Input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}
	resultJSON, err := json.Marshal(analysis.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO analyses (id, product_name, platform, verdict, reality_score, input, result, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			platform = EXCLUDED.platform,
			verdict = EXCLUDED.verdict,
			reality_score = EXCLUDED.reality_score,
			input = EXCLUDED.input,
			result = EXCLUDED.result,
			updated_at = EXCLUDED.updated_at
	`, analysis.ID,
		analysis.Input.Product.Name,
		analysis.Input.Product.Platform,
		analysis.Result.OverallVerdict,
		analysis.Result.RealityScore,
		inputJSON,
		resultJSON,
		analysis.CreatedAt,
		analysis.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}

	return nil
}

// GetAnalysis retrieves an analysis by ID. It returns ErrNotFound for an unknown id.
func (db *DB) GetAnalysis(ctx context.Context, id string) (*models.Analysis, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+analysisColumns+`
		FROM analyses
		WHERE id = $1
	`, id)

	analysis, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	return analysis, nil
}

// ListAnalyses retrieves analyses newest first with pagination
func (db *DB) ListAnalyses(ctx context.Context, limit, offset int) ([]*models.Analysis, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+analysisColumns+`
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	return scanAnalyses(rows)
}

// GetAnalysesByVerdict retrieves all analyses with the given verdict, newest first
func (db *DB) GetAnalysesByVerdict(ctx context.Context, verdict string) ([]*models.Analysis, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+analysisColumns+`
		FROM analyses
		WHERE verdict = $1
		ORDER BY created_at DESC
	`, verdict)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses by verdict: %w", err)
	}
	defer rows.Close()

	return scanAnalyses(rows)
}

// DeleteAnalysis deletes an analysis by ID. It returns ErrNotFound for an unknown id.
func (db *DB) DeleteAnalysis(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, "DELETE FROM analyses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*models.Analysis, error) {
	var (
		analysis   models.Analysis
		inputJSON  []byte
		resultJSON []byte
	)

	if err := row.Scan(&analysis.ID, &inputJSON, &resultJSON, &analysis.CreatedAt, &analysis.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(inputJSON, &analysis.Input); err != nil {
		return nil, fmt.Errorf("failed to unmarshal input: %w", err)
	}
	if err := json.Unmarshal(resultJSON, &analysis.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &analysis, nil
}

func scanAnalyses(rows *sql.Rows) ([]*models.Analysis, error) {
	analyses := []*models.Analysis{}
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		analyses = append(analyses, analysis)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return analyses, nil
}
