package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

var stagingColumns = []string{
	"job_id", "row_index", "user_id", "full_name", "email", "position", "department", "business_unit",
	"module_id", "module_title", "status", "started_at", "completed_at", "due_at", "percentage",
	"score", "passed", "attempt",
}

type TrainingBulkImportRepository struct {
	pool *pgxpool.Pool
}

func NewTrainingBulkImportRepository(pool *pgxpool.Pool) *TrainingBulkImportRepository {
	return &TrainingBulkImportRepository{pool: pool}
}

// ImportChunk stages records with COPY and upserts them set-wise in one
// transaction. Imported/updated counts refer to progress rows, or to users for
// org planning imports.
func (r *TrainingBulkImportRepository) ImportChunk(ctx context.Context, jobID string, kind domain.ImportKind, records []domain.Record) (domain.ImportChunkResult, error) {
	if len(records) == 0 {
		return domain.ImportChunkResult{}, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.ImportChunkResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"stg_training_rows"},
		stagingColumns,
		pgx.CopyFromRows(stagingRows(jobID, records)),
	); err != nil {
		return domain.ImportChunkResult{}, fmt.Errorf("copy training rows staging: %w", err)
	}

	if _, err := tx.Exec(ctx, upsertBusinessUnitsSQL, jobID); err != nil {
		return domain.ImportChunkResult{}, fmt.Errorf("upsert business units: %w", err)
	}
	if _, err := tx.Exec(ctx, upsertDepartmentsSQL, jobID); err != nil {
		return domain.ImportChunkResult{}, fmt.Errorf("upsert departments: %w", err)
	}

	usersImported, usersUpdated, err := queryInsertedUpdated(ctx, tx, upsertUsersSQL, jobID)
	if err != nil {
		return domain.ImportChunkResult{}, fmt.Errorf("upsert users: %w", err)
	}

	result := domain.ImportChunkResult{ImportedCount: usersImported, UpdatedCount: usersUpdated}

	if kind == domain.KindTranscript || kind == domain.KindAssignments {
		if _, err := tx.Exec(ctx, upsertModulesSQL, jobID); err != nil {
			return domain.ImportChunkResult{}, fmt.Errorf("upsert modules: %w", err)
		}

		progressSQL := upsertTranscriptProgressSQL
		if kind == domain.KindAssignments {
			progressSQL = upsertAssignmentProgressSQL
		}
		imported, updated, err := queryInsertedUpdated(ctx, tx, progressSQL, jobID)
		if err != nil {
			return domain.ImportChunkResult{}, fmt.Errorf("upsert module progress: %w", err)
		}
		result = domain.ImportChunkResult{ImportedCount: imported, UpdatedCount: updated}
	}

	if kind == domain.KindTranscript {
		if _, err := tx.Exec(ctx, upsertEvaluationsSQL, jobID); err != nil {
			return domain.ImportChunkResult{}, fmt.Errorf("upsert evaluation results: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM stg_training_rows WHERE job_id = $1", jobID); err != nil {
		return domain.ImportChunkResult{}, fmt.Errorf("cleanup stg_training_rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ImportChunkResult{}, fmt.Errorf("commit import chunk: %w", err)
	}

	return result, nil
}

func stagingRows(jobID string, records []domain.Record) [][]any {
	rows := make([][]any, 0, len(records))
	for i, record := range records {
		row := []any{
			jobID,
			int64(i),
			record.User.ID,
			record.User.Name,
			record.User.Email,
			record.User.Position,
			record.User.Department,
			record.User.BusinessUnit,
			nil, nil, nil, nil, nil, nil, nil,
			nil, nil, nil,
		}

		if p := record.Progress; p != nil {
			row[8] = int32(p.ModuleID)
			row[9] = p.ModuleTitle
			row[10] = string(p.Status)
			row[11] = p.StartedAt
			row[12] = p.CompletedAt
			row[13] = p.DueAt
			row[14] = p.Percentage
		}
		if e := record.Evaluation; e != nil {
			row[15] = e.Score
			row[16] = e.Passed
			row[17] = int32(e.Attempt)
		}
		rows = append(rows, row)
	}
	return rows
}

func queryInsertedUpdated(ctx context.Context, tx pgx.Tx, sql string, jobID string) (int64, int64, error) {
	rows, err := tx.Query(ctx, sql, jobID)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	return countInsertedUpdated(rows)
}

func countInsertedUpdated(rows pgx.Rows) (int64, int64, error) {
	var imported int64
	var updated int64

	for rows.Next() {
		var inserted bool
		if err := rows.Scan(&inserted); err != nil {
			return 0, 0, err
		}
		if inserted {
			imported++
		} else {
			updated++
		}
	}

	if err := rows.Err(); err != nil {
		return 0, 0, err
	}

	return imported, updated, nil
}

const upsertBusinessUnitsSQL = `
INSERT INTO instituto_unidad_de_negocio (name, created_at, updated_at)
SELECT DISTINCT business_unit, NOW(), NOW()
FROM stg_training_rows
WHERE job_id = $1 AND business_unit <> ''
ON CONFLICT (name) DO NOTHING
`

const upsertDepartmentsSQL = `
WITH staged AS (
    SELECT DISTINCT ON (department)
      department,
      business_unit
    FROM stg_training_rows
    WHERE job_id = $1 AND department <> ''
    ORDER BY department, row_index DESC
)
INSERT INTO instituto_departamento (name, business_unit_id, created_at, updated_at)
SELECT s.department, bu.id, NOW(), NOW()
FROM staged s
LEFT JOIN instituto_unidad_de_negocio bu ON bu.name = s.business_unit
ON CONFLICT (name) DO UPDATE
  SET business_unit_id = COALESCE(EXCLUDED.business_unit_id, instituto_departamento.business_unit_id),
      updated_at = NOW()
`

const upsertUsersSQL = `
WITH staged AS (
    SELECT DISTINCT ON (user_id)
      user_id,
      full_name,
      email,
      position,
      department,
      business_unit
    FROM stg_training_rows
    WHERE job_id = $1
    ORDER BY user_id, row_index DESC
), upserted AS (
    INSERT INTO instituto_usuario AS u (user_id, name, email, position, department_id, business_unit_id, created_at, updated_at)
    SELECT s.user_id, s.full_name, s.email, s.position, d.id, bu.id, NOW(), NOW()
    FROM staged s
    LEFT JOIN instituto_departamento d ON d.name = s.department
    LEFT JOIN instituto_unidad_de_negocio bu ON bu.name = s.business_unit
    ON CONFLICT (user_id) DO UPDATE
      SET name = COALESCE(NULLIF(EXCLUDED.name, ''), u.name),
          email = COALESCE(NULLIF(EXCLUDED.email, ''), u.email),
          position = COALESCE(NULLIF(EXCLUDED.position, ''), u.position),
          department_id = COALESCE(EXCLUDED.department_id, u.department_id),
          business_unit_id = COALESCE(EXCLUDED.business_unit_id, u.business_unit_id),
          updated_at = NOW()
    RETURNING (xmax = 0) AS inserted
)
SELECT inserted FROM upserted
`

const upsertModulesSQL = `
WITH staged AS (
    SELECT DISTINCT ON (module_id)
      module_id,
      module_title
    FROM stg_training_rows
    WHERE job_id = $1 AND module_id IS NOT NULL AND COALESCE(module_title, '') <> ''
    ORDER BY module_id, row_index DESC
)
INSERT INTO instituto_modulo (id_modulo, name, created_at, updated_at)
SELECT module_id, module_title, NOW(), NOW()
FROM staged
ON CONFLICT (id_modulo) DO UPDATE
  SET name = EXCLUDED.name,
      updated_at = NOW()
`

const upsertTranscriptProgressSQL = `
WITH staged AS (
    SELECT DISTINCT ON (user_id, module_id)
      user_id,
      module_id,
      status,
      started_at,
      completed_at,
      due_at,
      percentage
    FROM stg_training_rows
    WHERE job_id = $1 AND module_id IS NOT NULL AND status IS NOT NULL
    ORDER BY user_id, module_id, row_index DESC
), upserted AS (
    INSERT INTO instituto_progreso_modulo AS p (user_id, id_modulo, status, started_at, completed_at, due_at, percentage, created_at, updated_at)
    SELECT user_id, module_id, status, started_at, completed_at, due_at, percentage, NOW(), NOW()
    FROM staged
    ON CONFLICT (user_id, id_modulo) DO UPDATE
      SET status = EXCLUDED.status,
          started_at = COALESCE(EXCLUDED.started_at, p.started_at),
          completed_at = COALESCE(EXCLUDED.completed_at, p.completed_at),
          due_at = COALESCE(EXCLUDED.due_at, p.due_at),
          percentage = COALESCE(EXCLUDED.percentage, p.percentage),
          updated_at = NOW()
    RETURNING (xmax = 0) AS inserted
)
SELECT inserted FROM upserted
`

// Assignment lists only schedule work: they never move an existing status.
const upsertAssignmentProgressSQL = `
WITH staged AS (
    SELECT DISTINCT ON (user_id, module_id)
      user_id,
      module_id,
      status,
      due_at
    FROM stg_training_rows
    WHERE job_id = $1 AND module_id IS NOT NULL
    ORDER BY user_id, module_id, row_index DESC
), upserted AS (
    INSERT INTO instituto_progreso_modulo AS p (user_id, id_modulo, status, due_at, percentage, created_at, updated_at)
    SELECT user_id, module_id, COALESCE(status, 'No iniciado'), due_at, 0, NOW(), NOW()
    FROM staged
    ON CONFLICT (user_id, id_modulo) DO UPDATE
      SET due_at = COALESCE(EXCLUDED.due_at, p.due_at),
          updated_at = NOW()
    RETURNING (xmax = 0) AS inserted
)
SELECT inserted FROM upserted
`

const upsertEvaluationsSQL = `
WITH staged AS (
    SELECT DISTINCT ON (user_id, module_id, attempt)
      user_id,
      module_id,
      score,
      passed,
      attempt
    FROM stg_training_rows
    WHERE job_id = $1 AND module_id IS NOT NULL AND score IS NOT NULL
    ORDER BY user_id, module_id, attempt, row_index DESC
)
INSERT INTO instituto_resultado_evaluacion (inscripcion_id, score, passed, attempt, created_at, updated_at)
SELECT p.id, s.score, s.passed, s.attempt, NOW(), NOW()
FROM staged s
JOIN instituto_progreso_modulo p ON p.user_id = s.user_id AND p.id_modulo = s.module_id
ON CONFLICT (inscripcion_id, attempt) DO UPDATE
  SET score = EXCLUDED.score,
      passed = EXCLUDED.passed,
      updated_at = NOW()
`
