package postgres

import (
	"context"
	"database/sql"

	"dairy-farm-management/internal/domain/health"
)

type HealthRepo struct {
	db *sql.DB
}

func NewHealthRepo(db *sql.DB) *HealthRepo {
	return &HealthRepo{db: db}
}

// -------------------------
// Weights
// -------------------------

const weightColumns = `id, cow_id, weight_in_kgs, date_taken, created_at, updated_at`

func scanWeight(s scanner) (health.WeightRecord, error) {
	var w health.WeightRecord
	err := s.Scan(&w.ID, &w.CowID, &w.WeightInKgs, &w.DateTaken, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func (r *HealthRepo) CreateWeight(ctx context.Context, w health.WeightRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO weight_records (`+weightColumns+`) VALUES ($1,$2,$3,$4,$5,$6)
	`, w.ID, w.CowID, w.WeightInKgs, w.DateTaken, w.CreatedAt, w.UpdatedAt)
	return mapErr(err, "weight record")
}

func (r *HealthRepo) UpdateWeight(ctx context.Context, w health.WeightRecord) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE weight_records SET weight_in_kgs = $2, updated_at = $3 WHERE id = $1
	`, w.ID, w.WeightInKgs, w.UpdatedAt)
	return affected(res, err, "weight record")
}

func (r *HealthRepo) GetWeight(ctx context.Context, id string) (health.WeightRecord, error) {
	w, err := scanWeight(r.db.QueryRowContext(ctx, `SELECT `+weightColumns+` FROM weight_records WHERE id = $1`, id))
	if err != nil {
		return health.WeightRecord{}, mapErr(err, "weight record")
	}
	return w, nil
}

func (r *HealthRepo) ListWeights(ctx context.Context, f health.WeightFilter) ([]health.WeightRecord, error) {
	var w where
	w.eq("cow_id", f.CowID)
	w.date("date_taken", f.Year, f.Month, f.Day)

	rows, err := r.db.QueryContext(ctx, `SELECT `+weightColumns+` FROM weight_records`+w.sql()+` ORDER BY created_at DESC`, w.args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanWeight)
}

func (r *HealthRepo) DeleteWeight(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM weight_records WHERE id = $1`, id)
	return affected(res, err, "weight record")
}

// -------------------------
// Cullings
// -------------------------

const cullingColumns = `id, cow_id, reason, notes, date_carried, created_at`

func scanCulling(s scanner) (health.CullingRecord, error) {
	var c health.CullingRecord
	err := s.Scan(&c.ID, &c.CowID, &c.Reason, &c.Notes, &c.DateCarried, &c.CreatedAt)
	return c, err
}

func (r *HealthRepo) CreateCulling(ctx context.Context, c health.CullingRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO culling_records (`+cullingColumns+`) VALUES ($1,$2,$3,$4,$5,$6)
	`, c.ID, c.CowID, c.Reason, c.Notes, c.DateCarried, c.CreatedAt)
	return mapErr(err, "culling record")
}

func (r *HealthRepo) GetCulling(ctx context.Context, id string) (health.CullingRecord, error) {
	c, err := scanCulling(r.db.QueryRowContext(ctx, `SELECT `+cullingColumns+` FROM culling_records WHERE id = $1`, id))
	if err != nil {
		return health.CullingRecord{}, mapErr(err, "culling record")
	}
	return c, nil
}

func (r *HealthRepo) ListCullings(ctx context.Context, f health.CullingFilter) ([]health.CullingRecord, error) {
	var w where
	w.eq("cow_id", f.CowID)
	w.eq("reason", string(f.Reason))
	w.date("date_carried", f.Year, f.Month, 0)

	rows, err := r.db.QueryContext(ctx, `SELECT `+cullingColumns+` FROM culling_records`+w.sql()+` ORDER BY created_at DESC`, w.args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCulling)
}

func (r *HealthRepo) DeleteCulling(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM culling_records WHERE id = $1`, id)
	return affected(res, err, "culling record")
}

// -------------------------
// Quarantines
// -------------------------

const quarantineColumns = `id, cow_id, reason, start_date, end_date, notes, created_at, updated_at`

func scanQuarantine(s scanner) (health.QuarantineRecord, error) {
	var q health.QuarantineRecord
	var end sql.NullTime
	if err := s.Scan(&q.ID, &q.CowID, &q.Reason, &q.StartDate, &end, &q.Notes, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return health.QuarantineRecord{}, err
	}
	q.EndDate = timePtr(end)
	return q, nil
}

func (r *HealthRepo) CreateQuarantine(ctx context.Context, q health.QuarantineRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO quarantine_records (`+quarantineColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, q.ID, q.CowID, q.Reason, q.StartDate, nullTime(q.EndDate), q.Notes, q.CreatedAt, q.UpdatedAt)
	return mapErr(err, "quarantine record")
}

func (r *HealthRepo) UpdateQuarantine(ctx context.Context, q health.QuarantineRecord) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE quarantine_records
		SET reason = $2, start_date = $3, end_date = $4, notes = $5, updated_at = $6
		WHERE id = $1
	`, q.ID, q.Reason, q.StartDate, nullTime(q.EndDate), q.Notes, q.UpdatedAt)
	return affected(res, err, "quarantine record")
}

func (r *HealthRepo) GetQuarantine(ctx context.Context, id string) (health.QuarantineRecord, error) {
	q, err := scanQuarantine(r.db.QueryRowContext(ctx, `SELECT `+quarantineColumns+` FROM quarantine_records WHERE id = $1`, id))
	if err != nil {
		return health.QuarantineRecord{}, mapErr(err, "quarantine record")
	}
	return q, nil
}

func (r *HealthRepo) ListQuarantines(ctx context.Context, f health.QuarantineFilter) ([]health.QuarantineRecord, error) {
	var w where
	w.eq("cow_id", f.CowID)
	w.eq("reason", string(f.Reason))
	w.date("start_date", f.Year, f.Month, 0)

	rows, err := r.db.QueryContext(ctx, `SELECT `+quarantineColumns+` FROM quarantine_records`+w.sql()+` ORDER BY start_date DESC`, w.args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanQuarantine)
}

func (r *HealthRepo) DeleteQuarantine(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM quarantine_records WHERE id = $1`, id)
	return affected(res, err, "quarantine record")
}

// -------------------------
// Taxonomía
// -------------------------

func (r *HealthRepo) CreatePathogen(ctx context.Context, p health.Pathogen) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO pathogens (id, name, created_at) VALUES ($1,$2,$3)`, p.ID, p.Name, p.CreatedAt)
	return mapErr(err, "pathogen")
}

func (r *HealthRepo) UpdatePathogen(ctx context.Context, p health.Pathogen) error {
	res, err := r.db.ExecContext(ctx, `UPDATE pathogens SET name = $2 WHERE id = $1`, p.ID, p.Name)
	return affected(res, err, "pathogen")
}

func (r *HealthRepo) GetPathogen(ctx context.Context, id string) (health.Pathogen, error) {
	var p health.Pathogen
	err := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM pathogens WHERE id = $1`, id).Scan(&p.ID, &p.Name, &p.CreatedAt)
	return p, mapErr(err, "pathogen")
}

func (r *HealthRepo) ListPathogens(ctx context.Context) ([]health.Pathogen, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM pathogens ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (health.Pathogen, error) {
		var p health.Pathogen
		err := s.Scan(&p.ID, &p.Name, &p.CreatedAt)
		return p, err
	})
}

func (r *HealthRepo) DeletePathogen(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pathogens WHERE id = $1`, id)
	return affected(res, err, "pathogen")
}

func (r *HealthRepo) CreateCategory(ctx context.Context, c health.DiseaseCategory) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO disease_categories (id, name, created_at) VALUES ($1,$2,$3)`, c.ID, c.Name, c.CreatedAt)
	return mapErr(err, "disease category")
}

func (r *HealthRepo) UpdateCategory(ctx context.Context, c health.DiseaseCategory) error {
	res, err := r.db.ExecContext(ctx, `UPDATE disease_categories SET name = $2 WHERE id = $1`, c.ID, c.Name)
	return affected(res, err, "disease category")
}

func (r *HealthRepo) GetCategory(ctx context.Context, id string) (health.DiseaseCategory, error) {
	var c health.DiseaseCategory
	err := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM disease_categories WHERE id = $1`, id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	return c, mapErr(err, "disease category")
}

func (r *HealthRepo) ListCategories(ctx context.Context) ([]health.DiseaseCategory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM disease_categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (health.DiseaseCategory, error) {
		var c health.DiseaseCategory
		err := s.Scan(&c.ID, &c.Name, &c.CreatedAt)
		return c, err
	})
}

func (r *HealthRepo) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM disease_categories WHERE id = $1`, id)
	return affected(res, err, "disease category")
}

const symptomColumns = `id, name, symptom_type, description, severity, location, date_observed, created_at`

func scanSymptom(s scanner) (health.Symptom, error) {
	var x health.Symptom
	err := s.Scan(&x.ID, &x.Name, &x.Type, &x.Description, &x.Severity, &x.Location, &x.DateObserved, &x.CreatedAt)
	return x, err
}

func (r *HealthRepo) CreateSymptom(ctx context.Context, x health.Symptom) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO symptoms (`+symptomColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, x.ID, x.Name, x.Type, x.Description, x.Severity, x.Location, x.DateObserved, x.CreatedAt)
	return mapErr(err, "symptom")
}

func (r *HealthRepo) UpdateSymptom(ctx context.Context, x health.Symptom) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE symptoms
		SET name = $2, symptom_type = $3, description = $4, severity = $5, location = $6, date_observed = $7
		WHERE id = $1
	`, x.ID, x.Name, x.Type, x.Description, x.Severity, x.Location, x.DateObserved)
	return affected(res, err, "symptom")
}

func (r *HealthRepo) GetSymptom(ctx context.Context, id string) (health.Symptom, error) {
	x, err := scanSymptom(r.db.QueryRowContext(ctx, `SELECT `+symptomColumns+` FROM symptoms WHERE id = $1`, id))
	if err != nil {
		return health.Symptom{}, mapErr(err, "symptom")
	}
	return x, nil
}

func (r *HealthRepo) ListSymptoms(ctx context.Context) ([]health.Symptom, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+symptomColumns+` FROM symptoms ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSymptom)
}

func (r *HealthRepo) DeleteSymptom(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM symptoms WHERE id = $1`, id)
	return affected(res, err, "symptom")
}
