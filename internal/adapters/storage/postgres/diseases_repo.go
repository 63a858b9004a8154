package postgres

import (
	"context"
	"database/sql"

	"dairy-farm-management/internal/domain/health"
)

const diseaseColumns = `id, name, pathogen_id, category_id, date_reported, occurrence_date, notes, created_at, updated_at`

func scanDisease(s scanner) (health.Disease, error) {
	var d health.Disease
	err := s.Scan(&d.ID, &d.Name, &d.PathogenID, &d.CategoryID, &d.DateReported, &d.OccurrenceDate, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// CreateDisease inserta la enfermedad y sus vínculos en una sola transacción.
func (r *HealthRepo) CreateDisease(ctx context.Context, d health.Disease) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO diseases (`+diseaseColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, d.ID, d.Name, d.PathogenID, d.CategoryID, d.DateReported, d.OccurrenceDate, d.Notes, d.CreatedAt, d.UpdatedAt)
		if err != nil {
			return mapErr(err, "disease")
		}
		return insertDiseaseLinks(ctx, tx, d)
	})
}

// UpdateDisease reemplaza los vínculos con vacas y síntomas.
func (r *HealthRepo) UpdateDisease(ctx context.Context, d health.Disease) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE diseases
			SET name = $2, pathogen_id = $3, category_id = $4, date_reported = $5,
				occurrence_date = $6, notes = $7, updated_at = $8
			WHERE id = $1
		`, d.ID, d.Name, d.PathogenID, d.CategoryID, d.DateReported, d.OccurrenceDate, d.Notes, d.UpdatedAt)
		if err := affected(res, err, "disease"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM disease_cows WHERE disease_id = $1`, d.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM disease_symptoms WHERE disease_id = $1`, d.ID); err != nil {
			return err
		}
		return insertDiseaseLinks(ctx, tx, d)
	})
}

func insertDiseaseLinks(ctx context.Context, tx *sql.Tx, d health.Disease) error {
	for _, cowID := range d.CowIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO disease_cows (disease_id, cow_id) VALUES ($1,$2)`, d.ID, cowID); err != nil {
			return mapErr(err, "disease cow")
		}
	}
	for _, symptomID := range d.SymptomIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO disease_symptoms (disease_id, symptom_id) VALUES ($1,$2)`, d.ID, symptomID); err != nil {
			return mapErr(err, "disease symptom")
		}
	}
	return nil
}

func (r *HealthRepo) GetDisease(ctx context.Context, id string) (health.Disease, error) {
	d, err := scanDisease(r.db.QueryRowContext(ctx, `SELECT `+diseaseColumns+` FROM diseases WHERE id = $1`, id))
	if err != nil {
		return health.Disease{}, mapErr(err, "disease")
	}
	if err := r.loadLinks(ctx, &d); err != nil {
		return health.Disease{}, err
	}
	return d, nil
}

func (r *HealthRepo) ListDiseases(ctx context.Context, f health.DiseaseFilter) ([]health.Disease, error) {
	var w where
	if f.Name != "" {
		w.add("name ILIKE ?", "%"+f.Name+"%")
	}
	w.eq("pathogen_id", f.PathogenID)
	w.eq("category_id", f.CategoryID)
	if f.CowID != "" {
		w.add("EXISTS (SELECT 1 FROM disease_cows dc WHERE dc.disease_id = diseases.id AND dc.cow_id = ?)", f.CowID)
	}
	if f.SymptomID != "" {
		w.add("EXISTS (SELECT 1 FROM disease_symptoms ds WHERE ds.disease_id = diseases.id AND ds.symptom_id = ?)", f.SymptomID)
	}
	w.date("occurrence_date", f.Year, f.Month, 0)

	rows, err := r.db.QueryContext(ctx, `SELECT `+diseaseColumns+` FROM diseases`+w.sql()+` ORDER BY occurrence_date DESC`, w.args...)
	if err != nil {
		return nil, err
	}
	out, err := collect(rows, scanDisease)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadLinks(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *HealthRepo) loadLinks(ctx context.Context, d *health.Disease) error {
	var err error
	d.CowIDs, err = r.ids(ctx, `SELECT cow_id FROM disease_cows WHERE disease_id = $1 ORDER BY cow_id`, d.ID)
	if err != nil {
		return err
	}
	d.SymptomIDs, err = r.ids(ctx, `SELECT symptom_id FROM disease_symptoms WHERE disease_id = $1 ORDER BY symptom_id`, d.ID)
	return err
}

func (r *HealthRepo) ids(ctx context.Context, query, id string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (string, error) {
		var v string
		err := s.Scan(&v)
		return v, err
	})
}

// DeleteDisease: los vínculos caen por ON DELETE CASCADE.
func (r *HealthRepo) DeleteDisease(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM diseases WHERE id = $1`, id)
	return affected(res, err, "disease")
}

func (r *HealthRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// -------------------------
// Recoveries
// -------------------------

const recoveryColumns = `id, cow_id, disease_id, diagnosis_date, recovery_date, created_at, updated_at`

func scanRecovery(s scanner) (health.Recovery, error) {
	var x health.Recovery
	var rec sql.NullTime
	if err := s.Scan(&x.ID, &x.CowID, &x.DiseaseID, &x.DiagnosisDate, &rec, &x.CreatedAt, &x.UpdatedAt); err != nil {
		return health.Recovery{}, err
	}
	x.RecoveryDate = timePtr(rec)
	return x, nil
}

func (r *HealthRepo) CreateRecovery(ctx context.Context, x health.Recovery) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recoveries (`+recoveryColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, x.ID, x.CowID, x.DiseaseID, x.DiagnosisDate, nullTime(x.RecoveryDate), x.CreatedAt, x.UpdatedAt)
	return mapErr(err, "recovery")
}

func (r *HealthRepo) UpdateRecovery(ctx context.Context, x health.Recovery) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE recoveries SET diagnosis_date = $2, recovery_date = $3, updated_at = $4 WHERE id = $1
	`, x.ID, x.DiagnosisDate, nullTime(x.RecoveryDate), x.UpdatedAt)
	return affected(res, err, "recovery")
}

func (r *HealthRepo) GetRecovery(ctx context.Context, id string) (health.Recovery, error) {
	x, err := scanRecovery(r.db.QueryRowContext(ctx, `SELECT `+recoveryColumns+` FROM recoveries WHERE id = $1`, id))
	if err != nil {
		return health.Recovery{}, mapErr(err, "recovery")
	}
	return x, nil
}

func (r *HealthRepo) ListRecoveries(ctx context.Context, f health.RecoveryFilter) ([]health.Recovery, error) {
	var w where
	w.eq("cow_id", f.CowID)
	w.eq("disease_id", f.DiseaseID)

	rows, err := r.db.QueryContext(ctx, `SELECT `+recoveryColumns+` FROM recoveries`+w.sql()+` ORDER BY created_at ASC`, w.args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanRecovery)
}

func (r *HealthRepo) DeleteRecovery(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recoveries WHERE id = $1`, id)
	return affected(res, err, "recovery")
}

// -------------------------
// Treatments
// -------------------------

const treatmentColumns = `
	id, disease_id, cow_id, date_of_treatment, treatment_method, notes,
	treatment_status, completion_date, created_at, updated_at`

func scanTreatment(s scanner) (health.Treatment, error) {
	var t health.Treatment
	var done sql.NullTime
	if err := s.Scan(
		&t.ID,
		&t.DiseaseID,
		&t.CowID,
		&t.DateOfTreatment,
		&t.Method,
		&t.Notes,
		&t.Status,
		&done,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return health.Treatment{}, err
	}
	t.CompletionDate = timePtr(done)
	return t, nil
}

func (r *HealthRepo) CreateTreatment(ctx context.Context, t health.Treatment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO treatments (`+treatmentColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, t.ID, t.DiseaseID, t.CowID, t.DateOfTreatment, t.Method, t.Notes, t.Status, nullTime(t.CompletionDate), t.CreatedAt, t.UpdatedAt)
	return mapErr(err, "treatment")
}

func (r *HealthRepo) UpdateTreatment(ctx context.Context, t health.Treatment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE treatments
		SET date_of_treatment = $2, treatment_method = $3, notes = $4,
			treatment_status = $5, completion_date = $6, updated_at = $7
		WHERE id = $1
	`, t.ID, t.DateOfTreatment, t.Method, t.Notes, t.Status, nullTime(t.CompletionDate), t.UpdatedAt)
	return affected(res, err, "treatment")
}

func (r *HealthRepo) GetTreatment(ctx context.Context, id string) (health.Treatment, error) {
	t, err := scanTreatment(r.db.QueryRowContext(ctx, `SELECT `+treatmentColumns+` FROM treatments WHERE id = $1`, id))
	if err != nil {
		return health.Treatment{}, mapErr(err, "treatment")
	}
	return t, nil
}

func (r *HealthRepo) ListTreatments(ctx context.Context, f health.TreatmentFilter) ([]health.Treatment, error) {
	var w where
	w.eq("cow_id", f.CowID)
	w.eq("disease_id", f.DiseaseID)
	w.eq("treatment_status", string(f.Status))

	rows, err := r.db.QueryContext(ctx, `SELECT `+treatmentColumns+` FROM treatments`+w.sql()+` ORDER BY created_at DESC`, w.args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTreatment)
}

func (r *HealthRepo) DeleteTreatment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM treatments WHERE id = $1`, id)
	return affected(res, err, "treatment")
}
