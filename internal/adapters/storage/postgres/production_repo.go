package postgres

import (
	"context"
	"database/sql"

	"dairy-farm-management/internal/domain/production"
)

type ProductionRepo struct {
	db *sql.DB
}

func NewProductionRepo(db *sql.DB) *ProductionRepo {
	return &ProductionRepo{db: db}
}

const lactationColumns = `id, cow_id, start_date, end_date, lactation_number, pregnancy_id, created_at, updated_at`

func scanLactation(s scanner) (production.Lactation, error) {
	var l production.Lactation
	var end sql.NullTime
	var preg sql.NullString
	if err := s.Scan(&l.ID, &l.CowID, &l.StartDate, &end, &l.Number, &preg, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return production.Lactation{}, err
	}
	l.EndDate = timePtr(end)
	l.PregnancyID = preg.String
	return l, nil
}

func (r *ProductionRepo) CreateLactation(ctx context.Context, l production.Lactation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lactations (`+lactationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, l.ID, l.CowID, l.StartDate, nullTime(l.EndDate), l.Number, nullString(l.PregnancyID), l.CreatedAt, l.UpdatedAt)
	return mapErr(err, "lactation")
}

func (r *ProductionRepo) UpdateLactation(ctx context.Context, l production.Lactation) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE lactations
		SET start_date = $2, end_date = $3, lactation_number = $4, pregnancy_id = $5, updated_at = $6
		WHERE id = $1
	`, l.ID, l.StartDate, nullTime(l.EndDate), l.Number, nullString(l.PregnancyID), l.UpdatedAt)
	return affected(res, err, "lactation")
}

func (r *ProductionRepo) GetLactation(ctx context.Context, id string) (production.Lactation, error) {
	l, err := scanLactation(r.db.QueryRowContext(ctx, `SELECT `+lactationColumns+` FROM lactations WHERE id = $1`, id))
	if err != nil {
		return production.Lactation{}, mapErr(err, "lactation")
	}
	return l, nil
}

func (r *ProductionRepo) ListLactations(ctx context.Context, f production.LactationFilter) ([]production.Lactation, error) {
	var w where
	w.eq("cow_id", f.CowID)
	if f.Open != nil {
		if *f.Open {
			w.conds = append(w.conds, "end_date IS NULL")
		} else {
			w.conds = append(w.conds, "end_date IS NOT NULL")
		}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+lactationColumns+` FROM lactations`+w.sql()+`
		ORDER BY cow_id ASC, lactation_number ASC
	`, w.args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanLactation)
}

func (r *ProductionRepo) DeleteLactation(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lactations WHERE id = $1`, id)
	return affected(res, err, "lactation")
}

const milkColumns = `id, cow_id, lactation_id, milking_date, session, amount_in_kgs, notes, created_at, updated_at`

func scanMilk(s scanner) (production.Milk, error) {
	var m production.Milk
	err := s.Scan(&m.ID, &m.CowID, &m.LactationID, &m.MilkingDate, &m.Session, &m.AmountKgs, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *ProductionRepo) CreateMilk(ctx context.Context, m production.Milk) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO milk_records (`+milkColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, m.ID, m.CowID, m.LactationID, m.MilkingDate, m.Session, m.AmountKgs, m.Notes, m.CreatedAt, m.UpdatedAt)
	return mapErr(err, "milk record")
}

func (r *ProductionRepo) UpdateMilk(ctx context.Context, m production.Milk) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE milk_records
		SET lactation_id = $2, milking_date = $3, session = $4, amount_in_kgs = $5, notes = $6, updated_at = $7
		WHERE id = $1
	`, m.ID, m.LactationID, m.MilkingDate, m.Session, m.AmountKgs, m.Notes, m.UpdatedAt)
	return affected(res, err, "milk record")
}

func (r *ProductionRepo) GetMilk(ctx context.Context, id string) (production.Milk, error) {
	m, err := scanMilk(r.db.QueryRowContext(ctx, `SELECT `+milkColumns+` FROM milk_records WHERE id = $1`, id))
	if err != nil {
		return production.Milk{}, mapErr(err, "milk record")
	}
	return m, nil
}

func (r *ProductionRepo) ListMilk(ctx context.Context, f production.MilkFilter) ([]production.Milk, error) {
	var w where
	w.eq("cow_id", f.CowID)
	w.eq("lactation_id", f.LactationID)
	w.date("milking_date", f.Year, f.Month, f.Day)

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+milkColumns+` FROM milk_records`+w.sql()+`
		ORDER BY milking_date DESC, created_at DESC
	`, w.args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanMilk)
}

func (r *ProductionRepo) DeleteMilk(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM milk_records WHERE id = $1`, id)
	return affected(res, err, "milk record")
}
