package postgres

import (
	"context"
	"database/sql"

	"dairy-farm-management/internal/domain/reproduction"
)

type ReproductionRepo struct {
	db *sql.DB
}

func NewReproductionRepo(db *sql.DB) *ReproductionRepo {
	return &ReproductionRepo{db: db}
}

// -------------------------
// Inseminators
// -------------------------

const inseminatorColumns = `
	id, first_name, last_name, phone_number, sex, company,
	license_number, notes, created_at, updated_at`

func scanInseminator(s scanner) (reproduction.Inseminator, error) {
	var i reproduction.Inseminator
	err := s.Scan(
		&i.ID,
		&i.FirstName,
		&i.LastName,
		&i.PhoneNumber,
		&i.Sex,
		&i.Company,
		&i.LicenseNumber,
		&i.Notes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (r *ReproductionRepo) CreateInseminator(ctx context.Context, i reproduction.Inseminator) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inseminators (`+inseminatorColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, i.ID, i.FirstName, i.LastName, i.PhoneNumber, i.Sex, i.Company, i.LicenseNumber, i.Notes, i.CreatedAt, i.UpdatedAt)
	return mapErr(err, "inseminator")
}

func (r *ReproductionRepo) UpdateInseminator(ctx context.Context, i reproduction.Inseminator) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inseminators
		SET first_name = $2, last_name = $3, phone_number = $4, sex = $5,
			company = $6, license_number = $7, notes = $8, updated_at = $9
		WHERE id = $1
	`, i.ID, i.FirstName, i.LastName, i.PhoneNumber, i.Sex, i.Company, i.LicenseNumber, i.Notes, i.UpdatedAt)
	return affected(res, err, "inseminator")
}

func (r *ReproductionRepo) GetInseminator(ctx context.Context, id string) (reproduction.Inseminator, error) {
	i, err := scanInseminator(r.db.QueryRowContext(ctx, `SELECT `+inseminatorColumns+` FROM inseminators WHERE id = $1`, id))
	if err != nil {
		return reproduction.Inseminator{}, mapErr(err, "inseminator")
	}
	return i, nil
}

func (r *ReproductionRepo) ListInseminators(ctx context.Context) ([]reproduction.Inseminator, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+inseminatorColumns+` FROM inseminators ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanInseminator)
}

func (r *ReproductionRepo) DeleteInseminator(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inseminators WHERE id = $1`, id)
	return affected(res, err, "inseminator")
}

// -------------------------
// Heats
// -------------------------

func scanHeat(s scanner) (reproduction.Heat, error) {
	var h reproduction.Heat
	err := s.Scan(&h.ID, &h.CowID, &h.ObservationTime)
	return h, err
}

func (r *ReproductionRepo) CreateHeat(ctx context.Context, h reproduction.Heat) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO heats (id, cow_id, observation_time) VALUES ($1,$2,$3)`,
		h.ID, h.CowID, h.ObservationTime)
	return mapErr(err, "heat record")
}

func (r *ReproductionRepo) GetHeat(ctx context.Context, id string) (reproduction.Heat, error) {
	h, err := scanHeat(r.db.QueryRowContext(ctx, `SELECT id, cow_id, observation_time FROM heats WHERE id = $1`, id))
	if err != nil {
		return reproduction.Heat{}, mapErr(err, "heat record")
	}
	return h, nil
}

func (r *ReproductionRepo) ListHeats(ctx context.Context, f reproduction.HeatFilter) ([]reproduction.Heat, error) {
	var w where
	w.eq("cow_id", f.CowID)
	w.date("observation_time", f.Year, f.Month, 0)

	rows, err := r.db.QueryContext(ctx, `SELECT id, cow_id, observation_time FROM heats`+w.sql()+` ORDER BY observation_time DESC`, w.args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanHeat)
}

func (r *ReproductionRepo) DeleteHeat(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM heats WHERE id = $1`, id)
	return affected(res, err, "heat record")
}

// -------------------------
// Inseminations
// -------------------------

const inseminationColumns = `
	id, cow_id, inseminator_id, date_of_insemination, success, notes,
	pregnancy_id, created_at, updated_at`

func scanInsemination(s scanner) (reproduction.Insemination, error) {
	var i reproduction.Insemination
	var preg sql.NullString
	if err := s.Scan(&i.ID, &i.CowID, &i.InseminatorID, &i.Date, &i.Success, &i.Notes, &preg, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return reproduction.Insemination{}, err
	}
	i.PregnancyID = preg.String
	return i, nil
}

func (r *ReproductionRepo) CreateInsemination(ctx context.Context, i reproduction.Insemination) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inseminations (`+inseminationColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, i.ID, i.CowID, i.InseminatorID, i.Date, i.Success, i.Notes, nullString(i.PregnancyID), i.CreatedAt, i.UpdatedAt)
	return mapErr(err, "insemination record")
}

func (r *ReproductionRepo) UpdateInsemination(ctx context.Context, i reproduction.Insemination) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inseminations
		SET inseminator_id = $2, date_of_insemination = $3, success = $4, notes = $5,
			pregnancy_id = $6, updated_at = $7
		WHERE id = $1
	`, i.ID, i.InseminatorID, i.Date, i.Success, i.Notes, nullString(i.PregnancyID), i.UpdatedAt)
	return affected(res, err, "insemination record")
}

func (r *ReproductionRepo) GetInsemination(ctx context.Context, id string) (reproduction.Insemination, error) {
	i, err := scanInsemination(r.db.QueryRowContext(ctx, `SELECT `+inseminationColumns+` FROM inseminations WHERE id = $1`, id))
	if err != nil {
		return reproduction.Insemination{}, mapErr(err, "insemination record")
	}
	return i, nil
}

func (r *ReproductionRepo) ListInseminations(ctx context.Context, f reproduction.InseminationFilter) ([]reproduction.Insemination, error) {
	var w where
	w.eq("cow_id", f.CowID)
	w.eq("inseminator_id", f.InseminatorID)
	if f.Success != nil {
		w.add("success = ?", *f.Success)
	}
	w.date("date_of_insemination", f.Year, f.Month, 0)

	rows, err := r.db.QueryContext(ctx, `SELECT `+inseminationColumns+` FROM inseminations`+w.sql()+` ORDER BY date_of_insemination DESC`, w.args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanInsemination)
}

func (r *ReproductionRepo) DeleteInsemination(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inseminations WHERE id = $1`, id)
	return affected(res, err, "insemination record")
}

// -------------------------
// Pregnancies
// -------------------------

const pregnancyColumns = `
	id, cow_id, start_date, date_of_calving, pregnancy_status,
	pregnancy_notes, calving_notes, pregnancy_scan_date, pregnancy_failed_date,
	pregnancy_outcome, created_at, updated_at`

func scanPregnancy(s scanner) (reproduction.Pregnancy, error) {
	var p reproduction.Pregnancy
	var calving, scan, failed sql.NullTime
	if err := s.Scan(
		&p.ID,
		&p.CowID,
		&p.StartDate,
		&calving,
		&p.Status,
		&p.Notes,
		&p.CalvingNotes,
		&scan,
		&failed,
		&p.Outcome,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return reproduction.Pregnancy{}, err
	}
	p.DateOfCalving = timePtr(calving)
	p.ScanDate = timePtr(scan)
	p.FailedDate = timePtr(failed)
	return p, nil
}

func (r *ReproductionRepo) CreatePregnancy(ctx context.Context, p reproduction.Pregnancy) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pregnancies (`+pregnancyColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		p.ID,
		p.CowID,
		p.StartDate,
		nullTime(p.DateOfCalving),
		p.Status,
		p.Notes,
		p.CalvingNotes,
		nullTime(p.ScanDate),
		nullTime(p.FailedDate),
		p.Outcome,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return mapErr(err, "pregnancy record")
}

func (r *ReproductionRepo) UpdatePregnancy(ctx context.Context, p reproduction.Pregnancy) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pregnancies
		SET
			start_date = $2,
			date_of_calving = $3,
			pregnancy_status = $4,
			pregnancy_notes = $5,
			calving_notes = $6,
			pregnancy_scan_date = $7,
			pregnancy_failed_date = $8,
			pregnancy_outcome = $9,
			updated_at = $10
		WHERE id = $1
	`,
		p.ID,
		p.StartDate,
		nullTime(p.DateOfCalving),
		p.Status,
		p.Notes,
		p.CalvingNotes,
		nullTime(p.ScanDate),
		nullTime(p.FailedDate),
		p.Outcome,
		p.UpdatedAt,
	)
	return affected(res, err, "pregnancy record")
}

func (r *ReproductionRepo) GetPregnancy(ctx context.Context, id string) (reproduction.Pregnancy, error) {
	p, err := scanPregnancy(r.db.QueryRowContext(ctx, `SELECT `+pregnancyColumns+` FROM pregnancies WHERE id = $1`, id))
	if err != nil {
		return reproduction.Pregnancy{}, mapErr(err, "pregnancy record")
	}
	return p, nil
}

func (r *ReproductionRepo) ListPregnancies(ctx context.Context, f reproduction.PregnancyFilter) ([]reproduction.Pregnancy, error) {
	var w where
	w.eq("cow_id", f.CowID)
	w.eq("pregnancy_status", string(f.Status))
	w.eq("pregnancy_outcome", string(f.Outcome))
	w.date("start_date", f.Year, f.Month, 0)

	rows, err := r.db.QueryContext(ctx, `SELECT `+pregnancyColumns+` FROM pregnancies`+w.sql()+` ORDER BY start_date DESC`, w.args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPregnancy)
}

func (r *ReproductionRepo) DeletePregnancy(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pregnancies WHERE id = $1`, id)
	return affected(res, err, "pregnancy record")
}
