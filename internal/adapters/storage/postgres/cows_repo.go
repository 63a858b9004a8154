package postgres

import (
	"context"
	"database/sql"

	"dairy-farm-management/internal/domain/cows"
)

type BreedsRepo struct {
	db *sql.DB
}

func NewBreedsRepo(db *sql.DB) *BreedsRepo {
	return &BreedsRepo{db: db}
}

func (r *BreedsRepo) CreateBreed(ctx context.Context, b cows.Breed) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO breeds (id, name, created_at) VALUES ($1,$2,$3)`,
		b.ID, b.Name, b.CreatedAt)
	return mapErr(err, "breed")
}

func (r *BreedsRepo) UpdateBreed(ctx context.Context, b cows.Breed) error {
	res, err := r.db.ExecContext(ctx, `UPDATE breeds SET name = $2 WHERE id = $1`, b.ID, b.Name)
	return affected(res, err, "breed")
}

func (r *BreedsRepo) GetBreedByID(ctx context.Context, id string) (cows.Breed, error) {
	var b cows.Breed
	err := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM breeds WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.CreatedAt)
	return b, mapErr(err, "breed")
}

// GetBreedByName compara sin distinguir mayúsculas.
func (r *BreedsRepo) GetBreedByName(ctx context.Context, name string) (cows.Breed, error) {
	var b cows.Breed
	err := r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM breeds WHERE lower(name) = lower($1)`, name).
		Scan(&b.ID, &b.Name, &b.CreatedAt)
	return b, mapErr(err, "breed")
}

func (r *BreedsRepo) ListBreeds(ctx context.Context) ([]cows.Breed, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM breeds ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (cows.Breed, error) {
		var b cows.Breed
		err := s.Scan(&b.ID, &b.Name, &b.CreatedAt)
		return b, err
	})
}

func (r *BreedsRepo) DeleteBreed(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM breeds WHERE id = $1`, id)
	return affected(res, err, "breed")
}

type CowsRepo struct {
	db *sql.DB
}

func NewCowsRepo(db *sql.DB) *CowsRepo {
	return &CowsRepo{db: db}
}

const cowColumns = `
	id, tag_number, name, breed_id,
	date_of_birth, gender,
	availability_status, current_pregnancy_status, category, current_production_status,
	date_of_death, is_bought, date_introduced_in_farm,
	sire_id, dam_id, notes,
	created_at, updated_at`

func scanCow(s scanner) (cows.Cow, error) {
	var c cows.Cow
	var death sql.NullTime
	var sire, dam sql.NullString
	if err := s.Scan(
		&c.ID,
		&c.TagNumber,
		&c.Name,
		&c.BreedID,
		&c.DateOfBirth,
		&c.Gender,
		&c.Availability,
		&c.PregnancyStatus,
		&c.Category,
		&c.ProductionStatus,
		&death,
		&c.IsBought,
		&c.DateIntroducedInFarm,
		&sire,
		&dam,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return cows.Cow{}, err
	}
	c.DateOfDeath = timePtr(death)
	c.SireID = sire.String
	c.DamID = dam.String
	return c, nil
}

func (r *CowsRepo) Create(ctx context.Context, c cows.Cow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cows (`+cowColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`,
		c.ID,
		c.TagNumber,
		c.Name,
		c.BreedID,
		c.DateOfBirth,
		c.Gender,
		c.Availability,
		c.PregnancyStatus,
		c.Category,
		c.ProductionStatus,
		nullTime(c.DateOfDeath),
		c.IsBought,
		c.DateIntroducedInFarm,
		nullString(c.SireID),
		nullString(c.DamID),
		c.Notes,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return mapErr(err, "cow")
}

func (r *CowsRepo) Update(ctx context.Context, c cows.Cow) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cows
		SET
			tag_number = $2,
			name = $3,
			breed_id = $4,
			date_of_birth = $5,
			gender = $6,
			availability_status = $7,
			current_pregnancy_status = $8,
			category = $9,
			current_production_status = $10,
			date_of_death = $11,
			is_bought = $12,
			date_introduced_in_farm = $13,
			sire_id = $14,
			dam_id = $15,
			notes = $16,
			updated_at = $17
		WHERE id = $1
	`,
		c.ID,
		c.TagNumber,
		c.Name,
		c.BreedID,
		c.DateOfBirth,
		c.Gender,
		c.Availability,
		c.PregnancyStatus,
		c.Category,
		c.ProductionStatus,
		nullTime(c.DateOfDeath),
		c.IsBought,
		c.DateIntroducedInFarm,
		nullString(c.SireID),
		nullString(c.DamID),
		c.Notes,
		c.UpdatedAt,
	)
	return affected(res, err, "cow")
}

func (r *CowsRepo) GetByID(ctx context.Context, id string) (cows.Cow, error) {
	c, err := scanCow(r.db.QueryRowContext(ctx, `SELECT `+cowColumns+` FROM cows WHERE id = $1`, id))
	if err != nil {
		return cows.Cow{}, mapErr(err, "cow")
	}
	return c, nil
}

func (r *CowsRepo) GetByTagNumber(ctx context.Context, tag string) (cows.Cow, error) {
	c, err := scanCow(r.db.QueryRowContext(ctx, `SELECT `+cowColumns+` FROM cows WHERE tag_number = $1`, tag))
	if err != nil {
		return cows.Cow{}, mapErr(err, "cow")
	}
	return c, nil
}

func (r *CowsRepo) List(ctx context.Context, f cows.ListFilter) ([]cows.Cow, error) {
	var w where
	w.eq("breed_id", f.BreedID)
	w.eq("gender", string(f.Gender))
	w.eq("availability_status", string(f.Availability))
	w.eq("category", string(f.Category))
	w.date("date_of_birth", f.BirthYear, 0, 0)

	rows, err := r.db.QueryContext(ctx, `SELECT `+cowColumns+` FROM cows`+w.sql()+` ORDER BY created_at ASC`, w.args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCow)
}

func (r *CowsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cows WHERE id = $1`, id)
	return affected(res, err, "cow")
}
