package form

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

const formColumns = `id, title, description, slug, status, created_at, updated_at`

func scanForm(row pgx.Row) (Form, error) {
	var f Form
	err := row.Scan(&f.ID, &f.Title, &f.Description, &f.Slug, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

type CreateParams struct {
	Title       string
	Description string
	Slug        string
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Form, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO forms (title, description, slug, status)
		VALUES ($1, $2, $3, 'draft')
		RETURNING `+formColumns,
		arg.Title, arg.Description, arg.Slug)
	return scanForm(row)
}

type UpdateParams struct {
	ID          uuid.UUID
	Title       string
	Description string
	Slug        string
}

func (q *Queries) Update(ctx context.Context, arg UpdateParams) (Form, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE forms
		SET title = $2, description = $3, slug = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+formColumns,
		arg.ID, arg.Title, arg.Description, arg.Slug)
	return scanForm(row)
}

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (Form, error) {
	return scanForm(q.db.QueryRow(ctx, `SELECT `+formColumns+` FROM forms WHERE id = $1`, id))
}

func (q *Queries) GetBySlug(ctx context.Context, slug string) (Form, error) {
	return scanForm(q.db.QueryRow(ctx, `SELECT `+formColumns+` FROM forms WHERE slug = $1`, slug))
}

func (q *Queries) List(ctx context.Context) ([]Form, error) {
	rows, err := q.db.Query(ctx, `SELECT `+formColumns+` FROM forms ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Form
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

type SetStatusParams struct {
	ID     uuid.UUID
	Status Status
}

func (q *Queries) SetStatus(ctx context.Context, arg SetStatusParams) (Form, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE forms SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+formColumns,
		arg.ID, arg.Status)
	return scanForm(row)
}

func (q *Queries) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM forms WHERE id = $1`, id)
	return err
}

const sectionColumns = `id, form_id, title, description, "order", created_at, updated_at`

func scanSection(row pgx.Row) (Section, error) {
	var s Section
	err := row.Scan(&s.ID, &s.FormID, &s.Title, &s.Description, &s.Order, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

type CreateSectionParams struct {
	FormID      uuid.UUID
	Title       string
	Description string
}

// CreateSection appends the section after the form's existing sections.
func (q *Queries) CreateSection(ctx context.Context, arg CreateSectionParams) (Section, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO sections (form_id, title, description, "order")
		VALUES ($1, $2, $3, (SELECT count(*) + 1 FROM sections WHERE form_id = $1))
		RETURNING `+sectionColumns,
		arg.FormID, arg.Title, arg.Description)
	return scanSection(row)
}

type UpdateSectionParams struct {
	ID          uuid.UUID
	FormID      uuid.UUID
	Title       string
	Description string
}

func (q *Queries) UpdateSection(ctx context.Context, arg UpdateSectionParams) (Section, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE sections
		SET title = $3, description = $4, updated_at = now()
		WHERE id = $1 AND form_id = $2
		RETURNING `+sectionColumns,
		arg.ID, arg.FormID, arg.Title, arg.Description)
	return scanSection(row)
}

func (q *Queries) ListSectionsByFormID(ctx context.Context, formID uuid.UUID) ([]Section, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+sectionColumns+`
		FROM sections
		WHERE form_id = $1
		ORDER BY "order"`, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// DeleteSection removes a section and closes the order gap it leaves.
func (q *Queries) DeleteSection(ctx context.Context, formID uuid.UUID, id uuid.UUID) error {
	var deletedOrder int32
	err := q.db.QueryRow(ctx, `
		DELETE FROM sections WHERE id = $1 AND form_id = $2
		RETURNING "order"`, id, formID).Scan(&deletedOrder)
	if err != nil {
		return err
	}

	_, err = q.db.Exec(ctx, `
		UPDATE sections SET "order" = "order" - 1
		WHERE form_id = $1 AND "order" > $2`,
		formID, deletedOrder)
	return err
}

func (q *Queries) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM forms WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
