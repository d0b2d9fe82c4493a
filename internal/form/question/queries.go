package question

import (
	"context"
	"encoding/json"
	"fmt"

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

const questionColumns = `id, section_id, type, title, description, required, "order", options, validation, created_at, updated_at`

func scanQuestion(row pgx.Row) (Question, error) {
	var q Question
	var validation []byte
	err := row.Scan(
		&q.ID,
		&q.SectionID,
		&q.Type,
		&q.Title,
		&q.Description,
		&q.Required,
		&q.Order,
		&q.Options,
		&validation,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return Question{}, err
	}

	if len(validation) > 0 {
		var rule Rule
		if err := json.Unmarshal(validation, &rule); err != nil {
			return Question{}, fmt.Errorf("invalid validation rule in storage for question %s: %w", q.ID, err)
		}
		q.Validation = &rule
	}

	return q, nil
}

func marshalRule(rule *Rule) ([]byte, error) {
	if rule == nil {
		return nil, nil
	}
	return json.Marshal(rule)
}

type CreateParams struct {
	SectionID   uuid.UUID
	Type        QuestionType
	Title       string
	Description string
	Required    bool
	Order       int32
	Options     json.RawMessage
	Validation  *Rule
}

func (q *Queries) Create(ctx context.Context, arg CreateParams) (Question, error) {
	validation, err := marshalRule(arg.Validation)
	if err != nil {
		return Question{}, err
	}

	row := q.db.QueryRow(ctx, `
		INSERT INTO questions (section_id, type, title, description, required, "order", options, validation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+questionColumns,
		arg.SectionID, arg.Type, arg.Title, arg.Description, arg.Required, arg.Order, arg.Options, validation)
	return scanQuestion(row)
}

type UpdateParams struct {
	ID          uuid.UUID
	SectionID   uuid.UUID
	Type        QuestionType
	Title       string
	Description string
	Required    bool
	Options     json.RawMessage
	Validation  *Rule
}

func (q *Queries) Update(ctx context.Context, arg UpdateParams) (Question, error) {
	validation, err := marshalRule(arg.Validation)
	if err != nil {
		return Question{}, err
	}

	row := q.db.QueryRow(ctx, `
		UPDATE questions
		SET type = $3, title = $4, description = $5, required = $6, options = $7, validation = $8, updated_at = now()
		WHERE id = $1 AND section_id = $2
		RETURNING `+questionColumns,
		arg.ID, arg.SectionID, arg.Type, arg.Title, arg.Description, arg.Required, arg.Options, validation)
	return scanQuestion(row)
}

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (Question, error) {
	row := q.db.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	return scanQuestion(row)
}

func (q *Queries) ListBySectionID(ctx context.Context, sectionID uuid.UUID) ([]Question, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+questionColumns+`
		FROM questions
		WHERE section_id = $1
		ORDER BY "order"`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Question
	for rows.Next() {
		item, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func (q *Queries) CountBySectionID(ctx context.Context, sectionID uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM questions WHERE section_id = $1`, sectionID).Scan(&count)
	return count, err
}

func (q *Queries) SectionExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sections WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

type SetOrderParams struct {
	ID        uuid.UUID
	SectionID uuid.UUID
	Order     int32
}

// SetOrder moves a question to a new position and shifts its neighbours in
// the same section to keep the order column dense.
func (q *Queries) SetOrder(ctx context.Context, arg SetOrderParams) (Question, error) {
	var current int32
	err := q.db.QueryRow(ctx, `SELECT "order" FROM questions WHERE id = $1 AND section_id = $2`, arg.ID, arg.SectionID).Scan(&current)
	if err != nil {
		return Question{}, err
	}

	if current < arg.Order {
		_, err = q.db.Exec(ctx, `
			UPDATE questions SET "order" = "order" - 1
			WHERE section_id = $1 AND "order" > $2 AND "order" <= $3`,
			arg.SectionID, current, arg.Order)
	} else if current > arg.Order {
		_, err = q.db.Exec(ctx, `
			UPDATE questions SET "order" = "order" + 1
			WHERE section_id = $1 AND "order" >= $3 AND "order" < $2`,
			arg.SectionID, current, arg.Order)
	}
	if err != nil {
		return Question{}, err
	}

	row := q.db.QueryRow(ctx, `
		UPDATE questions SET "order" = $3, updated_at = now()
		WHERE id = $1 AND section_id = $2
		RETURNING `+questionColumns,
		arg.ID, arg.SectionID, arg.Order)
	return scanQuestion(row)
}

type DeleteAndReorderParams struct {
	ID        uuid.UUID
	SectionID uuid.UUID
}

// DeleteAndReorder removes a question and closes the gap it leaves in the
// section's order sequence.
func (q *Queries) DeleteAndReorder(ctx context.Context, arg DeleteAndReorderParams) error {
	var deletedOrder int32
	err := q.db.QueryRow(ctx, `
		DELETE FROM questions WHERE id = $1 AND section_id = $2
		RETURNING "order"`, arg.ID, arg.SectionID).Scan(&deletedOrder)
	if err != nil {
		return err
	}

	_, err = q.db.Exec(ctx, `
		UPDATE questions SET "order" = "order" - 1
		WHERE section_id = $1 AND "order" > $2`,
		arg.SectionID, deletedOrder)
	return err
}
