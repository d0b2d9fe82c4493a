package response

import (
	"context"
	"encoding/json"
	"fmt"

	"formforge/backend/internal/form/answer"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) Create(ctx context.Context, formID uuid.UUID) (Response, error) {
	var r Response
	err := q.db.QueryRow(ctx, `
		INSERT INTO responses (form_id)
		VALUES ($1)
		RETURNING id, form_id, submitted_at`, formID).
		Scan(&r.ID, &r.FormID, &r.SubmittedAt)
	return r, err
}

type InsertItemParams struct {
	ResponseID uuid.UUID
	QuestionID uuid.UUID
	Value      answer.Value
}

// InsertItems writes all items in one batch round trip.
func (q *Queries) InsertItems(ctx context.Context, items []InsertItemParams) error {
	batch := &pgx.Batch{}
	for _, item := range items {
		value, err := json.Marshal(item.Value)
		if err != nil {
			return fmt.Errorf("encode answer for question %s: %w", item.QuestionID, err)
		}
		batch.Queue(`
			INSERT INTO response_items (response_id, question_id, value)
			VALUES ($1, $2, $3)`,
			item.ResponseID, item.QuestionID, value)
	}

	results := q.db.SendBatch(ctx, batch)
	defer func() {
		_ = results.Close()
	}()

	for range items {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (q *Queries) GetByID(ctx context.Context, id uuid.UUID) (Response, error) {
	var r Response
	err := q.db.QueryRow(ctx, `
		SELECT id, form_id, submitted_at FROM responses WHERE id = $1`, id).
		Scan(&r.ID, &r.FormID, &r.SubmittedAt)
	return r, err
}

func (q *Queries) ListByFormID(ctx context.Context, formID uuid.UUID) ([]Response, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, form_id, submitted_at
		FROM responses
		WHERE form_id = $1
		ORDER BY submitted_at`, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Response
	for rows.Next() {
		var r Response
		if err := rows.Scan(&r.ID, &r.FormID, &r.SubmittedAt); err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (q *Queries) ListItemsByResponseID(ctx context.Context, responseID uuid.UUID) ([]Item, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, response_id, question_id, value, created_at
		FROM response_items
		WHERE response_id = $1
		ORDER BY created_at, id`, responseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Item
	for rows.Next() {
		var item Item
		var value []byte
		if err := rows.Scan(&item.ID, &item.ResponseID, &item.QuestionID, &value, &item.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(value, &item.Value); err != nil {
			return nil, fmt.Errorf("decode stored answer %s: %w", item.ID, err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func (q *Queries) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM responses WHERE id = $1`, id)
	return err
}

func (q *Queries) FormExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM forms WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
