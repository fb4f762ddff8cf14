package sqlite

import (
	"context"
	"time"

	"github.com/openbracket/notes/internal/notes/domain"
	"github.com/openbracket/notes/internal/notes/store"
)

type notesRepo struct {
	q querier
}

func (r *notesRepo) CreateNote(ctx context.Context, n domain.Note) (domain.Note, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO notes (title, content, owner_username, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		n.Title, n.Content, n.OwnerUsername, now, now,
	)
	if err != nil {
		return domain.Note{}, mapConflict(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Note{}, err
	}

	n.ID = id
	n.CreatedAt = now
	n.UpdatedAt = now
	return n, nil
}

func (r *notesRepo) GetNoteByID(ctx context.Context, id int64) (domain.Note, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, title, content, owner_username, created_at, updated_at
		FROM notes
		WHERE id = ?`, id)

	var n domain.Note
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.OwnerUsername, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return domain.Note{}, mapNotFound(err)
	}
	return n, nil
}

func (r *notesRepo) ListNotesByOwner(ctx context.Context, username string) ([]domain.Note, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, title, content, owner_username, created_at, updated_at
		FROM notes
		WHERE owner_username = ?
		ORDER BY created_at DESC, id DESC`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Note
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.OwnerUsername, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notesRepo) UpdateNote(ctx context.Context, id int64, title, content string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE notes
		SET title = ?, content = ?, updated_at = ?
		WHERE id = ?`,
		title, content, time.Now().UTC(), id,
	)
	if err != nil {
		return mapConflict(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *notesRepo) DeleteNote(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *notesRepo) CountNotesByOwner(ctx context.Context, username string) (int64, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes WHERE owner_username = ?`, username)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
