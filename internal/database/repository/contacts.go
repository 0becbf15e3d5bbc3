package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNoRows is returned by Get and Delete when no contact has the given id.
var ErrNoRows = sql.ErrNoRows

// ContactRepo handles contacts.
type ContactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

const contactColumns = `id, first, last, avatar, twitter, notes, favorite, created_at`

func (r *ContactRepo) Upsert(ctx context.Context, c Contact) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO contacts(`+contactColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 first=excluded.first,
	 last=excluded.last,
	 avatar=excluded.avatar,
	 twitter=excluded.twitter,
	 notes=excluded.notes,
	 favorite=excluded.favorite;
	`, c.ID, c.First, c.Last, c.Avatar, c.Twitter, c.Notes, c.Favorite, c.CreatedAt.UnixNano())
	return err
}

// List returns every contact ordered by last name then creation time.
func (r *ContactRepo) List(ctx context.Context) ([]Contact, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY last, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContactRepo) Get(ctx context.Context, id string) (*Contact, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Delete removes the contact, returning ErrNoRows when nothing was deleted.
func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRows
	}
	return nil
}

func (r *ContactRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(s scanner) (Contact, error) {
	var (
		c       Contact
		created int64
	)
	if err := s.Scan(&c.ID, &c.First, &c.Last, &c.Avatar, &c.Twitter, &c.Notes, &c.Favorite, &created); err != nil {
		return Contact{}, err
	}
	c.CreatedAt = time.Unix(0, created).UTC()
	return c, nil
}
