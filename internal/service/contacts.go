package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/contacts/internal/database/repository"
)

// ErrNotFound is returned when a contact id does not exist.
var ErrNotFound = errors.New("contact not found")

// ContactStore is the persistence the service needs. *repository.ContactRepo satisfies it.
type ContactStore interface {
	List(ctx context.Context) ([]repository.Contact, error)
	Get(ctx context.Context, id string) (*repository.Contact, error)
	Upsert(ctx context.Context, c repository.Contact) error
	Delete(ctx context.Context, id string) error
}

// ContactService is the data-access module behind the loaders and actions.
type ContactService struct {
	Contacts ContactStore
	// Latency delays every call, to make pending navigation states observable.
	Latency time.Duration
	Log     *zap.Logger
}

// ContactUpdate carries the fields an edit changes. Nil fields are left alone.
type ContactUpdate struct {
	First    *string
	Last     *string
	Avatar   *string
	Twitter  *string
	Notes    *string
	Favorite *bool
}

// List returns the contacts matching query, sorted by last name then creation time.
// An empty query returns everything.
func (s *ContactService) List(ctx context.Context, query string) ([]repository.Contact, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	all, err := s.Contacts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	out := all
	if q := strings.TrimSpace(query); q != "" {
		out = make([]repository.Contact, 0, len(all))
		for _, c := range all {
			if RankContact(c, q) > NoMatch {
				out = append(out, c)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b repository.Contact) int {
		if c := strings.Compare(a.Last, b.Last); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	s.logger().Debug("contacts listed", zap.String("query", query), zap.Int("count", len(out)))
	return out, nil
}

func (s *ContactService) Get(ctx context.Context, id string) (repository.Contact, error) {
	if err := s.wait(ctx); err != nil {
		return repository.Contact{}, err
	}
	c, err := s.Contacts.Get(ctx, id)
	if err != nil {
		return repository.Contact{}, fmt.Errorf("get contact %s: %w", id, err)
	}
	if c == nil {
		return repository.Contact{}, fmt.Errorf("contact %s: %w", id, ErrNotFound)
	}
	return *c, nil
}

// Create stores an empty contact and returns it.
func (s *ContactService) Create(ctx context.Context) (repository.Contact, error) {
	if err := s.wait(ctx); err != nil {
		return repository.Contact{}, err
	}
	c := repository.Contact{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	if err := s.Contacts.Upsert(ctx, c); err != nil {
		return repository.Contact{}, fmt.Errorf("create contact: %w", err)
	}
	s.logger().Info("contact created", zap.String("id", c.ID))
	return c, nil
}

func (s *ContactService) Update(ctx context.Context, id string, u ContactUpdate) (repository.Contact, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return repository.Contact{}, err
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&c.First, u.First)
	set(&c.Last, u.Last)
	set(&c.Avatar, u.Avatar)
	set(&c.Twitter, u.Twitter)
	if u.Notes != nil {
		c.Notes = *u.Notes
	}
	if u.Favorite != nil {
		c.Favorite = *u.Favorite
	}
	if err := s.Contacts.Upsert(ctx, c); err != nil {
		return repository.Contact{}, fmt.Errorf("update contact %s: %w", id, err)
	}
	s.logger().Info("contact updated", zap.String("id", id))
	return c, nil
}

// Delete removes the contact. Unknown ids yield ErrNotFound.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	if err := s.Contacts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return fmt.Errorf("delete contact %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete contact %s: %w", id, err)
	}
	s.logger().Info("contact deleted", zap.String("id", id))
	return nil
}

func (s *ContactService) wait(ctx context.Context) error {
	if s.Latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *ContactService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
