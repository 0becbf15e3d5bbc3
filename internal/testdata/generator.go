package testdata

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jask/contacts/internal/database/repository"
)

// Upserter is the write side of the contact repository.
type Upserter interface {
	Upsert(ctx context.Context, c repository.Contact) error
}

var (
	firsts = []string{"Ada", "Grace", "Alan", "Linus", "Radia", "Ken", "", "Hedy", "Dennis", "Sophie"}
	lasts  = []string{"Lamarr", "Ritchie", "Wilson", "Perlman", "", "Torvalds", "Hopper", "Lamarr", "Wilson"}
)

// Contacts builds n random contacts. Last names repeat on purpose so ordering
// ties fall back to creation time, and some contacts have no name at all.
func Contacts(r *rand.Rand, n int) []repository.Contact {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]repository.Contact, 0, n)
	for i := 0; i < n; i++ {
		c := repository.Contact{
			ID:        uuid.NewString(),
			First:     firsts[r.Intn(len(firsts))],
			Last:      lasts[r.Intn(len(lasts))],
			Favorite:  r.Intn(5) == 0,
			CreatedAt: base.Add(time.Duration(r.Intn(1_000_000)) * time.Second),
		}
		if r.Intn(3) == 0 {
			c.Twitter = "@" + c.First
		}
		out = append(out, c)
	}
	return out
}

// Seed stores n random contacts and returns them in insertion order.
func Seed(ctx context.Context, store Upserter, r *rand.Rand, n int) ([]repository.Contact, error) {
	contacts := Contacts(r, n)
	for _, c := range contacts {
		if err := store.Upsert(ctx, c); err != nil {
			return nil, err
		}
	}
	return contacts, nil
}
