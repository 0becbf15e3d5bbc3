package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jask/contacts/internal/database/repository"
)

//go:embed seed/contacts.yaml
var defaultRoster []byte

// seedFile is the on-disk shape shared by the yaml and toml rosters.
type seedFile struct {
	Contacts []seedContact `yaml:"contacts" toml:"contacts"`
}

type seedContact struct {
	ID       string `yaml:"id" toml:"id"`
	First    string `yaml:"first" toml:"first"`
	Last     string `yaml:"last" toml:"last"`
	Avatar   string `yaml:"avatar" toml:"avatar"`
	Twitter  string `yaml:"twitter" toml:"twitter"`
	Notes    string `yaml:"notes" toml:"notes"`
	Favorite bool   `yaml:"favorite" toml:"favorite"`
}

// SeedDefaults inserts the built-in roster when the contacts table is empty.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) (int, error) {
	repo := repository.NewContactRepo(db)
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	var f seedFile
	if err := yaml.Unmarshal(defaultRoster, &f); err != nil {
		return 0, fmt.Errorf("decode default roster: %w", err)
	}
	return Seed(ctx, db, toContacts(f.Contacts))
}

// Seed upserts contacts in one transaction and returns how many were written.
// Ids must be unique within contacts and must not contain "/".
func Seed(ctx context.Context, db *sql.DB, contacts []repository.Contact) (int, error) {
	seen := make(map[string]int, len(contacts))
	for i, c := range contacts {
		if c.ID == "" || strings.Contains(c.ID, "/") {
			return 0, fmt.Errorf("seed entry %d: invalid id %q", i, c.ID)
		}
		if j, dup := seen[c.ID]; dup {
			return 0, fmt.Errorf("seed entries %d and %d share id %q", j, i, c.ID)
		}
		seen[c.ID] = i
	}
	err := WithTx(db, func(tx *sql.Tx) error {
		for _, c := range contacts {
			_, err := tx.ExecContext(ctx, `
			INSERT INTO contacts(id, first, last, avatar, twitter, notes, favorite, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
			 first=excluded.first, last=excluded.last, avatar=excluded.avatar,
			 twitter=excluded.twitter, notes=excluded.notes, favorite=excluded.favorite;
			`, c.ID, c.First, c.Last, c.Avatar, c.Twitter, c.Notes, c.Favorite, c.CreatedAt.UnixNano())
			if err != nil {
				return fmt.Errorf("seed %s: %w", c.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(contacts), nil
}

// LoadSeedFile reads a roster from a .yaml, .yml or .toml file.
func LoadSeedFile(path string) ([]repository.Contact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f seedFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".toml":
		err = toml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("unsupported roster format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return toContacts(f.Contacts), nil
}

func toContacts(in []seedContact) []repository.Contact {
	base := Now()
	out := make([]repository.Contact, 0, len(in))
	for i, sc := range in {
		id := strings.TrimSpace(sc.ID)
		if id == "" {
			key := fmt.Sprintf("contact:%d:%s %s", i, sc.First, sc.Last)
			id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
		}
		out = append(out, repository.Contact{
			ID:        id,
			First:     strings.TrimSpace(sc.First),
			Last:      strings.TrimSpace(sc.Last),
			Avatar:    strings.TrimSpace(sc.Avatar),
			Twitter:   strings.TrimSpace(sc.Twitter),
			Notes:     strings.TrimRight(sc.Notes, "\n"),
			Favorite:  sc.Favorite,
			CreatedAt: base.Add(time.Duration(i)),
		})
	}
	return out
}
