package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/nutriwell/go-admin/internal/identity"
	"github.com/nutriwell/go-admin/internal/runtimeconfig"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Record is the single-row persistence model behind the bun-backed store.
// The profile blob round-trips as JSON; the console never inspects it.
type Record struct {
	bun.BaseModel `bun:"table:admin_sessions,alias:as"`

	ID        uuid.UUID `bun:",pk,type:uuid"`
	Slot      string    `bun:"slot,notnull"`
	Token     string    `bun:"token,notnull"`
	Profile   string    `bun:"profile"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// BunStore persists the session in a local sqlite file (or shared postgres)
// so the operator stays logged in across console restarts.
type BunStore struct {
	db   *bun.DB
	slot string
}

// OpenDB opens the bun database for the configured session driver.
func OpenDB(driver, dsn string) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case runtimeconfig.SessionDriverSQLite:
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("session: open sqlite: %w", err)
		}
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case runtimeconfig.SessionDriverPostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("session: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("session: unsupported driver %q", driver)
	}
}

// NewBunStore wraps an open bun database. Slot defaults to DefaultSlot.
func NewBunStore(db *bun.DB, slot string) *BunStore {
	if strings.TrimSpace(slot) == "" {
		slot = DefaultSlot
	}
	return &BunStore{db: db, slot: slot}
}

// EnsureSchema creates the session table when missing.
func (s *BunStore) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	_, err := s.db.NewCreateTable().
		Model((*Record)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("session: ensure schema: %w", err)
	}
	return nil
}

func (s *BunStore) Token(ctx context.Context) (string, error) {
	record, err := s.load(ctx)
	if err != nil || record == nil {
		return "", err
	}
	return record.Token, nil
}

func (s *BunStore) SetToken(ctx context.Context, token string, profile *Profile) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	blob := ""
	if profile != nil {
		raw, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("session: encode profile: %w", err)
		}
		blob = string(raw)
	}

	record := &Record{
		ID:        identity.SessionUUID(s.slot),
		Slot:      s.slot,
		Token:     token,
		Profile:   blob,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (id) DO UPDATE").
		Set("token = EXCLUDED.token").
		Set("profile = EXCLUDED.profile").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("session: persist token: %w", err)
	}
	return nil
}

func (s *BunStore) Clear(ctx context.Context) error {
	if s.db == nil {
		return ErrStoreUnavailable
	}
	_, err := s.db.NewDelete().
		Model((*Record)(nil)).
		Where("id = ?", identity.SessionUUID(s.slot)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("session: clear token: %w", err)
	}
	return nil
}

func (s *BunStore) Profile(ctx context.Context) (*Profile, error) {
	record, err := s.load(ctx)
	if err != nil || record == nil || record.Profile == "" {
		return nil, err
	}
	profile := &Profile{}
	if err := json.Unmarshal([]byte(record.Profile), profile); err != nil {
		return nil, fmt.Errorf("session: decode profile: %w", err)
	}
	return profile, nil
}

func (s *BunStore) load(ctx context.Context) (*Record, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}
	record := &Record{}
	err := s.db.NewSelect().
		Model(record).
		Where("id = ?", identity.SessionUUID(s.slot)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: load record: %w", err)
	}
	return record, nil
}
