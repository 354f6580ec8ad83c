package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/uptrace/bun"
)

type profileRecord struct {
	bun.BaseModel `bun:"table:client_profiles,alias:cp"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull"`
	Payload   string    `bun:"payload,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Repository snapshots profiles into a SQL table so the in-memory store can be restored on start.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateTable(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().Model((*profileRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create client_profiles: %w", err)
	}
	return nil
}

func (r *Repository) Save(ctx context.Context, p *Profile) error {
	return r.save(ctx, r.db, p)
}

// SaveAll writes every profile in one transaction.
func (r *Repository) SaveAll(ctx context.Context, profiles []*Profile) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, p := range profiles {
			if err := r.save(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) LoadAll(ctx context.Context) ([]*Profile, error) {
	var records []profileRecord
	if err := r.db.NewSelect().Model(&records).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select client_profiles: %w", err)
	}

	out := make([]*Profile, 0, len(records))
	for _, rec := range records {
		var p Profile
		if err := sonic.UnmarshalString(rec.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode profile %s: %w", rec.ID, err)
		}
		p.normalize()
		out = append(out, &p)
	}
	return out, nil
}

// Restore loads every saved profile into store and returns how many were loaded.
func (r *Repository) Restore(ctx context.Context, store *Store) (int, error) {
	profiles, err := r.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, p := range profiles {
		store.Put(p)
	}
	return len(profiles), nil
}

func (r *Repository) save(ctx context.Context, db bun.IDB, p *Profile) error {
	payload, err := sonic.MarshalString(p)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", p.ID, err)
	}
	rec := &profileRecord{
		ID:        p.ID,
		Name:      p.Name,
		Payload:   payload,
		UpdatedAt: p.UpdatedAt,
	}
	_, err = db.NewInsert().
		Model(rec).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("payload = EXCLUDED.payload").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.ID, err)
	}
	return nil
}
