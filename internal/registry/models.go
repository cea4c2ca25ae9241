// Package registry persists named, versioned grammar sources (the textual
// form of a rule table, spec §4.3) in Postgres and compiles them into
// metagrammar.Table values on demand.
package registry

import (
	"context"
	"time"
)

// GrammarRecord is one named, versioned grammar source as stored in the
// registry. Source holds the textual sigil-DSL form (§4.3), compiled with
// metagrammar.CompileText on first use.
type GrammarRecord struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Source    string    `db:"source" json:"source"`
	Version   string    `db:"version" json:"version"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Repository provides database access to grammar records.
type Repository interface {
	Create(ctx context.Context, rec *GrammarRecord) error
	Get(ctx context.Context, id string) (*GrammarRecord, error)
	GetByName(ctx context.Context, name string) (*GrammarRecord, error)
	List(ctx context.Context, activeOnly bool) ([]*GrammarRecord, error)
	Update(ctx context.Context, rec *GrammarRecord) error
	Delete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
}
