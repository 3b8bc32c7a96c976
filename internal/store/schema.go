package store

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/tides-mcp/tides/internal/tides"
)

// documentSchema constrains every document before it reaches disk.
// Definitions are closed, so unknown fields are rejected too.
const documentSchema = `
#Flow: {
	intensity:        "gentle" | "moderate" | "strong"
	duration_minutes: int & >0
	started_at:       string & !=""
	insight?:         string
}

#Tide: {
	id:               string & !=""
	name:             string & !=""
	tide_type:        "daily" | "weekly" | "project" | "seasonal"
	description?:     string
	status:           "active" | "completed" | "paused"
	created_at:       string & !=""
	next_flow_at?:    string
	last_flow_at?:    string
	ended_at?:        string
	flow_history: [...#Flow]
	completion_note?: string
}

#Document: {
	version: int & >=1
	tides: [...#Tide]
}
`

// schemaValidator holds the compiled schema. cue.Context is not safe for
// concurrent use, so every validation runs under mu.
type schemaValidator struct {
	mu     sync.Mutex
	ctx    *cue.Context
	schema cue.Value
}

var loadValidator = sync.OnceValues(func() (*schemaValidator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(documentSchema, cue.Filename("tides.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling document schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#Document"))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("looking up #Document: %w", err)
	}
	return &schemaValidator{ctx: ctx, schema: def}, nil
})

// validateDocument checks encoded JSON against the schema.
func validateDocument(data []byte) error {
	sv, err := loadValidator()
	if err != nil {
		return fmt.Errorf("%w: %v", tides.ErrInvalidDocument, err)
	}

	expr, err := cuejson.Extract("tides.json", data)
	if err != nil {
		return fmt.Errorf("%w: %v", tides.ErrInvalidDocument, err)
	}

	sv.mu.Lock()
	defer sv.mu.Unlock()

	doc := sv.ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("%w: %v", tides.ErrInvalidDocument, err)
	}
	if err := sv.schema.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %v", tides.ErrInvalidDocument, err)
	}
	return nil
}
