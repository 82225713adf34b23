package lang

import (
	"context"
	_ "embed"
	"strings"
)

// Prelude is a program declaring the common SI dimensions and units, a few
// customary units, derived dimensions and mathematical constants.
//
//go:embed prelude.qty
var Prelude string

// Constants is a catalog of physical constants carrying their known
// precision. It refers to units declared by [Prelude].
//
//go:embed constants.yaml
var Constants string

// LoadPrelude executes [Prelude] and then loads [Constants] into in.
func (in *Instance) LoadPrelude(ctx context.Context) error {
	if err := in.Exec(ctx, Prelude); err != nil {
		return err
	}

	return in.LoadCatalog(ctx, strings.NewReader(Constants))
}
