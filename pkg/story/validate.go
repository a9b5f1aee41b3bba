package story

import (
	"github.com/matzehuels/repostory/pkg/errors"
)

// Validate checks the bundle invariants. It returns an INVALID_BUNDLE error
// describing the first violation found.
func (b Bundle) Validate() error {
	seen := make(map[string]int, len(b.Commits))
	for i, c := range b.Commits {
		if c.Hash == "" {
			return errors.New(errors.ErrCodeInvalidBundle, "commit %d has an empty hash", i)
		}
		if err := errors.ValidateHash(c.Hash); err != nil {
			return err
		}
		if prev, dup := seen[c.Hash]; dup {
			return errors.New(errors.ErrCodeInvalidBundle, "duplicate commit %s at positions %d and %d", c.Hash, prev, i)
		}
		seen[c.Hash] = i

		if c.Time < 0 {
			return errors.New(errors.ErrCodeInvalidBundle, "commit %s has negative time %d", c.Hash, c.Time)
		}
		if i > 0 && c.Time < b.Commits[i-1].Time {
			return errors.New(errors.ErrCodeInvalidBundle,
				"commits out of order: %s (%d) follows %s (%d)",
				c.Hash, c.Time, b.Commits[i-1].Hash, b.Commits[i-1].Time)
		}
		for _, p := range c.Parents {
			if p == c.Hash {
				return errors.New(errors.ErrCodeInvalidBundle, "commit %s lists itself as parent", c.Hash)
			}
		}
	}
	return nil
}
