// Package importer reconciles an uploaded JSON export against a live data
// file, keyed by record id.
package importer

import (
	"errors"
	"strings"
)

// Import modes.
const (
	ModeMerge   = "merge"
	ModeReplace = "replace"
)

// ErrUnknownMode is returned for modes other than merge/replace.
var ErrUnknownMode = errors.New("mode must be 'merge' or 'replace'")

// Result counts what a MergeByID run did.
type Result struct {
	Created int
	Updated int
	Skipped int
}

// MergeByID folds incoming records into existing ones by id, keeping the
// existing list order stable. Unknown ids are appended. In merge mode only
// the keys present on the incoming record are updated; in replace mode the
// incoming record replaces the stored one wholesale. Records without an id
// are skipped and counted.
func MergeByID(existing, incoming []map[string]any, mode string) ([]map[string]any, Result, error) {
	if mode != ModeMerge && mode != ModeReplace {
		return nil, Result{}, ErrUnknownMode
	}

	index := make(map[string]int, len(existing))

	for i, rec := range existing {
		if id := recordID(rec); id != "" {
			index[id] = i
		}
	}

	var res Result

	for _, rec := range incoming {
		id := recordID(rec)
		if id == "" {
			res.Skipped++

			continue
		}

		i, ok := index[id]
		if !ok {
			existing = append(existing, rec)
			index[id] = len(existing) - 1
			res.Created++

			continue
		}

		if mode == ModeReplace {
			existing[i] = rec
		} else {
			for k, v := range rec {
				if k == "id" {
					continue
				}

				existing[i][k] = v
			}
		}

		res.Updated++
	}

	return existing, res, nil
}

func recordID(rec map[string]any) string {
	id, _ := rec["id"].(string)

	return strings.TrimSpace(id)
}
