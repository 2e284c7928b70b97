package storage

import (
	"github.com/mitchellh/hashstructure/v2"

	"github.com/vmartins/studysync/internal/models"
)

// Snapshot is the scheduling input a run was computed from. Its hash lets a
// later run detect that nothing changed upstream and skip the rewrite.
type Snapshot struct {
	Tasks         []models.Task
	Rows          []models.SlotTemplate
	ExcludedDates []string
}

// Fingerprint returns a stable hash of the snapshot contents.
func Fingerprint(snap Snapshot) (uint64, error) {
	return hashstructure.Hash(snap, hashstructure.FormatV2, nil)
}
