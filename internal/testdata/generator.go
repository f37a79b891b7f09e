package testdata

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jask/jaskmods/internal/database/repository"
)

// Catalog returns a deterministic sample catalog. Identities are derived from
// addon names with uuid.NewSHA1 so repeated seeding produces the same ids.
func Catalog() []repository.Addon {
	type def struct {
		Name      string
		Summary   string
		Author    string
		Category  string
		Installs  int64
		Installed bool
		Featured  bool
		Versions  []string // label[:channel], position follows slice order
	}
	defs := []def{
		{"Ledger Sync", "Two-way sync against remote ledgers", "acme", "sync", 84211, true, true, []string{"2.4.0", "2.5.0-rc1:beta"}},
		{"Dark Reader", "Per-pane dark palette overrides", "nightshift", "themes", 66109, true, true, []string{"1.9.2"}},
		{"CSV Wizard", "Column mapping presets for odd exports", "acme", "import", 41520, false, true, []string{"0.8.0", "0.9.0-beta:beta"}},
		{"Receipt OCR", "Attach and scan receipt images", "papertrail", "capture", 30877, false, true, []string{"3.1.4", "3.2.0-rc2:beta", "4.0.0-nightly:nightly"}},
		{"Budget Bells", "Threshold alerts for category budgets", "tinker", "alerts", 22041, false, false, []string{"1.0.1"}},
		{"Vim Motions", "Extended vim-style pane navigation", "grumpycat", "input", 19384, true, false, []string{"5.2.0", "5.3.0-beta:beta"}},
		{"Rate Watch", "Daily FX rates in the status bar", "tinker", "data", 12775, false, false, []string{"0.4.2"}},
		{"Audit Trail", "Immutable change journal export", "papertrail", "export", 9016, false, false, []string{"2.0.0", "2.1.0-rc1:beta"}},
		{"Tag Genius", "Rule-assisted bulk tagging", "acme", "tags", 7453, false, false, []string{"1.3.0"}},
		{"Mono Digits", "Tabular numerals everywhere", "nightshift", "themes", 3310, false, false, []string{"0.2.0:beta"}},
	}

	out := make([]repository.Addon, 0, len(defs))
	for _, d := range defs {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("addon:"+d.Name)).String()
		a := repository.Addon{
			ID:        id,
			Name:      d.Name,
			Summary:   d.Summary,
			Author:    d.Author,
			Category:  d.Category,
			Installs:  d.Installs,
			Installed: d.Installed,
			Featured:  d.Featured,
		}
		for pos, raw := range d.Versions {
			label, channel := raw, "stable"
			for i := 0; i < len(raw); i++ {
				if raw[i] == ':' {
					label, channel = raw[:i], raw[i+1:]
					break
				}
			}
			a.Versions = append(a.Versions, repository.Version{
				ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("version:%s:%s", d.Name, label))).String(),
				AddonID:  id,
				Label:    label,
				Channel:  channel,
				Position: pos,
			})
		}
		out = append(out, a)
	}
	return out
}

// AddonID returns the deterministic identity Catalog assigns to name.
func AddonID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("addon:"+name)).String()
}
