package repository

import "time"

// Addon represents an addon row with its version rows attached.
type Addon struct {
	ID        string
	Name      string
	Summary   string
	Author    string
	Category  string
	Installs  int64
	Installed bool
	Featured  bool
	UpdatedAt time.Time
	Versions  []Version
}

// Version represents one selectable release row of an addon.
type Version struct {
	ID       string
	AddonID  string
	Label    string
	Channel  string
	Position int
}
