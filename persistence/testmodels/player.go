/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package testmodels

import (
	"strings"

	"github.com/go-openapi/strfmt"
)

// Player is the record type shared by backend tests.
type Player struct {

	// Unique identifier for the player.
	ID string `json:"Id"`

	// Display name of the player.
	Name string `json:"Name"`

	// Current rating of the player.
	Rating int `json:"Rating"`

	// Timestamp when the player record was created.
	// Format: date-time
	CreatedAt strfmt.DateTime `json:"CreatedAt,omitempty"`
}

func (p Player) GetID() string { return p.ID }

func (p Player) WithID(id string) Player {
	p.ID = id
	return p
}

// ByName compares players by display name.
func ByName(a, b Player) int { return strings.Compare(a.Name, b.Name) }

// ByRating compares players by rating.
func ByRating(a, b Player) int { return a.Rating - b.Rating }
