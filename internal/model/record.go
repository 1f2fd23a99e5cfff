package model

import "time"

// Record is the external shape every repository returns, regardless of which
// backend produced it: an opaque id, the creation instant, and the
// kind-specific fields.
type Record[F any] struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Fields    F         `json:"fields"`
}
