// Package trackconfig turns declared tracks into the normalized
// visual-track descriptors the viewer's configuration store consumes.
// Each declared format has its own builder; the Dispatcher resolves
// per-track styling once and then drives the matching builder over the
// track's files in sorted order.
package trackconfig

import (
	"fmt"

	"blainsmith.com/go/seahash"
)

// Descriptor is the configuration record describing one renderable track
// layer.  Descriptors are only ever appended to the viewer's config
// store; there is no update or delete.
type Descriptor struct {
	// Label is the stable unique identifier: a content hash of the file
	// path plus a positional suffix, so duplicate-named inputs within one
	// track group still get distinct labels.
	Label string `json:"label,omitempty"`
	// Key is the human display name.
	Key          string   `json:"key,omitempty"`
	Category     string   `json:"category,omitempty"`
	Style        Style    `json:"style"`
	URLTemplate  string   `json:"urlTemplate,omitempty"`
	StoreClass   string   `json:"storeClass,omitempty"`
	Type         string   `json:"type,omitempty"`
	BicolorPivot string   `json:"bicolor_pivot,omitempty"`
	Autoscale    string   `json:"autoscale,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
}

// Empty reports whether the descriptor carries no configuration at all.
// Empty descriptors are never handed to the config store.
func (d *Descriptor) Empty() bool {
	return *d == Descriptor{}
}

// Style is the client display configuration of a descriptor.  Color
// values are either CSS colors or an embedded per-feature color callback
// (see package opacity).
type Style struct {
	Label       string `json:"label,omitempty"`
	ClassName   string `json:"classname,omitempty"`
	Description string `json:"description,omitempty"`
	Height      string `json:"height,omitempty"`
	Color       string `json:"color,omitempty"`
	PosColor    string `json:"pos_color,omitempty"`
	NegColor    string `json:"neg_color,omitempty"`
}

// Hints is the extra viewer configuration passed alongside flat-file
// imports (the --config payload).
type Hints struct {
	Glyph    string `json:"glyph,omitempty"`
	Category string `json:"category,omitempty"`
}

// Label derives the stable descriptor label for the index-th file of a
// track.
func Label(path string, index int) string {
	return fmt.Sprintf("%016x_%d", seahash.Sum64([]byte(path)), index)
}
