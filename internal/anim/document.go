package anim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/svgmotion/internal/diag"
)

// Document is the persisted animation set for one drawing: the records
// plus the chains that sequence them.
type Document struct {
	Version    string    `yaml:"version"`
	Animations []*Record `yaml:"animations"`
	Chains     []*Chain  `yaml:"chains,omitempty"`
}

// ReadDocument reads a document from a YAML file and applies record
// defaults for omitted timing fields.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("animation document %s: %w", path, err)
	}
	doc.applyDefaults()
	return &doc, nil
}

// WriteDocument writes a document to a YAML file.
func WriteDocument(doc *Document, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (d *Document) applyDefaults() {
	for _, r := range d.Animations {
		if r.Dur == 0 && r.RepeatDur == 0 {
			r.Dur = 2
		}
		if r.Begin == "" {
			r.Begin = "0s"
		}
		if r.Fill == "" {
			r.Fill = FillFreeze
		}
		if r.RepeatCount == 0 && !r.RepeatIndefinite {
			r.RepeatCount = 1
		}
		// Exactly one motion source may survive loading.
		if r.Path != "" && r.MPath != "" {
			r.MPath = ""
		}
	}
}

// Record returns the record with the given id.
func (d *Document) Record(id string) (*Record, bool) {
	for _, r := range d.Animations {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Index returns an id-keyed view of the records.
func (d *Document) Index() map[string]*Record {
	idx := make(map[string]*Record, len(d.Animations))
	for _, r := range d.Animations {
		idx[r.ID] = r
	}
	return idx
}

// Replace swaps a record by id, used by callers adopting re-projected
// copies. Unknown ids are ignored.
func (d *Document) Replace(rec *Record) {
	for i, r := range d.Animations {
		if r.ID == rec.ID {
			d.Animations[i] = rec
			return
		}
	}
}

// Pruner returns the cleanup hook the engine publishes into the
// external registry: given deleted element/definition ids it drops
// orphaned records and the chain entries that referenced them.
func (d *Document) Pruner(sink diag.Sink) func(removed []string) {
	return func(removed []string) {
		gone := make(map[string]bool, len(removed))
		for _, id := range removed {
			gone[id] = true
		}

		kept := d.Animations[:0]
		droppedAnims := make(map[string]bool)
		for _, r := range d.Animations {
			if gone[r.Target.OwnerID()] {
				droppedAnims[r.ID] = true
				if sink != nil {
					sink.Emit(diag.Event{Kind: diag.KindPrunedAnimation, AnimationID: r.ID, Value: r.Target.OwnerID()})
				}
				continue
			}
			kept = append(kept, r)
		}
		d.Animations = kept

		for _, c := range d.Chains {
			entries := c.Entries[:0]
			for _, e := range c.Entries {
				if droppedAnims[e.AnimationID] {
					continue
				}
				entries = append(entries, e)
			}
			c.Entries = entries
		}
	}
}
