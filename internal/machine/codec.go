// Package machine converts theoretical machine layouts between their
// structured form and the compact string format used for storage.
//
// Grammar:
//
//	compact         := recorder ("|" recorder)*
//	recorder        := name "@" functionalities
//	functionalities := integer ("," integer)*
//
// Recorder names must not contain '|' or '@'; this is a representational
// limitation of the format. The compact form is also the storage format, so
// changing the grammar is a storage migration, not a code change.
package machine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kmalygin/machine-vault/internal/model"
)

// Minify serializes a layout to its compact form, preserving recorder order
// and functionality order.
func Minify(layout model.MachineLayout) string {
	parts := make([]string, 0, len(layout.Recorders))
	for _, rec := range layout.Recorders {
		fns := make([]string, 0, len(rec.Functionalities))
		for _, f := range rec.Functionalities {
			fns = append(fns, strconv.Itoa(f))
		}
		parts = append(parts, rec.Name+"@"+strings.Join(fns, ","))
	}
	return strings.Join(parts, "|")
}

// Maximize is the exact inverse of Minify. A malformed compact string is a
// decode error: it indicates corrupted storage, not bad user input.
func Maximize(compact string) (model.MachineLayout, error) {
	var layout model.MachineLayout
	for _, part := range strings.Split(compact, "|") {
		name, fnList, ok := strings.Cut(part, "@")
		if !ok {
			return model.MachineLayout{}, fmt.Errorf("malformed recorder %q: missing '@'", part)
		}
		rec := model.Recorder{Name: name}
		for _, raw := range strings.Split(fnList, ",") {
			f, err := strconv.Atoi(raw)
			if err != nil {
				return model.MachineLayout{}, fmt.Errorf("malformed functionality %q in recorder %q", raw, name)
			}
			rec.Functionalities = append(rec.Functionalities, f)
		}
		layout.Recorders = append(layout.Recorders, rec)
	}
	return layout, nil
}
