package pdf

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validation modes for the structural check run before extraction.
const (
	ValidationOff     = "off"
	ValidationRelaxed = "relaxed"
	ValidationStrict  = "strict"
)

// pdfcpu writes a config dir under $HOME unless told not to.
var disableConfigDir sync.Once

// Validator runs pdfcpu's structural validation over an in-memory PDF.
type Validator struct {
	mode int // model.ValidationRelaxed or model.ValidationStrict
}

// NewValidator returns a Validator for the given mode, or nil when mode is "off".
func NewValidator(mode string) (*Validator, error) {
	var vm int
	switch mode {
	case ValidationOff:
		return nil, nil
	case "", ValidationRelaxed:
		vm = model.ValidationRelaxed
	case ValidationStrict:
		vm = model.ValidationStrict
	default:
		return nil, fmt.Errorf("unknown PDF validation mode %q", mode)
	}

	disableConfigDir.Do(api.DisableConfigDir)
	return &Validator{mode: vm}, nil
}

// Validate reports the first structural problem pdfcpu finds in data.
func (v *Validator) Validate(data []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = v.mode

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return fmt.Errorf("invalid PDF structure: %w", err)
	}
	return nil
}
