package gbcore

import "github.com/hollow-byte/gbcore/internal/cpu"

// Model selects which post-boot register state and LCD color behavior the
// core starts in.
type Model = cpu.Model

const (
	ModelDMG = cpu.DMG
	ModelGBP = cpu.GBP
	ModelCGB = cpu.CGB
	ModelSGB = cpu.SGB
)

// Config configures a Motherboard at construction time.
type Config struct {
	// Model overrides the register post-boot state and CGB feature set.
	// Zero value (ModelDMG) runs the cartridge in DMG mode even if its
	// header requests CGB support; set ModelCGB explicitly to opt in.
	Model Model

	// Persister receives battery RAM and RTC state on Save, and supplies
	// any prior state at construction. A nil Persister is treated as
	// NopPersister.
	Persister Persister
}
