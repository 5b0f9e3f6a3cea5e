package pipeline

// Section is a UI region gated by a SectionGate.
type Section int

const (
	SectionUpload Section = iota
	SectionScript
	SectionAISettings
	SectionAIPreview
	SectionFinalVideo

	sectionCount
)

// AllSections returns every region in display order.
func AllSections() []Section {
	return []Section{SectionUpload, SectionScript, SectionAISettings, SectionAIPreview, SectionFinalVideo}
}

// Title is the heading shown for the region.
func (s Section) Title() string {
	switch s {
	case SectionUpload:
		return "Upload & Transcribe"
	case SectionScript:
		return "Original Script"
	case SectionAISettings:
		return "AI Settings"
	case SectionAIPreview:
		return "AI Script Preview"
	case SectionFinalVideo:
		return "Final Video"
	default:
		return "Unknown"
	}
}

// SectionGate is the active/disabled state of one region.
type SectionGate struct {
	active bool
}

// Active reports whether the region accepts interaction.
func (g SectionGate) Active() bool { return g.active }

// Gates holds one SectionGate per region. At most one gate is active at a
// time; while a backend job runs none is.
type Gates struct {
	gates [sectionCount]SectionGate
}

// NewGates returns the initial configuration: only Upload is active.
func NewGates() Gates {
	var g Gates
	g.gates[SectionUpload].active = true
	return g
}

// Activate makes s the only active region.
func (g *Gates) Activate(s Section) {
	for i := range g.gates {
		g.gates[i].active = Section(i) == s
	}
}

// Disable turns off the gate for s.
func (g *Gates) Disable(s Section) {
	if s >= 0 && s < sectionCount {
		g.gates[s].active = false
	}
}

// Gate returns the gate for s.
func (g Gates) Gate(s Section) SectionGate {
	if s < 0 || s >= sectionCount {
		return SectionGate{}
	}
	return g.gates[s]
}

// IsActive is shorthand for Gate(s).Active().
func (g Gates) IsActive(s Section) bool {
	return g.Gate(s).Active()
}

// ActiveSections lists the currently active regions.
func (g Gates) ActiveSections() []Section {
	var out []Section
	for i, gate := range g.gates {
		if gate.active {
			out = append(out, Section(i))
		}
	}
	return out
}
