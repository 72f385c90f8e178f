package model

// ConformityVerdict is the shared outcome vocabulary of every evaluation
// engine. Each engine produces only a subset of it: the audit scorer never
// yields SOUS_RESERVE, the production control evaluator never yields
// CONFORME_AVEC_RESERVES. Downstream consumers branch on the exact variant,
// so the variants must never be collapsed into a boolean.
type ConformityVerdict string

const (
	// VerdictConforme full conformity
	VerdictConforme ConformityVerdict = "CONFORME"
	// VerdictConformeAvecReserves conform with reservations (audit scoring only)
	VerdictConformeAvecReserves ConformityVerdict = "CONFORME_AVEC_RESERVES"
	// VerdictSousReserve partial compliance (production control only)
	VerdictSousReserve ConformityVerdict = "SOUS_RESERVE"
	// VerdictNonConforme non conformity
	VerdictNonConforme ConformityVerdict = "NON_CONFORME"
	// VerdictEnAttente declared but not yet evaluated
	VerdictEnAttente ConformityVerdict = "EN_ATTENTE"
)

// Valid reports whether v is one of the known verdict variants.
func (v ConformityVerdict) Valid() bool {
	switch v {
	case VerdictConforme, VerdictConformeAvecReserves, VerdictSousReserve,
		VerdictNonConforme, VerdictEnAttente:
		return true
	}
	return false
}

// Severity grades findings and non-conformities.
type Severity string

const (
	SeverityMinor    Severity = "MINOR"
	SeverityModerate Severity = "MODERATE"
	SeverityMajor    Severity = "MAJOR"
	SeverityCritical Severity = "CRITICAL"
)
