package model

import "time"

// ChecklistAnswer is the recorded answer for one audit checklist item.
type ChecklistAnswer string

const (
	AnswerConforme      ChecklistAnswer = "CONFORME"
	AnswerNonConforme   ChecklistAnswer = "NON_CONFORME"
	AnswerNotApplicable ChecklistAnswer = "NOT_APPLICABLE"
	AnswerObservation   ChecklistAnswer = "OBSERVATION"
)

// FindingType classifies an audit finding.
type FindingType string

const (
	FindingConformity    FindingType = "CONFORMITY"
	FindingNonConformity FindingType = "NON_CONFORMITY"
	FindingObservation   FindingType = "OBSERVATION"
	FindingStrength      FindingType = "STRENGTH"
)

// GapStatus tracks whether an identified gap has been closed.
type GapStatus string

const (
	GapOpen   GapStatus = "OPEN"
	GapClosed GapStatus = "CLOSED"
)

// AuditChecklistItem is one weighted criterion on an audit checklist.
// Weight must be positive (1-5) and Score lies in [0,5]; items answered
// NOT_APPLICABLE are excluded from the score entirely.
type AuditChecklistItem struct {
	Question  string          `json:"question"`
	Criterion string          `json:"criterion"`
	Weight    float64         `json:"weight"`
	Score     float64         `json:"score"`
	Answer    ChecklistAnswer `json:"answer"`
	Evidence  string          `json:"evidence,omitempty"`
	Comment   string          `json:"comment,omitempty"`
}

// Finding is one observation made during the audit.
type Finding struct {
	Type           FindingType `json:"type"`
	Severity       Severity    `json:"severity"`
	Location       string      `json:"location"`
	Evidence       string      `json:"evidence,omitempty"`
	RequiredAction string      `json:"required_action,omitempty"`
}

// Gap is one identified deviation with its remediation plan.
type Gap struct {
	Description string    `json:"description"`
	Cause       string    `json:"cause,omitempty"`
	Impact      string    `json:"impact,omitempty"`
	Severity    Severity  `json:"severity"`
	Action      string    `json:"action,omitempty"`
	Owner       string    `json:"owner,omitempty"`
	DueDate     time.Time `json:"due_date"`
	Status      GapStatus `json:"status"`
}

// AuditRecord is the input snapshot of one quality audit. Score and
// conclusion are never stored on it; they are recomputed from the snapshot
// (same inputs always produce the same evaluation).
type AuditRecord struct {
	ID        string               `json:"id"`
	Reference string               `json:"reference,omitempty"`
	AuditedAt time.Time            `json:"audited_at"`
	Checklist []AuditChecklistItem `json:"checklist"`
	Findings  []Finding            `json:"findings"`
	Gaps      []Gap                `json:"gaps"`
}

// AuditEvaluation is the derived outcome of an audit snapshot.
type AuditEvaluation struct {
	Score      int               `json:"score"`
	Conclusion ConformityVerdict `json:"conclusion"`
}
