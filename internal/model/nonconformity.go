package model

import "time"

// NCCategory classifies where a non-conformity was detected.
type NCCategory string

const (
	NCCategoryProduct       NCCategory = "PRODUCT"
	NCCategoryProcess       NCCategory = "PROCESS"
	NCCategorySystem        NCCategory = "SYSTEM"
	NCCategoryDocumentation NCCategory = "DOCUMENTATION"
	NCCategoryTraining      NCCategory = "TRAINING"
	NCCategoryEquipment     NCCategory = "EQUIPMENT"
	NCCategorySupplier      NCCategory = "SUPPLIER"
)

// CauseType classifies a contributing cause.
type CauseType string

const (
	CauseHuman          CauseType = "HUMAN"
	CauseTechnical      CauseType = "TECHNICAL"
	CauseOrganizational CauseType = "ORGANIZATIONAL"
	CauseEnvironmental  CauseType = "ENVIRONMENTAL"
	CauseSupplier       CauseType = "SUPPLIER"
)

// Likelihood grades how probable a cause is.
type Likelihood string

const (
	LikelihoodLow      Likelihood = "LOW"
	LikelihoodModerate Likelihood = "MODERATE"
	LikelihoodHigh     Likelihood = "HIGH"
	LikelihoodCertain  Likelihood = "CERTAIN"
)

// IshikawaCategory is one branch of the fishbone diagram. The set is fixed
// (the 6M taxonomy); unknown keys are rejected at the validation point.
type IshikawaCategory string

const (
	IshikawaMaterial    IshikawaCategory = "MATERIAL"
	IshikawaMethod      IshikawaCategory = "METHOD"
	IshikawaManpower    IshikawaCategory = "MANPOWER"
	IshikawaMilieu      IshikawaCategory = "MILIEU"
	IshikawaMachine     IshikawaCategory = "MACHINE"
	IshikawaMeasurement IshikawaCategory = "MEASUREMENT"
)

// IshikawaCategories lists the fixed category set in diagram order.
var IshikawaCategories = []IshikawaCategory{
	IshikawaMaterial,
	IshikawaMethod,
	IshikawaManpower,
	IshikawaMilieu,
	IshikawaMachine,
	IshikawaMeasurement,
}

// CapaStatus tracks a corrective/preventive action.
type CapaStatus string

const (
	CapaStatusPlanned    CapaStatus = "PLANNED"
	CapaStatusInProgress CapaStatus = "IN_PROGRESS"
	CapaStatusDone       CapaStatus = "DONE"
	CapaStatusOverdue    CapaStatus = "OVERDUE"
)

// Cause is one contributing cause recorded against a non-conformity.
type Cause struct {
	Type               CauseType  `json:"type"`
	Description        string     `json:"description"`
	ContributingFactor string     `json:"contributing_factor,omitempty"`
	Likelihood         Likelihood `json:"likelihood"`
}

// WhyStep is one level of the Five-Whys chain. IsRootCause is derived, never
// caller-supplied: it holds exactly on the terminal level.
type WhyStep struct {
	Level       int    `json:"level"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	IsRootCause bool   `json:"is_root_cause"`
}

// CapaAction is a corrective or preventive action tied to a non-conformity.
type CapaAction struct {
	Description string     `json:"description"`
	Owner       string     `json:"owner"`
	DueDate     time.Time  `json:"due_date"`
	Status      CapaStatus `json:"status"`
}

// NonConformityRecord captures one detected non-conformity and its root-cause
// analysis. The analysis collections are append-only while the record is
// open: previously recorded steps are never edited in place, and a record is
// never deleted, only superseded by a new record carrying SupersedesID.
type NonConformityRecord struct {
	ID           string     `json:"id"`
	DeclaredAt   time.Time  `json:"declared_at"`
	Category     NCCategory `json:"category"`
	Severity     Severity   `json:"severity"`
	Description  string     `json:"description"`
	LotReference string     `json:"lot_reference,omitempty"`
	SupersedesID string     `json:"supersedes_id,omitempty"`

	Causes          []Cause                       `json:"causes"`
	FiveWhys        []WhyStep                     `json:"five_whys"`
	IshikawaFactors map[IshikawaCategory][]string `json:"ishikawa_factors"`

	CorrectiveActions []CapaAction `json:"corrective_actions"`
	PreventiveActions []CapaAction `json:"preventive_actions"`
}

// RootCause returns the answer of the terminal why-step, or "" when the chain
// has not reached its terminal depth yet.
func (r *NonConformityRecord) RootCause() string {
	for _, step := range r.FiveWhys {
		if step.IsRootCause {
			return step.Answer
		}
	}
	return ""
}
