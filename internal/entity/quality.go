package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Evaluation status constants shared by the three record tables.
const (
	StatusEvaluating = "EVALUATING"
	StatusEvaluated  = "EVALUATED"
	StatusFailed     = "FAILED"
)

// NonConformity is one declared non-conformity with its analysis result.
type NonConformity struct {
	ID           string `gorm:"column:id;primaryKey;type:varchar(64)"`
	OrgID        string `gorm:"column:org_id;type:varchar(64);not null;index:idx_org_status"`
	LotReference string `gorm:"column:lot_reference;type:varchar(128)"`
	SupersedesID string `gorm:"column:supersedes_id;type:varchar(64);index:idx_supersedes"`

	// Record snapshot as submitted
	RawData datatypes.JSON `gorm:"column:raw_data;type:json;not null"`

	// Analysis state and result
	Status         string         `gorm:"column:status;type:varchar(16);not null;default:'EVALUATING';index:idx_org_status"`
	Verdict        string         `gorm:"column:verdict;type:varchar(32);not null;default:'EN_ATTENTE'"`
	AnalysisResult datatypes.JSON `gorm:"column:analysis_result;type:json"`
	ErrorMessage   string         `gorm:"column:error_message;type:varchar(512)"`

	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (NonConformity) TableName() string {
	return "non_conformities"
}

// Audit is one quality audit with its recomputed evaluation.
type Audit struct {
	ID        string `gorm:"column:id;primaryKey;type:varchar(64)"`
	OrgID     string `gorm:"column:org_id;type:varchar(64);not null;index:idx_org_status"`
	Reference string `gorm:"column:reference;type:varchar(128);uniqueIndex:uk_org_reference"`

	RawData datatypes.JSON `gorm:"column:raw_data;type:json;not null"`

	Status           string         `gorm:"column:status;type:varchar(16);not null;default:'EVALUATING';index:idx_org_status"`
	Score            int            `gorm:"column:score;not null;default:0"`
	Conclusion       string         `gorm:"column:conclusion;type:varchar(32);not null;default:'EN_ATTENTE'"`
	EvaluationResult datatypes.JSON `gorm:"column:evaluation_result;type:json"`
	ErrorMessage     string         `gorm:"column:error_message;type:varchar(512)"`

	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (Audit) TableName() string {
	return "audits"
}

// QualityControl is one production/reception control event with its verdict.
type QualityControl struct {
	ID           string `gorm:"column:id;primaryKey;type:varchar(64)"`
	OrgID        string `gorm:"column:org_id;type:varchar(64);not null;index:idx_org_status"`
	LotReference string `gorm:"column:lot_reference;type:varchar(128);index:idx_lot"`

	RawData datatypes.JSON `gorm:"column:raw_data;type:json;not null"`

	Status           string         `gorm:"column:status;type:varchar(16);not null;default:'EVALUATING';index:idx_org_status"`
	Score            int            `gorm:"column:score;not null;default:0"`
	Verdict          string         `gorm:"column:verdict;type:varchar(32);not null;default:'EN_ATTENTE'"`
	EvaluationResult datatypes.JSON `gorm:"column:evaluation_result;type:json"`
	ErrorMessage     string         `gorm:"column:error_message;type:varchar(512)"`

	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (QualityControl) TableName() string {
	return "quality_controls"
}
