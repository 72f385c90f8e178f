package mysql

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"qhse/qcsync/internal/entity"
	"qhse/qcsync/internal/model"
)

// QualityDAO persists evaluation outcomes on the three quality record tables.
type QualityDAO struct {
	db *gorm.DB
}

// NewQualityDAO opens the MySQL record store.
func NewQualityDAO(dsn string) (*QualityDAO, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &QualityDAO{db: db}, nil
}

// SaveNCAnalysis stores the root-cause analysis outcome of a non-conformity.
func (dao *QualityDAO) SaveNCAnalysis(ctx context.Context, recordID string, result *model.EvaluationCallback) error {
	return dao.update(ctx, &entity.NonConformity{}, recordID, map[string]interface{}{
		"verdict":         string(result.Verdict),
		"analysis_result": json.RawMessage(result.Result),
	}, result)
}

// SaveAuditEvaluation stores the recomputed audit score and conclusion.
func (dao *QualityDAO) SaveAuditEvaluation(ctx context.Context, recordID string, eval *model.AuditEvaluation, result *model.EvaluationCallback) error {
	return dao.update(ctx, &entity.Audit{}, recordID, map[string]interface{}{
		"score":             eval.Score,
		"conclusion":        string(eval.Conclusion),
		"evaluation_result": json.RawMessage(result.Result),
	}, result)
}

// SaveControlEvaluation stores the compliance verdict of a control event.
func (dao *QualityDAO) SaveControlEvaluation(ctx context.Context, recordID string, eval *model.ControlEvaluation, result *model.EvaluationCallback) error {
	return dao.update(ctx, &entity.QualityControl{}, recordID, map[string]interface{}{
		"score":             eval.Score,
		"verdict":           string(eval.Verdict),
		"evaluation_result": json.RawMessage(result.Result),
	}, result)
}

// MarkFailed records a failed evaluation against whichever table owns the
// record for the given action type.
func (dao *QualityDAO) MarkFailed(ctx context.Context, actionType, recordID, errorMsg string) error {
	target, err := tableFor(actionType)
	if err != nil {
		return err
	}

	return dao.apply(ctx, target, recordID, map[string]interface{}{
		"status":        entity.StatusFailed,
		"error_message": errorMsg,
	})
}

func (dao *QualityDAO) update(ctx context.Context, target interface{}, recordID string, updates map[string]interface{}, result *model.EvaluationCallback) error {
	if result.Status == model.CallbackStatusSuccess {
		updates["status"] = entity.StatusEvaluated
	} else {
		updates["status"] = entity.StatusFailed
		updates["error_message"] = result.Error
	}

	return dao.apply(ctx, target, recordID, updates)
}

func (dao *QualityDAO) apply(ctx context.Context, target interface{}, recordID string, updates map[string]interface{}) error {
	res := dao.db.WithContext(ctx).
		Model(target).
		Where("id = ?", recordID).
		Updates(updates)

	if res.Error != nil {
		return fmt.Errorf("failed to update record: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("record not found: %s", recordID)
	}

	return nil
}

// GetNonConformity loads one non-conformity row.
func (dao *QualityDAO) GetNonConformity(ctx context.Context, recordID string) (*entity.NonConformity, error) {
	var nc entity.NonConformity
	if err := dao.db.WithContext(ctx).Where("id = ?", recordID).First(&nc).Error; err != nil {
		return nil, fmt.Errorf("failed to get non-conformity: %w", err)
	}
	return &nc, nil
}

// GetAudit loads one audit row.
func (dao *QualityDAO) GetAudit(ctx context.Context, recordID string) (*entity.Audit, error) {
	var audit entity.Audit
	if err := dao.db.WithContext(ctx).Where("id = ?", recordID).First(&audit).Error; err != nil {
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}
	return &audit, nil
}

// GetQualityControl loads one control row.
func (dao *QualityDAO) GetQualityControl(ctx context.Context, recordID string) (*entity.QualityControl, error) {
	var qc entity.QualityControl
	if err := dao.db.WithContext(ctx).Where("id = ?", recordID).First(&qc).Error; err != nil {
		return nil, fmt.Errorf("failed to get quality control: %w", err)
	}
	return &qc, nil
}

// Close releases the underlying connection pool.
func (dao *QualityDAO) Close() error {
	sqlDB, err := dao.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func tableFor(actionType string) (interface{}, error) {
	switch actionType {
	case model.ActionNCAnalyze:
		return &entity.NonConformity{}, nil
	case model.ActionAuditEvaluate:
		return &entity.Audit{}, nil
	case model.ActionControlEvaluate:
		return &entity.QualityControl{}, nil
	}
	return nil, fmt.Errorf("unknown action type: %s", actionType)
}
