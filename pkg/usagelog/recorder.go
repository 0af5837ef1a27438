package usagelog

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/pkg/logger"
	"cortex-analyst-be/internal/repository/unitofwork"
	"cortex-analyst-be/pkg/apperror"
	"cortex-analyst-be/pkg/content"
)

// resolutionFactor derives the resolution time from the measured round trip
const resolutionFactor = 0.7

// Entry is one completed turn as handed over by the orchestrator
type Entry struct {
	Timestamp time.Time
	Username  string
	AppID     int
	AppName   string
	ModelRef  string
	InputText string
	Output    content.Blocks
	ElapsedMs int64
}

// ResolutionTime is round(elapsedMs * 0.7), never negative
func ResolutionTime(elapsedMs int64) int64 {
	if elapsedMs <= 0 {
		return 0
	}
	return int64(math.Round(float64(elapsedMs) * resolutionFactor))
}

// Recorder appends usage log rows. It never updates or deletes.
type Recorder struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewRecorder(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) *Recorder {
	return &Recorder{uowFactory: uowFactory, logger: log}
}

// Record appends one row. Preview tables are not logged, only the statements.
func (r *Recorder) Record(ctx context.Context, e Entry) (*entity.UsageLog, error) {
	output, err := json.Marshal(e.Output.StripTables())
	if err != nil {
		return nil, apperror.Persistence("record usage log", err)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.ElapsedMs < 0 {
		e.ElapsedMs = 0
	}

	row := &entity.UsageLog{
		Timestamp:        e.Timestamp,
		Username:         e.Username,
		AppId:            e.AppID,
		AppName:          e.AppName,
		ModelRef:         e.ModelRef,
		InputText:        e.InputText,
		OutputJson:       output,
		ElapsedTimeMs:    e.ElapsedMs,
		ResolutionTimeMs: ResolutionTime(e.ElapsedMs),
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UsageLogRepository().Create(ctx, row); err != nil {
		r.logger.Error("USAGE", "Failed to record usage log", map[string]interface{}{
			"error":    err.Error(),
			"app_id":   e.AppID,
			"username": e.Username,
		})
		return nil, apperror.Persistence("record usage log", err)
	}

	r.logger.Debug("USAGE", "Usage log recorded", map[string]interface{}{
		"log_id":        row.Id,
		"app_id":        e.AppID,
		"elapsed_ms":    row.ElapsedTimeMs,
		"resolution_ms": row.ResolutionTimeMs,
	})
	return row, nil
}
