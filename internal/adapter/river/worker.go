package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// NotificationWorker processes notification jobs from the River queue.
// For now it logs the dispatch; future versions will fan out to the push
// gateway for each device registered under the target scope.
type NotificationWorker struct {
	river.WorkerDefaults[NotificationJobArgs]
}

// Work processes a single notification job.
func (w *NotificationWorker) Work(ctx context.Context, job *river.Job[NotificationJobArgs]) error {
	slog.InfoContext(ctx, "dispatching notification",
		"audience", job.Args.Audience,
		"scope_id", job.Args.ScopeID,
		"title", job.Args.Title,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return nil
}
