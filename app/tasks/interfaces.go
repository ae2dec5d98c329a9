package tasks

// TaskSchedulerInterface defines the interface for background task
// scheduling. The main application starts it alongside the HTTP server;
// the API trigger endpoint enqueues ad-hoc ingestion tasks through it.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
