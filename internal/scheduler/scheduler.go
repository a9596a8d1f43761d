package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/mdelacroix/cinetheque/internal/jobs"
)

// Scheduler enqueues periodic import runs on a cron expression.
type Scheduler struct {
	cron  *cron.Cron
	queue *jobs.Queue
	log   *logrus.Logger
}

func New(queue *jobs.Queue, log *logrus.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), queue: queue, log: log}
}

// ScheduleImport registers a recurring import of the given page count.
func (s *Scheduler) ScheduleImport(spec string, pages int) error {
	_, err := s.cron.AddFunc(spec, func() {
		id, err := s.queue.Enqueue(jobs.TaskImportMovies, jobs.ImportPayload{Pages: pages})
		if err != nil {
			s.log.WithError(err).Error("scheduler: failed to enqueue import")
			return
		}
		s.log.WithFields(logrus.Fields{"task_id": id, "pages": pages}).
			Info("scheduler: import enqueued")
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler: started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler: stopped")
}
