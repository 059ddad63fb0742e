package cli

import (
	"database/sql"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskdesk/internal/client"
	"github.com/TWRT/taskdesk/internal/client/remote"
	"github.com/TWRT/taskdesk/internal/config"
	"github.com/TWRT/taskdesk/internal/logger"
	"github.com/TWRT/taskdesk/internal/repository"
	"github.com/TWRT/taskdesk/internal/service"
)

// localBackend serves the CLI straight from a database file.
type localBackend struct {
	*service.TaskService
	*service.ProgressService
	*service.ProjectService
	*service.SubtaskService
	*service.TemplateService
	*service.PomodoroService
	*service.StatsService
	*service.BadgeService
}

var _ client.Backend = localBackend{}

func newLocalBackend(db *sql.DB, cfg *config.Config, log logrus.FieldLogger) localBackend {
	taskRepo := repository.NewTaskRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	progress := service.NewProgressService(
		repository.NewProgressRepository(db),
		cfg.Gamification.XPByPriority,
		log,
	)
	badges := service.NewBadgeService(repository.NewBadgeRepository(db), statsRepo, progress, log)
	tasks := service.NewTaskService(taskRepo, progress, badges, log)
	return localBackend{
		TaskService:     tasks,
		ProgressService: progress,
		ProjectService:  service.NewProjectService(repository.NewProjectRepository(db), taskRepo),
		SubtaskService:  service.NewSubtaskService(repository.NewSubtaskRepository(db), taskRepo),
		TemplateService: service.NewTemplateService(repository.NewTemplateRepository(db), tasks),
		PomodoroService: service.NewPomodoroService(repository.NewPomodoroRepository(db), taskRepo, log),
		StatsService:    service.NewStatsService(statsRepo),
		BadgeService:    badges,
	}
}

type env struct {
	cfg     *config.Config
	log     logrus.FieldLogger
	backend client.Backend
	close   func() error
}

// openEnv picks the backend: --offline, then a server URL, then the local
// database.
func openEnv() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logger.NewWithOutput(os.Stderr, "taskctl", level, logger.FormatText)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: log, close: func() error { return nil }}

	url := cfg.Backend.URL
	if serverURL != "" {
		url = serverURL
	}
	path := cfg.Database.Path
	if dbPath != "" {
		path = dbPath
	}

	switch {
	case offline:
		e.backend = client.Unavailable{}
	case url != "":
		timeout := cfg.Backend.Timeout
		if timeout == 0 {
			timeout = remote.DefaultTimeout
		}
		e.backend = remote.NewClient(url, timeout)
		log.WithField("url", url).Debug("using remote backend")
	default:
		db, err := repository.InitDB(cfg.Database.Driver, path)
		if err != nil {
			return nil, err
		}
		e.backend = newLocalBackend(db, cfg, log)
		e.close = db.Close
		log.WithField("path", path).Debug("using local database")
	}

	return e, nil
}

func (e *env) formatter() formatter {
	return formatter{dateFormat: e.cfg.Display.DateFormat, now: time.Now}
}
