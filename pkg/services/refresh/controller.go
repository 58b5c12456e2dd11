package refresh

import (
	"context"
	"fmt"
	"sync"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/services/board"
)

// Controller keeps cached board snapshots warm, one runner per board.
type Controller interface {
	Start(ctx context.Context, b domain.Board) error
	Cancel(ctx context.Context, boardID string) error
	Stop()
}

type runnerDescriptor struct {
	cancelFunc context.CancelFunc
	runner     *Runner
}

type DefaultController struct {
	source board.Source
	cache  board.SnapshotCache
	config RunnerConfig

	mu      sync.Mutex
	runners map[string]runnerDescriptor
}

func NewController(source board.Source, cache board.SnapshotCache, config RunnerConfig) *DefaultController {
	return &DefaultController{
		source:  source,
		cache:   cache,
		config:  config.withDefaults(),
		runners: make(map[string]runnerDescriptor),
	}
}

func (ctrl *DefaultController) Start(ctx context.Context, b domain.Board) error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	if _, ok := ctrl.runners[b.ID]; ok {
		return fmt.Errorf("refresh already running: %s", b.ID)
	}

	ctx, cancel := context.WithCancel(ctx)
	runner := NewRunner(b, ctrl.source, ctrl.cache, ctrl.config)
	ctrl.runners[b.ID] = runnerDescriptor{cancelFunc: cancel, runner: runner}

	go runner.Run(ctx)
	return nil
}

func (ctrl *DefaultController) Cancel(_ context.Context, boardID string) error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	desc, ok := ctrl.runners[boardID]
	if !ok {
		return fmt.Errorf("refresh not running: %s", boardID)
	}
	desc.cancelFunc()
	<-desc.runner.Done()

	delete(ctrl.runners, boardID)
	return nil
}

// Stop cancels every runner and waits for them to exit.
func (ctrl *DefaultController) Stop() {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	for id, desc := range ctrl.runners {
		desc.cancelFunc()
		<-desc.runner.Done()
		delete(ctrl.runners, id)
	}
}

// Runner returns the runner refreshing boardID, if any.
func (ctrl *DefaultController) Runner(boardID string) (*Runner, bool) {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	desc, ok := ctrl.runners[boardID]
	return desc.runner, ok
}
