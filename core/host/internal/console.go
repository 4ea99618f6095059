package internal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/logging"
	snowsync "github.com/mogud/snowdi/core/sync"
)

var _ host.IHostedRoutine = (*ConsoleLifetimeRoutine)(nil)

// ConsoleLifetimeRoutine 收到 SIGINT、SIGTERM 时停止应用
type ConsoleLifetimeRoutine struct {
	logger      logging.ILogger
	cancel      func()
	wg          sync.WaitGroup
	application host.IHostApplication
}

func (ss *ConsoleLifetimeRoutine) Construct(application host.IHostApplication, logger *logging.Logger[ConsoleLifetimeRoutine]) {
	ss.application = application
	ss.logger = logger.Get(func(data *logging.LogData) {
		data.Name = "ConsoleLifetime"
		data.ID = fmt.Sprintf("%p", ss)
	})
}

func (ss *ConsoleLifetimeRoutine) Start(_ context.Context, wg *snowsync.TimeoutWaitGroup) {
	var ctx context.Context
	ctx, ss.cancel = context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	ss.wg.Add(1)
	go func() {
		defer ss.wg.Done()
		defer signal.Stop(sigs)

		select {
		case <-sigs:
			ss.logger.Infof("SHUTDOWN APPLICATION BY SIGNAL...")
			ss.application.StopApplication()
		case <-ctx.Done():
			ss.logger.Infof("SHUTDOWN APPLICATION")
		}
	}()
}

func (ss *ConsoleLifetimeRoutine) Stop(_ context.Context, wg *snowsync.TimeoutWaitGroup) {
	wg.Add(1)
	defer wg.Done()

	if ss.cancel != nil {
		ss.cancel()
	}
	ss.wg.Wait()
}
