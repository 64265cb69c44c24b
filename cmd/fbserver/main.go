package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fieldhub/fbserver/internal/database"
	"github.com/fieldhub/fbserver/internal/dispatch"
	"github.com/fieldhub/fbserver/internal/hwbus"
	"github.com/fieldhub/fbserver/internal/persistence"
	"github.com/fieldhub/fbserver/internal/regctx"
	"github.com/fieldhub/fbserver/pkg/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	f, err := parseFlags(args)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		log.Errorf("%s", err)
		return 1
	}

	dbFile, err := os.Open(f.dbPath)
	if err != nil {
		log.Errorf("opening database: %s", err)
		return 1
	}
	defer dbFile.Close()

	reg, _, err := database.NewTextLoader(1024, 32).Load(dbFile)
	if err != nil {
		log.Errorf("loading database: %s", err)
		return 1
	}

	bus := hwbus.NewMock()
	ctx := regctx.New(bus)
	d := dispatch.New(ctx, reg, f.ident)

	sched, err := persistence.New(ctx, reg, persistence.LogSink{}, persistence.Timing{
		Poll: f.timing.poll, Holdoff: f.timing.holdoff, Backoff: f.timing.backoff,
	})
	if err != nil {
		log.Errorf("starting persistence scheduler: %s", err)
		return 1
	}
	if err := sched.Start(); err != nil {
		log.Errorf("starting persistence scheduler: %s", err)
		return 1
	}
	defer sched.Shutdown()

	configLn, err := net.Listen("tcp", addr(f.port))
	if err != nil {
		log.Errorf("listening on config port: %s", err)
		return 1
	}
	log.Infof("config port listening on %s", configLn.Addr())

	dataLn, err := net.Listen("tcp", addr(f.dataPort))
	if err != nil {
		log.Errorf("listening on data port: %s", err)
		return 1
	}
	log.Infof("data port listening on %s (capture streaming not yet wired)", dataLn.Addr())

	signal.Ignore(syscall.SIGPIPE)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	var shuttingDown atomic.Bool

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		if err := serveConfigPort(configLn, d); err != nil && !shuttingDown.Load() {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := serveDataPort(dataLn); err != nil && !shuttingDown.Load() {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return refreshLoop(gctx, ctx)
	})
	g.Go(func() error {
		<-sigs
		log.Infof("signal received, shutting down")
		shuttingDown.Store(true)
		configLn.Close()
		dataLn.Close()
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Errorf("%s", err)
		return 1
	}
	return 0
}

func addr(port int) string {
	return fmt.Sprintf(":%d", port)
}

// serveDataPort accepts and immediately closes connections on the
// capture-streaming port: the binary protocol for streaming captured
// samples is an external collaborator spec.md §1 leaves unspecified, so
// this exists only to hold the port open for discovery purposes.
func serveDataPort(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		conn.Close()
	}
}

// refreshLoop pulls the bit and position buses into the capture mirror
// once per tick, the same cadence original_source/'s hardware poll thread
// uses to keep BitOut/PosOut's captured snapshots current between client
// requests.
func refreshLoop(ctx context.Context, rc *regctx.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	mock, _ := rc.Bus.(*hwbus.Mock)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t := rc.Clock.Tick()
			if mock != nil {
				rc.Capture.RefreshBits(t, mock)
				rc.Capture.RefreshPositions(t, mock)
			}
		}
	}
}
