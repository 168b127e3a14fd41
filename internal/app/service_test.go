package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/leagueboard/internal/adapters/upstream"
	service "github.com/okian/leagueboard/internal/app"
	"github.com/okian/leagueboard/internal/domain/model"
	"github.com/okian/leagueboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// stubFetcher serves canned lists and can hold fetches until released.
type stubFetcher struct {
	mu      sync.Mutex
	players map[model.Season][]model.Player
	err     error
	calls   map[model.Season]int
	gate    chan struct{}
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{players: map[model.Season][]model.Player{}, calls: map[model.Season]int{}}
}

func (f *stubFetcher) Fetch(ctx context.Context, season model.Season) (upstream.Result, error) {
	f.mu.Lock()
	f.calls[season]++
	gate, err, players := f.gate, f.err, f.players[season]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return upstream.Result{}, ctx.Err()
		}
	}
	if err != nil {
		return upstream.Result{RequestID: "stub"}, err
	}
	return upstream.Result{Players: players, RequestID: "stub", FetchedAt: time.Now()}, nil
}

func (f *stubFetcher) set(season model.Season, names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ps := make([]model.Player, len(names))
	for i, n := range names {
		ps[i] = model.Player{GamerName: model.Text(n)}
	}
	f.players[season] = ps
}

func (f *stubFetcher) callCount(season model.Season) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[season]
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestService_Start(t *testing.T) {
	Convey("Given a service without a fetcher", t, func() {
		svc := service.New()

		Convey("Then Start fails", func() {
			So(errors.Is(svc.Start(context.Background()), service.ErrNoFetcher), ShouldBeTrue)
		})

		Convey("And Refresh reports it is not started", func() {
			So(errors.Is(svc.Refresh(context.Background(), model.Season2025), service.ErrNotStarted), ShouldBeTrue)
		})
	})

	Convey("Given a started service", t, func() {
		fetcher := newStubFetcher()
		fetcher.set(model.Season2025, "Ann", "bob")
		svc := service.New(service.WithFetcher(fetcher))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("Then the default season is fetched once on start", func() {
			So(waitFor(func() bool { return svc.View(ctx, model.Season2025).Loaded }), ShouldBeTrue)
			So(fetcher.callCount(model.Season2025), ShouldEqual, 1)
			So(svc.View(ctx, model.Season2025).Players, ShouldHaveLength, 2)
		})

		Convey("And starting twice is a no-op", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithFetcher(newStubFetcher()))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it is marked as stopped and refuses refreshes", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				So(errors.Is(svc.Refresh(context.Background(), model.Season2024), service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_View(t *testing.T) {
	Convey("Given a service whose fetches are held", t, func() {
		fetcher := newStubFetcher()
		fetcher.gate = make(chan struct{})
		fetcher.set(model.Season2024, "old-season")
		svc := service.New(service.WithFetcher(fetcher), service.WithRefreshInterval(0))
		ctx, cancel := context.WithCancel(context.Background())
		So(svc.Start(ctx), ShouldBeNil)
		defer func() {
			// release held fetches before waiting on the workers
			cancel()
			svc.Stop()
		}()

		Convey("When a season with no data is viewed", func() {
			board := svc.View(ctx, model.Season2024)

			Convey("Then the view returns at once, empty and loading", func() {
				So(board.Loaded, ShouldBeFalse)
				So(board.Loading, ShouldBeTrue)
				So(board.Players, ShouldBeEmpty)
			})

			Convey("And repeated views do not queue duplicate fetches", func() {
				svc.View(ctx, model.Season2024)
				svc.View(ctx, model.Season2024)
				So(svc.Refresh(ctx, model.Season2024), ShouldBeNil)
				close(fetcher.gate)

				So(waitFor(func() bool { return svc.View(ctx, model.Season2024).Loaded }), ShouldBeTrue)
				So(fetcher.callCount(model.Season2024), ShouldEqual, 1)
			})
		})
	})
}

func TestService_Refresh(t *testing.T) {
	Convey("Given a loaded season", t, func() {
		fetcher := newStubFetcher()
		fetcher.set(model.Season2025, "a")
		svc := service.New(service.WithFetcher(fetcher))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()
		So(waitFor(func() bool { return svc.View(ctx, model.Season2025).Loaded }), ShouldBeTrue)

		Convey("When a refresh is forced after upstream changed", func() {
			fetcher.set(model.Season2025, "a", "b", "c")
			So(svc.Refresh(ctx, model.Season2025), ShouldBeNil)

			Convey("Then the slot is replaced wholesale", func() {
				So(waitFor(func() bool { return len(svc.View(ctx, model.Season2025).Players) == 3 }), ShouldBeTrue)
				So(fetcher.callCount(model.Season2025), ShouldEqual, 2)
			})
		})
	})
}

func TestService_Staleness(t *testing.T) {
	Convey("Given a service with a controllable clock", t, func() {
		var mu sync.Mutex
		now := time.Now()
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
		advance := func(d time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			now = now.Add(d)
		}

		fetcher := newStubFetcher()
		fetcher.set(model.Season2025, "a")
		svc := service.New(
			service.WithFetcher(fetcher),
			service.WithClock(clock),
			service.WithRefreshInterval(time.Minute),
		)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()
		So(waitFor(func() bool { return fetcher.callCount(model.Season2025) == 1 && !svc.View(ctx, model.Season2025).Loading }), ShouldBeTrue)

		Convey("When viewed again well past the interval", func() {
			advance(2 * time.Minute)
			svc.View(ctx, model.Season2025)

			Convey("Then a refresh is issued", func() {
				So(waitFor(func() bool { return fetcher.callCount(model.Season2025) == 2 }), ShouldBeTrue)
			})
		})
	})
}

func TestService_FailedFetch(t *testing.T) {
	Convey("Given an upstream that fails", t, func() {
		fetcher := newStubFetcher()
		fetcher.err = &upstream.FetchError{Kind: upstream.KindStatus, Err: upstream.ErrUpstreamStatus}
		svc := service.New(service.WithFetcher(fetcher), service.WithRefreshInterval(time.Hour))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		So(waitFor(func() bool { return fetcher.callCount(model.Season2025) == 1 && !svc.View(ctx, model.Season2025).Loading }), ShouldBeTrue)

		Convey("Then the season shows zero rows and nothing panics", func() {
			board := svc.View(ctx, model.Season2025)
			So(board.Loaded, ShouldBeFalse)
			So(board.Players, ShouldBeEmpty)
		})

		Convey("And views do not retrigger the fetch within the interval", func() {
			svc.View(ctx, model.Season2025)
			time.Sleep(20 * time.Millisecond)
			So(fetcher.callCount(model.Season2025), ShouldEqual, 1)
		})

		Convey("And the failure is counted in stats", func() {
			seasons := svc.GetStats()["seasons"].(map[string]any)
			entry := seasons["2025"].(map[string]any)
			So(entry["failures"], ShouldEqual, 1)
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2), service.WithQueueSize(8))

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()

			Convey("Then it returns configuration and empty seasons", func() {
				So(stats["started"], ShouldEqual, false)
				So(stats["workerCount"], ShouldEqual, 2)
				So(stats["queueSize"], ShouldEqual, 8)
				So(stats["totalPlayers"], ShouldEqual, 0)
				So(stats["seasons"], ShouldContainKey, "2024")
			})
		})
	})
}
