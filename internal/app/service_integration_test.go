package service_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/okian/leagueboard/internal/adapters/upstream"
	service "github.com/okian/leagueboard/internal/app"
	"github.com/okian/leagueboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service backed by an HTTP upstream", t, func() {
		var failing atomic.Bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if failing.Load() {
				http.Error(w, "down", http.StatusServiceUnavailable)
				return
			}
			season := r.URL.Query().Get("season")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `[{"gamer_name":"p-%s","league":"Gold","maps":3,"wins":2,"losses":1,"win_percentage":66.7}]`, season)
		}))
		defer srv.Close()

		client, err := upstream.New(srv.URL, upstream.WithRateLimit(1000))
		So(err, ShouldBeNil)

		svc := service.New(service.WithFetcher(client), service.WithRefreshInterval(0))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When the default season loads", func() {
			So(waitFor(func() bool { return svc.View(ctx, model.Season2025).Loaded }), ShouldBeTrue)
			board := svc.View(ctx, model.Season2025)

			Convey("Then the season was sent upstream", func() {
				So(board.Players, ShouldHaveLength, 1)
				So(board.Players[0].Name(), ShouldEqual, "p-2025")
				So(board.Players[0].WinPercentage.String(), ShouldEqual, "66.7")
			})
		})

		Convey("When another season is selected", func() {
			So(waitFor(func() bool { return svc.View(ctx, model.Season2024).Loaded }), ShouldBeTrue)

			Convey("Then each season has its own slot", func() {
				So(svc.View(ctx, model.Season2024).Players[0].Name(), ShouldEqual, "p-2024")
				So(svc.GetStats()["totalPlayers"], ShouldEqual, 2)
			})
		})

		Convey("When upstream starts failing after a load", func() {
			So(waitFor(func() bool { return svc.View(ctx, model.Season2025).Loaded }), ShouldBeTrue)
			failing.Store(true)
			So(svc.Refresh(ctx, model.Season2025), ShouldBeNil)
			So(waitFor(func() bool { return !svc.View(ctx, model.Season2025).Loading }), ShouldBeTrue)

			Convey("Then the previous rows stay in place", func() {
				board := svc.View(ctx, model.Season2025)
				So(board.Loaded, ShouldBeTrue)
				So(board.Players, ShouldHaveLength, 1)
			})
		})
	})
}
