package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/roastcurve/internal/adapters/repository"
	service "github.com/okian/roastcurve/internal/app"
	"github.com/okian/roastcurve/internal/domain/model"
	"github.com/okian/roastcurve/internal/domain/profileset"
	"github.com/okian/roastcurve/internal/domain/session"
	"github.com/okian/roastcurve/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func startedService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it reports the default limits", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["maxProfiles"], ShouldEqual, model.MaxProfiles)
			So(stats["maxPoints"], ShouldEqual, model.MaxPoints)
			So(stats["defaultProfiles"], ShouldEqual, 3)
			So(stats["defaultMode"], ShouldEqual, "absolute")
		})
	})

	Convey("Given a service whose default profiles exceed its capacity", t, func() {
		svc := service.New(
			service.WithLimits(2, 5),
			service.WithDefaultProfiles(7),
			service.WithDefaultMode(model.ModeInterval),
		)

		Convey("Then the defaults are clamped", func() {
			stats := svc.GetStats()
			So(stats["defaultProfiles"], ShouldEqual, 2)
			So(stats["maxPoints"], ShouldEqual, 5)
			So(stats["defaultMode"], ShouldEqual, "interval")
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		defer svc.Stop()

		Convey("When calling it before Start", func() {
			_, err := svc.CreateSession(context.Background())

			Convey("Then ErrNotStarted is returned", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(svc.ActiveSessions(context.Background()), ShouldEqual, 0)
			})
		})

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["activeSessions"], ShouldEqual, 0)
			})

			Convey("And starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})

			Convey("And stopping marks it stopped", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
				svc.Stop()
			})
		})
	})

	Convey("Given a service with an injected store", t, func() {
		store, err := repository.NewBadgerStore(context.Background())
		So(err, ShouldBeNil)
		defer store.Close()

		svc := service.New(service.WithStore(store))
		So(svc.Start(context.Background()), ShouldBeNil)
		view, err := svc.CreateSession(context.Background())
		So(err, ShouldBeNil)

		Convey("When the service stops", func() {
			svc.Stop()

			Convey("Then the store stays open", func() {
				_, err := store.Get(context.Background(), view.ID)
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestService_Derive(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startedService(t)

		Convey("When deriving absolute rows with a blank temperature", func() {
			res, err := svc.Derive(ctx, model.ModeAbsoluteTime, []model.RawRow{
				{Temperature: 120.0, Minutes: 0, Seconds: 0},
				{Temperature: "", Minutes: 0, Seconds: 20},
				{Temperature: "140", Minutes: "0", Seconds: "40"},
				{Temperature: 160.0, Minutes: 1, Seconds: 23},
			})

			Convey("Then the blank row is dropped and the rest derived", func() {
				So(err, ShouldBeNil)
				So(res.Dropped, ShouldEqual, 1)
				So(len(res.Points), ShouldEqual, 3)
				So(res.Points[1].Index, ShouldEqual, 1)
				So(res.Points[1].ElapsedSeconds, ShouldEqual, 40)
				So(res.Points[1].ROR, ShouldEqual, 0.5)
				So(res.Points[2].IntervalSeconds, ShouldEqual, 43)
				So(len(res.Table), ShouldEqual, model.MaxPoints)
				So(res.Table[3].Temperature, ShouldBeNil)
			})
		})

		Convey("When deriving interval rows", func() {
			res, err := svc.Derive(ctx, model.ModeInterval, []model.RawRow{
				{Temperature: 100.0, IntervalSeconds: 0},
				{Temperature: 130.0, IntervalSeconds: 30},
				{Temperature: 130.0, IntervalSeconds: 0},
				{Temperature: 190.0, IntervalSeconds: 45},
			})

			Convey("Then elapsed accumulates and a zero interval yields zero ROR", func() {
				So(err, ShouldBeNil)
				So(res.Points[3].ElapsedSeconds, ShouldEqual, 75)
				So(res.Points[3].Minutes, ShouldEqual, 1)
				So(res.Points[3].Seconds, ShouldEqual, 15)
				So(res.Points[2].ROR, ShouldEqual, 0)
			})
		})

		Convey("When the mode is unsupported", func() {
			_, err := svc.Derive(ctx, model.InputMode("epoch"), nil)

			Convey("Then ErrInvalidMode is returned", func() {
				So(errors.Is(err, model.ErrInvalidMode), ShouldBeTrue)
			})
		})

		Convey("When more rows than the template are given", func() {
			rows := make([]model.RawRow, model.MaxPoints+1)
			_, err := svc.Derive(ctx, model.ModeAbsoluteTime, rows)

			Convey("Then ErrTooManyPoints is returned", func() {
				So(errors.Is(err, profileset.ErrTooManyPoints), ShouldBeTrue)
			})
		})
	})
}

func TestService_Parse(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)

		Convey("When parsing mixed absolute text", func() {
			res, err := svc.Parse(context.Background(), model.ModeAbsoluteTime, "120 0 0\n\nhello\n150 1 5\n160 2\n")

			Convey("Then malformed lines are skipped and indexes stay dense", func() {
				So(err, ShouldBeNil)
				So(res.Kept, ShouldEqual, 2)
				So(res.Skipped, ShouldEqual, 2)
				So(res.Rows[1].Index, ShouldEqual, 1)
			})
		})

		Convey("When parsing nothing", func() {
			res, err := svc.Parse(context.Background(), model.ModeInterval, "")

			Convey("Then an empty row list is returned", func() {
				So(err, ShouldBeNil)
				So(res.Rows, ShouldNotBeNil)
				So(len(res.Rows), ShouldEqual, 0)
			})
		})
	})
}

func TestService_Sessions(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startedService(t, service.WithDisplayDefaults(false, true))

		view, err := svc.CreateSession(ctx)
		So(err, ShouldBeNil)

		Convey("Then a new session carries the default profiles and flags", func() {
			So(view.Mode, ShouldEqual, model.ModeAbsoluteTime)
			So(view.ShowROR, ShouldBeFalse)
			So(view.Interpolate, ShouldBeTrue)
			So(len(view.Profiles), ShouldEqual, 3)
			So(view.Profiles[0].Name, ShouldEqual, "Profile 1")
			So(svc.ActiveSessions(ctx), ShouldEqual, 1)
		})

		Convey("When adding profiles", func() {
			p, err := svc.AddProfile(ctx, view.ID, "")
			So(err, ShouldBeNil)
			_, dupErr := svc.AddProfile(ctx, view.ID, "Profile 1")

			Convey("Then the next automatic name is used and duplicates are rejected", func() {
				So(p.Name, ShouldEqual, "Profile 4")
				So(errors.Is(dupErr, profileset.ErrDuplicateName), ShouldBeTrue)
			})
		})

		Convey("When filling the session to capacity", func() {
			for i := 0; i < model.MaxProfiles-3; i++ {
				_, err := svc.AddProfile(ctx, view.ID, "")
				So(err, ShouldBeNil)
			}
			_, err := svc.AddProfile(ctx, view.ID, "one too many")

			Convey("Then the next add exceeds capacity", func() {
				So(errors.Is(err, profileset.ErrCapacityExceeded), ShouldBeTrue)
			})
		})

		Convey("When renaming and deleting profiles", func() {
			renamed, err := svc.RenameProfile(ctx, view.ID, "Profile 2", "Ethiopia")
			So(err, ShouldBeNil)
			after, delErr := svc.DeleteProfile(ctx, view.ID, "Profile 1")
			_, emptyErr := svc.RenameProfile(ctx, view.ID, "Ethiopia", "  ")
			_, missingErr := svc.DeleteProfile(ctx, view.ID, "Profile 1")

			Convey("Then order is preserved and errors are typed", func() {
				So(renamed.Profiles[1].Name, ShouldEqual, "Ethiopia")
				So(delErr, ShouldBeNil)
				So(after.Profiles[0].Name, ShouldEqual, "Ethiopia")
				So(errors.Is(emptyErr, profileset.ErrEmptyName), ShouldBeTrue)
				So(errors.Is(missingErr, profileset.ErrProfileNotFound), ShouldBeTrue)
			})
		})

		Convey("When updating settings", func() {
			mode := model.ModeInterval
			ror := true
			updated, err := svc.UpdateSettings(ctx, view.ID, session.Settings{Mode: &mode, ShowROR: &ror})
			bad := model.InputMode("bogus")
			_, badErr := svc.UpdateSettings(ctx, view.ID, session.Settings{Mode: &bad})

			Convey("Then only the given fields change", func() {
				So(err, ShouldBeNil)
				So(updated.Mode, ShouldEqual, model.ModeInterval)
				So(updated.ShowROR, ShouldBeTrue)
				So(updated.Interpolate, ShouldBeTrue)
				So(errors.Is(badErr, model.ErrInvalidMode), ShouldBeTrue)
			})
		})

		Convey("When deleting the session", func() {
			So(svc.DeleteSession(ctx, view.ID), ShouldBeNil)
			_, err := svc.GetSession(ctx, view.ID)

			Convey("Then it is gone", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(svc.DeleteSession(ctx, view.ID), repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When addressing a malformed session id", func() {
			_, err := svc.GetSession(ctx, "not-a-uuid")
			_, addErr := svc.AddProfile(ctx, "not-a-uuid", "x")

			Convey("Then it is reported as not found", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(errors.Is(addErr, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_TableBeforeSync(t *testing.T) {
	Convey("Given a profile with rows that was never synchronized", t, func() {
		ctx := context.Background()
		svc := startedService(t)
		view, err := svc.CreateSession(ctx)
		So(err, ShouldBeNil)
		_, err = svc.SetRows(ctx, view.ID, "Profile 1", []model.RawRow{
			{Temperature: 120.0, Minutes: 0, Seconds: 0},
			{Temperature: 150.0, Minutes: 1, Seconds: 0},
		})
		So(err, ShouldBeNil)

		Convey("When projecting the table", func() {
			table, err := svc.Table(ctx, view.ID, "Profile 1", true)

			Convey("Then authored values show and derived ones stay blank", func() {
				So(err, ShouldBeNil)
				So(len(table.Rows), ShouldEqual, model.MaxPoints)
				So(*table.Rows[1].Temperature, ShouldEqual, 150)
				So(table.Rows[1].ElapsedSeconds, ShouldBeNil)
				So(table.Rows[1].ROR, ShouldBeNil)
				So(table.Columns, ShouldContain, model.ColROR)
				So(table.Columns, ShouldNotContain, model.ColInterval)
			})
		})

		Convey("When projecting without derived columns in interval mode", func() {
			mode := model.ModeInterval
			_, err := svc.UpdateSettings(ctx, view.ID, session.Settings{Mode: &mode})
			So(err, ShouldBeNil)
			table, err := svc.Table(ctx, view.ID, "Profile 2", false)

			Convey("Then an empty profile yields the blank template", func() {
				So(err, ShouldBeNil)
				So(table.Rows[0].Temperature, ShouldBeNil)
				So(table.Columns, ShouldNotContain, model.ColMinutes)
				So(table.Columns, ShouldNotContain, model.ColROR)
			})
		})

		Convey("When setting too many rows", func() {
			_, err := svc.SetRows(ctx, view.ID, "Profile 1", make([]model.RawRow, model.MaxPoints+1))

			Convey("Then ErrTooManyPoints is returned", func() {
				So(errors.Is(err, profileset.ErrTooManyPoints), ShouldBeTrue)
			})
		})
	})
}
