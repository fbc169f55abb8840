package env

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/vovakirdan/tilelab/internal/config"
	"github.com/vovakirdan/tilelab/internal/pushbox"
)

const (
	shortLevel    = "*****\n*PBX*\n*****"
	corridorLevel = "*******\n*P B X*\n*******"
)

func newEnv() *Env {
	return New(config.DefaultGeneratorConfig(), config.DefaultRenderConfig())
}

func startFixed(layout string, extra ...string) *Env {
	e := newEnv()
	So(e.Setting("layout", layout), ShouldBeNil)
	for i := 0; i+1 < len(extra); i += 2 {
		So(e.Setting(extra[i], extra[i+1]), ShouldBeNil)
	}
	So(e.Init(), ShouldBeNil)
	So(e.Start(1, 7), ShouldBeNil)
	return e
}

type fakeSource struct {
	layout string
	got    []pushbox.Settings
}

func (f *fakeSource) GenerateLevel(s pushbox.Settings) (string, bool, error) {
	f.got = append(f.got, s)
	return f.layout, len(f.got) > 1, nil
}

func eventNames(events []Event) []string {
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = ev.Name
	}
	return names
}

func TestLifecycle(t *testing.T) {
	Convey("Given a new environment", t, func() {
		e := newEnv()

		Convey("Start before Init fails", func() {
			So(e.Start(0, 1), ShouldEqual, ErrNotInitialised)
			status, _ := e.Advance(1)
			So(status, ShouldEqual, StatusError)
			So(e.Err(), ShouldEqual, ErrNotStarted)
		})

		Convey("Unknown settings are rejected", func() {
			So(e.Setting("colour", "red"), ShouldBeNil)
			So(e.Init(), ShouldNotBeNil)
		})

		Convey("Non-integer sizes are rejected", func() {
			So(e.Setting("width", "wide"), ShouldBeNil)
			So(e.Init(), ShouldNotBeNil)
		})

		Convey("Oversized rooms are rejected", func() {
			So(e.Setting("width", "30"), ShouldBeNil)
			So(e.Init(), ShouldNotBeNil)
		})

		Convey("Invalid layouts are rejected", func() {
			So(e.Setting("layout", "*P*"), ShouldBeNil)
			So(e.Init(), ShouldNotBeNil)
		})

		Convey("Settings are frozen by Init", func() {
			So(e.Init(), ShouldBeNil)
			So(e.Setting("width", "8"), ShouldEqual, ErrInitialised)
			So(e.Init(), ShouldEqual, ErrInitialised)
		})
	})

	Convey("Given a level source", t, func() {
		src := &fakeSource{layout: shortLevel}
		e := newEnv()
		e.SetLevelSource(src)
		So(e.Setting("width", "9"), ShouldBeNil)
		So(e.Setting("numBoxes", "3"), ShouldBeNil)
		So(e.Init(), ShouldBeNil)

		Convey("Start generates with the episode seed and the settings", func() {
			So(e.Start(4, 1<<32+77), ShouldBeNil)
			So(len(src.got), ShouldEqual, 1)
			So(src.got[0].Seed, ShouldEqual, uint32(77))
			So(src.got[0].Width, ShouldEqual, 9)
			So(src.got[0].Height, ShouldEqual, config.DefaultGeneratorConfig().Height)
			So(src.got[0].NumBoxes, ShouldEqual, 3)

			events := e.Events()
			So(eventNames(events), ShouldResemble, []string{EventLevelGenerated})
			So(events[0].Observations[0].Text, ShouldEqual, shortLevel)
			So(events[0].Observations[1].Doubles, ShouldResemble, []float64{5, 3, 1, 77})
			So(e.Events(), ShouldBeEmpty)
		})
	})
}

func TestAdvance(t *testing.T) {
	Convey("Given a one-push level", t, func() {
		e := startFixed(shortLevel)
		e.Events()

		Convey("Standing still earns nothing", func() {
			status, reward := e.Advance(3)
			So(status, ShouldEqual, StatusRunning)
			So(reward, ShouldEqual, 0)
		})

		Convey("Pushing the box onto the target ends the episode", func() {
			So(e.ActDiscrete([]int{MoveEast}), ShouldBeNil)
			status, reward := e.Advance(1)
			So(status, ShouldEqual, StatusTerminated)
			So(reward, ShouldAlmostEqual, RewardStep+RewardBoxOnTarget+RewardSolved)

			events := e.Events()
			So(eventNames(events), ShouldResemble, []string{EventBoxOnTarget, EventLevelComplete})
			So(events[0].Observations[0].Int32s.Data(), ShouldResemble, []int32{3, 1})
			So(events[1].Observations[0].Doubles, ShouldResemble, []float64{1, 1})

			Convey("and further steps are errors", func() {
				status, _ := e.Advance(1)
				So(status, ShouldEqual, StatusError)
				So(e.Err(), ShouldNotBeNil)
			})

			Convey("and Start begins a fresh episode", func() {
				So(e.Start(2, 8), ShouldBeNil)
				status, _ := e.Advance(1)
				So(status, ShouldEqual, StatusRunning)
				value, _ := e.ReadProperty("episode")
				So(value, ShouldEqual, "2")
			})
		})

		Convey("Invalid actions are rejected", func() {
			So(e.ActDiscrete([]int{5}), ShouldNotBeNil)
			So(e.ActDiscrete([]int{-1}), ShouldNotBeNil)
			So(e.ActDiscrete([]int{1, 2}), ShouldNotBeNil)
		})
	})

	Convey("Given a corridor with a step limit", t, func() {
		e := startFixed(corridorLevel, "maxSteps", "3")

		Convey("Walking into a wall costs a step", func() {
			So(e.ActDiscrete([]int{MoveWest}), ShouldBeNil)
			status, reward := e.Advance(1)
			So(status, ShouldEqual, StatusRunning)
			So(reward, ShouldAlmostEqual, RewardStep)
		})

		Convey("The episode is interrupted at the limit", func() {
			So(e.ActDiscrete([]int{MoveWest}), ShouldBeNil)
			status, reward := e.Advance(10)
			So(status, ShouldEqual, StatusInterrupted)
			So(reward, ShouldAlmostEqual, 3*RewardStep)
			steps, _ := e.ReadProperty("steps")
			So(steps, ShouldEqual, "3")
		})

		Convey("Moving east walks up to the box", func() {
			So(e.ActDiscrete([]int{MoveEast}), ShouldBeNil)
			status, _ := e.Advance(1)
			So(status, ShouldEqual, StatusRunning)
			So(e.Level().String(), ShouldEqual, "*******\n* PB X*\n*******")
		})
	})

	Convey("Pushing a box off a target is penalised", t, func() {
		e := startFixed("********\n*P& XB *\n********")
		So(e.ActDiscrete([]int{MoveEast}), ShouldBeNil)
		status, reward := e.Advance(1)
		So(status, ShouldEqual, StatusRunning)
		So(reward, ShouldAlmostEqual, RewardStep+RewardBoxOffTarget)
		boxes, _ := e.ReadProperty("level.boxesOnTarget")
		So(boxes, ShouldEqual, "0")
	})
}

func TestObservations(t *testing.T) {
	Convey("Given a started environment", t, func() {
		e := startFixed(shortLevel)
		size := config.DefaultRenderConfig().SpriteSize

		Convey("Specs describe the level", func() {
			specs := e.ObservationSpecs()
			So(len(specs), ShouldEqual, 3)
			So(specs[0].Name, ShouldEqual, ObservationRGB)
			So(specs[0].Shape, ShouldResemble, []int{3 * size, 5 * size, 3})
		})

		Convey("RGB is a copy of the rendered scene", func() {
			obs, err := e.Observation(ObservationRGB)
			So(err, ShouldBeNil)
			So(obs.Bytes.Shape(), ShouldResemble, []int{3 * size, 5 * size, 3})
			obs.Bytes.Assign(0)
			again, err := e.Observation(ObservationRGB)
			So(err, ShouldBeNil)
			So(again.Bytes.Equal(obs.Bytes), ShouldBeFalse)
		})

		Convey("LAYOUT and POSITION follow the player", func() {
			So(e.ActDiscrete([]int{MoveNorth}), ShouldBeNil)
			e.Advance(1)
			layout, err := e.Observation(ObservationLayout)
			So(err, ShouldBeNil)
			So(layout.Text, ShouldEqual, shortLevel)
			pos, err := e.Observation(ObservationPosition)
			So(err, ShouldBeNil)
			So(pos.Int32s.Data(), ShouldResemble, []int32{1, 1})
		})

		Convey("LAYOUT keeps a target under the player", func() {
			e := startFixed("******\n*PXB *\n******")
			So(e.ActDiscrete([]int{MoveEast}), ShouldBeNil)
			e.Advance(1)
			layout, err := e.Observation(ObservationLayout)
			So(err, ShouldBeNil)
			So(layout.Text, ShouldEqual, "******\n* +B *\n******")
			parsed, err := pushbox.ParseLevel(layout.Text)
			So(err, ShouldBeNil)
			So(parsed.TileAt(parsed.Player()), ShouldEqual, pushbox.TileTarget)
		})

		Convey("Unknown observations fail", func() {
			_, err := e.Observation("DEPTH")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Observations need a level", t, func() {
		_, err := newEnv().Observation(ObservationLayout)
		So(err, ShouldEqual, ErrNotStarted)
	})
}

func TestProperties(t *testing.T) {
	Convey("Given a started environment", t, func() {
		e := startFixed(shortLevel)

		Convey("Leaves can be read", func() {
			value, result := e.ReadProperty("level.width")
			So(result, ShouldEqual, PropertySuccess)
			So(value, ShouldEqual, "5")
			value, _ = e.ReadProperty("seed")
			So(value, ShouldEqual, "7")
			value, _ = e.ReadProperty("maxSteps")
			So(value, ShouldEqual, "300")
		})

		Convey("Access errors are reported", func() {
			_, result := e.ReadProperty("level")
			So(result, ShouldEqual, PropertyPermissionDenied)
			_, result = e.ReadProperty("missing")
			So(result, ShouldEqual, PropertyNotFound)
			So(e.WriteProperty("level.width", "9"), ShouldEqual, PropertyPermissionDenied)
			So(e.WriteProperty("missing", "1"), ShouldEqual, PropertyNotFound)
			So(e.WriteProperty("maxSteps", "many"), ShouldEqual, PropertyInvalidArgument)
			So(e.WriteProperty("renderer.spriteSize", "0"), ShouldEqual, PropertyInvalidArgument)
		})

		Convey("Writing maxSteps limits the episode", func() {
			So(e.WriteProperty("maxSteps", "1"), ShouldEqual, PropertySuccess)
			status, _ := e.Advance(1)
			So(status, ShouldEqual, StatusInterrupted)
		})

		Convey("Writing the sprite size resizes RGB", func() {
			So(e.WriteProperty("renderer.spriteSize", "2"), ShouldEqual, PropertySuccess)
			obs, err := e.Observation(ObservationRGB)
			So(err, ShouldBeNil)
			So(obs.Bytes.Shape(), ShouldResemble, []int{6, 10, 3})
		})

		Convey("The root lists leaves and branches", func() {
			listed := map[string]PropertyAttributes{}
			So(e.ListProperty("", func(key string, attrs PropertyAttributes) {
				listed[key] = attrs
			}), ShouldEqual, PropertySuccess)
			So(listed["episode"], ShouldEqual, PropertyReadable)
			So(listed["maxSteps"], ShouldEqual, PropertyReadable|PropertyWritable)
			So(listed["level"], ShouldEqual, PropertyListable)
			So(listed["renderer"], ShouldEqual, PropertyListable)
			So(len(listed), ShouldEqual, 7)
		})

		Convey("Branches list their children", func() {
			var keys []string
			So(e.ListProperty("level", func(key string, _ PropertyAttributes) {
				keys = append(keys, key)
			}), ShouldEqual, PropertySuccess)
			So(keys, ShouldResemble, []string{
				"level.width", "level.height", "level.numBoxes", "level.boxesOnTarget", "level.layout",
			})
			So(e.ListProperty("episode", func(string, PropertyAttributes) {}), ShouldEqual, PropertyPermissionDenied)
			So(e.ListProperty("nothing", func(string, PropertyAttributes) {}), ShouldEqual, PropertyNotFound)
		})
	})
}
