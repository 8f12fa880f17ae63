package stats_test

import (
	"testing"

	"github.com/bountylens/bountylens/internal/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMean(t *testing.T) {
	Convey("Given a set of vote counts", t, func() {
		Convey("The mean of an empty set is zero", func() {
			So(stats.Mean(nil), ShouldEqual, 0)
		})

		Convey("The mean of a uniform set is its value", func() {
			So(stats.Mean([]float64{4, 4, 4}), ShouldEqual, 4)
		})

		Convey("The mean of mixed values is their average", func() {
			So(stats.Mean([]float64{1, 2, 3, 4}), ShouldEqual, 2.5)
		})
	})
}

func TestMode(t *testing.T) {
	Convey("Given nominal field values", t, func() {
		Convey("The most frequent value wins", func() {
			So(stats.Mode([]string{"high", "low", "high"}), ShouldEqual, "high")
		})

		Convey("A tie is broken by first appearance", func() {
			So(stats.Mode([]string{"medium", "critical", "critical", "medium"}), ShouldEqual, "medium")
		})

		Convey("An empty input yields an empty mode", func() {
			So(stats.Mode(nil), ShouldEqual, "")
		})
	})
}

func TestQuartiles(t *testing.T) {
	Convey("Given a sample", t, func() {
		Convey("Quartiles interpolate between closest ranks", func() {
			q1, q3 := stats.Quartiles([]float64{1, 2, 3, 4, 5})
			So(q1, ShouldEqual, 2)
			So(q3, ShouldEqual, 4)
		})

		Convey("A single value is its own quartiles", func() {
			q1, q3 := stats.Quartiles([]float64{7})
			So(q1, ShouldEqual, 7)
			So(q3, ShouldEqual, 7)
		})

		Convey("An even-sized sample interpolates", func() {
			q1, q3 := stats.Quartiles([]float64{1, 2, 3, 4})
			So(q1, ShouldEqual, 1.75)
			So(q3, ShouldEqual, 3.25)
		})
	})
}

func TestPercentage(t *testing.T) {
	Convey("Given bounty and total counts", t, func() {
		Convey("The share is rounded to two decimals", func() {
			So(stats.Percentage(1, 3), ShouldEqual, 33.33)
			So(stats.Percentage(3, 10), ShouldEqual, 30.0)
		})

		Convey("A zero total yields zero", func() {
			So(stats.Percentage(0, 0), ShouldEqual, 0)
		})
	})
}
