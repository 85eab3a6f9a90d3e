package precomp

import (
	"bytes"
	"os"
	"testing"

	"go.viam.com/test"
)

func TestWriteReadTableRoundTrips(t *testing.T) {
	table := Table{
		Buckets: []Bucket{
			{
				MinDistance: 0, MaxDistance: 1,
				Samples: []Sample{{T: 0.5, Alpha: 0.1, VMid: 1.2}, {T: 0.8, Alpha: -0.3, VMid: 0.5}},
			},
			{
				MinDistance: 1, MaxDistance: 3,
				Samples: []Sample{{T: 1.1, Alpha: 1.57, VMid: 2.0}},
			},
		},
	}

	var buf bytes.Buffer
	err := WriteTable(&buf, table)
	test.That(t, err, test.ShouldBeNil)

	got, err := ReadTable(&buf)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(got.Buckets), test.ShouldEqual, 2)
	test.That(t, len(got.Buckets[0].Samples), test.ShouldEqual, 2)
	test.That(t, got.Buckets[0].Samples[0].T, test.ShouldAlmostEqual, float32(0.5))
	test.That(t, got.Buckets[1].Samples[0].VMid, test.ShouldAlmostEqual, float32(2.0))
}

func TestReadTableRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("nope")
	_, err := ReadTable(buf)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestBucketForSelectsRange(t *testing.T) {
	table := Table{Buckets: []Bucket{
		{MinDistance: 0, MaxDistance: 1},
		{MinDistance: 1, MaxDistance: 5},
	}}
	b, ok := table.BucketFor(2.5)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, b.MinDistance, test.ShouldAlmostEqual, float32(1))

	_, ok = table.BucketFor(100)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestCaptureWriterRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/capture.bin"

	w := NewCaptureWriter(path)
	test.That(t, w.Write(CapturedInput{StartX: 1, TargetX: 2, MaxSpeed: 2, Acceleration: 3, ObstacleCount: 4}), test.ShouldBeNil)
	test.That(t, w.Write(CapturedInput{StartX: 5, TargetX: 6, MaxSpeed: 2, Acceleration: 3, ObstacleCount: 0}), test.ShouldBeNil)
	test.That(t, w.Close(), test.ShouldBeNil)

	f, err := os.Open(path)
	test.That(t, err, test.ShouldBeNil)
	defer f.Close()

	captures, err := ReadCaptures(f)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(captures), test.ShouldEqual, 2)
	test.That(t, captures[0].StartX, test.ShouldAlmostEqual, float32(1))
	test.That(t, captures[1].ObstacleCount, test.ShouldEqual, int32(0))
}
