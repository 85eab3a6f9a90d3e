package logging

import (
	"testing"

	"go.viam.com/test"
)

func TestNamedLoggerDoesNotPanic(t *testing.T) {
	logger := NewTestLogger()
	named := logger.Named("planner")
	named.Debugf("tick %d", 1)
	named.Infof("seed=%d", 42)
	named.Warnf("precomputation missing: %v", "no file")
	named.Errorf("unexpected: %v", "boom")
	test.That(t, named, test.ShouldNotBeNil)
}
