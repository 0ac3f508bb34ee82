package test_test

import (
	"errors"
	"testing"

	"github.com/wnxd/psxhook/internal/test"
)

func TestExpectSuccess(t *testing.T) {
	test.ExpectSuccess(t, true)
	test.ExpectSuccess(t, nil)
	var err error
	test.ExpectSuccess(t, err)
}

func TestExpectFailure(t *testing.T) {
	test.ExpectFailure(t, false)
	test.ExpectFailure(t, errors.New("fail"))
}

func TestExpectEquality(t *testing.T) {
	test.ExpectEquality(t, 10, 10)
	test.ExpectEquality(t, "psx", "psx")
	test.ExpectInequality(t, uint16(1), 2)
}
