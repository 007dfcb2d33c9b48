// SPDX-License-Identifier: EPL-2.0

//go:build !windows

package asiocap

import (
	"errors"
	"testing"
)

func TestNew_Unavailable(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{Driver: "ASIO4ALL v2"}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("New() error = %v, want ErrUnavailable", err)
	}
}
