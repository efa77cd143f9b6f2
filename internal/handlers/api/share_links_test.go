package api

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"atelier/internal/db"
)

func TestReplaceItemsMessage(t *testing.T) {
	zeroMsg := "failed to replace link services; the link now has none attached"

	tests := []struct {
		name        string
		err         error
		wantPartial bool
	}{
		{
			name:        "plain insert failure keeps zero-items wording",
			err:         errors.New("insert failed"),
			wantPartial: false,
		},
		{
			name:        "cleanup failure reports a possible partial set",
			err:         fmt.Errorf("%w: insert: boom, cleanup: also boom", db.ErrScopeCleanupFailed),
			wantPartial: true,
		},
		{
			name:        "bare sentinel",
			err:         db.ErrScopeCleanupFailed,
			wantPartial: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := replaceItemsMessage(tt.err, zeroMsg)

			if tt.wantPartial {
				if !strings.Contains(got, "partial") {
					t.Errorf("message %q does not warn about a partial set", got)
				}
				if got == zeroMsg {
					t.Error("cleanup failure must not claim the link has no items")
				}
			} else if got != zeroMsg {
				t.Errorf("message = %q, want %q", got, zeroMsg)
			}
		})
	}
}
