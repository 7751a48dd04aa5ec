package reconcile

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{"nil", nil, Success},
		{"missing function", &pgconn.PgError{Code: "42883"}, Unsupported},
		{"feature not supported", &pgconn.PgError{Code: "0A000"}, Unsupported},
		{"no fast path on store", ErrFastPathUnavailable, Unsupported},
		{"gorm not implemented", gorm.ErrNotImplemented, Unsupported},
		{"connection exception", &pgconn.PgError{Code: "08006"}, Transient},
		{"too many connections", &pgconn.PgError{Code: "53300"}, Transient},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, Transient},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, Transient},
		{"bad conn", driver.ErrBadConn, Transient},
		{"wrapped bad conn", fmt.Errorf("query: %w", driver.ErrBadConn), Transient},
		{"unexpected eof", io.ErrUnexpectedEOF, Transient},
		{"net error", &net.OpError{Op: "dial", Err: errors.New("refused")}, Transient},
		{"unique violation", &pgconn.PgError{Code: "23505"}, Failed},
		{"syntax error", &pgconn.PgError{Code: "42601"}, Failed},
		{"cancelled", context.Canceled, Failed},
		{"deadline", context.DeadlineExceeded, Failed},
		{"arbitrary", errors.New("boom"), Failed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestOutcomeRecoverable(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    bool
	}{
		{Success, false},
		{Unsupported, true},
		{Transient, true},
		{Failed, false},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			if got := tt.outcome.Recoverable(); got != tt.want {
				t.Errorf("Recoverable() = %v, want %v", got, tt.want)
			}
		})
	}
}
