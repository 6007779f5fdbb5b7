package main

import (
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	reDSNPass      = regexp.MustCompile(`^([^:@/]*):([^@]*)@`) // user:pass@tcp(host:port)/
	rePasswordPair = regexp.MustCompile(`(?i)(password=)([^\s&;]+)`)
)

// newLogger returns a JSON logger on w. stdout carries the protocol, so w is
// stderr outside of tests.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(h).With("server", ServerName), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// maskDSN hides the password of a go-sql-driver/mysql DSN.
func maskDSN(dsn string) string {
	return reDSNPass.ReplaceAllString(dsn, "$1:***@")
}

// maskSecret hides password=value pairs in free text such as driver errors.
func maskSecret(s string) string {
	return rePasswordPair.ReplaceAllString(s, "$1***")
}
