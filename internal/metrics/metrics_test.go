package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/joestump/rwdb/internal/metrics"
)

func TestPrometheus_Statement(t *testing.T) {
	ok := metrics.StatementsTotal.WithLabelValues("read", "ok")
	failed := metrics.StatementsTotal.WithLabelValues("read", "error")
	beforeOK, beforeFailed := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	var r metrics.Recorder = metrics.Prometheus{}
	r.Statement("read", 3*time.Millisecond, nil)
	r.Statement("read", time.Millisecond, errors.New("boom"))
	r.Statement("read", time.Millisecond, nil)

	if got := testutil.ToFloat64(ok) - beforeOK; got != 2 {
		t.Errorf("ok statements = %v, want 2", got)
	}
	if got := testutil.ToFloat64(failed) - beforeFailed; got != 1 {
		t.Errorf("failed statements = %v, want 1", got)
	}
}

func TestPrometheus_ConnectionsAndTransactions(t *testing.T) {
	opened := metrics.ConnectionsOpenedTotal.WithLabelValues("write")
	failed := metrics.ConnectionErrorsTotal.WithLabelValues("write")
	commits := metrics.TransactionsTotal.WithLabelValues("commit")
	o, f, c := testutil.ToFloat64(opened), testutil.ToFloat64(failed), testutil.ToFloat64(commits)

	r := metrics.Prometheus{}
	r.ConnectionOpened("write")
	r.ConnectionFailed("write")
	r.Transaction("commit")

	if testutil.ToFloat64(opened)-o != 1 || testutil.ToFloat64(failed)-f != 1 || testutil.ToFloat64(commits)-c != 1 {
		t.Errorf("counters did not advance by one")
	}
}
